package ui

import "context"

// Interface regroupe les sorties destinées à l'utilisateur. Les documents
// produits ne passent jamais par ici : ils vont sur stdout ou dans un fichier.
type Interface interface {
	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
	// PrintList affiche un titre suivi d'une liste à puces ; rien si items est vide.
	PrintList(ctx context.Context, title string, items []string)
}

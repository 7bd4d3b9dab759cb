package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrEmpty : rien d'exploitable dans le presse-papier.
var ErrEmpty = errors.New("le presse-papier est vide")

// ReadAll lit le contenu texte du presse-papier, BOM et fins de ligne
// Windows retirés.
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
func WriteAll(text string) error {
	if text == "" {
		return errors.New("le texte à copier ne peut pas être vide")
	}
	return clipboard.WriteAll(text)
}

// Unsupported indique que l'OS n'offre pas de presse-papier utilisable
// (pas de xclip/xsel sous Linux par exemple).
func Unsupported() bool {
	return clipboard.Unsupported
}

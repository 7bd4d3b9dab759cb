package lyric

import "fmt"

// ValidateBGOrder retourne une erreur si une ligne de fond n'a pas d'hôte
// immédiatement avant elle (début de document ou deux lignes de fond d'affilée).
func ValidateBGOrder(lines []Line) error {
	for i, l := range lines {
		if !l.IsBG {
			continue
		}
		if i == 0 {
			return fmt.Errorf("ligne %d : ligne de fond sans ligne hôte", i+1)
		}
		if lines[i-1].IsBG {
			return fmt.Errorf("ligne %d : ligne de fond après une autre ligne de fond", i+1)
		}
		if len(lines[i-1].Words) == 0 {
			return fmt.Errorf("ligne %d : ligne de fond après une ligne vide", i+1)
		}
	}
	return nil
}

// EnsureBGOrder rétablit l'invariant en rétrogradant les lignes de fond
// orphelines en lignes normales. Retourne le nombre de lignes modifiées.
func EnsureBGOrder(lines []Line) int {
	fixed := 0
	for i := range lines {
		if !lines[i].IsBG {
			continue
		}
		if i == 0 || lines[i-1].IsBG || len(lines[i-1].Words) == 0 {
			lines[i].IsBG = false
			fixed++
		}
	}
	return fixed
}

// Host retourne l'index de la ligne hôte de la ligne i, ou -1 si la ligne
// n'est pas une ligne de fond valide.
func Host(lines []Line, i int) int {
	if i <= 0 || i >= len(lines) || !lines[i].IsBG || lines[i-1].IsBG {
		return -1
	}
	return i - 1
}

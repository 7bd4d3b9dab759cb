package lyric

import (
	"fmt"
	"regexp"
	"strings"
)

// Warning est un avertissement non bloquant sur le document.
// Line et Word sont 1-based ; Word vaut 0 quand l'avertissement porte sur la ligne.
type Warning struct {
	Line    int
	Word    int
	Message string
}

func (w Warning) String() string {
	switch {
	case w.Line == 0:
		return w.Message
	case w.Word == 0:
		return fmt.Sprintf("ligne %d : %s", w.Line, w.Message)
	default:
		return fmt.Sprintf("ligne %d, mot %d : %s", w.Line, w.Word, w.Message)
	}
}

var multiSpace = regexp.MustCompile(`\s\s+`)

// Check inspecte le document et retourne les incohérences de timing et de
// contenu. Rien n'est corrigé : c'est à l'éditeur de décider.
func Check(lines []Line) []Warning {
	var out []Warning
	if len(lines) == 0 {
		return append(out, Warning{Message: "le document ne contient aucune ligne"})
	}

	for i, line := range lines {
		n := i + 1
		text := strings.TrimSpace(line.Text())
		if text == "" {
			out = append(out, Warning{Line: n, Message: "ligne vide"})
			continue
		}
		if multiSpace.MatchString(text) {
			out = append(out, Warning{Line: n, Message: "espaces superflus dans le texte"})
		}
		for j, w := range line.Words {
			if w.IsBlank() {
				continue
			}
			if w.StartTime < 0 {
				out = append(out, Warning{Line: n, Word: j + 1,
					Message: fmt.Sprintf("début négatif pour %q (%d)", w.Text, w.StartTime)})
			}
			if w.EndTime < w.StartTime {
				out = append(out, Warning{Line: n, Word: j + 1,
					Message: fmt.Sprintf("fin avant le début pour %q (%d < %d)", w.Text, w.EndTime, w.StartTime)})
			}
		}
		if line.StartTime < 0 {
			out = append(out, Warning{Line: n, Message: fmt.Sprintf("début de ligne négatif (%d)", line.StartTime)})
		}
		if line.EndTime < line.StartTime {
			out = append(out, Warning{Line: n,
				Message: fmt.Sprintf("fin de ligne avant le début (%d < %d)", line.EndTime, line.StartTime)})
		}
	}
	if err := ValidateBGOrder(lines); err != nil {
		out = append(out, Warning{Message: err.Error()})
	}
	return out
}

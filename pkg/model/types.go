// Package model regroupe les types partagés entre la CLI et les paquets internes.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format est le format d'un fichier de paroles.
type Format string

const (
	FormatTTML     Format = "ttml"
	FormatLRC      Format = "lrc"
	FormatTXT      Format = "txt"
	FormatMARKDOWN Format = "md"
)

// ParseFormat convertit une chaîne en Format ; erreur si le format est inconnu.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ttml", "xml":
		return FormatTTML, nil
	case "lrc":
		return FormatLRC, nil
	case "txt", "text":
		return FormatTXT, nil
	case "md", "markdown":
		return FormatMARKDOWN, nil
	default:
		return "", fmt.Errorf("format demandé inconnu: %s", s)
	}
}

// FormatFromPath devine le format depuis l'extension. ok vaut false si
// l'extension n'est pas reconnue.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// IsTextual indique un rendu par template (lecture seule, pas de réimport).
func (f Format) IsTextual() bool {
	return f == FormatTXT || f == FormatMARKDOWN
}

// CanWrite indique un format de sortie pris en charge.
func (f Format) CanWrite() bool {
	return f == FormatTTML || f.IsTextual()
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}

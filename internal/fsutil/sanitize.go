package fsutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameBytes : longueur maximale d'un nom, en octets (limite des systèmes
// de fichiers courants, extension comprise).
const maxNameBytes = 200

const untitled = "untitled"

var (
	// caractères interdits sous Windows, plus les caractères de contrôle
	invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)
	runsOfSpace      = regexp.MustCompile(`\s+`)
)

// SanitizeFilename fait d'un titre ("Artiste - Titre: live") un nom de
// fichier portable. ":" devient "-", les autres caractères interdits un
// espace. Le résultat est coupé sur une frontière de caractère.
func SanitizeFilename(name string) string {
	clean := strings.ReplaceAll(name, ":", "-")
	clean = invalidFileRunes.ReplaceAllString(clean, " ")
	clean = runsOfSpace.ReplaceAllString(strings.TrimSpace(clean), " ")
	clean = strings.TrimRight(clean, ".")

	clean = strings.TrimRight(truncateBytes(clean, maxNameBytes), ". ")
	if clean == "" {
		return untitled
	}
	return CapitalizeFirst(clean)
}

// truncateBytes coupe s à au plus n octets sans couper un caractère UTF-8.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CapitalizeFirst met en majuscule la première lettre de s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

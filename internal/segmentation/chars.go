package segmentation

import (
	"strings"
	"unicode"
)

// CharType classe un caractère pour le découpage.
type CharType int

const (
	Whitespace CharType = iota
	Latin
	Numeric
	CJK
	// Other couvre la ponctuation, les emoji et tout le reste.
	Other
)

func (c CharType) String() string {
	switch c {
	case Whitespace:
		return "whitespace"
	case Latin:
		return "latin"
	case Numeric:
		return "numeric"
	case CJK:
		return "cjk"
	default:
		return "other"
	}
}

// ClassifyRune retourne le type d'un caractère. Latin regroupe les écritures
// latine, cyrillique et grecque, les diacritiques combinants et l'apostrophe droite.
func ClassifyRune(r rune) CharType {
	switch {
	case unicode.IsSpace(r):
		return Whitespace
	case r == '\'' || unicode.In(r, unicode.Latin, unicode.Cyrillic, unicode.Greek, unicode.M):
		return Latin
	case r >= '0' && r <= '9':
		return Numeric
	case r >= 0x4E00 && r <= 0x9FFF, // idéogrammes
		r >= 0x3040 && r <= 0x309F, // hiragana
		r >= 0x30A0 && r <= 0x30FF, // katakana
		r >= 0xAC00 && r <= 0xD7AF: // hangul
		return CJK
	default:
		return Other
	}
}

// classify retourne le type du premier caractère ; une chaîne vide compte comme espace.
func classify(s string) CharType {
	for _, r := range s {
		return ClassifyRune(r)
	}
	return Whitespace
}

// Ponctuation ouvrante : elle se colle au mot suivant.
var punctLeft = runeSet("([{<「『（【《〈〔｢“‘«‹¿¡")

// Ponctuation fermante : elle se colle au mot précédent.
var punctRight = runeSet(")]}>」』）】》〉〕｣”’»›")

// Guillemet droit, ouvrant ou fermant selon le contexte.
const ambiguousQuote = '"'

var punctExtra = runeSet(",，。．.?!！？、；;:：'’〜～-—…⋯·♪")

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, r := range s {
		m[r] = struct{}{}
	}
	return m
}

// IsPunctuation indique si r appartient à l'une des tables de ponctuation.
func IsPunctuation(r rune) bool {
	if r == ambiguousQuote {
		return true
	}
	for _, set := range []map[rune]struct{}{punctLeft, punctRight, punctExtra} {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

type mergeDirection int

const (
	mergeLeft mergeDirection = iota
	mergeRight
)

// directionOf : l'ouvrant fusionne à droite, tout le reste à gauche.
func directionOf(token string) mergeDirection {
	for _, r := range strings.TrimSpace(token) {
		if _, ok := punctLeft[r]; ok {
			return mergeRight
		}
		break
	}
	return mergeLeft
}

// Package ttml lit et écrit le dialecte TTML des paroles karaoké
// (timing mot à mot, lignes de fond, duos, traductions et translittérations
// au format Apple Music).
package ttml

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// Espaces de noms écrits sur l'élément racine.
const (
	NamespaceTTML   = "http://www.w3.org/ns/ttml"
	NamespaceTTM    = "http://www.w3.org/ns/ttml#metadata"
	NamespaceAMLL   = "http://www.example.com/ns/amll"
	NamespaceITunes = "http://music.apple.com/lyric-ttml-internal"
)

// Rôles ttm:role reconnus sur les <span>.
const (
	roleBG          = "x-bg"
	roleTranslation = "x-translation"
	roleRoman       = "x-roman"
)

const (
	agentMain  = "v1"
	agentDuet  = "v2"
	songwriter = "songwriter"
)

// ErrNoRoot est renvoyée quand le document XML ne contient aucun élément.
var ErrNoRoot = errors.New("ttml: document sans élément racine")

// TimingMode est la valeur de itunes:timing.
type TimingMode string

const (
	TimingWord TimingMode = "Word"
	TimingLine TimingMode = "Line"
	TimingNone TimingMode = "None"
)

// DetectTimingMode décide du mode pour tout le document :
// None sans mot non vide chronométré, Word si une ligne a plus d'un mot non vide,
// Line sinon.
func DetectTimingMode(lines []lyric.Line) TimingMode {
	total, multi, timed := 0, false, false
	for _, l := range lines {
		n := 0
		for _, w := range l.Words {
			if w.IsBlank() {
				continue
			}
			n++
			if w.EndTime > w.StartTime {
				timed = true
			}
		}
		total += n
		if n > 1 {
			multi = true
		}
	}
	switch {
	case total == 0 || !timed:
		return TimingNone
	case multi:
		return TimingWord
	default:
		return TimingLine
	}
}

// isDynamic : au moins une ligne porte plusieurs mots non vides.
func isDynamic(lines []lyric.Line) bool {
	for _, l := range lines {
		if l.NonBlankCount() > 1 {
			return true
		}
	}
	return false
}

// --- helpers etree ---------------------------------------------------------

// textContent concatène toutes les données texte descendantes.
func textContent(e *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(e)
	return b.String()
}

// descendants retourne, dans l'ordre du document, les éléments sous root
// dont le nom (préfixe:local ou local) vaut tag.
func descendants(root *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if c.FullTag() == tag || (c.Space == "" && c.Tag == tag) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// childPath suit un chemin d'enfants directs (équivalent de "a > b > c").
func childPath(roots []*etree.Element, tags ...string) []*etree.Element {
	cur := roots
	for _, tag := range tags {
		var next []*etree.Element
		for _, e := range cur {
			for _, c := range e.ChildElements() {
				if c.Tag == tag {
					next = append(next, c)
				}
			}
		}
		cur = next
	}
	return cur
}

func hasAttr(e *etree.Element, key string) bool {
	return e.SelectAttr(key) != nil
}

// stripBGParens retire une parenthèse ouvrante initiale et une fermante finale.
func stripBGParens(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 0 && (r[0] == '(' || r[0] == '（') {
		s = string(r[1:])
	}
	if r := []rune(s); len(r) > 0 && (r[len(r)-1] == ')' || r[len(r)-1] == '）') {
		s = string(r[:len(r)-1])
	}
	return strings.TrimSpace(s)
}

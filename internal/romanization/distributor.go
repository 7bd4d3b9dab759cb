// Package romanization aligne une romanisation saisie librement (une chaîne
// par ligne) sur les mots d'une ligne de paroles japonaises.
package romanization

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
)

// searchWindow borne la recherche d'un ancrage dans le flux de jetons.
const searchWindow = 15

// particles : lectures irrégulières des particules.
var particles = map[string]string{
	"は": "wa",
	"へ": "e",
	"を": "o",
}

// Options règle la prédiction.
type Options struct {
	// AggressiveSplit découpe les mots romaji tapés d'un bloc ("suki" → su, ki).
	AggressiveSplit bool
}

// DefaultOptions : découpage agressif activé.
func DefaultOptions() Options {
	return Options{AggressiveSplit: true}
}

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
	matchSuffix
)

type match struct {
	kind     matchKind
	expected string
}

type pendingWord struct {
	index  int
	weight int
}

type distributor struct {
	words   []lyric.Word
	texts   []string
	buf     *tokenBuffer
	results []string
	pending []pendingWord
	// last est l'index du dernier mot ayant reçu des jetons, -1 sinon.
	last int
}

// Predict retourne une romanisation par mot (même longueur que words) avec
// les options par défaut.
func Predict(words []lyric.Word, roman string) []string {
	return PredictWith(words, roman, DefaultOptions())
}

// PredictWith est Predict avec des options explicites. Aucun jeton n'est
// perdu ni dupliqué : chacun finit dans exactement un résultat.
func PredictWith(words []lyric.Word, roman string, opts Options) []string {
	d := &distributor{
		words:   words,
		texts:   make([]string, len(words)),
		buf:     &tokenBuffer{tokens: Tokenize(roman, opts.AggressiveSplit)},
		results: make([]string, len(words)),
		last:    -1,
	}
	for i, w := range words {
		d.texts[i] = strings.TrimSpace(norm.NFC.String(w.Text))
	}
	return d.predict()
}

func (d *distributor) predict() []string {
	if d.buf.remaining() == 0 {
		return d.fallback()
	}

	for i := range d.words {
		text := d.texts[i]
		if text == "" {
			continue
		}
		if isPunctuationOnly(text) {
			if tok, ok := d.buf.peek(0); ok && isPunctuationOnly(tok) {
				d.assign(i, d.buf.consume(1)[0])
			}
			continue
		}
		if d.tryAnchor(i) {
			continue
		}
		d.pending = append(d.pending, pendingWord{index: i, weight: 1 + max(0, d.words[i].EmptyBeat)})
	}

	rest := d.buf.consume(d.buf.remaining())
	if len(d.pending) > 0 {
		d.flush(rest)
	} else if extra := d.orphans(rest); extra != "" {
		// aucun mot servi : le dernier mot non vide prend tout
		for i := len(d.texts) - 1; i >= 0; i-- {
			if d.texts[i] != "" {
				d.results[i] = extra
				break
			}
		}
	}
	return d.results
}

// fallback : sans romanisation, chaque mot en kana reçoit sa lecture de dictionnaire.
func (d *distributor) fallback() []string {
	for i, text := range d.texts {
		if looksJapanese(text) {
			d.results[i] = strings.TrimSpace(ToRomaji(text))
		}
	}
	return d.results
}

func (d *distributor) pendingWeight() int {
	n := 0
	for _, p := range d.pending {
		n += p.weight
	}
	return n
}

func (d *distributor) tryAnchor(i int) bool {
	text := d.texts[i]
	if !isAnchor(text) {
		return false
	}
	expected := expectedRomaji(text)
	limit := min(d.buf.remaining(), searchWindow)

	for offset := 0; offset < limit; offset++ {
		tok, ok := d.buf.peek(offset)
		if !ok {
			continue
		}
		m, ok := evaluate(tok, expected)
		if !ok {
			continue
		}
		// assez de jetons avant l'ancrage pour les mots en attente ?
		available := offset
		if m.kind == matchSuffix {
			available++
		}
		if available < d.pendingWeight() {
			continue
		}
		if !d.lookahead(i, m.kind, offset) {
			continue
		}
		d.apply(i, offset, m, tok)
		return true
	}
	return false
}

// lookahead vérifie que le jeton suivant convient au mot suivant quand
// celui-ci est lui-même un ancrage fiable.
func (d *distributor) lookahead(i int, kind matchKind, offset int) bool {
	if kind == matchPrefix || i+1 >= len(d.words) {
		return true
	}
	next := d.texts[i+1]
	if !isAnchor(next) || isPunctuationOnly(next) {
		return true
	}
	tok, ok := d.buf.peek(offset + 1)
	if !ok {
		return true
	}
	_, ok = evaluate(tok, expectedRomaji(next))
	return ok
}

func (d *distributor) apply(i, offset int, m match, tok string) {
	before := d.buf.consume(offset)
	if len(strings.ToLower(tok)) != len(tok) {
		// la casse change la longueur : on coupe sur la forme minuscule
		tok = strings.ToLower(tok)
	}

	var own string
	switch m.kind {
	case matchSuffix:
		// "tte" pour "te" : le "t" va aux mots en attente
		cut := strings.LastIndex(strings.ToLower(tok), m.expected)
		before = append(before, tok[:cut])
		own = tok[cut:]
		d.buf.consume(1)
	case matchExact:
		own = d.buf.consume(1)[0]
	case matchPrefix:
		// "suki" pour "su" : "ki" reste en tête du flux
		own = tok[:len(m.expected)]
		d.buf.replaceCurrent(tok[len(m.expected):])
	}

	lead := ""
	if len(d.pending) == 0 {
		lead = d.orphans(before)
	} else {
		d.flush(before)
	}
	d.assign(i, joinTokens(lead, own))
}

// orphans place des jetons qu'aucun mot en attente ne réclame : ils rejoignent
// le dernier mot servi. Sans mot servi, ils sont retournés pour l'appelant.
func (d *distributor) orphans(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	extra := strings.Join(tokens, " ")
	if d.last >= 0 {
		d.results[d.last] = joinTokens(d.results[d.last], extra)
		return ""
	}
	return extra
}

func (d *distributor) assign(i int, v string) {
	d.results[i] = v
	if v != "" {
		d.last = i
	}
}

func joinTokens(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// flush répartit tokens entre les mots en attente au prorata de leur poids,
// bornes arrondies sur le cumul.
func (d *distributor) flush(tokens []string) {
	if len(d.pending) == 0 {
		return
	}
	total := d.pendingWeight()
	cursor, acc := 0, 0
	for _, p := range d.pending {
		acc += p.weight
		end := int(math.Round(float64(acc) / float64(total) * float64(len(tokens))))
		end = min(end, len(tokens))
		if end > cursor {
			d.assign(p.index, strings.Join(tokens[cursor:end], " "))
			cursor = end
		} else {
			d.results[p.index] = ""
		}
	}
	d.pending = d.pending[:0]
}

func evaluate(tok string, candidates []string) (match, bool) {
	lower := strings.ToLower(tok)
	for _, exp := range candidates {
		if exp == "" {
			continue
		}
		if lower == exp {
			return match{kind: matchExact, expected: exp}, true
		}
		if len(lower) > len(exp) && strings.HasPrefix(lower, exp) {
			return match{kind: matchPrefix, expected: exp}, true
		}
		if len(lower) > len(exp) && strings.HasSuffix(lower, exp) {
			prefix := lower[:len(lower)-len(exp)]
			last := prefix[len(prefix)-1]
			// pas de "g" + "i" pour "gi"
			if isVowel(exp[0]) && !isVowel(last) && last != 'n' {
				continue
			}
			return match{kind: matchSuffix, expected: exp}, true
		}
	}
	return match{}, false
}

// expectedRomaji : lecture de dictionnaire plus la lecture de particule.
func expectedRomaji(text string) []string {
	base := strings.ToLower(ToRomaji(text))
	out := []string{base}
	if alt, ok := particles[text]; ok && alt != base {
		out = append(out, alt)
	}
	return out
}

// stripJapanesePunct retire 、，。！？ et les blancs.
func stripJapanesePunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '、', '，', '。', '！', '？':
			return -1
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' {
			return -1
		}
		return r
	}, s)
}

// isAnchor : kana purs, hors petit tsu et trait d'allongement, dont la
// lecture ne dépend pas du contexte.
func isAnchor(text string) bool {
	clean := stripJapanesePunct(text)
	if !IsKana(clean) {
		return false
	}
	switch text {
	case string(sokuonHira), string(sokuonKata), string(choonpu):
		return false
	}
	return true
}

func looksJapanese(text string) bool {
	clean := stripJapanesePunct(text)
	return IsJapanese(clean) && ContainsKana(clean)
}

func isPunctuationOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !segmentation.IsPunctuation(r) {
			return false
		}
	}
	return true
}

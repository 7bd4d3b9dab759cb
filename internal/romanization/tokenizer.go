package romanization

import (
	"strings"

	"golang.org/x/text/width"
)

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isASCIILetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// SplitRomajiChunk découpe un mot romaji tapé d'un bloc en syllabes :
// "bokura" → bo, ku, ra ; "matte" → ma, t, te ; "kanji" → ka, n, ji.
// Retourne nil si le mot n'est pas purement alphabétique, n'a pas de voyelle
// ou ne donne qu'une syllabe.
func SplitRomajiChunk(token string) []string {
	s := strings.TrimSpace(token)
	if !isASCIILetters(s) {
		return nil
	}
	lower := strings.ToLower(s)
	if !strings.ContainsAny(lower, "aeiou") {
		return nil
	}

	var out []string
	n := len(lower)
	for i := 0; i < n; {
		start := i
		c := lower[i]
		var next byte
		if i+1 < n {
			next = lower[i+1]
		}

		// consonne doublée : la première devient un jeton (petit tsu)
		if !isVowel(c) && c == next {
			out = append(out, s[start:i+1])
			i++
			continue
		}
		// n syllabique : ni voyelle ni y+voyelle derrière
		if c == 'n' {
			var nextNext byte
			if i+2 < n {
				nextNext = lower[i+2]
			}
			if !isVowel(next) && !(next == 'y' && isVowel(nextNext)) {
				out = append(out, s[start:i+1])
				i++
				continue
			}
		}
		for i < n && !isVowel(lower[i]) {
			i++
		}
		if i < n {
			i++
		}
		out = append(out, s[start:i])
	}
	if len(out) <= 1 {
		return nil
	}
	return out
}

// Tokenize coupe une romanisation sur les blancs. Les romaji pleine chasse
// sont ramenés en ASCII. Avec aggressive, chaque mot est en plus découpé par
// SplitRomajiChunk.
func Tokenize(text string, aggressive bool) []string {
	var out []string
	for _, raw := range strings.Fields(width.Fold.String(text)) {
		if aggressive {
			if parts := SplitRomajiChunk(raw); parts != nil {
				out = append(out, parts...)
				continue
			}
		}
		out = append(out, raw)
	}
	return out
}

// tokenBuffer est un curseur sur les jetons d'une seule prédiction.
type tokenBuffer struct {
	tokens []string
	cursor int
}

func (b *tokenBuffer) remaining() int {
	return max(0, len(b.tokens)-b.cursor)
}

func (b *tokenBuffer) peek(offset int) (string, bool) {
	i := b.cursor + offset
	if i < 0 || i >= len(b.tokens) {
		return "", false
	}
	return b.tokens[i], true
}

func (b *tokenBuffer) consume(count int) []string {
	if count <= 0 {
		return nil
	}
	end := min(b.cursor+count, len(b.tokens))
	chunk := append([]string(nil), b.tokens[b.cursor:end]...)
	b.cursor = end
	return chunk
}

func (b *tokenBuffer) replaceCurrent(v string) {
	if b.cursor < len(b.tokens) {
		b.tokens[b.cursor] = v
	}
}

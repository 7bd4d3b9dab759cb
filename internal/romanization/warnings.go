package romanization

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
)

var smallKana = map[string]bool{}

func init() {
	for _, r := range "ぁぃぅぇぉゃゅょっゎゕゖァィゥェォャュョッヮヵヶ" {
		smallKana[string(r)] = true
	}
}

// checkedText retire la ponctuation ; un mot fait uniquement de ponctuation
// est gardé tel quel.
func checkedText(text string) string {
	trimmed := strings.TrimSpace(norm.NFC.String(text))
	if trimmed == "" {
		return ""
	}
	out := strings.Map(func(r rune) rune {
		if segmentation.IsPunctuation(r) {
			return -1
		}
		return r
	}, trimmed)
	if out == "" {
		return trimmed
	}
	return out
}

// shouldCheck : un seul kana, hors petits kana.
func shouldCheck(text string) bool {
	if len([]rune(text)) != 1 || smallKana[text] || isPunctuationOnly(text) {
		return false
	}
	return IsKana(text) && text != string(choonpu)
}

// ApplyWarnings recalcule RomanWarning sur chaque mot : un kana isolé dont la
// romanisation est vide ou ne correspond à aucune lecture attendue est signalé.
func ApplyWarnings(words []lyric.Word) {
	for i := range words {
		text := checkedText(words[i].Text)
		if !shouldCheck(text) {
			words[i].RomanWarning = false
			continue
		}
		roman := strings.ToLower(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, words[i].RomanWord))

		words[i].RomanWarning = true
		for _, exp := range expectedRomaji(text) {
			if roman != "" && roman == exp {
				words[i].RomanWarning = false
				break
			}
		}
	}
}

// ApplyToLine prédit la romanisation de chaque mot à partir de RomanLyric,
// l'écrit dans RomanWord puis recalcule les avertissements. Avec keep, les
// mots qui ont déjà une romanisation la gardent. La ligne reçue n'est pas modifiée.
func ApplyToLine(line lyric.Line, opts Options, keep bool) lyric.Line {
	out := line.Clone()
	predicted := PredictWith(out.Words, out.RomanLyric, opts)
	for i := range out.Words {
		if keep && strings.TrimSpace(out.Words[i].RomanWord) != "" {
			continue
		}
		out.Words[i].RomanWord = predicted[i]
	}
	ApplyWarnings(out.Words)
	return out
}

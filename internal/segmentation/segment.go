package segmentation

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// Context porte l'état partagé entre les mots d'une même passe.
type Context struct {
	// QuoteOpen : le prochain guillemet droit est fermant.
	QuoteOpen bool
}

// piece est un fragment avant répartition du temps. Le poids d'un signe
// n'est connu qu'une fois tous les fragments du mot produits.
type piece struct {
	text   string
	chars  float64
	puncts int
}

// SegmentWord découpe un mot. Un mot blanc ou ignoré revient tel quel.
func SegmentWord(w lyric.Word, cfg Config) []lyric.Word {
	return SegmentWordContext(w, cfg, &Context{})
}

// SegmentWordContext est SegmentWord avec un état de guillemets fourni
// par l'appelant.
func SegmentWordContext(w lyric.Word, cfg Config, ctx *Context) []lyric.Word {
	if ctx == nil {
		ctx = &Context{}
	}
	if strings.TrimSpace(w.Text) == "" || cfg.ignored(w.Text) {
		return []lyric.Word{w}
	}
	if parts, ok := cfg.CustomRules[w.Text]; ok {
		return distribute(w, ruleParts(parts), cfg)
	}

	var pieces []piece
	for _, part := range splitProtected(w.Text, cfg) {
		switch {
		case part.rule != nil:
			pieces = append(pieces, ruleParts(part.rule)...)
		case part.ignored:
			pieces = append(pieces, weigh(part.text))
		default:
			pieces = append(pieces, postProcess(tokenize(part.text, cfg), cfg, ctx)...)
		}
	}
	if len(pieces) == 0 {
		return []lyric.Word{w}
	}
	return distribute(w, pieces, cfg)
}

// SegmentLines applique SegmentWord à tous les mots. Les lignes reçues ne
// sont pas modifiées.
func SegmentLines(lines []lyric.Line, cfg Config) []lyric.Line {
	if cfg.SplitEnglish && cfg.Hyphenator == nil {
		log := logging.WithComponent("segmentation")
		log.Debug().Msg("aucun césureur chargé, mots latins laissés entiers")
	}
	ctx := &Context{}
	out := make([]lyric.Line, len(lines))
	for i, line := range lines {
		if !cfg.KeepQuoteState {
			ctx.QuoteOpen = false
		}
		nl := line
		nl.Words = make([]lyric.Word, 0, len(line.Words))
		for _, w := range line.Words {
			nl.Words = append(nl.Words, SegmentWordContext(w, cfg, ctx)...)
		}
		out[i] = nl
	}
	return out
}

// RecalculateWordTime répartit la durée de w sur un découpage manuel.
func RecalculateWordTime(w lyric.Word, parts []string, cfg Config) []lyric.Word {
	if len(parts) == 0 {
		return nil
	}
	return distribute(w, ruleParts(parts), cfg)
}

func ruleParts(parts []string) []piece {
	out := make([]piece, len(parts))
	for i, p := range parts {
		out[i] = weigh(p)
	}
	return out
}

// weigh : nombre de caractères pour le texte, un signe pour Other, rien pour
// les espaces.
func weigh(token string) piece {
	switch classify(token) {
	case Latin, Numeric, CJK:
		return piece{text: token, chars: float64(utf8.RuneCountInString(token))}
	case Other:
		return piece{text: token, puncts: 1}
	default:
		return piece{text: token}
	}
}

type protectedPart struct {
	text    string
	rule    []string
	ignored bool
}

// splitProtected isole les occurrences des mots ignorés et des mots à règle,
// les plus longs d'abord.
func splitProtected(text string, cfg Config) []protectedPart {
	var keys []string
	for _, k := range cfg.IgnoreList {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	for k := range cfg.CustomRules {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return []protectedPart{{text: text}}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	keys = slices.Compact(keys)
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	re := regexp.MustCompile(strings.Join(quoted, "|"))

	var parts []protectedPart
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			parts = append(parts, protectedPart{text: text[last:loc[0]]})
		}
		m := text[loc[0]:loc[1]]
		if rule, ok := cfg.CustomRules[m]; ok {
			parts = append(parts, protectedPart{text: m, rule: rule})
		} else {
			parts = append(parts, protectedPart{text: m, ignored: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, protectedPart{text: text[last:]})
	}
	return parts
}

func mergeable(prev, cur CharType, splitCJK bool) bool {
	if prev != cur {
		return false
	}
	switch prev {
	case Latin, Numeric, Whitespace:
		return true
	case CJK:
		return !splitCJK
	default:
		return false
	}
}

// tokenize coupe sur chaque changement de type, autour de chaque signe et,
// si demandé, entre caractères CJK. Les mots latins passent par le césureur.
func tokenize(text string, cfg Config) []string {
	var tokens []string
	var cur strings.Builder
	var last CharType
	started := false

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if last == Latin && cfg.SplitEnglish && cfg.Hyphenator != nil && utf8.RuneCountInString(tok) > 1 {
			tokens = append(tokens, strings.Split(cfg.Hyphenator(tok), SoftHyphen)...)
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range text {
		t := ClassifyRune(r)
		if started {
			brk := (cfg.SplitCJK && (t == CJK || last == CJK)) ||
				t == Other || last == Other ||
				!mergeable(last, t, cfg.SplitCJK)
			if brk {
				flush()
			}
		}
		cur.WriteRune(r)
		last = t
		started = true
	}
	flush()
	return tokens
}

// postProcess rattache la ponctuation en mode merge. Un ouvrant attend le
// fragment suivant ; en fin de mot il retombe sur le précédent.
func postProcess(tokens []string, cfg Config, ctx *Context) []piece {
	var out []piece
	var pending piece

	for _, tok := range tokens {
		p := weigh(tok)
		if cfg.PunctuationMode != PunctuationStandalone && classify(tok) == Other {
			dir := directionOf(tok)
			if tok == string(ambiguousQuote) {
				if ctx.QuoteOpen {
					dir = mergeLeft
				} else {
					dir = mergeRight
				}
				ctx.QuoteOpen = !ctx.QuoteOpen
			}
			if dir == mergeLeft && len(out) > 0 {
				out[len(out)-1] = join(out[len(out)-1], p)
			} else {
				pending = join(pending, p)
			}
			continue
		}
		out = append(out, join(pending, p))
		pending = piece{}
	}

	if pending.text != "" {
		if len(out) > 0 {
			out[len(out)-1] = join(out[len(out)-1], pending)
		} else {
			out = append(out, pending)
		}
	}
	return out
}

func join(a, b piece) piece {
	return piece{text: a.text + b.text, chars: a.chars + b.chars, puncts: a.puncts + b.puncts}
}

// weights convertit les signes en poids : un signe vaut PunctuationWeight
// fois le poids moyen d'un fragment de texte.
func weights(pieces []piece, cfg Config) ([]float64, float64) {
	var sum float64
	n := 0
	for _, p := range pieces {
		if p.chars > 0 {
			sum += p.chars
			n++
		}
	}
	avg := 1.0
	if n > 0 {
		avg = sum / float64(n)
	}
	pw := cfg.PunctuationWeight
	if pw < 0 || math.IsNaN(pw) || math.IsInf(pw, 0) {
		pw = 0
	}

	out := make([]float64, len(pieces))
	var total float64
	for i, p := range pieces {
		out[i] = p.chars + float64(p.puncts)*pw*avg
		total += out[i]
	}
	return out, total
}

// distribute répartit [Start, End] au prorata des poids. Les bornes sont
// arrondies sur le cumul : les fragments se suivent sans trou et le dernier
// finit exactement à la fin du mot.
func distribute(w lyric.Word, pieces []piece, cfg Config) []lyric.Word {
	if len(pieces) == 1 {
		out := w
		out.Text = pieces[0].text
		return []lyric.Word{out}
	}

	ws, total := weights(pieces, cfg)
	if total <= 0 {
		for i := range ws {
			ws[i] = 1
		}
		total = float64(len(ws))
	}

	dur := w.EndTime - w.StartTime
	out := make([]lyric.Word, 0, len(pieces))
	var acc float64
	start := w.StartTime
	for i, p := range pieces {
		acc += ws[i]
		end := w.EndTime
		if dur <= 0 {
			start = w.StartTime
		} else if i < len(pieces)-1 {
			end = w.StartTime + int64(math.Round(acc/total*float64(dur)))
		}
		nw := lyric.NewWord(p.text, start, end)
		nw.Obscene = w.Obscene
		out = append(out, nw)
		if dur > 0 {
			start = end
		}
	}

	if cfg.RemoveEmptySegments {
		out = slices.DeleteFunc(out, func(x lyric.Word) bool { return x.Text == "" })
		if len(out) == 0 {
			return []lyric.Word{w}
		}
		fillGaps(out, w)
	}
	out[len(out)-1].EmptyBeat = w.EmptyBeat
	return out
}

// fillGaps recolle les fragments après suppression des vides de durée non nulle.
func fillGaps(words []lyric.Word, orig lyric.Word) {
	if orig.EndTime <= orig.StartTime {
		return
	}
	words[0].StartTime = orig.StartTime
	for i := 1; i < len(words); i++ {
		words[i].StartTime = words[i-1].EndTime
	}
	words[len(words)-1].EndTime = orig.EndTime
}

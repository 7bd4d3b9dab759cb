package ttml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/timestamp"
)

// DefaultTranslationLang est la langue écrite sur les spans x-translation.
const DefaultTranslationLang = "zh-CN"

// WriteOptions règle la sérialisation.
type WriteOptions struct {
	// Pretty indente la structure du document (le contenu des <p> reste compact).
	Pretty bool
	// TranslationLang remplace DefaultTranslationLang si non vide.
	TranslationLang string
}

type romanEntry struct {
	key      string
	main, bg []lyric.Word
}

type writer struct {
	opts    WriteOptions
	dynamic bool
	romans  []romanEntry
}

// Write sérialise le document. Le timing n'est pas validé : des intervalles
// inversés sont écrits tels quels. Les erreurs ne viennent que de l'encodage XML.
func Write(d *lyric.Lyric, opts WriteOptions) (string, error) {
	if opts.TranslationLang == "" {
		opts.TranslationLang = DefaultTranslationLang
	}
	if d == nil {
		d = &lyric.Lyric{}
	}
	lines := d.Lines
	w := &writer{opts: opts, dynamic: isDynamic(lines)}

	doc := etree.NewDocument()
	tt := doc.CreateElement("tt")
	tt.CreateAttr("xmlns", NamespaceTTML)
	tt.CreateAttr("xmlns:ttm", NamespaceTTM)
	tt.CreateAttr("xmlns:amll", NamespaceAMLL)
	tt.CreateAttr("xmlns:itunes", NamespaceITunes)
	tt.CreateAttr("itunes:timing", string(DetectTimingMode(lines)))

	head := tt.CreateElement("head")
	metadata := head.CreateElement("metadata")
	w.writeHeadMetadata(metadata, d)

	body := tt.CreateElement("body")
	var dur int64
	if len(lines) > 0 {
		dur = lines[len(lines)-1].EndTime
	}
	body.CreateAttr("dur", timestamp.Format(dur))

	counter := 0
	for _, group := range paragraphs(lines) {
		div := body.CreateElement("div")
		div.CreateAttr("begin", timestamp.Format(group[0].StartTime))
		div.CreateAttr("end", timestamp.Format(group[len(group)-1].EndTime))

		for i := 0; i < len(group); i++ {
			line := group[i]
			counter++
			key := fmt.Sprintf("L%d", counter)

			p := div.CreateElement("p")
			p.CreateAttr("begin", timestamp.Format(line.StartTime))
			p.CreateAttr("end", timestamp.Format(line.EndTime))
			agent := agentMain
			if line.IsDuet {
				agent = agentDuet
			}
			p.CreateAttr("ttm:agent", agent)
			p.CreateAttr("itunes:key", key)

			w.writeMainWords(p, line)

			var bgWords []lyric.Word
			if i+1 < len(group) && group[i+1].IsBG {
				i++
				bg := group[i]
				bgWords = bg.Words
				w.writeBGLine(p, bg)
			}
			w.writeLineTexts(p, line)

			if hasRoman(line.Words) || hasRoman(bgWords) {
				w.romans = append(w.romans, romanEntry{key: key, main: line.Words, bg: bgWords})
			}
		}
	}

	if len(w.romans) > 0 {
		w.writeTransliterations(metadata)
	}

	if opts.Pretty {
		indent(doc)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("ttml: écriture XML: %w", err)
	}
	return out, nil
}

// paragraphs découpe les lignes en groupes séparés par les lignes sans mot,
// qui ne sont pas écrites.
func paragraphs(lines []lyric.Line) [][]lyric.Line {
	var out [][]lyric.Line
	var cur []lyric.Line
	for _, l := range lines {
		if len(l.Words) == 0 {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (w *writer) writeHeadMetadata(metadata *etree.Element, d *lyric.Lyric) {
	agent := metadata.CreateElement("ttm:agent")
	agent.CreateAttr("type", "person")
	agent.CreateAttr("xml:id", agentMain)
	for _, l := range d.Lines {
		if l.IsDuet {
			other := metadata.CreateElement("ttm:agent")
			other.CreateAttr("type", "other")
			other.CreateAttr("xml:id", agentDuet)
			break
		}
	}

	if writers := nonEmpty(d.MetadataValues(songwriter)); len(writers) > 0 {
		itunes := metadata.CreateElement("iTunesMetadata")
		itunes.CreateAttr("xmlns", NamespaceITunes)
		list := itunes.CreateElement("songwriters")
		for _, name := range writers {
			list.CreateElement("songwriter").CreateText(name)
		}
	}

	for _, m := range d.Metadata {
		if m.Key == songwriter {
			continue
		}
		for _, v := range m.Values {
			meta := metadata.CreateElement("amll:meta")
			meta.CreateAttr("key", m.Key)
			meta.CreateAttr("value", v)
		}
	}
}

func (w *writer) wordSpan(parent *etree.Element, word lyric.Word, text string) *etree.Element {
	span := parent.CreateElement("span")
	span.CreateAttr("begin", timestamp.Format(word.StartTime))
	span.CreateAttr("end", timestamp.Format(word.EndTime))
	if word.Obscene {
		span.CreateAttr("amll:obscene", "true")
	}
	if word.EmptyBeat > 0 {
		span.CreateAttr("amll:empty-beat", fmt.Sprint(word.EmptyBeat))
	}
	span.CreateText(text)
	return span
}

// staticWord choisit le mot porteur d'une ligne en mode ligne.
func staticWord(line lyric.Line) lyric.Word {
	for _, wd := range line.Words {
		if !wd.IsBlank() {
			return wd
		}
	}
	if len(line.Words) > 0 {
		return line.Words[0]
	}
	return lyric.Word{StartTime: line.StartTime, EndTime: line.EndTime}
}

func (w *writer) writeMainWords(p *etree.Element, line lyric.Line) {
	if w.dynamic {
		for _, wd := range line.Words {
			if wd.IsBlank() {
				p.CreateText(wd.Text)
				continue
			}
			w.wordSpan(p, wd, wd.Text)
		}
		return
	}
	wd := staticWord(line)
	p.CreateText(wd.Text)
	setTimes(p, wd.StartTime, wd.EndTime)
}

func (w *writer) writeBGLine(p *etree.Element, bg lyric.Line) {
	span := p.CreateElement("span")
	span.CreateAttr("ttm:role", roleBG)

	if w.dynamic {
		first, last := -1, -1
		for i, wd := range bg.Words {
			if !wd.IsBlank() {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		begin, end := bg.StartTime, bg.EndTime
		if s, e, ok := bg.Envelope(); ok {
			begin, end = s, e
		}
		setTimes(span, begin, end)
		for i, wd := range bg.Words {
			if wd.IsBlank() {
				span.CreateText(wd.Text)
				continue
			}
			text := wd.Text
			if i == first {
				text = "(" + text
			}
			if i == last {
				text += ")"
			}
			w.wordSpan(span, wd, text)
		}
	} else {
		wd := staticWord(bg)
		setTimes(span, wd.StartTime, wd.EndTime)
		span.CreateText("(" + wd.Text + ")")
	}
	w.writeLineTexts(span, bg)
}

func (w *writer) writeLineTexts(parent *etree.Element, line lyric.Line) {
	if line.TranslatedLyric != "" {
		span := parent.CreateElement("span")
		span.CreateAttr("ttm:role", roleTranslation)
		span.CreateAttr("xml:lang", w.opts.TranslationLang)
		span.CreateText(line.TranslatedLyric)
	}
	if line.RomanLyric != "" {
		span := parent.CreateElement("span")
		span.CreateAttr("ttm:role", roleRoman)
		span.CreateText(line.RomanLyric)
	}
}

func (w *writer) writeTransliterations(metadata *etree.Element) {
	itunes := metadata.CreateElement("iTunesMetadata")
	itunes.CreateAttr("xmlns", NamespaceITunes)
	tr := itunes.CreateElement("transliterations").CreateElement("transliteration")

	for _, entry := range w.romans {
		text := tr.CreateElement("text")
		text.CreateAttr("for", entry.key)

		for _, wd := range entry.main {
			switch {
			case hasRomanWord(wd):
				w.romanSpan(text, wd, wd.RomanWord)
			case wd.IsBlank() && len(text.Child) > 0:
				text.CreateText(wd.Text)
			}
		}

		var romanBG []int
		for i, wd := range entry.bg {
			if hasRomanWord(wd) {
				romanBG = append(romanBG, i)
			}
		}
		if len(romanBG) == 0 {
			continue
		}
		bgSpan := text.CreateElement("span")
		bgSpan.CreateAttr("ttm:role", roleBG)
		for n, idx := range romanBG {
			wd := entry.bg[idx]
			rw := wd.RomanWord
			if n == 0 {
				rw = "(" + rw
			}
			if n == len(romanBG)-1 {
				rw += ")"
			}
			w.romanSpan(bgSpan, wd, rw)
			if idx+1 < len(entry.bg) && entry.bg[idx+1].IsBlank() {
				bgSpan.CreateText(entry.bg[idx+1].Text)
			}
		}
	}
}

func (w *writer) romanSpan(parent *etree.Element, wd lyric.Word, text string) {
	span := parent.CreateElement("span")
	span.CreateAttr("begin", timestamp.Format(wd.StartTime))
	span.CreateAttr("end", timestamp.Format(wd.EndTime))
	span.CreateText(text)
}

// indent indente la structure mais garde le contenu des lignes intact :
// des espaces ajoutés entre les <span> deviendraient des mots à la relecture.
func indent(doc *etree.Document) {
	doc.Indent(2)
	flat := &etree.IndentSettings{Spaces: etree.NoIndent}
	for _, tag := range []string{"p", "text"} {
		for _, el := range descendants(&doc.Element, tag) {
			el.IndentWithSettings(flat)
		}
	}
}

func setTimes(el *etree.Element, begin, end int64) {
	el.CreateAttr("begin", timestamp.Format(begin))
	el.CreateAttr("end", timestamp.Format(end))
}

func hasRomanWord(wd lyric.Word) bool {
	return strings.TrimSpace(wd.RomanWord) != ""
}

func hasRoman(words []lyric.Word) bool {
	for _, wd := range words {
		if hasRomanWord(wd) {
			return true
		}
	}
	return false
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package ttml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/timestamp"
)

type romanWord struct {
	start, end int64
	text       string
}

// lineMeta : texte principal et texte de fond d'une même clé itunes:key.
type lineMeta struct {
	main, bg string
}

type wordRomanMeta struct {
	main, bg []romanWord
}

type parser struct {
	translations      map[string]lineMeta
	timedTranslations map[string]lineMeta
	lineRomans        map[string]lineMeta
	wordRomans        map[string]wordRomanMeta
	mainAgent         string
	lines             []lyric.Line
	log               zerolog.Logger
}

// Parse lit un document TTML. Toute erreur XML ou d'horodatage est fatale
// et aucun document partiel n'est retourné.
func Parse(text string) (*lyric.Lyric, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("ttml: lecture XML: %w", err)
	}
	return parseDocument(doc)
}

// ParseReader est la variante io.Reader de Parse.
func ParseReader(r io.Reader) (*lyric.Lyric, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("ttml: lecture XML: %w", err)
	}
	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) (*lyric.Lyric, error) {
	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}

	p := &parser{
		translations:      map[string]lineMeta{},
		timedTranslations: map[string]lineMeta{},
		lineRomans:        map[string]lineMeta{},
		wordRomans:        map[string]wordRomanMeta{},
		mainAgent:         agentMain,
		log:               logging.WithComponent("ttml"),
	}

	itunes := descendants(root, "iTunesMetadata")
	p.collectTranslations(childPath(itunes, "translations", "translation", "text"))
	if err := p.collectRomanizations(childPath(itunes, "transliterations", "transliteration", "text")); err != nil {
		return nil, err
	}

	out := &lyric.Lyric{}
	p.collectMetadata(root, itunes, out)

	for _, agent := range descendants(root, "ttm:agent") {
		if agent.SelectAttrValue("type", "") != "person" {
			continue
		}
		if id := agent.SelectAttrValue("xml:id", ""); id != "" {
			p.mainAgent = id
			break
		}
	}

	for _, body := range descendants(root, "body") {
		for _, el := range descendants(body, "p") {
			if !hasAttr(el, "begin") || !hasAttr(el, "end") {
				continue
			}
			if err := p.parseLine(el, false, false, ""); err != nil {
				return nil, err
			}
		}
	}

	lyric.EnsureBGOrder(p.lines)
	out.Lines = p.lines

	p.log.Debug().
		Int("lines", len(out.Lines)).
		Int("metadata", len(out.Metadata)).
		Msg("document TTML chargé")
	return out, nil
}

// splitMainBG sépare le texte direct de l'élément et le texte des enfants x-bg.
func splitMainBG(textEl *etree.Element) lineMeta {
	var main, bg strings.Builder
	for _, tok := range textEl.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			main.WriteString(t.Data)
		case *etree.Element:
			if t.SelectAttrValue("ttm:role", "") == roleBG {
				bg.WriteString(textContent(t))
			}
		}
	}
	return lineMeta{main: strings.TrimSpace(main.String()), bg: stripBGParens(bg.String())}
}

func (p *parser) collectTranslations(texts []*etree.Element) {
	for _, textEl := range texts {
		key := textEl.SelectAttrValue("for", "")
		if key == "" {
			continue
		}
		m := splitMainBG(textEl)
		if m.main == "" && m.bg == "" {
			continue
		}
		// une traduction contenant des <span> est prioritaire sur la version ligne
		if len(descendants(textEl, "span")) > 0 {
			p.timedTranslations[key] = m
			delete(p.translations, key)
			continue
		}
		p.translations[key] = m
	}
}

func (p *parser) collectRomanizations(texts []*etree.Element) error {
	for _, textEl := range texts {
		key := textEl.SelectAttrValue("for", "")
		if key == "" {
			continue
		}

		var mainWords, bgWords []romanWord
		var lineMain, lineBG strings.Builder
		wordByWord := false

		for _, tok := range textEl.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				lineMain.WriteString(t.Data)
			case *etree.Element:
				if t.SelectAttrValue("ttm:role", "") == roleBG {
					var nested []*etree.Element
					for _, s := range descendants(t, "span") {
						if hasAttr(s, "begin") && hasAttr(s, "end") {
							nested = append(nested, s)
						}
					}
					if len(nested) == 0 {
						lineBG.WriteString(textContent(t))
						continue
					}
					wordByWord = true
					for _, s := range nested {
						rw, err := readRomanWord(s)
						if err != nil {
							return err
						}
						rw.text = stripBGParens(rw.text)
						bgWords = append(bgWords, rw)
					}
				} else if hasAttr(t, "begin") && hasAttr(t, "end") {
					wordByWord = true
					rw, err := readRomanWord(t)
					if err != nil {
						return err
					}
					mainWords = append(mainWords, rw)
				}
			}
		}

		if wordByWord {
			p.wordRomans[key] = wordRomanMeta{main: mainWords, bg: bgWords}
		}
		m := lineMeta{main: strings.TrimSpace(lineMain.String()), bg: stripBGParens(lineBG.String())}
		if m.main != "" || m.bg != "" {
			p.lineRomans[key] = m
		}
	}
	return nil
}

func readRomanWord(s *etree.Element) (romanWord, error) {
	start, err := timestamp.Parse(s.SelectAttrValue("begin", ""))
	if err != nil {
		return romanWord{}, fmt.Errorf("ttml: translittération: %w", err)
	}
	end, err := timestamp.Parse(s.SelectAttrValue("end", ""))
	if err != nil {
		return romanWord{}, fmt.Errorf("ttml: translittération: %w", err)
	}
	return romanWord{start: start, end: end, text: textContent(s)}, nil
}

func (p *parser) collectMetadata(root *etree.Element, itunes []*etree.Element, out *lyric.Lyric) {
	for _, meta := range descendants(root, "amll:meta") {
		key := meta.SelectAttrValue("key", "")
		value := meta.SelectAttrValue("value", "")
		if key == "" || value == "" {
			continue
		}
		out.AddMetadata(key, value)
	}

	var writers []string
	for _, el := range childPath(itunes, "songwriters", "songwriter") {
		if name := strings.TrimSpace(textContent(el)); name != "" {
			writers = append(writers, name)
		}
	}
	if len(writers) > 0 {
		out.Metadata = append(out.Metadata, lyric.Metadata{Key: songwriter, Values: writers})
	}
}

// parseLine lit un <p> (ou un <span ttm:role="x-bg"> quand isBG) et l'ajoute
// à p.lines. Les lignes de fond découvertes en cours de route sont placées
// juste après leur hôte.
func (p *parser) parseLine(el *etree.Element, isBG, isDuet bool, parentKey string) error {
	beginAttr := el.SelectAttrValue("begin", "")
	endAttr := el.SelectAttrValue("end", "")
	explicit := beginAttr != "" && endAttr != ""

	line := lyric.NewLine()
	line.IsBG = isBG
	if explicit {
		var err error
		if line.StartTime, err = timestamp.Parse(beginAttr); err != nil {
			return fmt.Errorf("ttml: ligne: %w", err)
		}
		if line.EndTime, err = timestamp.Parse(endAttr); err != nil {
			return fmt.Errorf("ttml: ligne: %w", err)
		}
	}
	if isBG {
		line.IsDuet = isDuet
	} else {
		agent := el.SelectAttrValue("ttm:agent", "")
		line.IsDuet = agent != "" && agent != p.mainAgent
	}

	key := parentKey
	if !isBG {
		key = el.SelectAttrValue("itunes:key", "")
	}

	var available []romanWord
	if key != "" {
		if wr, ok := p.wordRomans[key]; ok {
			src := wr.main
			if isBG {
				src = wr.bg
			}
			available = append(available, src...)
		}

		tr, hasTimed := p.timedTranslations[key]
		if !hasTimed {
			tr = p.translations[key]
		}
		lr := p.lineRomans[key]
		if isBG {
			line.TranslatedLyric, line.RomanLyric = tr.bg, lr.bg
		} else {
			line.TranslatedLyric, line.RomanLyric = tr.main, lr.main
		}
	}

	insertAt := len(p.lines)

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			w := lyric.NewWord(t.Data, 0, 0)
			if !w.IsBlank() {
				// mot non chronométré : il reprend les bornes de la ligne
				w.StartTime, w.EndTime = line.StartTime, line.EndTime
			}
			line.Words = append(line.Words, w)

		case *etree.Element:
			role := t.SelectAttrValue("ttm:role", "")
			if t.Tag == "span" && role != "" {
				switch role {
				case roleBG:
					if err := p.parseLine(t, true, line.IsDuet, key); err != nil {
						return err
					}
				case roleTranslation:
					if line.TranslatedLyric == "" {
						line.TranslatedLyric = textContent(t)
					}
				case roleRoman:
					if line.RomanLyric == "" {
						line.RomanLyric = textContent(t)
					}
				}
				continue
			}
			if !hasAttr(t, "begin") || !hasAttr(t, "end") {
				continue
			}

			w, err := p.readWord(t)
			if err != nil {
				return err
			}
			for i, r := range available {
				if r.start == w.StartTime && r.end == w.EndTime {
					w.RomanWord = r.text
					available = append(available[:i], available[i+1:]...)
					break
				}
			}
			line.Words = append(line.Words, w)
		}
	}

	if !explicit {
		// bornes déduites des mots non vides ; 0/0 si aucun
		line.StartTime, line.EndTime, _ = line.Envelope()
	}

	if isBG {
		trimBGWords(&line)
	}

	// insérer l'hôte avant les lignes de fond ajoutées pendant la récursion
	p.lines = append(p.lines, lyric.Line{})
	copy(p.lines[insertAt+1:], p.lines[insertAt:])
	p.lines[insertAt] = line
	return nil
}

func (p *parser) readWord(t *etree.Element) (lyric.Word, error) {
	start, err := timestamp.Parse(t.SelectAttrValue("begin", ""))
	if err != nil {
		return lyric.Word{}, fmt.Errorf("ttml: mot: %w", err)
	}
	end, err := timestamp.Parse(t.SelectAttrValue("end", ""))
	if err != nil {
		return lyric.Word{}, fmt.Errorf("ttml: mot: %w", err)
	}
	w := lyric.NewWord(textContent(t), start, end)

	if v := t.SelectAttrValue("amll:empty-beat", ""); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			p.log.Debug().Str("value", v).Msg("amll:empty-beat ignoré")
		} else {
			w.EmptyBeat = n
		}
	}
	w.Obscene = t.SelectAttrValue("amll:obscene", "") == "true"
	return w, nil
}

// trimBGWords retire la parenthèse ouvrante du premier mot et la fermante
// du dernier ; un mot devenu vide est supprimé.
func trimBGWords(line *lyric.Line) {
	if len(line.Words) > 0 {
		first := &line.Words[0]
		if strings.HasPrefix(first.Text, "(") || strings.HasPrefix(first.Text, "（") {
			_, size := firstRuneSize(first.Text)
			first.Text = first.Text[size:]
			if first.Text == "" {
				line.Words = line.Words[1:]
			}
		}
	}
	if n := len(line.Words); n > 0 {
		last := &line.Words[n-1]
		if strings.HasSuffix(last.Text, ")") {
			last.Text = strings.TrimSuffix(last.Text, ")")
		} else if strings.HasSuffix(last.Text, "）") {
			last.Text = strings.TrimSuffix(last.Text, "）")
		} else {
			return
		}
		if last.Text == "" {
			line.Words = line.Words[:n-1]
		}
	}
}

func firstRuneSize(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

package lyric

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
)

var (
	parenRe = regexp.MustCompile(`[(（](.*?)[)）]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// ExtractParenthesesToBG sort le contenu entre parenthèses d'une ligne
// chronométrée à la ligne vers une nouvelle ligne de fond.
//
//	"123 (abc) 456" -> "123 456" + "Abc" (fond)
//
// Si toute la ligne est entre parenthèses, elle devient elle-même une ligne de fond.
// Le temps est partagé au prorata du nombre de runes. Non adapté aux lignes mot à mot.
func ExtractParenthesesToBG(line Line) []Line {
	full := line.Text()
	matches := parenRe.FindAllStringSubmatch(full, -1)
	if len(matches) == 0 {
		return []Line{line}
	}

	mainText := strings.TrimSpace(spaceRe.ReplaceAllString(parenRe.ReplaceAllString(full, ""), " "))
	mainText = fsutil.CapitalizeFirst(mainText)

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	bgText := fsutil.CapitalizeFirst(strings.Join(parts, " "))

	if mainText == "" {
		bg := line.Clone()
		bg.IsBG = true
		w := NewWord(bgText, line.StartTime, line.EndTime)
		if len(line.Words) > 0 {
			w = line.Words[0]
			w.Text = bgText
		}
		bg.Words = []Word{w}
		return []Line{bg}
	}

	mainLen := utf8.RuneCountInString(mainText)
	bgLen := utf8.RuneCountInString(bgText)
	total := mainLen + bgLen
	if total == 0 {
		return []Line{line}
	}
	mainDur := (line.EndTime - line.StartTime) * int64(mainLen) / int64(total)
	split := line.StartTime + mainDur

	mainLine := line.Clone()
	mainLine.Words = []Word{NewWord(mainText, line.StartTime, split)}
	mainLine.EndTime = split

	bgLine := line.Clone()
	bgLine.ID = NewID()
	bgLine.IsBG = true
	bgLine.Words = []Word{NewWord(bgText, split, line.EndTime)}
	bgLine.StartTime = split

	return []Line{mainLine, bgLine}
}

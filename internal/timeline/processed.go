// Package timeline calcule les modifications interactives du minutage d'une
// ligne : déplacement d'une frontière, glissement d'un mot, glissement de la
// ligne entière. Les fonctions de calcul sont pures ; Commit est la seule
// écriture dans le document.
package timeline

import (
	"fmt"
	"slices"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// SegmentKind distingue un mot d'un silence.
type SegmentKind int

const (
	WordSegment SegmentKind = iota
	GapSegment
)

func (k SegmentKind) String() string {
	if k == GapSegment {
		return "gap"
	}
	return "word"
}

// Segment est un intervalle de la vue chronologique d'une ligne. Pour un mot,
// ID est celui du mot ; un silence reçoit un ID synthétique.
type Segment struct {
	Kind      SegmentKind
	ID        string
	Text      string
	StartTime int64
	EndTime   int64
}

// Duration retourne EndTime-StartTime.
func (s Segment) Duration() int64 { return s.EndTime - s.StartTime }

// ProcessedLine est la vue dérivée d'une ligne : ses mots de durée non nulle,
// triés, entrecoupés de silences.
type ProcessedLine struct {
	Line      lyric.Line
	StartTime int64
	EndTime   int64
	Segments  []Segment
}

// Process construit la vue. Les mots de durée nulle ou négative (blancs,
// mots non minutés) n'y figurent pas.
func Process(line lyric.Line) ProcessedLine {
	words := make([]lyric.Word, 0, len(line.Words))
	for _, w := range line.Words {
		if w.EndTime > w.StartTime {
			words = append(words, w)
		}
	}
	slices.SortStableFunc(words, func(a, b lyric.Word) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		}
		return 0
	})

	var segs []Segment
	cursor := line.StartTime
	for _, w := range words {
		if w.StartTime > cursor {
			segs = append(segs, Segment{
				Kind:      GapSegment,
				ID:        fmt.Sprintf("%s-gap-%d", line.ID, cursor),
				StartTime: cursor,
				EndTime:   w.StartTime,
			})
		}
		segs = append(segs, Segment{Kind: WordSegment, ID: w.ID, Text: w.Text, StartTime: w.StartTime, EndTime: w.EndTime})
		cursor = w.EndTime
	}
	if line.EndTime > cursor {
		segs = append(segs, Segment{
			Kind:      GapSegment,
			ID:        line.ID + "-gap-end",
			StartTime: cursor,
			EndTime:   line.EndTime,
		})
	}

	return ProcessedLine{
		Line:      line.Clone(),
		StartTime: line.StartTime,
		EndTime:   line.EndTime,
		Segments:  segs,
	}
}

// ProcessAll construit la vue de chaque ligne.
func ProcessAll(lines []lyric.Line) []ProcessedLine {
	out := make([]ProcessedLine, len(lines))
	for i, l := range lines {
		out[i] = Process(l)
	}
	return out
}

func (p ProcessedLine) clone() ProcessedLine {
	out := p
	out.Line = p.Line.Clone()
	out.Segments = slices.Clone(p.Segments)
	return out
}

// wordTimes indexe les nouveaux temps des segments de mot.
func (p ProcessedLine) wordTimes() map[string]Segment {
	m := make(map[string]Segment, len(p.Segments))
	for _, s := range p.Segments {
		if s.Kind == WordSegment {
			m[s.ID] = s
		}
	}
	return m
}

// apply reporte les temps de p sur les mots de line (appariés par ID).
func (p ProcessedLine) apply(line lyric.Line) lyric.Line {
	out := line.Clone()
	times := p.wordTimes()
	for i, w := range out.Words {
		if s, ok := times[w.ID]; ok {
			out.Words[i].StartTime = s.StartTime
			out.Words[i].EndTime = s.EndTime
		}
	}
	out.StartTime = p.StartTime
	out.EndTime = p.EndTime
	return out
}

// ToLine retourne la ligne candidate (aperçu) sans toucher au document.
func (p ProcessedLine) ToLine() lyric.Line {
	return p.apply(p.Line)
}

// Commit écrit la ligne candidate dans le document, sur l'état courant de la
// ligne de même ID. Retourne false si la ligne n'existe plus.
func Commit(d *lyric.Lyric, p ProcessedLine) bool {
	i := d.LineIndex(p.Line.ID)
	if i < 0 {
		return false
	}
	d.Lines[i] = p.apply(d.Lines[i])
	return true
}

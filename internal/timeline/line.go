package timeline

import (
	"math"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// minCompressedDuration est la durée en dessous de laquelle AdjustLineEndTime
// ne raccourcit plus un segment avant de passer à la mise à l'échelle.
const minCompressedDuration = 50

func isUntimed(w lyric.Word) bool { return w.StartTime == 0 && w.EndTime == 0 }

// InitializeZeroTimestampLine donne à une ligne entièrement non minutée
// l'intervalle [start, end], réparti à parts égales entre ses mots non
// blancs. Retourne false si un mot de la ligne est déjà minuté.
func InitializeZeroTimestampLine(line *lyric.Line, start, end int64) bool {
	if len(line.Words) == 0 {
		return false
	}
	for _, w := range line.Words {
		if !isUntimed(w) {
			return false
		}
	}
	line.StartTime = start
	line.EndTime = end

	n := int64(line.NonBlankCount())
	if n == 0 {
		return true
	}
	total := end - start
	var k int64
	for i := range line.Words {
		if line.Words[i].IsBlank() {
			continue
		}
		line.Words[i].StartTime = start + total*k/n
		line.Words[i].EndTime = start + total*(k+1)/n
		k++
	}
	return true
}

// FixPartialInitialization partage le temps d'un mot minuté avec les mots
// non minutés qui le suivent directement (typiquement après un découpage
// manuel). Retourne true si un groupe a été traité.
func FixPartialInitialization(line *lyric.Line) bool {
	var hasZero, hasTimed bool
	for _, w := range line.Words {
		if isUntimed(w) {
			if !w.IsBlank() {
				hasZero = true
			}
		} else {
			hasTimed = true
		}
	}
	if !hasZero || !hasTimed {
		return false
	}

	changed := false
	words := line.Words
	for i := 0; i < len(words); i++ {
		if isUntimed(words[i]) {
			continue
		}
		j := i + 1
		for j < len(words) && isUntimed(words[j]) {
			j++
		}
		if j-i == 1 {
			continue
		}
		changed = true

		group := words[i:j]
		start := group[0].StartTime
		total := group[0].EndTime - start
		var n int64
		for _, w := range group {
			if !w.IsBlank() {
				n++
			}
		}
		if n > 0 && total > 0 {
			var k int64
			for g := range group {
				cursor := start + total*k/n
				if group[g].IsBlank() {
					group[g].StartTime, group[g].EndTime = cursor, cursor
					continue
				}
				group[g].StartTime = cursor
				group[g].EndTime = start + total*(k+1)/n
				k++
			}
		}
		i = j - 1
	}
	return changed
}

// ShiftLineStartTime déplace la ligne et tous ses mots pour qu'elle commence
// à newStart.
func ShiftLineStartTime(line *lyric.Line, newStart int64) {
	delta := newStart - line.StartTime
	if delta == 0 {
		return
	}
	line.StartTime = newStart
	line.EndTime += delta
	for i := range line.Words {
		line.Words[i].StartTime += delta
		line.Words[i].EndTime += delta
	}
}

// AdjustLineEndTime change la fin de ligne. En allongeant, le dernier mot
// s'étend avec elle. En raccourcissant, les segments sont comprimés depuis
// la fin jusqu'à minCompressedDuration, puis mis à l'échelle si cela ne
// suffit pas ; les mots sont ensuite réécrits bout à bout depuis le début.
func AdjustLineEndTime(line *lyric.Line, newEnd int64) {
	if len(line.Words) == 0 {
		line.EndTime = newEnd
		return
	}
	last := &line.Words[len(line.Words)-1]
	diff := last.EndTime - newEnd
	switch {
	case diff < 0:
		line.EndTime = newEnd
		if newEnd > last.StartTime {
			last.EndTime = newEnd
		}
		return
	case diff == 0:
		return
	}

	line.EndTime = newEnd
	p := Process(*line)

	durations := make([]float64, len(p.Segments))
	for i, s := range p.Segments {
		durations[i] = float64(s.Duration())
	}
	remaining := float64(diff)
	for i := len(durations) - 1; i >= 0 && remaining > 0; i-- {
		cut := min(remaining, max(0, durations[i]-minCompressedDuration))
		durations[i] -= cut
		remaining -= cut
	}
	if remaining > 0 {
		var current float64
		for _, d := range durations {
			current += d
		}
		target := current - remaining
		if target > 0 && current > 0 {
			scale := target / current
			for i := range durations {
				durations[i] *= scale
			}
		}
	}

	index := make(map[string]int, len(line.Words))
	for i, w := range line.Words {
		index[w.ID] = i
	}
	cursor := float64(line.StartTime)
	for i, s := range p.Segments {
		if s.Kind == WordSegment {
			if wi, ok := index[s.ID]; ok {
				line.Words[wi].StartTime = int64(math.Round(cursor))
				line.Words[wi].EndTime = int64(math.Round(cursor + durations[i]))
			}
		}
		cursor += durations[i]
	}
}

// ShiftDocument décale chaque ligne de delta millisecondes (LinePan ligne
// par ligne). Une ligne ne commence jamais avant 0.
func ShiftDocument(d *lyric.Lyric, delta int64) {
	if delta == 0 {
		return
	}
	for _, line := range d.Lines {
		p := Process(line)
		Commit(d, LinePan(p, line.StartTime+delta))
	}
}

package timeline

import (
	"fmt"
	"math"
	"slices"
)

const (
	// MinDividerWidthPx est la largeur minimale d'un mot à l'écran.
	MinDividerWidthPx = 15
	// MinWordDurationMs est la durée minimale d'un mot, quel que soit le zoom.
	MinWordDurationMs = 10
)

const unbounded = math.MaxInt64

// minDuration : durée minimale d'un mot pour un zoom en pixels par seconde.
func minDuration(zoom float64) int64 {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return MinWordDurationMs
	}
	return max(MinWordDurationMs, int64(math.Round(MinDividerWidthPx/zoom*1000)))
}

// Divider déplace la frontière entre les segments index et index+1 ; -1
// désigne le début de la ligne et le dernier index sa fin. Le temps est
// borné pour qu'aucun mot voisin ne descende sous la durée minimale ni ne
// s'inverse. Avec gapCreation entre deux mots, seul le côté vers lequel on
// tire bouge et un segment de silence est inséré entre eux : les index
// suivants sont décalés d'un cran. Si aucune position n'est valide, p
// revient inchangée.
func Divider(p ProcessedLine, index int, newTime int64, gapCreation bool, zoom float64) ProcessedLine {
	n := len(p.Segments)
	if n == 0 || index < -1 || index >= n {
		return p
	}
	dyn := minDuration(zoom)

	var left, right *Segment
	if index >= 0 {
		left = &p.Segments[index]
	}
	if index+1 < n {
		right = &p.Segments[index+1]
	}

	lo := int64(0)
	switch {
	case left != nil && left.Kind == WordSegment:
		lo = left.StartTime + dyn
	case left != nil:
		lo = left.StartTime
	}
	hi := int64(unbounded)
	switch {
	case right != nil && right.Kind == WordSegment:
		hi = right.EndTime - dyn
	case right != nil:
		hi = right.EndTime
	}
	lo = max(lo, 0)
	if lo > hi {
		return p
	}
	t := min(max(newTime, lo), hi)

	out := p.clone()
	switch {
	case index == -1:
		out.StartTime = t
		if right != nil {
			out.Segments[0].StartTime = t
		}
	case index == n-1:
		out.EndTime = t
		out.Segments[index].EndTime = t
	case gapCreation && left.Kind == WordSegment && right.Kind == WordSegment:
		orig := left.EndTime
		switch {
		case t > orig:
			out.Segments[index+1].StartTime = t
		case t < orig:
			out.Segments[index].EndTime = t
		default:
			return out
		}
		// le trou devient un silence : la vue reste contiguë
		hole := Segment{
			Kind:      GapSegment,
			ID:        fmt.Sprintf("%s-gap-%d", p.Line.ID, out.Segments[index].EndTime),
			StartTime: out.Segments[index].EndTime,
			EndTime:   out.Segments[index+1].StartTime,
		}
		out.Segments = slices.Insert(out.Segments, index+1, hole)
	default:
		// un silence voisin s'allonge ou se réduit, avec ou sans gapCreation
		out.Segments[index].EndTime = t
		out.Segments[index+1].StartTime = t
	}
	return out
}

// WordPan fait glisser un mot sans changer sa durée. Il reste entre ses
// voisins : un silence peut disparaître, un mot voisin garde la durée minimale.
func WordPan(p ProcessedLine, wordID string, desiredStart int64, zoom float64) ProcessedLine {
	idx := -1
	for i, s := range p.Segments {
		if s.ID == wordID {
			idx = i
			break
		}
	}
	if idx < 0 || p.Segments[idx].Kind != WordSegment {
		return p
	}
	seg := p.Segments[idx]
	dur := seg.Duration()
	dyn := minDuration(zoom)

	var lo, hi int64
	switch {
	case idx == 0:
		lo = p.StartTime
	case p.Segments[idx-1].Kind == GapSegment:
		lo = p.Segments[idx-1].StartTime
	default:
		lo = p.Segments[idx-1].StartTime + dyn
	}
	switch {
	case idx == len(p.Segments)-1:
		hi = p.EndTime - dur
	case p.Segments[idx+1].Kind == GapSegment:
		hi = p.Segments[idx+1].EndTime - dur
	default:
		hi = p.Segments[idx+1].EndTime - dyn - dur
	}
	if lo > hi {
		return p
	}

	start := min(max(desiredStart, lo), hi)
	if start == seg.StartTime {
		return p
	}
	end := start + dur

	out := p.clone()
	out.Segments[idx].StartTime = start
	out.Segments[idx].EndTime = end
	if idx > 0 {
		out.Segments[idx-1].EndTime = start
	}
	if idx+1 < len(out.Segments) {
		out.Segments[idx+1].StartTime = end
	}
	return out
}

// LinePan déplace la ligne entière pour qu'elle commence à newStart (jamais
// avant 0). Les autres lignes ne sont pas consultées.
func LinePan(p ProcessedLine, newStart int64) ProcessedLine {
	newStart = max(0, newStart)
	delta := newStart - p.StartTime
	if delta == 0 {
		return p
	}
	out := p.clone()
	out.StartTime = newStart
	out.EndTime = p.EndTime + delta
	for i := range out.Segments {
		out.Segments[i].StartTime += delta
		out.Segments[i].EndTime += delta
	}
	return out
}

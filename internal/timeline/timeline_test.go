package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// sample : silence 0-500, a 500-1000, b 1000-2000, silence 2000-3000.
func sample() lyric.Line {
	l := lyric.NewLine()
	l.StartTime, l.EndTime = 0, 3000
	l.Words = []lyric.Word{
		lyric.NewWord("a", 500, 1000),
		lyric.NewWord("b", 1000, 2000),
		lyric.NewWord(" ", 2000, 2000),
	}
	return l
}

func kinds(p ProcessedLine) []SegmentKind {
	out := make([]SegmentKind, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Kind
	}
	return out
}

func assertNonNegative(t *testing.T, p ProcessedLine) {
	t.Helper()
	for _, s := range p.Segments {
		assert.GreaterOrEqual(t, s.Duration(), int64(0), "segment %s", s.ID)
		assert.GreaterOrEqual(t, s.StartTime, int64(0), "segment %s", s.ID)
	}
}

func TestProcess(t *testing.T) {
	l := sample()
	p := Process(l)
	assert.Equal(t, []SegmentKind{GapSegment, WordSegment, WordSegment, GapSegment}, kinds(p))
	assert.Equal(t, l.Words[0].ID, p.Segments[1].ID)
	assert.Equal(t, l.ID+"-gap-end", p.Segments[3].ID)
	assert.Equal(t, int64(500), p.Segments[0].EndTime)

	// Ordre chronologique même si les mots ne le sont pas.
	l.Words[0], l.Words[1] = l.Words[1], l.Words[0]
	p = Process(l)
	assert.Equal(t, "a", p.Segments[1].Text)
	assert.Equal(t, "b", p.Segments[2].Text)
}

func TestDivider(t *testing.T) {
	p := Process(sample())

	tests := []struct {
		name      string
		index     int
		newTime   int64
		gap       bool
		zoom      float64
		wantLeft  Segment
		wantRight Segment
	}{
		{name: "move", index: 1, newTime: 1500, wantLeft: Segment{StartTime: 500, EndTime: 1500}, wantRight: Segment{StartTime: 1500, EndTime: 2000}},
		{name: "clamp right", index: 1, newTime: 5000, wantLeft: Segment{StartTime: 500, EndTime: 1990}, wantRight: Segment{StartTime: 1990, EndTime: 2000}},
		{name: "clamp left", index: 1, newTime: 0, wantLeft: Segment{StartTime: 500, EndTime: 510}, wantRight: Segment{StartTime: 510, EndTime: 2000}},
		{name: "zoom minimum", index: 1, newTime: 0, zoom: 100, wantLeft: Segment{StartTime: 500, EndTime: 650}, wantRight: Segment{StartTime: 650, EndTime: 2000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Divider(p, tt.index, tt.newTime, tt.gap, tt.zoom)
			l, r := out.Segments[tt.index], out.Segments[tt.index+1]
			assert.Equal(t, tt.wantLeft.StartTime, l.StartTime)
			assert.Equal(t, tt.wantLeft.EndTime, l.EndTime)
			assert.Equal(t, tt.wantRight.StartTime, r.StartTime)
			assert.Equal(t, tt.wantRight.EndTime, r.EndTime)
			assertNonNegative(t, out)
		})
	}

	// p n'est jamais modifiée.
	assert.Equal(t, Process(sample()).Segments[1].EndTime, p.Segments[1].EndTime)
}

func assertContiguous(t *testing.T, p ProcessedLine) {
	t.Helper()
	cursor := p.StartTime
	for _, s := range p.Segments {
		assert.Equal(t, cursor, s.StartTime, "segment %s", s.ID)
		cursor = s.EndTime
	}
	if len(p.Segments) > 0 {
		assert.Equal(t, p.EndTime, cursor)
	}
}

func TestDivider_GapCreation(t *testing.T) {
	p := Process(sample())

	tests := []struct {
		name              string
		newTime           int64
		wantLeftEnd       int64
		wantRightStart    int64
		wantSegmentsAfter int
	}{
		{name: "to the right", newTime: 1200, wantLeftEnd: 1000, wantRightStart: 1200, wantSegmentsAfter: 5},
		{name: "to the left", newTime: 800, wantLeftEnd: 800, wantRightStart: 1000, wantSegmentsAfter: 5},
		{name: "unchanged", newTime: 1000, wantLeftEnd: 1000, wantRightStart: 1000, wantSegmentsAfter: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Divider(p, 1, tt.newTime, true, 0)
			require.Len(t, out.Segments, tt.wantSegmentsAfter)
			assert.Equal(t, tt.wantLeftEnd, out.Segments[1].EndTime)
			right := out.Segments[len(out.Segments)-2]
			assert.Equal(t, "b", right.Text)
			assert.Equal(t, tt.wantRightStart, right.StartTime)
			assertContiguous(t, out)

			// même vue qu'après validation puis recalcul
			again := Process(out.ToLine())
			assert.Equal(t, kinds(again), kinds(out))
			assertContiguous(t, again)
		})
	}

	t.Run("enchaînement", func(t *testing.T) {
		out := Divider(p, 1, 1200, true, 0)
		out = Divider(out, 2, 1100, false, 0)
		assert.Equal(t, GapSegment, out.Segments[2].Kind)
		assert.Equal(t, int64(1100), out.Segments[2].EndTime)
		assert.Equal(t, int64(1100), out.Segments[3].StartTime)
		assertContiguous(t, out)
	})

	t.Run("silence voisin", func(t *testing.T) {
		// entre le silence de tête et le mot a : le silence se réduit
		out := Divider(p, 0, 300, true, 0)
		require.Len(t, out.Segments, 4)
		assert.Equal(t, int64(300), out.Segments[0].EndTime)
		assert.Equal(t, int64(300), out.Segments[1].StartTime)
		assertContiguous(t, out)
	})
}

func TestDivider_LineEdges(t *testing.T) {
	p := Process(sample())

	start := Divider(p, -1, 300, false, 0)
	assert.Equal(t, int64(300), start.StartTime)
	assert.Equal(t, int64(300), start.Segments[0].StartTime)

	start = Divider(p, -1, 9000, false, 0)
	assert.Equal(t, int64(500), start.StartTime, "bounded by the leading gap")

	end := Divider(p, 3, 1000, false, 0)
	assert.Equal(t, int64(2000), end.EndTime)
	assert.Equal(t, int64(2000), end.Segments[3].EndTime)

	end = Divider(p, 3, 4000, false, 0)
	assert.Equal(t, int64(4000), end.EndTime)
}

func TestDivider_NoValidPosition(t *testing.T) {
	l := lyric.NewLine()
	l.StartTime, l.EndTime = 0, 10
	l.Words = []lyric.Word{lyric.NewWord("a", 0, 5), lyric.NewWord("b", 5, 10)}
	p := Process(l)

	assert.Equal(t, p, Divider(p, 0, 7, false, 0))
	assert.Equal(t, p, Divider(p, 5, 7, false, 0))
	assert.Equal(t, p, Divider(p, -2, 7, false, 0))
	empty := Process(lyric.NewLine())
	assert.Equal(t, empty, Divider(empty, -1, 7, false, 0))
}

func TestDivider_NeverNegative(t *testing.T) {
	p := Process(sample())
	for index := -1; index < len(p.Segments); index++ {
		for _, at := range []int64{-1000, 0, 499, 500, 1000, 1995, 2500, 10000} {
			for _, gap := range []bool{false, true} {
				assertNonNegative(t, Divider(p, index, at, gap, 50))
			}
		}
	}
}

func TestWordPan(t *testing.T) {
	l := sample()
	p := Process(l)
	b := l.Words[1].ID

	out := WordPan(p, b, 1500, 0)
	assert.Equal(t, int64(1500), out.Segments[2].StartTime)
	assert.Equal(t, int64(2500), out.Segments[2].EndTime)
	assert.Equal(t, int64(1500), out.Segments[1].EndTime, "left word follows")
	assert.Equal(t, int64(2500), out.Segments[3].StartTime, "gap shrinks")

	out = WordPan(p, b, 99999, 0)
	assert.Equal(t, int64(2000), out.Segments[2].StartTime)
	assert.Equal(t, int64(3000), out.Segments[2].EndTime)
	assertNonNegative(t, out)

	out = WordPan(p, b, 0, 0)
	assert.Equal(t, int64(510), out.Segments[2].StartTime)
	assert.Equal(t, int64(1000), out.Segments[2].Duration())
	assertNonNegative(t, out)

	assert.Equal(t, p, WordPan(p, b, 1000, 0), "same start")
	assert.Equal(t, p, WordPan(p, "missing", 1500, 0))
	assert.Equal(t, p, WordPan(p, p.Segments[0].ID, 100, 0), "gaps do not pan")
}

func TestLinePan(t *testing.T) {
	p := Process(sample())

	out := LinePan(p, 1000)
	assert.Equal(t, int64(1000), out.StartTime)
	assert.Equal(t, int64(4000), out.EndTime)
	for i := range p.Segments {
		assert.Equal(t, p.Segments[i].StartTime+1000, out.Segments[i].StartTime)
		assert.Equal(t, p.Segments[i].Duration(), out.Segments[i].Duration())
	}

	assert.Equal(t, p, LinePan(p, -50), "clamped to zero, no change")
}

func TestCommit(t *testing.T) {
	l := sample()
	d := &lyric.Lyric{Lines: []lyric.Line{l}}

	p := WordPan(Process(l), l.Words[1].ID, 1500, 0)
	preview := p.ToLine()
	assert.Equal(t, int64(1500), preview.Words[1].StartTime)
	assert.Equal(t, int64(1000), d.Lines[0].Words[1].StartTime, "preview leaves the document alone")

	// Modification concurrente du texte : Commit part de l'état courant.
	d.Lines[0].Words[0].Text = "A"
	require.True(t, Commit(d, p))
	got := d.Lines[0]
	assert.Equal(t, "A", got.Words[0].Text)
	assert.Equal(t, int64(500), got.Words[0].StartTime)
	assert.Equal(t, int64(1500), got.Words[0].EndTime)
	assert.Equal(t, int64(1500), got.Words[1].StartTime)
	assert.Equal(t, int64(2500), got.Words[1].EndTime)
	assert.Equal(t, int64(2000), got.Words[2].StartTime, "blank word untouched")

	assert.False(t, Commit(&lyric.Lyric{}, p))
}

func TestInitializeZeroTimestampLine(t *testing.T) {
	l := lyric.NewLine()
	l.Words = []lyric.Word{lyric.NewWord("a", 0, 0), lyric.NewWord(" ", 0, 0), lyric.NewWord("b", 0, 0)}

	require.True(t, InitializeZeroTimestampLine(&l, 1000, 2000))
	assert.Equal(t, int64(1000), l.StartTime)
	assert.Equal(t, int64(2000), l.EndTime)
	assert.Equal(t, [2]int64{1000, 1500}, [2]int64{l.Words[0].StartTime, l.Words[0].EndTime})
	assert.Equal(t, [2]int64{0, 0}, [2]int64{l.Words[1].StartTime, l.Words[1].EndTime})
	assert.Equal(t, [2]int64{1500, 2000}, [2]int64{l.Words[2].StartTime, l.Words[2].EndTime})

	assert.False(t, InitializeZeroTimestampLine(&l, 0, 500), "already timed")
	empty := lyric.NewLine()
	assert.False(t, InitializeZeroTimestampLine(&empty, 0, 500))
}

func TestFixPartialInitialization(t *testing.T) {
	l := lyric.NewLine()
	l.Words = []lyric.Word{
		lyric.NewWord("a", 1000, 1900),
		lyric.NewWord(" ", 0, 0),
		lyric.NewWord("b", 0, 0),
		lyric.NewWord("c", 2000, 2500),
	}
	require.True(t, FixPartialInitialization(&l))
	assert.Equal(t, [2]int64{1000, 1450}, [2]int64{l.Words[0].StartTime, l.Words[0].EndTime})
	assert.Equal(t, [2]int64{1450, 1450}, [2]int64{l.Words[1].StartTime, l.Words[1].EndTime})
	assert.Equal(t, [2]int64{1450, 1900}, [2]int64{l.Words[2].StartTime, l.Words[2].EndTime})
	assert.Equal(t, [2]int64{2000, 2500}, [2]int64{l.Words[3].StartTime, l.Words[3].EndTime})

	assert.False(t, FixPartialInitialization(&l), "nothing left to fix")
}

func TestShiftLineStartTime(t *testing.T) {
	l := sample()
	ShiftLineStartTime(&l, 250)
	assert.Equal(t, int64(250), l.StartTime)
	assert.Equal(t, int64(3250), l.EndTime)
	assert.Equal(t, int64(750), l.Words[0].StartTime)
	assert.Equal(t, int64(2250), l.Words[2].EndTime)
}

func TestAdjustLineEndTime(t *testing.T) {
	build := func() lyric.Line {
		l := lyric.NewLine()
		l.StartTime, l.EndTime = 0, 2000
		l.Words = []lyric.Word{lyric.NewWord("a", 0, 1000), lyric.NewWord("b", 1000, 2000)}
		return l
	}
	times := func(l lyric.Line) [][2]int64 {
		out := make([][2]int64, len(l.Words))
		for i, w := range l.Words {
			out[i] = [2]int64{w.StartTime, w.EndTime}
		}
		return out
	}

	tests := []struct {
		name   string
		newEnd int64
		want   [][2]int64
	}{
		{name: "extend", newEnd: 3000, want: [][2]int64{{0, 1000}, {1000, 3000}}},
		{name: "unchanged", newEnd: 2000, want: [][2]int64{{0, 1000}, {1000, 2000}}},
		{name: "compress last", newEnd: 1500, want: [][2]int64{{0, 1000}, {1000, 1500}}},
		{name: "compress both", newEnd: 200, want: [][2]int64{{0, 150}, {150, 200}}},
		{name: "scale", newEnd: 50, want: [][2]int64{{0, 25}, {25, 50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := build()
			AdjustLineEndTime(&l, tt.newEnd)
			assert.Equal(t, tt.want, times(l))
			assert.Equal(t, tt.newEnd, l.EndTime)
		})
	}
}

func TestShiftDocument(t *testing.T) {
	first, second := sample(), sample()
	ShiftLineStartTime(&second, 4000)
	d := &lyric.Lyric{Lines: []lyric.Line{first, second}}

	ShiftDocument(d, 500)
	assert.Equal(t, int64(500), d.Lines[0].StartTime)
	assert.Equal(t, int64(1000), d.Lines[0].Words[0].StartTime)
	assert.Equal(t, int64(4500), d.Lines[1].StartTime)
	assert.Equal(t, int64(6500), d.Lines[1].Words[1].EndTime)

	ShiftDocument(d, -1000)
	assert.Equal(t, int64(0), d.Lines[0].StartTime, "clamped at zero")
	assert.Equal(t, int64(500), d.Lines[0].Words[0].StartTime)
	assert.Equal(t, int64(3500), d.Lines[1].StartTime)
}

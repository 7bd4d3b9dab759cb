package lyric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(words ...Word) Line {
	l := NewLine()
	l.Words = words
	if s, e, ok := l.Envelope(); ok {
		l.StartTime, l.EndTime = s, e
	}
	return l
}

func TestLine_EnvelopeIgnoresBlank(t *testing.T) {
	l := line(NewWord(" ", 0, 0), NewWord("a", 100, 200), NewWord(" ", 0, 0), NewWord("b", 250, 400))
	s, e, ok := l.Envelope()
	require.True(t, ok)
	assert.Equal(t, int64(100), s)
	assert.Equal(t, int64(400), e)
	assert.Equal(t, 2, l.NonBlankCount())

	_, _, ok = line(NewWord("  ", 0, 0)).Envelope()
	assert.False(t, ok)
}

func TestLyric_AddMetadataGroupsByKey(t *testing.T) {
	var d Lyric
	d.AddMetadata("artists", "A")
	d.AddMetadata("album", "X")
	d.AddMetadata("artists", "B")
	require.Len(t, d.Metadata, 2)
	assert.Equal(t, []string{"A", "B"}, d.MetadataValues("artists"))
	assert.Nil(t, d.MetadataValues("missing"))
}

func TestLyric_CloneIsDeep(t *testing.T) {
	d := &Lyric{Lines: []Line{line(NewWord("a", 0, 10))}}
	d.AddMetadata("k", "v")
	c := d.Clone()
	c.Lines[0].Words[0].Text = "changed"
	c.Metadata[0].Values[0] = "changed"
	assert.Equal(t, "a", d.Lines[0].Words[0].Text)
	assert.Equal(t, "v", d.Metadata[0].Values[0])
}

func TestLyric_ReplaceLine(t *testing.T) {
	d := &Lyric{Lines: []Line{line(NewWord("a", 0, 10)), line(NewWord("b", 10, 20))}}
	upd := d.Lines[1].Clone()
	upd.Words[0].StartTime = 12
	require.True(t, d.ReplaceLine(upd))
	assert.Equal(t, int64(12), d.Lines[1].Words[0].StartTime)

	assert.False(t, d.ReplaceLine(NewLine()))
}

func TestEnsureBGOrder(t *testing.T) {
	host := line(NewWord("host", 0, 10))
	bg1 := line(NewWord("bg", 0, 10))
	bg1.IsBG = true
	bg2 := bg1
	bg2.ID = NewID()
	orphan := bg1
	orphan.ID = NewID()

	lines := []Line{orphan, host, bg1, bg2}
	require.Error(t, ValidateBGOrder(lines))

	fixed := EnsureBGOrder(lines)
	assert.Equal(t, 2, fixed)
	assert.False(t, lines[0].IsBG)
	assert.True(t, lines[2].IsBG)
	assert.False(t, lines[3].IsBG)
	assert.NoError(t, ValidateBGOrder(lines))
	assert.Equal(t, 1, Host(lines, 2))
	assert.Equal(t, -1, Host(lines, 3))
}

func TestCheck(t *testing.T) {
	bad := line(NewWord("a  b", 100, 50))
	bad.StartTime = -5
	bad.EndTime = -10
	warnings := Check([]Line{bad, line(NewWord(" ", 0, 0))})

	var msgs []string
	for _, w := range warnings {
		msgs = append(msgs, w.String())
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "espaces superflus")
	assert.Contains(t, joined, "fin avant le début")
	assert.Contains(t, joined, "début de ligne négatif")
	assert.Contains(t, joined, "fin de ligne avant le début")
	assert.Contains(t, joined, "ligne 2 : ligne vide")

	assert.Len(t, Check(nil), 1)
	assert.Empty(t, Check([]Line{line(NewWord("ok", 0, 10))}))
}

func TestExtractParenthesesToBG(t *testing.T) {
	t.Run("mixed", func(t *testing.T) {
		src := line(NewWord("hello (oh yeah) world (hey)", 0, 3000))
		out := ExtractParenthesesToBG(src)
		require.Len(t, out, 2)
		assert.Equal(t, "Hello world", out[0].Words[0].Text)
		assert.Equal(t, "Oh yeah hey", out[1].Words[0].Text)
		assert.True(t, out[1].IsBG)
		assert.NotEqual(t, out[0].ID, out[1].ID)
		assert.Equal(t, out[0].EndTime, out[1].StartTime)
		assert.Equal(t, int64(3000), out[1].EndTime)
		// 11 runes contre 11 runes
		assert.Equal(t, int64(1500), out[0].EndTime)
	})
	t.Run("fully parenthesized", func(t *testing.T) {
		src := line(NewWord("（la la）", 0, 1000))
		out := ExtractParenthesesToBG(src)
		require.Len(t, out, 1)
		assert.True(t, out[0].IsBG)
		assert.Equal(t, "La la", out[0].Words[0].Text)
	})
	t.Run("no parentheses", func(t *testing.T) {
		src := line(NewWord("plain", 0, 1000))
		out := ExtractParenthesesToBG(src)
		require.Len(t, out, 1)
		assert.Equal(t, src.ID, out[0].ID)
	})
}

func TestFindNextWord(t *testing.T) {
	l1 := line(NewWord("a", 0, 1), NewWord(" ", 0, 0), NewWord("b", 1, 2))
	skipped := line(NewWord("x", 2, 3))
	skipped.IgnoreSync = true
	l3 := line(NewWord(" ", 0, 0), NewWord("c", 3, 4))
	lines := []Line{l1, skipped, l3}

	li, wi, ok := FindNextWord(lines, 0, 0)
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 2}, [2]int{li, wi})

	li, wi, ok = FindNextWord(lines, 0, 2)
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 1}, [2]int{li, wi})

	_, _, ok = FindNextWord(lines, 2, 1)
	assert.False(t, ok)
}

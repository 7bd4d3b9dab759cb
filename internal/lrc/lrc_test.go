package lrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Grouping(t *testing.T) {
	content := "[00:01.50]Hello\r\n" +
		"[00:01.50]Bonjour\n" +
		"[00:01.50]harō\n" +
		"[00:01.50]extra\n" +
		"[00:04.00]\n" +
		"[00:05.000]World\n"

	lines := Parse(content)
	require.Len(t, lines, 3)

	primary := lines[0]
	assert.Equal(t, "Hello", primary.Text())
	assert.Equal(t, "Bonjour", primary.TranslatedLyric)
	assert.Equal(t, "harō", primary.RomanLyric)
	assert.Equal(t, int64(1500), primary.StartTime)
	assert.Equal(t, int64(4000), primary.EndTime, "ends at the next group, even an empty one")
	require.Len(t, primary.Words, 1)
	assert.Equal(t, int64(1500), primary.Words[0].StartTime)
	assert.Equal(t, int64(4000), primary.Words[0].EndTime)

	assert.Equal(t, "extra", lines[1].Text())
	assert.Equal(t, int64(1500), lines[1].StartTime)

	last := lines[2]
	assert.Equal(t, "World", last.Text())
	assert.Equal(t, int64(5000), last.StartTime)
	assert.Equal(t, int64(5000+LastLineDuration), last.EndTime)
}

func TestParse_MultipleTagsAndOrder(t *testing.T) {
	lines := Parse("[00:10]chorus [00:02]\n[00:05:5]verse\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chorus", lines[0].Text())
	assert.Equal(t, int64(2000), lines[0].StartTime)
	assert.Equal(t, "verse", lines[1].Text())
	assert.Equal(t, int64(5500), lines[1].StartTime)
	assert.Equal(t, int64(10000), lines[1].EndTime)
	assert.Equal(t, "chorus", lines[2].Text())
}

func TestTagTime(t *testing.T) {
	tests := []struct {
		tag  string
		want int64
	}{
		{"[01:02]", 62000},
		{"[01:02.5]", 62500},
		{"[01:02.05]", 62050},
		{"[01:02.050]", 62050},
		{"[1:2:123]", 62123},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			m := timeTag.FindStringSubmatch(tt.tag)
			require.NotNil(t, m)
			assert.Equal(t, tt.want, tagTime(m))
		})
	}
}

func TestParse_IgnoresUntaggedLines(t *testing.T) {
	assert.Empty(t, Parse("no tags here\n\n"))
	assert.False(t, LooksLikeLRC("no tags here"))
	assert.True(t, LooksLikeLRC("[00:01.00]x"))
}

func TestParseDocument_Metadata(t *testing.T) {
	d := ParseDocument("[ti:Song]\n[ar:Someone]\n[al: ]\n[00:01.00]la\n")
	assert.Equal(t, []string{"Song"}, d.MetadataValues("musicName"))
	assert.Equal(t, []string{"Someone"}, d.MetadataValues("artists"))
	assert.Nil(t, d.MetadataValues("album"))
	require.Len(t, d.Lines, 1)
}

func TestParsePlain(t *testing.T) {
	lines := ParsePlain("  first \r\n\n second\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "first", lines[0].Text())
	assert.Equal(t, "second", lines[1].Text())
	assert.Equal(t, int64(0), lines[1].Words[0].EndTime)
	assert.NotEqual(t, lines[0].ID, lines[1].ID)
}

package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/pkg/model"
)

func sampleDoc() *lyric.Lyric {
	d := &lyric.Lyric{}
	d.AddMetadata("musicName", "Song")
	d.AddMetadata("artists", "A")
	d.AddMetadata("artists", "B")
	d.AddMetadata("album", "X")

	host := lyric.NewLine()
	host.StartTime, host.EndTime = 1000, 3000
	host.Words = []lyric.Word{
		lyric.NewWord("Hello", 1000, 2000),
		lyric.NewWord(" ", 0, 0),
		lyric.NewWord("world", 2000, 3000),
	}
	host.RomanLyric = "harō"
	host.TranslatedLyric = "Bonjour"

	bg := lyric.NewLine()
	bg.IsBG = true
	bg.StartTime, bg.EndTime = 2000, 2500
	bg.Words = []lyric.Word{lyric.NewWord("oh", 2000, 2500)}

	duet := lyric.NewLine()
	duet.IsDuet = true
	duet.StartTime, duet.EndTime = 3000, 4000
	duet.Words = []lyric.Word{lyric.NewWord("yes", 3000, 4000)}

	empty := lyric.NewLine()
	d.Lines = []lyric.Line{host, bg, empty, duet}
	return d
}

func TestNewSheet(t *testing.T) {
	s := NewSheet(sampleDoc())
	assert.Equal(t, "Song", s.Title)
	assert.Equal(t, []string{"A", "B"}, s.Artists)
	assert.Equal(t, "X", s.Album)
	require.Len(t, s.Lines, 3, "empty line skipped")
	assert.Equal(t, "Hello world", s.Lines[0].Text)
	assert.Equal(t, "00:01.000", s.Lines[0].Start)
	assert.True(t, s.Lines[1].IsBG)
	assert.Equal(t, []string{"ligne 3 : ligne vide"}, s.Warnings)
}

func TestRender_Text(t *testing.T) {
	out, err := Default().RenderFormat(model.FormatTXT, NewSheet(sampleDoc()))
	require.NoError(t, err)
	got := string(out)
	assert.Contains(t, got, "Song\nA, B\n\nHello world\n    harō\n    Bonjour\n  (oh)\n")
	assert.Contains(t, got, "    yes\n")
}

func TestRender_Markdown(t *testing.T) {
	out, err := Default().RenderFormat(model.FormatMARKDOWN, NewSheet(sampleDoc()))
	require.NoError(t, err)
	got := string(out)
	assert.Contains(t, got, `title: "Song"`)
	assert.Contains(t, got, `artists: ["A", "B"]`)
	assert.Contains(t, got, `album: "X"`)
	assert.Contains(t, got, "# Song\n")
	assert.Contains(t, got, "`00:01.000` Hello world\n> harō\n> Bonjour\n")
	assert.Contains(t, got, "*(oh)*")
	assert.Contains(t, got, "» yes")
	assert.Contains(t, got, "> [!WARNING] Vérifications\n> - ligne 3 : ligne vide\n")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Default().RenderFormat(model.FormatLRC, Sheet{})
	assert.Error(t, err)

	_, err = Default().Render("missing.tmpl", Sheet{})
	assert.Error(t, err)
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()

	r, err := FromDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"*.tmpl"}, r.TemplateNames(), "embedded fallback, not parsed yet")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lyrics.txt.tmpl"), []byte("custom {{.Title}}"), 0o644))
	r, err = FromDir(dir)
	require.NoError(t, err)
	out, err := r.RenderFormat(model.FormatTXT, Sheet{Title: "Song"})
	require.NoError(t, err)
	assert.Equal(t, "custom Song", string(out))
	assert.Equal(t, []string{"lyrics.txt.tmpl"}, r.TemplateNames())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte("{{"), 0o644))
	_, err = FromDir(dir)
	assert.Error(t, err)
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "[]", yamlListInline(nil))
	assert.Equal(t, "- a\n- b\n", markdownList([]string{"a", " ", "b"}))
	assert.Equal(t, "> a\n> b", quoteBlock("a\nb\n"))
	assert.Equal(t, "> [!WARNING]\n> x\n", warningFunc("x"))
	assert.Equal(t, "> [!NOTE] t\n", calloutHeader("?", "t"))
}

package ttml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

const scenarioDoc = `<tt xmlns="http://www.w3.org/ns/ttml" xmlns:ttm="http://www.w3.org/ns/ttml#metadata" xmlns:itunes="http://music.apple.com/lyric-ttml-internal">` +
	`<body><div>` +
	`<p begin="00:01.000" end="00:03.000" itunes:key="L1"><span begin="00:01.000" end="00:02.000">Hi</span><span begin="00:02.000" end="00:03.000">there</span></p>` +
	`</div></body></tt>`

// stripIDs efface les identifiants, régénérés à chaque lecture.
func stripIDs(d *lyric.Lyric) *lyric.Lyric {
	out := d.Clone()
	for i := range out.Lines {
		out.Lines[i].ID = ""
		for j := range out.Lines[i].Words {
			out.Lines[i].Words[j].ID = ""
		}
	}
	return out
}

func word(text string, start, end int64) lyric.Word {
	return lyric.Word{Text: text, StartTime: start, EndTime: end}
}

func TestParse_HiThere(t *testing.T) {
	d, err := Parse(scenarioDoc)
	require.NoError(t, err)
	require.Len(t, d.Lines, 1)

	line := d.Lines[0]
	assert.Equal(t, int64(1000), line.StartTime)
	assert.Equal(t, int64(3000), line.EndTime)
	require.Len(t, line.Words, 2)
	assert.Equal(t, "Hi", line.Words[0].Text)
	assert.Equal(t, int64(1000), line.Words[0].StartTime)
	assert.Equal(t, int64(2000), line.Words[0].EndTime)
	assert.Equal(t, "there", line.Words[1].Text)
	assert.Equal(t, int64(2000), line.Words[1].StartTime)
	assert.Equal(t, int64(3000), line.Words[1].EndTime)
	assert.NotEmpty(t, line.Words[0].ID)

	out, err := Write(d, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, `itunes:timing="Word"`)
	assert.Contains(t, out, `<span begin="00:01.000" end="00:02.000">Hi</span>`)
	assert.Contains(t, out, `<span begin="00:02.000" end="00:03.000">there</span>`)
	assert.Contains(t, out, `<p begin="00:01.000" end="00:03.000" ttm:agent="v1" itunes:key="L1">`)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse(`<tt><body><div><p begin="xx" end="00:01.000">a</p></div></body></tt>`)
	assert.Error(t, err)

	_, err = Parse(`<tt><body><div><p begin="00:00.000" end="00:01.000"><span begin="00:00.000" end="nope">a</span></p></div></body></tt>`)
	assert.Error(t, err)
}

func TestParse_UntimedTextTakesLineTimes(t *testing.T) {
	d, err := Parse(`<tt><body><div><p begin="00:02.000" end="00:04.500">Bonjour</p></div></body></tt>`)
	require.NoError(t, err)
	require.Len(t, d.Lines, 1)
	require.Len(t, d.Lines[0].Words, 1)
	w := d.Lines[0].Words[0]
	assert.Equal(t, "Bonjour", w.Text)
	assert.Equal(t, int64(2000), w.StartTime)
	assert.Equal(t, int64(4500), w.EndTime)
}

func TestParse_BackgroundAndDuet(t *testing.T) {
	doc := `<tt xmlns:ttm="http://www.w3.org/ns/ttml#metadata" xmlns:itunes="http://music.apple.com/lyric-ttml-internal">` +
		`<head><metadata><ttm:agent type="person" xml:id="v1"/><ttm:agent type="other" xml:id="v2"/></metadata></head>` +
		`<body><div>` +
		`<p begin="00:00.000" end="00:02.000" ttm:agent="v2" itunes:key="L1">` +
		`<span begin="00:00.000" end="00:01.000">la</span> <span begin="00:01.000" end="00:02.000">la</span>` +
		`<span ttm:role="x-bg" begin="00:01.500" end="00:02.000"><span begin="00:01.500" end="00:02.000">(ooh)</span><span ttm:role="x-translation" xml:lang="fr">ouh</span></span>` +
		`<span ttm:role="x-translation" xml:lang="fr">la la</span>` +
		`</p>` +
		`<p begin="00:03.000" end="00:04.000" ttm:agent="v1" itunes:key="L2"><span begin="00:03.000" end="00:04.000">solo</span></p>` +
		`</div></body></tt>`

	d, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, d.Lines, 3)

	host, bg, next := d.Lines[0], d.Lines[1], d.Lines[2]
	assert.True(t, host.IsDuet)
	assert.False(t, host.IsBG)
	assert.Equal(t, "la la", host.TranslatedLyric)
	require.Len(t, host.Words, 3)
	assert.True(t, host.Words[1].IsBlank())

	assert.True(t, bg.IsBG)
	assert.True(t, bg.IsDuet, "la ligne de fond hérite de l'agent de l'hôte")
	require.Len(t, bg.Words, 1)
	assert.Equal(t, "ooh", bg.Words[0].Text)
	assert.Equal(t, "ouh", bg.TranslatedLyric)

	assert.False(t, next.IsDuet)
	assert.Equal(t, "solo", next.Text())
}

func TestParse_ITunesMetadata(t *testing.T) {
	doc := `<tt xmlns:amll="http://www.example.com/ns/amll" xmlns:ttm="http://www.w3.org/ns/ttml#metadata" xmlns:itunes="http://music.apple.com/lyric-ttml-internal"><head><metadata>` +
		`<amll:meta key="musicName" value="Chanson"/>` +
		`<amll:meta key="artists" value="A"/><amll:meta key="artists" value="B"/>` +
		`<iTunesMetadata xmlns="http://music.apple.com/lyric-ttml-internal">` +
		`<translations><translation xml:lang="fr"><text for="L1">Salut<span ttm:role="x-bg">(coucou)</span></text></translation></translations>` +
		`<transliterations><transliteration><text for="L1"><span begin="00:00.000" end="00:01.000">ko</span><span begin="00:01.000" end="00:02.000">re</span></text></transliteration></transliterations>` +
		`<songwriters><songwriter>Auteur</songwriter></songwriters>` +
		`</iTunesMetadata></metadata></head>` +
		`<body><div><p begin="00:00.000" end="00:02.000" itunes:key="L1">` +
		`<span begin="00:00.000" end="00:01.000">こ</span><span begin="00:01.000" end="00:02.000">れ</span>` +
		`<span ttm:role="x-bg" begin="00:01.000" end="00:02.000"><span begin="00:01.000" end="00:02.000">(bg)</span></span>` +
		`</p></div></body></tt>`

	d, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"Chanson"}, d.MetadataValues("musicName"))
	assert.Equal(t, []string{"A", "B"}, d.MetadataValues("artists"))
	assert.Equal(t, []string{"Auteur"}, d.MetadataValues("songwriter"))

	require.Len(t, d.Lines, 2)
	main := d.Lines[0]
	assert.Equal(t, "Salut", main.TranslatedLyric)
	assert.Equal(t, "ko", main.Words[0].RomanWord)
	assert.Equal(t, "re", main.Words[1].RomanWord)
	assert.Equal(t, "coucou", d.Lines[1].TranslatedLyric)
}

func sampleLyric() *lyric.Lyric {
	d := &lyric.Lyric{}
	d.AddMetadata("musicName", "Chanson")
	d.AddMetadata("artists", "A")
	d.AddMetadata("artists", "B")
	d.AddMetadata("songwriter", "Auteur")

	l1 := lyric.Line{StartTime: 1000, EndTime: 2000, TranslatedLyric: "Bonjour le monde"}
	l1.Words = []lyric.Word{word("Hello", 1000, 1500), word(" ", 0, 0), word("world", 1500, 2000)}

	bg := lyric.Line{IsBG: true, StartTime: 1600, EndTime: 1900, TranslatedLyric: "ouh"}
	bg.Words = []lyric.Word{word("ooh", 1600, 1750), word(" ", 0, 0), word("aah", 1750, 1900)}

	l2 := lyric.Line{IsDuet: true, StartTime: 2000, EndTime: 3000, RomanLyric: "sore"}
	w := word("それ", 2000, 3000)
	w.Obscene = true
	w.EmptyBeat = 2
	w.RomanWord = "sore"
	l2.Words = []lyric.Word{w, word(" ", 0, 0), word("yo", 2500, 3000)}

	// paragraphe suivant, séparé par une ligne vide
	empty := lyric.Line{}
	l3 := lyric.Line{StartTime: 5000, EndTime: 6000}
	l3.Words = []lyric.Word{word("fin", 5000, 5500), word("ale", 5500, 6000)}

	d.Lines = []lyric.Line{l1, bg, l2, empty, l3}
	return d
}

func TestWriteParse_RoundTrip(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		src := sampleLyric()
		out, err := Write(src, WriteOptions{Pretty: pretty})
		require.NoError(t, err)

		back, err := Parse(out)
		require.NoError(t, err, out)

		want := stripIDs(src)
		want.Lines = append(want.Lines[:3], want.Lines[4:]...) // la ligne vide n'est pas écrite
		assert.Equal(t, want, stripIDs(back), "pretty=%v\n%s", pretty, out)
	}
}

func TestWrite_Structure(t *testing.T) {
	out, err := Write(sampleLyric(), WriteOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, `<ttm:agent type="other" xml:id="v2"/>`)
	assert.Contains(t, out, `<songwriter>Auteur</songwriter>`)
	assert.Contains(t, out, `<amll:meta key="artists" value="B"/>`)
	assert.Contains(t, out, `<body dur="00:06.000">`)
	assert.Equal(t, 2, strings.Count(out, "<div "), "une ligne vide sépare deux paragraphes")
	assert.Contains(t, out, `itunes:key="L3"`)
	assert.NotContains(t, out, `itunes:key="L4"`)
	assert.Contains(t, out, `amll:obscene="true"`)
	assert.Contains(t, out, `amll:empty-beat="2"`)
	assert.Contains(t, out, `<span ttm:role="x-bg" begin="00:01.600" end="00:01.900">`)
	assert.Contains(t, out, `>(ooh</span>`)
	assert.Contains(t, out, `>aah)</span>`)
	assert.Contains(t, out, `<text for="L2"><span begin="00:02.000" end="00:03.000">sore</span>`)
}

func TestWrite_LineModeStaysLineMode(t *testing.T) {
	d := &lyric.Lyric{Lines: []lyric.Line{
		{StartTime: 0, EndTime: 1000, Words: []lyric.Word{word("un", 0, 1000)}},
		{StartTime: 1000, EndTime: 2000, Words: []lyric.Word{word("deux", 1000, 2000)}},
	}}
	out, err := Write(d, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, `itunes:timing="Line"`)
	assert.Contains(t, out, `itunes:key="L1">un</p>`)

	back, err := Parse(out)
	require.NoError(t, err)
	again, err := Write(back, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, again, `itunes:timing="Line"`)
	assert.Equal(t, out, again)
}

func TestDetectTimingMode(t *testing.T) {
	assert.Equal(t, TimingNone, DetectTimingMode(nil))
	assert.Equal(t, TimingNone, DetectTimingMode([]lyric.Line{{Words: []lyric.Word{word("a", 0, 0)}}}))
	assert.Equal(t, TimingLine, DetectTimingMode([]lyric.Line{{Words: []lyric.Word{word("a", 0, 10), word(" ", 0, 0)}}}))
	assert.Equal(t, TimingWord, DetectTimingMode([]lyric.Line{{Words: []lyric.Word{word("a", 0, 10), word("b", 10, 20)}}}))
}

func TestWrite_EmptyDocument(t *testing.T) {
	out, err := Write(&lyric.Lyric{}, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, `itunes:timing="None"`)
	assert.Contains(t, out, `<body dur="00:00.000"/>`)
}

package romanization

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

func words(texts ...string) []lyric.Word {
	out := make([]lyric.Word, len(texts))
	for i, t := range texts {
		out[i] = lyric.NewWord(t, int64(i*100), int64(i*100+100))
	}
	return out
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name  string
		words []lyric.Word
		roman string
		opts  Options
		want  []string
	}{
		{"particule wa", words("は"), "wa", DefaultOptions(), []string{"wa"}},
		{"particule ha", words("は"), "ha", DefaultOptions(), []string{"ha"}},
		{"mot d'un bloc", words("ぼ", "く", "ら"), "bokura", DefaultOptions(), []string{"bo", "ku", "ra"}},
		{"kanji en attente", words("好", "き"), "suki", DefaultOptions(), []string{"su", "ki"}},
		{"petit tsu", words("ま", "っ", "て"), "matte", DefaultOptions(), []string{"ma", "t", "te"}},
		{"ponctuation", words("あ", "、"), "a ,", DefaultOptions(), []string{"a", ","}},
		{"ponctuation absente", words("あ", "、", "い"), "a i", DefaultOptions(), []string{"a", "", "i"}},
		{"mot blanc", words("あ", " ", "い"), "a i", DefaultOptions(), []string{"a", "", "i"}},
		{"suffixe", words("行", "て"), "itte", Options{}, []string{"it", "te"}},
		{"suffixe refusé", words("い"), "gi", Options{}, []string{"gi"}},
		{"katakana", words("ラ", "ー", "メ", "ン"), "ra a me n", DefaultOptions(), []string{"ra", "a", "me", "n"}},
		{"pleine chasse", words("か"), "ｋａ", DefaultOptions(), []string{"ka"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PredictWith(tc.words, tc.roman, tc.opts))
		})
	}
}

func TestPredict_EmptyBeatReservesTokens(t *testing.T) {
	ws := words("空", "は")
	ws[0].EmptyBeat = 1
	// "ha" arrive trop tôt : le kanji réclame deux jetons
	assert.Equal(t, []string{"ha ku", "wa"}, Predict(ws, "ha ku wa"))
}

func TestPredict_Fallback(t *testing.T) {
	got := Predict(words("こ", "好", "!", "きゃ", " "), "")
	assert.Equal(t, []string{"ko", "", "", "kya", ""}, got)
}

func TestPredict_LeadingTokensAreKept(t *testing.T) {
	assert.Equal(t, []string{"x a"}, Predict(words("あ"), "x a"))
	assert.Equal(t, []string{"a", "i y"}, Predict(words("あ", "い"), "a i y"))
}

// chars retourne les caractères non blancs, triés.
func chars(parts []string) string {
	s := strings.Join(parts, "")
	s = strings.Join(strings.Fields(s), "")
	r := []rune(s)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}

func TestPredict_TokenConservation(t *testing.T) {
	cases := []struct {
		words []string
		roman string
	}{
		{[]string{"君", "の", "名", "は"}, "kimi no na wa"},
		{[]string{"夢", "を", "見", "て", "い", "た"}, "yume wo mite ita"},
		{[]string{"さ", "よ", "う", "な", "ら"}, "sayounara"},
		{[]string{"愛", "し", "て", "る", "、", "ずっ", "と"}, "aishiteru , zutto"},
		{[]string{"あ"}, "extra tokens here a"},
		{[]string{"空", "っ", "ぽ"}, "karappo"},
		{[]string{"Hello", " ", "世界"}, "hello sekai"},
	}
	for _, tc := range cases {
		ws := words(tc.words...)
		got := Predict(ws, tc.roman)
		require.Len(t, got, len(ws))
		assert.Equal(t, chars(Tokenize(tc.roman, true)), chars(got), "%v / %q → %q", tc.words, tc.roman, got)
	}
}

func TestSplitRomajiChunk(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"bokura", []string{"bo", "ku", "ra"}},
		{"matte", []string{"ma", "t", "te"}},
		{"kanji", []string{"ka", "n", "ji"}},
		{"konnichiwa", []string{"ko", "n", "ni", "chi", "wa"}},
		{"kyou", []string{"kyo", "u"}},
		{"ka", nil},
		{"shh", nil},
		{"da」", nil},
		{"", nil},
		{"Sakura", []string{"Sa", "ku", "ra"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SplitRomajiChunk(tc.in), tc.in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"su", "ki", "da", "yo"}, Tokenize("  suki\tda  yo ", true))
	assert.Equal(t, []string{"suki", "da", "yo"}, Tokenize("suki da yo", false))
	assert.Empty(t, Tokenize("   ", true))
}

func TestToRomaji(t *testing.T) {
	tests := map[string]string{
		"こんにちは": "konnichiha",
		"きゃく":   "kyaku",
		"まって":   "matte",
		"まっちゃ":  "matcha",
		"ラーメン":  "raamen",
		"ファン":   "fan",
		"しんじゅく": "shinjuku",
		"を":     "wo",
		"愛して":   "愛shite",
		"ね、":    "ne,",
		"っ":     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToRomaji(in), in)
	}
}

func TestKanaPredicates(t *testing.T) {
	assert.True(t, IsKana("ひらがなカタカナー"))
	assert.False(t, IsKana("漢字"))
	assert.False(t, IsKana(""))
	assert.True(t, IsKanji("漢字々"))
	assert.False(t, IsKanji("漢じ"))
	assert.True(t, IsJapanese("漢字とかな。"))
	assert.False(t, IsJapanese("kana"))
	assert.True(t, ContainsKana("好き"))
	assert.False(t, ContainsKana("ー"))
}

func TestApplyWarnings(t *testing.T) {
	ws := words("は", "か", "き", "好", "っ", "、", "a", "ね")
	ws[0].RomanWord = "wa"
	ws[1].RomanWord = "KA "
	ws[2].RomanWord = "ku"
	ws[3].RomanWord = ""
	ws[4].RomanWord = ""
	ws[7].RomanWord = ""
	ApplyWarnings(ws)

	got := make([]bool, len(ws))
	for i, w := range ws {
		got[i] = w.RomanWarning
	}
	assert.Equal(t, []bool{false, false, true, false, false, false, false, true}, got)
}

func TestApplyToLine(t *testing.T) {
	line := lyric.NewLine()
	line.RomanLyric = "bo ku ra"
	line.Words = words("ぼ", "く", "ら")
	line.Words[2].RomanWord = "la"

	got := ApplyToLine(line, DefaultOptions(), true)
	assert.Equal(t, "bo", got.Words[0].RomanWord)
	assert.Equal(t, "ku", got.Words[1].RomanWord)
	assert.Equal(t, "la", got.Words[2].RomanWord)
	assert.True(t, got.Words[2].RomanWarning)
	assert.Empty(t, line.Words[0].RomanWord, "la ligne d'origine n'est pas modifiée")

	got = ApplyToLine(line, DefaultOptions(), false)
	assert.Equal(t, "ra", got.Words[2].RomanWord)
	assert.False(t, got.Words[2].RomanWarning)
}

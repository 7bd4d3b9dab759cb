package romanization

import (
	"strings"
	"unicode"
)

// Hepburn modifié, tel que le produisent la plupart des convertisseurs :
// し→shi, ち→chi, つ→tsu, ふ→fu, を→wo, ん→n.
var hiragana = map[string]string{
	"あ": "a", "い": "i", "う": "u", "え": "e", "お": "o",
	"か": "ka", "き": "ki", "く": "ku", "け": "ke", "こ": "ko",
	"が": "ga", "ぎ": "gi", "ぐ": "gu", "げ": "ge", "ご": "go",
	"さ": "sa", "し": "shi", "す": "su", "せ": "se", "そ": "so",
	"ざ": "za", "じ": "ji", "ず": "zu", "ぜ": "ze", "ぞ": "zo",
	"た": "ta", "ち": "chi", "つ": "tsu", "て": "te", "と": "to",
	"だ": "da", "ぢ": "ji", "づ": "zu", "で": "de", "ど": "do",
	"な": "na", "に": "ni", "ぬ": "nu", "ね": "ne", "の": "no",
	"は": "ha", "ひ": "hi", "ふ": "fu", "へ": "he", "ほ": "ho",
	"ば": "ba", "び": "bi", "ぶ": "bu", "べ": "be", "ぼ": "bo",
	"ぱ": "pa", "ぴ": "pi", "ぷ": "pu", "ぺ": "pe", "ぽ": "po",
	"ま": "ma", "み": "mi", "む": "mu", "め": "me", "も": "mo",
	"や": "ya", "ゆ": "yu", "よ": "yo",
	"ら": "ra", "り": "ri", "る": "ru", "れ": "re", "ろ": "ro",
	"わ": "wa", "ゐ": "wi", "ゑ": "we", "を": "wo", "ん": "n",
	"ゔ": "vu",
	// petits kana isolés
	"ぁ": "a", "ぃ": "i", "ぅ": "u", "ぇ": "e", "ぉ": "o",
	"ゃ": "ya", "ゅ": "yu", "ょ": "yo", "ゎ": "wa", "ゕ": "ka", "ゖ": "ke",

	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"しゃ": "sha", "しゅ": "shu", "しょ": "sho", "しぇ": "she",
	"じゃ": "ja", "じゅ": "ju", "じょ": "jo", "じぇ": "je",
	"ちゃ": "cha", "ちゅ": "chu", "ちょ": "cho", "ちぇ": "che",
	"ぢゃ": "ja", "ぢゅ": "ju", "ぢょ": "jo",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
	// combinaisons surtout écrites en katakana
	"ふぁ": "fa", "ふぃ": "fi", "ふぇ": "fe", "ふぉ": "fo", "ふゅ": "fyu",
	"てぃ": "ti", "でぃ": "di", "とぅ": "tu", "どぅ": "du", "でゅ": "dyu",
	"うぃ": "wi", "うぇ": "we", "うぉ": "wo",
	"ゔぁ": "va", "ゔぃ": "vi", "ゔぇ": "ve", "ゔぉ": "vo",
	"つぁ": "tsa", "つぃ": "tsi", "つぇ": "tse", "つぉ": "tso",
	"いぇ": "ye", "くぁ": "kwa",
}

var punctRomaji = map[rune]string{
	'、': ",", '。': ".", '！': "!", '？': "?", '・': " ",
	'「': "\"", '」': "\"", '『': "\"", '』': "\"",
	'（': "(", '）': ")", '〜': "~", '～': "~", '　': " ",
}

const (
	sokuonHira = 'っ'
	sokuonKata = 'ッ'
	choonpu    = 'ー'
)

// toHiragana ramène les katakana sur la plage hiragana.
func toHiragana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	return r
}

func isKanaRune(r rune) bool {
	return (r >= 0x3041 && r <= 0x3096) || (r >= 0x30A1 && r <= 0x30FA) || r == choonpu
}

// IsKana : chaîne non vide composée uniquement de kana (ー compris).
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isKanaRune(r) {
			return false
		}
	}
	return true
}

func isKanjiRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || r == '々'
}

// IsKanji : chaîne non vide composée uniquement de kanji.
func IsKanji(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isKanjiRune(r) {
			return false
		}
	}
	return true
}

func isJapaneseRune(r rune) bool {
	switch {
	case r >= 0x3000 && r <= 0x303F, // ponctuation CJK
		r >= 0x3040 && r <= 0x30FF, // kana
		r >= 0x31F0 && r <= 0x31FF, // extensions katakana
		r >= 0xFF00 && r <= 0xFFEF: // pleine et demi-chasse
		return true
	}
	return isKanjiRune(r)
}

// IsJapanese : chaîne non vide entièrement en écriture japonaise.
func IsJapanese(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isJapaneseRune(r) {
			return false
		}
	}
	return true
}

// ContainsKana indique si s contient au moins un kana.
func ContainsKana(s string) bool {
	for _, r := range s {
		if isKanaRune(r) && r != choonpu {
			return true
		}
	}
	return false
}

// ToRomaji translittère les kana de s. Les autres caractères sont recopiés,
// sauf la ponctuation japonaise courante qui passe en ASCII.
func ToRomaji(s string) string {
	runes := []rune(s)
	var b strings.Builder
	geminate := false

	for i := 0; i < len(runes); i++ {
		r := toHiragana(runes[i])

		if r == sokuonHira {
			geminate = true
			continue
		}
		if runes[i] == choonpu {
			// allonge la dernière voyelle écrite
			out := b.String()
			if n := len(out); n > 0 && strings.ContainsRune("aeiou", rune(out[n-1])) {
				b.WriteByte(out[n-1])
			} else {
				b.WriteByte('-')
			}
			continue
		}

		syl, width := "", 1
		if i+1 < len(runes) {
			if v, ok := hiragana[string([]rune{r, toHiragana(runes[i+1])})]; ok {
				syl, width = v, 2
			}
		}
		if syl == "" {
			v, ok := hiragana[string(r)]
			if !ok {
				if p, ok := punctRomaji[runes[i]]; ok {
					v = p
				} else {
					v = string(runes[i])
				}
				geminate = false
				b.WriteString(v)
				continue
			}
			syl = v
		}
		if geminate {
			geminate = false
			switch {
			case strings.HasPrefix(syl, "ch"):
				b.WriteByte('t')
			case syl != "" && !strings.ContainsRune("aeiou", rune(syl[0])) && syl != "n":
				b.WriteByte(syl[0])
			}
		}
		b.WriteString(syl)
		i += width - 1
	}
	return b.String()
}

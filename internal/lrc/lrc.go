// Package lrc importe des paroles LRC (minutées à la ligne) et du texte brut
// vers le modèle lyric.
package lrc

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

// LastLineDuration est la durée donnée à la dernière ligne, qui n'a pas de
// ligne suivante pour la borner.
const LastLineDuration = 10000

var (
	timeTag = regexp.MustCompile(`\[(\d{1,2}):(\d{1,2})(?:[.:](\d{1,3}))?\]`)
	idTag   = regexp.MustCompile(`^\[(ti|ar|al):(.*)\]$`)
	newline = regexp.MustCompile(`\r?\n`)
)

// clés de métadonnées pour les balises d'identification
var idKeys = map[string]string{
	"ti": "musicName",
	"ar": "artists",
	"al": "album",
}

type event struct {
	time int64
	text string
}

// tagTime convertit les groupes d'une balise [mm:ss.fff] en millisecondes.
// La fraction se lit comme une partie décimale : "5" vaut 500 ms, "05" 50 ms.
func tagTime(m []string) int64 {
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	var frac float64
	if m[3] != "" {
		frac, _ = strconv.ParseFloat("0."+m[3], 64)
	}
	return int64(math.Round((float64(minutes*60+seconds) + frac) * 1000))
}

func events(content string) []event {
	var out []event
	for _, raw := range newline.Split(content, -1) {
		tags := timeTag.FindAllStringSubmatch(raw, -1)
		if len(tags) == 0 {
			continue
		}
		text := strings.TrimSpace(timeTag.ReplaceAllString(raw, ""))
		for _, m := range tags {
			out = append(out, event{time: tagTime(m), text: text})
		}
	}
	// stable : l'ordre du fichier départage les horodatages égaux
	slices.SortStableFunc(out, func(a, b event) int {
		switch {
		case a.time < b.time:
			return -1
		case a.time > b.time:
			return 1
		}
		return 0
	})
	return out
}

func singleWordLine(text string, start, end int64) lyric.Line {
	l := lyric.NewLine()
	l.StartTime, l.EndTime = start, end
	l.Words = []lyric.Word{lyric.NewWord(text, start, end)}
	return l
}

// Parse lit un contenu LRC. Une ligne peut porter plusieurs balises de temps.
// Parmi les textes partageant un même horodatage, le premier est la ligne
// principale, le deuxième sa traduction, le troisième sa romanisation ; les
// suivants deviennent des lignes à part. Chaque ligne se termine au début du
// groupe suivant.
func Parse(content string) []lyric.Line {
	evs := events(content)
	var lines []lyric.Line
	for i := 0; i < len(evs); {
		at := evs[i].time
		var texts []string
		for ; i < len(evs) && evs[i].time == at; i++ {
			if evs[i].text != "" {
				texts = append(texts, evs[i].text)
			}
		}
		end := at + LastLineDuration
		if i < len(evs) {
			end = evs[i].time
		}
		if len(texts) == 0 {
			continue
		}

		primary := singleWordLine(texts[0], at, end)
		if len(texts) > 1 {
			primary.TranslatedLyric = texts[1]
		}
		if len(texts) > 2 {
			primary.RomanLyric = texts[2]
		}
		lines = append(lines, primary)
		for _, extra := range texts[min(3, len(texts)):] {
			lines = append(lines, singleWordLine(extra, at, end))
		}
	}
	return lines
}

// ParseDocument lit un contenu LRC complet : lignes et balises
// d'identification ti, ar, al.
func ParseDocument(content string) *lyric.Lyric {
	d := &lyric.Lyric{Lines: Parse(content)}
	for _, raw := range newline.Split(content, -1) {
		m := idTag.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[2]); v != "" {
			d.AddMetadata(idKeys[m[1]], v)
		}
	}
	return d
}

// ParsePlain crée une ligne non minutée d'un seul mot par ligne de texte non
// vide.
func ParsePlain(content string) []lyric.Line {
	var lines []lyric.Line
	for _, raw := range newline.Split(content, -1) {
		if text := strings.TrimSpace(raw); text != "" {
			lines = append(lines, singleWordLine(text, 0, 0))
		}
	}
	return lines
}

// LooksLikeLRC indique si le contenu porte au moins une balise de temps.
func LooksLikeLRC(content string) bool {
	return timeTag.MatchString(content)
}

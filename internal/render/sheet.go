// Package render produit des feuilles de paroles lisibles (texte, Markdown)
// à partir d'un document, via text/template.
package render

import (
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/timestamp"
)

// Sheet contient les données exposées aux templates.
type Sheet struct {
	Title       string
	Artists     []string
	Album       string
	Songwriters []string
	Lines       []SheetLine
	Warnings    []string
}

// SheetLine est une ligne prête à afficher.
type SheetLine struct {
	Start       string
	End         string
	Text        string
	Translation string
	Roman       string
	IsBG        bool
	IsDuet      bool
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// NewSheet construit les données de rendu ; les lignes sans texte sont omises.
// Les avertissements de lyric.Check sont joints.
func NewSheet(d *lyric.Lyric) Sheet {
	s := Sheet{
		Title:       first(d.MetadataValues("musicName")),
		Artists:     d.MetadataValues("artists"),
		Album:       first(d.MetadataValues("album")),
		Songwriters: d.MetadataValues("songwriters"),
	}
	for _, l := range d.Lines {
		if l.NonBlankCount() == 0 {
			continue
		}
		s.Lines = append(s.Lines, SheetLine{
			Start:       timestamp.Format(l.StartTime),
			End:         timestamp.Format(l.EndTime),
			Text:        l.Text(),
			Translation: l.TranslatedLyric,
			Roman:       l.RomanLyric,
			IsBG:        l.IsBG,
			IsDuet:      l.IsDuet,
		})
	}
	for _, w := range lyric.Check(d.Lines) {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}

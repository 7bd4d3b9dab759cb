// Package lyric définit le modèle de document des paroles synchronisées :
// mots, lignes et document TTML, ainsi que les invariants associés.
package lyric

import (
	"strings"

	"github.com/google/uuid"
)

// Word est un mot (ou fragment) chronométré. Text conserve les espaces
// significatifs tels quels.
type Word struct {
	ID        string
	Text      string
	StartTime int64
	EndTime   int64
	Obscene   bool
	// EmptyBeat compte les temps vides volontaires après le mot.
	EmptyBeat int
	RomanWord string
	// RomanWarning est dérivé, recalculé par romanization.ApplyWarnings.
	RomanWarning bool
}

// Line est une ligne de paroles. Les lignes de fond (IsBG) suivent
// immédiatement leur ligne hôte dans Lyric.Lines.
type Line struct {
	ID              string
	Words           []Word
	TranslatedLyric string
	RomanLyric      string
	IsBG            bool
	IsDuet          bool
	StartTime       int64
	EndTime         int64
	IgnoreSync      bool
}

// Metadata est une entrée multi-valuée du document.
type Metadata struct {
	Key    string
	Values []string
}

// Lyric est le document complet : métadonnées ordonnées et lignes à plat.
type Lyric struct {
	Metadata []Metadata
	Lines    []Line
}

// NewID génère un identifiant opaque, jamais sérialisé.
func NewID() string {
	return uuid.NewString()
}

// NewWord construit un mot avec un identifiant neuf.
func NewWord(text string, start, end int64) Word {
	return Word{ID: NewID(), Text: text, StartTime: start, EndTime: end}
}

// NewLine construit une ligne vide avec un identifiant neuf.
func NewLine() Line {
	return Line{ID: NewID()}
}

// IsBlank indique si le mot ne contient que des espaces.
func (w Word) IsBlank() bool {
	return strings.TrimSpace(w.Text) == ""
}

// Duration retourne EndTime-StartTime (peut être négatif sur des données invalides).
func (w Word) Duration() int64 {
	return w.EndTime - w.StartTime
}

// NonBlankCount compte les mots non vides de la ligne.
func (l Line) NonBlankCount() int {
	n := 0
	for _, w := range l.Words {
		if !w.IsBlank() {
			n++
		}
	}
	return n
}

// Text concatène le texte des mots.
func (l Line) Text() string {
	var b strings.Builder
	for _, w := range l.Words {
		b.WriteString(w.Text)
	}
	return b.String()
}

// WordIndex retourne l'index du mot id, ou -1.
func (l Line) WordIndex(id string) int {
	for i, w := range l.Words {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// Clone copie la ligne en profondeur (les mots ne sont pas partagés).
func (l Line) Clone() Line {
	out := l
	out.Words = append([]Word(nil), l.Words...)
	return out
}

// Envelope calcule min(start)/max(end) des mots non vides.
// ok vaut false si la ligne n'a aucun mot non vide.
func (l Line) Envelope() (start, end int64, ok bool) {
	for _, w := range l.Words {
		if w.IsBlank() {
			continue
		}
		if !ok {
			start, end, ok = w.StartTime, w.EndTime, true
			continue
		}
		start = min(start, w.StartTime)
		end = max(end, w.EndTime)
	}
	return start, end, ok
}

// NormalizeTime aligne les bornes de la ligne sur le premier et le dernier mot
// quand ceux-ci portent un temps non nul.
func (l *Line) NormalizeTime() {
	if len(l.Words) == 0 {
		return
	}
	if s := l.Words[0].StartTime; s != 0 {
		l.StartTime = s
	}
	if e := l.Words[len(l.Words)-1].EndTime; e != 0 {
		l.EndTime = e
	}
}

// Clone copie le document en profondeur.
func (d *Lyric) Clone() *Lyric {
	if d == nil {
		return nil
	}
	out := &Lyric{
		Metadata: make([]Metadata, len(d.Metadata)),
		Lines:    make([]Line, len(d.Lines)),
	}
	for i, m := range d.Metadata {
		out.Metadata[i] = Metadata{Key: m.Key, Values: append([]string(nil), m.Values...)}
	}
	for i, l := range d.Lines {
		out.Lines[i] = l.Clone()
	}
	return out
}

// AddMetadata ajoute value sous key, en regroupant les valeurs d'une même clé.
func (d *Lyric) AddMetadata(key, value string) {
	for i := range d.Metadata {
		if d.Metadata[i].Key == key {
			d.Metadata[i].Values = append(d.Metadata[i].Values, value)
			return
		}
	}
	d.Metadata = append(d.Metadata, Metadata{Key: key, Values: []string{value}})
}

// MetadataValues retourne les valeurs de key (nil si absente).
func (d *Lyric) MetadataValues(key string) []string {
	for _, m := range d.Metadata {
		if m.Key == key {
			return m.Values
		}
	}
	return nil
}

// LineIndex retourne l'index de la ligne id, ou -1.
func (d *Lyric) LineIndex(id string) int {
	for i, l := range d.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceLine remplace sur place la ligne portant le même ID.
// Retourne false si aucune ligne ne correspond.
func (d *Lyric) ReplaceLine(line Line) bool {
	i := d.LineIndex(line.ID)
	if i < 0 {
		return false
	}
	d.Lines[i] = line.Clone()
	return true
}

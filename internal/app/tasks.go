package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/patrickprogramme/ttmlscribe/internal/assets"
	"github.com/patrickprogramme/ttmlscribe/internal/bootstrap"
	"github.com/patrickprogramme/ttmlscribe/internal/config"
	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/internal/lrclib"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/romanization"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
	"github.com/patrickprogramme/ttmlscribe/internal/timeline"
)

// ErrWarnings : le document est lisible mais la vérification a trouvé des
// points à corriger.
var ErrWarnings = errors.New("le document contient des avertissements")

// ConvertOptions règle la commande convert.
type ConvertOptions struct {
	// ExtractBG sort le texte entre parenthèses vers des lignes de fond.
	ExtractBG bool
}

// Convert lit src et l'écrit tel quel dans le format de tgt.
func (a *App) Convert(ctx context.Context, src Source, tgt Target, opts ConvertOptions) (string, error) {
	d, base, err := a.Load(ctx, src)
	if err != nil {
		return "", err
	}
	if opts.ExtractBG {
		extractBG(d)
	}
	return a.Save(ctx, d, tgt, base)
}

func extractBG(d *lyric.Lyric) {
	out := make([]lyric.Line, 0, len(d.Lines))
	for _, line := range d.Lines {
		if line.IsBG {
			out = append(out, line)
			continue
		}
		out = append(out, lyric.ExtractParenthesesToBG(line)...)
	}
	d.Lines = out
	lyric.EnsureBGOrder(d.Lines)
}

// SegmentOptions surcharge la section segmentation pour un appel.
// Les pointeurs nil gardent la valeur de la config.
type SegmentOptions struct {
	Language     string
	Mode         string
	SplitCJK     *bool
	SplitEnglish *bool
	// NoWait n'attend pas les motifs de césure : s'ils ne sont pas encore en
	// mémoire, les mots latins restent entiers et le chargement continue en
	// arrière-plan (le cache disque servira au prochain appel).
	NoWait bool
}

func (a *App) segmentationConfig(ctx context.Context, opts SegmentOptions) (segmentation.Config, error) {
	s := a.cfg.Segmentation
	if opts.Language != "" {
		s.Language = opts.Language
	}
	if opts.Mode != "" {
		s.PunctuationMode = opts.Mode
	}
	if opts.SplitCJK != nil {
		s.SplitCJK = *opts.SplitCJK
	}
	if opts.SplitEnglish != nil {
		s.SplitEnglish = *opts.SplitEnglish
	}

	var h segmentation.HyphenatorFunc
	if s.Language != "" && opts.NoWait {
		var ok bool
		if h, ok = a.hyphens.Get(s.Language); !ok {
			a.log.Info().Str("lang", s.Language).Msg("césure pas encore chargée, mots latins laissés entiers")
		}
	} else if s.Language != "" {
		var err error
		h, err = a.hyphens.Load(ctx, s.Language)
		if err != nil {
			// la découpe CJK et les règles restent utilisables sans césure
			a.ui.PrintError(ctx, fmt.Sprintf("warning: césure %q indisponible: %v", s.Language, err))
			h = nil
		}
	}

	cfg := *a.cfg
	cfg.Segmentation = s
	sc, err := cfg.SegmentationConfig(h)
	if err != nil {
		return sc, fmt.Errorf("règles de segmentation: %w", err)
	}
	if sc.PunctuationMode != segmentation.PunctuationMerge && sc.PunctuationMode != segmentation.PunctuationStandalone {
		return sc, fmt.Errorf("mode de ponctuation inconnu: %q", sc.PunctuationMode)
	}
	return sc, nil
}

// Segment découpe les mots de chaque ligne et écrit le résultat.
func (a *App) Segment(ctx context.Context, src Source, tgt Target, opts SegmentOptions) (string, error) {
	d, base, err := a.Load(ctx, src)
	if err != nil {
		return "", err
	}
	sc, err := a.segmentationConfig(ctx, opts)
	if err != nil {
		return "", err
	}

	before := countWords(d.Lines)
	d.Lines = segmentation.SegmentLines(d.Lines, sc)
	a.log.Info().Int("before", before).Int("after", countWords(d.Lines)).Msg("segmentation terminée")
	return a.Save(ctx, d, tgt, base)
}

func countWords(lines []lyric.Line) int {
	n := 0
	for _, l := range lines {
		n += len(l.Words)
	}
	return n
}

// Romanize répartit la romanisation de ligne sur les mots. Seules les lignes
// qui ont une romanisation sont touchées.
func (a *App) Romanize(ctx context.Context, src Source, tgt Target) (string, error) {
	d, base, err := a.Load(ctx, src)
	if err != nil {
		return "", err
	}
	n := romanize(d, a.cfg.RomanizationOptions(), !a.cfg.Romanization.OverwriteExisting)
	if n == 0 {
		a.ui.PrintInfo(ctx, "Aucune ligne ne porte de romanisation.")
	}
	a.log.Info().Int("lines", n).Msg("romanisation répartie")
	return a.Save(ctx, d, tgt, base)
}

func romanize(d *lyric.Lyric, opts romanization.Options, keep bool) int {
	n := 0
	for i, line := range d.Lines {
		if line.RomanLyric == "" {
			continue
		}
		d.Lines[i] = romanization.ApplyToLine(line, opts, keep)
		n++
	}
	return n
}

// Check retourne les avertissements du document, romanisation comprise.
// ErrWarnings est renvoyée dès qu'il y en a au moins un.
func (a *App) Check(ctx context.Context, src Source) ([]string, error) {
	d, _, err := a.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	out := checkDocument(d)
	if len(out) > 0 {
		a.ui.PrintList(ctx, "Avertissements", out)
		return out, ErrWarnings
	}
	a.ui.PrintInfo(ctx, "Aucun avertissement.")
	return nil, nil
}

func checkDocument(d *lyric.Lyric) []string {
	var out []string
	for _, w := range lyric.Check(d.Lines) {
		out = append(out, w.String())
	}
	for i, line := range d.Lines {
		words := make([]lyric.Word, len(line.Words))
		copy(words, line.Words)
		romanization.ApplyWarnings(words)
		for j, w := range words {
			if !w.RomanWarning || (line.RomanLyric == "" && w.RomanWord == "") {
				continue
			}
			out = append(out, lyric.Warning{
				Line:    i + 1,
				Word:    j + 1,
				Message: fmt.Sprintf("romanisation %q à vérifier pour %q", w.RomanWord, w.Text),
			}.String())
		}
	}
	return out
}

// Shift décale tout le document de delta millisecondes. Une ligne ne
// commence jamais avant 0.
func (a *App) Shift(ctx context.Context, src Source, tgt Target, delta int64) (string, error) {
	d, base, err := a.Load(ctx, src)
	if err != nil {
		return "", err
	}
	timeline.ShiftDocument(d, delta)
	a.log.Info().Int64("delta_ms", delta).Int("lines", len(d.Lines)).Msg("document décalé")
	return a.Save(ctx, d, tgt, base)
}

// FetchQuery identifie une piste sur LRCLIB.
type FetchQuery struct {
	Track    string
	Artist   string
	Album    string
	Duration int // secondes, 0 = inconnue
}

// Fetch télécharge les paroles d'une piste et les écrit.
func (a *App) Fetch(ctx context.Context, q FetchQuery, tgt Target) (string, error) {
	if q.Track == "" || q.Artist == "" {
		return "", errors.New("fetch: titre et artiste requis")
	}
	t, err := a.lrclib.Get(ctx, q.Track, q.Artist, q.Album, q.Duration)
	if errors.Is(err, lrclib.ErrNotFound) {
		return "", fmt.Errorf("aucunes paroles pour %q de %s: %w", q.Track, q.Artist, err)
	}
	if err != nil {
		return "", err
	}
	if t.Instrumental {
		a.ui.PrintInfo(ctx, "Piste instrumentale : le document sera vide.")
	}

	d := t.ToLyric()
	lyric.EnsureBGOrder(d.Lines)
	base := fsutil.SanitizeFilename(t.ArtistName + " - " + t.Title())
	return a.Save(ctx, d, tgt, base)
}

// Init exporte la config et les templates par défaut dans dir. Sans force,
// les fichiers existants ne sont jamais touchés ; avec force, les templates
// modifiés sont sauvegardés puis remplacés.
func Init(dir string, force bool) (map[string]string, error) {
	cfgPath := filepath.Join(dir, config.DefaultFileName)
	if err := bootstrap.EnsureConfigPresent(cfgPath, assets.Embedded, assets.DefaultConfigAsset); err != nil {
		return nil, err
	}
	tplDir := filepath.Join(dir, assets.TemplatesDir)
	if !force {
		if err := bootstrap.EnsureTemplatesPresent(tplDir, assets.Embedded, assets.DefaultTemplatePaths); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return bootstrap.ExportDefaults(assets.Embedded, assets.TemplatesDir, tplDir, true)
}

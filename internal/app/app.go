package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/patrickprogramme/ttmlscribe/internal/clipboard"
	"github.com/patrickprogramme/ttmlscribe/internal/config"
	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/internal/hyphen"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/lrc"
	"github.com/patrickprogramme/ttmlscribe/internal/lrclib"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
	"github.com/patrickprogramme/ttmlscribe/internal/render"
	"github.com/patrickprogramme/ttmlscribe/internal/ttml"
	"github.com/patrickprogramme/ttmlscribe/internal/ui"
	"github.com/patrickprogramme/ttmlscribe/pkg/model"
)

// StdStream désigne stdin en entrée et stdout en sortie.
const StdStream = "-"

const defaultBaseName = "lyrics"

// Source décrit d'où lire le document.
type Source struct {
	Path          string // fichier, ou "-" pour stdin
	FromClipboard bool
	Format        string // force le format d'entrée ; vide = deviné
}

// Target décrit où écrire le résultat.
type Target struct {
	Path   string // fichier, "-" pour stdout, vide = output.dir + nom dérivé
	Format string // ttml, txt ou md ; vide = déduit du chemin puis output.format
	Copy   bool   // copie aussi le résultat dans le presse-papier
}

// App orchestre les différentes dépendances (config, UI, rendu, césure...).
type App struct {
	cfg      *config.Config
	ui       ui.Interface
	renderer *render.Renderer
	hyphens  *hyphen.Provider
	lrclib   *lrclib.Client
	log      zerolog.Logger

	stdin  io.Reader
	stdout io.Writer

	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

// New construit l'application avec les dépendances par défaut.
// renderer nil = templates embarqués.
func New(cfg *config.Config, uiClient ui.Interface, renderer *render.Renderer) *App {
	if renderer == nil {
		renderer = render.Default()
	}
	return &App{
		cfg:            cfg,
		ui:             uiClient,
		renderer:       renderer,
		hyphens:        hyphen.NewProvider(cfg.HyphenOptions()),
		lrclib:         lrclib.NewClient(cfg.LRCLIB.BaseURL, cfg.LRCLIB.Timeout),
		log:            logging.WithComponent("app"),
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
	}
}

// WithLRCLIB remplace le client LRCLIB (tests, instance privée).
func (a *App) WithLRCLIB(c *lrclib.Client) *App {
	a.lrclib = c
	return a
}

// WithStreams remplace stdin/stdout (tests, pipes).
func (a *App) WithStreams(in io.Reader, out io.Writer) *App {
	a.stdin, a.stdout = in, out
	return a
}

func (a *App) readSource(src Source) (string, error) {
	switch {
	case src.FromClipboard:
		s, err := a.readClipboard()
		if err != nil {
			return "", fmt.Errorf("lecture du presse-papier: %w", err)
		}
		return s, nil
	case src.Path == "" || src.Path == StdStream:
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("lecture de stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(src.Path)
		if err != nil {
			return "", fmt.Errorf("lecture de %s: %w", src.Path, err)
		}
		return string(b), nil
	}
}

// sniff devine le format d'un contenu sans extension.
func sniff(content string) model.Format {
	t := strings.TrimSpace(strings.TrimPrefix(content, "\ufeff"))
	switch {
	case strings.HasPrefix(t, "<"):
		return model.FormatTTML
	case lrc.LooksLikeLRC(t):
		return model.FormatLRC
	default:
		return model.FormatTXT
	}
}

func inputFormat(src Source, content string) (model.Format, error) {
	if src.Format != "" {
		return model.ParseFormat(src.Format)
	}
	if !src.FromClipboard {
		if f, ok := model.FormatFromPath(src.Path); ok {
			return f, nil
		}
	}
	return sniff(content), nil
}

// Load lit et analyse le document source. baseName sert à nommer la sortie
// quand aucun chemin n'est donné.
func (a *App) Load(ctx context.Context, src Source) (d *lyric.Lyric, baseName string, err error) {
	content, err := a.readSource(src)
	if err != nil {
		return nil, "", err
	}
	f, err := inputFormat(src, content)
	if err != nil {
		return nil, "", err
	}

	switch f {
	case model.FormatTTML:
		d, err = ttml.Parse(content)
		if err != nil {
			return nil, "", err
		}
	case model.FormatLRC:
		d = lrc.ParseDocument(content)
	case model.FormatTXT:
		d = &lyric.Lyric{Lines: lrc.ParsePlain(content)}
	default:
		return nil, "", fmt.Errorf("le format %s ne peut pas être importé", f)
	}
	a.log.Debug().Str("format", f.String()).Int("lines", len(d.Lines)).Msg("document chargé")
	return d, baseNameFor(src, d), nil
}

func baseNameFor(src Source, d *lyric.Lyric) string {
	if !src.FromClipboard && src.Path != "" && src.Path != StdStream {
		base := filepath.Base(src.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	if titles := d.MetadataValues("musicName"); len(titles) > 0 {
		return fsutil.SanitizeFilename(titles[0])
	}
	return defaultBaseName
}

func (a *App) outputFormat(tgt Target) (model.Format, error) {
	if tgt.Format != "" {
		return model.ParseFormat(tgt.Format)
	}
	if tgt.Path != "" && tgt.Path != StdStream {
		if f, ok := model.FormatFromPath(tgt.Path); ok {
			return f, nil
		}
	}
	return model.ParseFormat(a.cfg.Output.Format)
}

// Encode produit le contenu du document dans le format f.
func (a *App) Encode(d *lyric.Lyric, f model.Format) ([]byte, error) {
	switch {
	case f == model.FormatTTML:
		s, err := ttml.Write(d, a.cfg.WriteOptions())
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case f.IsTextual():
		return a.renderer.RenderFormat(f, render.NewSheet(d))
	default:
		return nil, fmt.Errorf("le format %s n'est pas un format de sortie", f)
	}
}

// Save écrit le document et retourne le chemin effectif ("-" pour stdout).
func (a *App) Save(ctx context.Context, d *lyric.Lyric, tgt Target, baseName string) (string, error) {
	f, err := a.outputFormat(tgt)
	if err != nil {
		return "", err
	}
	content, err := a.Encode(d, f)
	if err != nil {
		return "", err
	}

	var path string
	switch tgt.Path {
	case StdStream:
		if _, err := a.stdout.Write(content); err != nil {
			return "", fmt.Errorf("écriture sur stdout: %w", err)
		}
		path = StdStream
	case "":
		if baseName == "" {
			baseName = defaultBaseName
		}
		path, err = fsutil.SaveAtomic(a.cfg.Output.Dir, baseName, f.Extension(), content, a.cfg.Output.Overwrite)
		if err != nil {
			return "", fmt.Errorf("sauvegarde: %w", err)
		}
	default:
		if err := fsutil.WriteFileAtomic(tgt.Path, content, 0o644); err != nil {
			return "", fmt.Errorf("sauvegarde: %w", err)
		}
		path = tgt.Path
	}

	if tgt.Copy {
		// non fatal : le fichier est déjà écrit
		if err := a.writeClipboard(string(content)); err != nil {
			a.ui.PrintError(ctx, fmt.Sprintf("warning: copie dans le presse-papier impossible: %v", err))
		} else {
			a.ui.PrintInfo(ctx, "Résultat copié dans le presse-papier.")
		}
	}
	a.log.Debug().Str("path", path).Str("format", f.String()).Int("bytes", len(content)).Msg("document écrit")
	return path, nil
}

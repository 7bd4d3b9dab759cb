// Package hyphen fournit les césureurs par langue utilisés pour découper les
// mots latins en syllabes. Les motifs TeX sont chargés à la demande (dossier
// local, cache disque puis téléchargement) et gardés en mémoire.
package hyphen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/speedata/hyphenation"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/patrickprogramme/ttmlscribe/internal/fetch"
	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
)

// DefaultPatternsURL pointe vers les motifs hyph-utf8 ; %s est le code du fichier.
const DefaultPatternsURL = "https://raw.githubusercontent.com/hyphenation/tex-hyphen/master/hyph-utf8/tex/generic/hyph-utf8/patterns/txt/hyph-%s.pat.txt"

// ErrUnsupportedLanguage est renvoyée pour une langue absente de Languages.
var ErrUnsupportedLanguage = errors.New("hyphen: langue non supportée")

// Languages associe les langues proposées à leur fichier de motifs.
var Languages = map[string]string{
	"en-us": "en-us",
	"de":    "de-1996",
	"fr":    "fr",
	"es":    "es",
	"it":    "it",
	"pt":    "pt",
	"ru":    "ru",
}

// SupportedLanguages retourne les codes acceptés, triés.
func SupportedLanguages() []string {
	out := make([]string, 0, len(Languages))
	for k := range Languages {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Options configure un Provider. Les champs vides prennent une valeur par défaut.
type Options struct {
	// PatternsDir contient des fichiers hyph-<code>.pat.txt fournis par l'utilisateur.
	PatternsDir string
	// CacheDir reçoit les motifs téléchargés.
	CacheDir    string
	PatternsURL string
	Timeout     time.Duration
}

// Provider charge et garde les césureurs. Sûr pour un usage concurrent.
type Provider struct {
	opts  Options
	group singleflight.Group
	log   zerolog.Logger

	mu    sync.RWMutex
	langs map[string]*hyphenation.Lang
}

func NewProvider(opts Options) *Provider {
	if opts.PatternsURL == "" {
		opts.PatternsURL = DefaultPatternsURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	return &Provider{
		opts:  opts,
		log:   logging.WithComponent("hyphen"),
		langs: map[string]*hyphenation.Lang{},
	}
}

func (p *Provider) cached(lang string) (*hyphenation.Lang, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	l, ok := p.langs[lang]
	return l, ok
}

// Get retourne le césureur s'il est déjà chargé. Sinon il lance le chargement
// en arrière-plan et retourne false : l'appelant ne découpe pas ce mot-là.
func (p *Provider) Get(lang string) (segmentation.HyphenatorFunc, bool) {
	if l, ok := p.cached(lang); ok {
		return hyphenator(l), true
	}
	if _, ok := Languages[lang]; !ok {
		return nil, false
	}
	go func() {
		if _, err := p.Load(context.Background(), lang); err != nil {
			p.log.Warn().Err(err).Str("lang", lang).Msg("chargement des motifs échoué")
		}
	}()
	return nil, false
}

// Load charge la langue et attend le résultat. Les appels simultanés pour
// une même langue partagent un seul chargement.
func (p *Provider) Load(ctx context.Context, lang string) (segmentation.HyphenatorFunc, error) {
	if l, ok := p.cached(lang); ok {
		return hyphenator(l), nil
	}
	code, ok := Languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	v, err, _ := p.group.Do(lang, func() (any, error) {
		if l, ok := p.cached(lang); ok {
			return l, nil
		}
		data, err := p.patterns(ctx, code)
		if err != nil {
			return nil, err
		}
		l, err := hyphenation.New(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("hyphen: motifs %s invalides: %w", code, err)
		}
		p.mu.Lock()
		p.langs[lang] = l
		p.mu.Unlock()
		p.log.Debug().Str("lang", lang).Msg("motifs chargés")
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return hyphenator(v.(*hyphenation.Lang)), nil
}

// Preload charge plusieurs langues en parallèle.
func (p *Provider) Preload(ctx context.Context, langs ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range langs {
		lang := lang
		g.Go(func() error {
			_, err := p.Load(gctx, lang)
			return err
		})
	}
	return g.Wait()
}

func fileName(code string) string {
	return "hyph-" + code + ".pat.txt"
}

// patterns cherche les motifs dans PatternsDir, puis CacheDir, puis en ligne.
// Un téléchargement réussi est écrit dans CacheDir.
func (p *Provider) patterns(ctx context.Context, code string) ([]byte, error) {
	for _, dir := range []string{p.opts.PatternsDir, p.opts.CacheDir} {
		if dir == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, fileName(code)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("hyphen: lecture motifs: %w", err)
		}
	}

	data, err := fetch.FetchBytesWithTimeout(ctx, fmt.Sprintf(p.opts.PatternsURL, code), p.opts.Timeout, 0)
	if err != nil {
		return nil, fmt.Errorf("hyphen: téléchargement %s: %w", code, err)
	}
	if p.opts.CacheDir != "" {
		if err := fsutil.WriteFileAtomic(filepath.Join(p.opts.CacheDir, fileName(code)), data, 0o644); err != nil {
			p.log.Warn().Err(err).Str("code", code).Msg("cache des motifs non écrit")
		}
	}
	return data, nil
}

func hyphenator(l *hyphenation.Lang) segmentation.HyphenatorFunc {
	return func(word string) string {
		return Hyphenate(l, word)
	}
}

// Hyphenate insère un trait d'union conditionnel à chaque point de coupure.
// Les positions hors du mot sont ignorées.
func Hyphenate(l *hyphenation.Lang, word string) string {
	runes := []rune(word)
	if len(runes) < 2 {
		return word
	}
	breaks := map[int]bool{}
	for _, pos := range l.Hyphenate(word) {
		if pos > 0 && pos < len(runes) {
			breaks[pos] = true
		}
	}
	if len(breaks) == 0 {
		return word
	}
	var b strings.Builder
	for i, r := range runes {
		if breaks[i] {
			b.WriteString(segmentation.SoftHyphen)
		}
		b.WriteRune(r)
	}
	return b.String()
}

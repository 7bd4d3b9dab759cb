package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/patrickprogramme/ttmlscribe/internal/fetch"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/lrclib"
	"github.com/patrickprogramme/ttmlscribe/internal/ttml"
)

const (
	CurrentConfigVersion = 1
	DefaultFileName      = "ttmlscribe.yaml"
)

// Output : où et comment écrire les documents produits.
type Output struct {
	Dir             string `yaml:"dir" env:"TTMLSCRIBE_OUTPUT_DIR"`
	Pretty          bool   `yaml:"pretty" env:"TTMLSCRIBE_OUTPUT_PRETTY"`
	Overwrite       bool   `yaml:"overwrite" env:"TTMLSCRIBE_OUTPUT_OVERWRITE"`
	Format          string `yaml:"format" env:"TTMLSCRIBE_OUTPUT_FORMAT"`
	TranslationLang string `yaml:"translation_lang" env:"TTMLSCRIBE_OUTPUT_TRANSLATION_LANG"`
}

// Segmentation reprend segmentation.Config en version sérialisable.
type Segmentation struct {
	SplitCJK               bool                `yaml:"split_cjk" env:"TTMLSCRIBE_SPLIT_CJK"`
	SplitEnglish           bool                `yaml:"split_english" env:"TTMLSCRIBE_SPLIT_ENGLISH"`
	Language               string              `yaml:"language" env:"TTMLSCRIBE_LANGUAGE"`
	PunctuationMode        string              `yaml:"punctuation_mode" env:"TTMLSCRIBE_PUNCTUATION_MODE"`
	PunctuationWeight      float64             `yaml:"punctuation_weight" env:"TTMLSCRIBE_PUNCTUATION_WEIGHT"`
	RemoveEmptySegments    bool                `yaml:"remove_empty_segments"`
	ResetQuoteStatePerLine bool                `yaml:"reset_quote_state_per_line"`
	IgnoreList             []string            `yaml:"ignore_list"`
	CustomRules            map[string][]string `yaml:"custom_rules"`
	RulesFile              string              `yaml:"rules_file" env:"TTMLSCRIBE_RULES_FILE"`
}

type Hyphenation struct {
	PatternsDir string        `yaml:"patterns_dir" env:"TTMLSCRIBE_PATTERNS_DIR"`
	PatternsURL string        `yaml:"patterns_url" env:"TTMLSCRIBE_PATTERNS_URL"`
	CacheDir    string        `yaml:"cache_dir" env:"TTMLSCRIBE_CACHE_DIR"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Romanization struct {
	AggressiveSplit   bool `yaml:"aggressive_split"`
	OverwriteExisting bool `yaml:"overwrite_existing"`
}

type LRCLIB struct {
	BaseURL string        `yaml:"base_url" env:"TTMLSCRIBE_LRCLIB_URL"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config regroupe les sections du fichier ttmlscribe.yaml.
type Config struct {
	Output       Output         `yaml:"output"`
	Segmentation Segmentation   `yaml:"segmentation"`
	Hyphenation  Hyphenation    `yaml:"hyphenation"`
	Romanization Romanization   `yaml:"romanization"`
	LRCLIB       LRCLIB         `yaml:"lrclib"`
	Log          logging.Config `yaml:"log"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut, identique à l'asset embarqué.
func defaultConfig() *Config {
	c := &Config{}

	c.Output.Dir = "."
	c.Output.Format = "ttml"
	c.Output.TranslationLang = ttml.DefaultTranslationLang

	c.Segmentation.SplitCJK = true
	c.Segmentation.SplitEnglish = true
	c.Segmentation.PunctuationMode = "merge"
	c.Segmentation.PunctuationWeight = 0.2
	c.Segmentation.RemoveEmptySegments = true
	c.Segmentation.ResetQuoteStatePerLine = true

	c.Hyphenation.Timeout = fetch.DefaultTimeout

	c.Romanization.AggressiveSplit = true

	c.LRCLIB.BaseURL = lrclib.DefaultBaseURL
	c.LRCLIB.Timeout = fetch.DefaultTimeout

	c.Log = logging.DefaultConfig()

	c.ConfigVersion = CurrentConfigVersion
	return c
}

// Default retourne la configuration par défaut, surchargée par l'environnement.
func Default() (*Config, error) {
	cfg := defaultConfig()
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("lecture des variables d'environnement : %w", err)
	}
	cfg.normalizeConfig()
	return cfg, nil
}

// Load lit la config : valeurs par défaut, puis fichier YAML, puis variables
// d'environnement TTMLSCRIBE_*. Un fichier absent n'est pas une erreur.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	cfg := defaultConfig()
	// les fichiers sans config_version datent d'avant le versionnage
	cfg.ConfigVersion = 0

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path
	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
	}

	// l'environnement s'applique en dernier et n'est jamais réécrit dans le fichier
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("lecture des variables d'environnement : %w", err)
	}
	cfg.normalizeConfig()
	return cfg, nil
}

// Path retourne le fichier d'où provient la config ("" pour les défauts).
func (c *Config) Path() string { return c.configFilePath }

func (c *Config) normalizeConfig() {
	c.Output.Dir = filepath.Clean(c.Output.Dir)
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = "ttml"
	}
	if strings.TrimSpace(c.Output.TranslationLang) == "" {
		c.Output.TranslationLang = ttml.DefaultTranslationLang
	}

	s := &c.Segmentation
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
	s.PunctuationMode = strings.ToLower(strings.TrimSpace(s.PunctuationMode))
	if s.PunctuationMode == "" {
		s.PunctuationMode = "merge"
	}
	if s.PunctuationWeight < 0 {
		s.PunctuationWeight = 0
	}
	if s.RulesFile != "" {
		s.RulesFile = filepath.Clean(s.RulesFile)
	}

	if c.Hyphenation.Timeout <= 0 {
		c.Hyphenation.Timeout = fetch.DefaultTimeout
	}
	if c.LRCLIB.Timeout <= 0 {
		c.LRCLIB.Timeout = fetch.DefaultTimeout
	}
	if strings.TrimSpace(c.LRCLIB.BaseURL) == "" {
		c.LRCLIB.BaseURL = lrclib.DefaultBaseURL
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

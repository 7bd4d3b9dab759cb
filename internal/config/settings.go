package config

import (
	"os"
	"path/filepath"

	"github.com/patrickprogramme/ttmlscribe/internal/hyphen"
	"github.com/patrickprogramme/ttmlscribe/internal/romanization"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
	"github.com/patrickprogramme/ttmlscribe/internal/ttml"
)

// SegmentationConfig traduit la section segmentation. Le fichier de règles,
// s'il est défini, complète ignore_list et custom_rules.
func (c *Config) SegmentationConfig(h segmentation.HyphenatorFunc) (segmentation.Config, error) {
	s := c.Segmentation
	out := segmentation.Config{
		SplitCJK:            s.SplitCJK,
		SplitEnglish:        s.SplitEnglish,
		PunctuationMode:     segmentation.PunctuationMode(s.PunctuationMode),
		PunctuationWeight:   s.PunctuationWeight,
		RemoveEmptySegments: s.RemoveEmptySegments,
		KeepQuoteState:      !s.ResetQuoteStatePerLine,
		IgnoreList:          s.IgnoreList,
		CustomRules:         s.CustomRules,
		Hyphenator:          h,
	}
	if s.RulesFile == "" {
		return out, nil
	}
	rules, err := segmentation.LoadRules(s.RulesFile)
	if err != nil {
		return out, err
	}
	return out.WithRules(rules), nil
}

// HyphenOptions traduit la section hyphenation. Sans cache_dir, les motifs
// vont dans le cache utilisateur de l'OS.
func (c *Config) HyphenOptions() hyphen.Options {
	opts := hyphen.Options{
		PatternsDir: c.Hyphenation.PatternsDir,
		CacheDir:    c.Hyphenation.CacheDir,
		PatternsURL: c.Hyphenation.PatternsURL,
		Timeout:     c.Hyphenation.Timeout,
	}
	if opts.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			opts.CacheDir = filepath.Join(dir, "ttmlscribe", "hyphen")
		}
	}
	return opts
}

func (c *Config) RomanizationOptions() romanization.Options {
	return romanization.Options{AggressiveSplit: c.Romanization.AggressiveSplit}
}

func (c *Config) WriteOptions() ttml.WriteOptions {
	return ttml.WriteOptions{Pretty: c.Output.Pretty, TranslationLang: c.Output.TranslationLang}
}

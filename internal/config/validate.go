package config

import (
	"fmt"
	"os"

	"github.com/patrickprogramme/ttmlscribe/internal/hyphen"
	"github.com/patrickprogramme/ttmlscribe/internal/segmentation"
	"github.com/patrickprogramme/ttmlscribe/pkg/model"
)

// Validate contrôle la cohérence de la config.
// Retourne des warnings (non fataux) et une erreur si c'est critique.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	f, ferr := model.ParseFormat(c.Output.Format)
	if ferr != nil {
		return warnings, fmt.Errorf("output.format : %w", ferr)
	}
	if !f.CanWrite() {
		return warnings, fmt.Errorf("output.format : %s n'est pas un format de sortie", f)
	}

	switch segmentation.PunctuationMode(c.Segmentation.PunctuationMode) {
	case segmentation.PunctuationMerge, segmentation.PunctuationStandalone:
	default:
		return warnings, fmt.Errorf("segmentation.punctuation_mode inconnu : %q", c.Segmentation.PunctuationMode)
	}

	if lang := c.Segmentation.Language; lang != "" {
		if _, ok := hyphen.Languages[lang]; !ok {
			warnings = append(warnings, fmt.Sprintf("langue de césure non supportée : %s (césure désactivée)", lang))
		}
	}

	if p := c.Segmentation.RulesFile; p != "" {
		if _, serr := os.Stat(p); serr != nil {
			warnings = append(warnings, fmt.Sprintf("fichier de règles inaccessible : %s", p))
		}
	}

	if c.Hyphenation.PatternsDir != "" {
		if st, serr := os.Stat(c.Hyphenation.PatternsDir); serr != nil || !st.IsDir() {
			warnings = append(warnings, fmt.Sprintf("dossier de motifs introuvable : %s", c.Hyphenation.PatternsDir))
		}
	}
	return warnings, nil
}

// Package segmentation découpe des mots chronométrés en fragments plus courts
// (caractère CJK, syllabe latine, règles manuelles) et répartit leur durée.
package segmentation

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// HyphenatorFunc insère des traits d'union conditionnels (U+00AD) aux points
// de coupure d'un mot.
type HyphenatorFunc func(word string) string

// SoftHyphen est le séparateur attendu dans la sortie d'un HyphenatorFunc.
const SoftHyphen = "\u00AD"

// PunctuationMode règle le sort des signes de ponctuation détachés.
type PunctuationMode string

const (
	// PunctuationMerge colle la ponctuation au fragment voisin.
	PunctuationMerge PunctuationMode = "merge"
	// PunctuationStandalone en fait un fragment à part.
	PunctuationStandalone PunctuationMode = "standalone"
)

// DefaultPunctuationWeight est la part de temps d'un signe relativement
// à un fragment moyen.
const DefaultPunctuationWeight = 0.2

// Config est passée par valeur ; la fonction ne modifie jamais ses tables.
type Config struct {
	SplitCJK            bool
	SplitEnglish        bool
	PunctuationMode     PunctuationMode
	PunctuationWeight   float64
	RemoveEmptySegments bool
	// KeepQuoteState conserve l'état des guillemets droits d'une ligne à l'autre.
	KeepQuoteState bool
	// IgnoreList : mots laissés intacts.
	IgnoreList []string
	// CustomRules : découpage imposé pour un mot exact.
	CustomRules map[string][]string
	Hyphenator  HyphenatorFunc
}

// DefaultConfig reprend les réglages par défaut de l'éditeur.
func DefaultConfig() Config {
	return Config{
		SplitCJK:            true,
		SplitEnglish:        true,
		PunctuationMode:     PunctuationMerge,
		PunctuationWeight:   DefaultPunctuationWeight,
		RemoveEmptySegments: true,
	}
}

func (c Config) ignored(s string) bool {
	return slices.Contains(c.IgnoreList, s)
}

// Rules est le contenu du fichier de règles YAML :
//
//	ignore:
//	  - TTML
//	rules:
//	  everything: [every, thing]
type Rules struct {
	Ignore []string            `yaml:"ignore"`
	Rules  map[string][]string `yaml:"rules"`
}

// LoadRules lit un fichier de règles.
func LoadRules(path string) (Rules, error) {
	var r Rules
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("lecture règles %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("parse règles %s: %w", path, err)
	}
	return r, nil
}

// WithRules retourne une copie de c enrichie des règles r. Les règles de r
// l'emportent sur celles de c pour un même mot.
func (c Config) WithRules(r Rules) Config {
	out := c
	out.IgnoreList = append(slices.Clone(c.IgnoreList), r.Ignore...)
	out.CustomRules = make(map[string][]string, len(c.CustomRules)+len(r.Rules))
	for k, v := range c.CustomRules {
		out.CustomRules[k] = v
	}
	for k, v := range r.Rules {
		out.CustomRules[k] = v
	}
	return out
}

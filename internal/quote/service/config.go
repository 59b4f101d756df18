package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds the pipeline tuning knobs. Earlier iterations of this product
// hard-coded variants of these values in parallel handlers; they are data
// here so threshold and vocabulary changes do not fork the code path.
type Params struct {
	// MatchThreshold is the minimum bigram-Dice similarity for a catalog
	// product to be accepted for a material without disambiguation.
	MatchThreshold float64 `yaml:"match_threshold"`
	// DisambiguationTopN caps the scored candidates kept when the
	// disambiguation reply cannot be parsed.
	DisambiguationTopN int `yaml:"disambiguation_top_n"`
	// MaxSearchKeywords bounds the per-request catalog fan-out.
	MaxSearchKeywords int `yaml:"max_search_keywords"`
	// MaxResolveConcurrency bounds concurrent per-material resolution.
	MaxResolveConcurrency int `yaml:"max_resolve_concurrency"`
	// DefaultLabourRate is the GBP/hour rate used when the request does not
	// supply one.
	DefaultLabourRate float64 `yaml:"default_labour_rate"`
	// WasteFactorPct is the material waste allowance the plan prompt asks for.
	WasteFactorPct int `yaml:"waste_factor_pct"`
	// MaxCatalogInPrompt bounds how many product titles are serialized into
	// the catalog-aware plan prompt.
	MaxCatalogInPrompt int `yaml:"max_catalog_in_prompt"`
	// ExtraStopWords extends the built-in keyword stop-word set.
	ExtraStopWords []string `yaml:"extra_stop_words"`
	// Synonyms maps a domain term to additional search terms. Expansion is
	// additive; the original token is always kept.
	Synonyms map[string][]string `yaml:"synonyms"`
}

// DefaultParams returns the compiled-in pipeline tuning.
func DefaultParams() Params {
	return Params{
		MatchThreshold:        0.45,
		DisambiguationTopN:    3,
		MaxSearchKeywords:     8,
		MaxResolveConcurrency: 4,
		DefaultLabourRate:     35.0,
		WasteFactorPct:        10,
		MaxCatalogInPrompt:    40,
		Synonyms: map[string][]string{
			"patio":    {"paving", "slab", "flags"},
			"paving":   {"slab"},
			"decking":  {"deck board", "joist"},
			"fence":    {"fencing", "fence panel", "fence post"},
			"fencing":  {"fence panel", "fence post"},
			"driveway": {"block paving", "gravel"},
			"wall":     {"brick", "block", "mortar"},
			"shed":     {"timber", "roofing felt"},
			"lawn":     {"turf", "topsoil"},
		},
	}
}

// LoadParams returns the default parameters overlaid with the YAML file at
// path. An empty path means defaults; a missing or malformed file is a
// configuration error.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()
	if path == "" {
		return params, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read pipeline config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return Params{}, fmt.Errorf("parse pipeline config: %w", err)
	}

	if params.MatchThreshold <= 0 || params.MatchThreshold > 1 {
		return Params{}, fmt.Errorf("pipeline config: match_threshold must be in (0, 1], got %v", params.MatchThreshold)
	}
	if params.MaxResolveConcurrency < 1 {
		params.MaxResolveConcurrency = 1
	}
	return params, nil
}

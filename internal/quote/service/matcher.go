package service

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/internal/quote/transport"
	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/logger"
)

// reDyeVariant catches colour-dye and pigment additives that score highly
// against the base material they tint ("cement dye" vs "cement") but are
// never an acceptable substitute for it.
var reDyeVariant = regexp.MustCompile(`(?i)\b(?:dye|colourant|colorant|pigment|toner)\b`)

// reSlug reduces a material name to a stable placeholder id suffix.
var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

type scoredProduct struct {
	product client.Product
	score   float64
}

// RelevanceMatcher resolves a single material requirement against the fetched
// catalog products using bigram Dice similarity over cleaned titles, with an
// optional AI disambiguation round when similarity alone is inconclusive.
type RelevanceMatcher struct {
	params Params
	ai     textgen.Completer // optional; nil disables disambiguation
	log    *logger.Logger
	dice   *metrics.SorensenDice
}

// NewRelevanceMatcher creates a matcher.
func NewRelevanceMatcher(params Params, ai textgen.Completer, log *logger.Logger) *RelevanceMatcher {
	dice := metrics.NewSorensenDice()
	dice.CaseSensitive = false
	return &RelevanceMatcher{params: params, ai: ai, log: log, dice: dice}
}

// Resolve returns the material's options. The manual placeholder is always
// present and always first; accepted catalog products follow in descending
// score order with cleaned display titles. Resolve never fails: every error
// path degrades to fewer (or zero) catalog options.
func (m *RelevanceMatcher) Resolve(ctx context.Context, materialName string, products []client.Product) []transport.MaterialOption {
	options := []transport.MaterialOption{manualOption(materialName)}

	accepted := m.score(materialName, products)
	if len(accepted) != 1 && len(accepted) > 0 && m.ai != nil {
		accepted = m.disambiguate(ctx, materialName, accepted)
	}

	for _, c := range accepted {
		options = append(options, transport.MaterialOption{
			ID:          c.product.ID,
			Name:        cleanTitle(c.product.Name),
			Image:       c.product.Image,
			Description: c.product.Description,
			Link:        c.product.Link,
		})
	}
	return options
}

// score returns the products at or above the match threshold, best first.
// Dye and pigment variants are excluded unless the material itself is one.
func (m *RelevanceMatcher) score(materialName string, products []client.Product) []scoredProduct {
	wantsDye := reDyeVariant.MatchString(materialName)
	target := strings.ToLower(cleanTitle(materialName))

	var accepted []scoredProduct
	for _, p := range products {
		if !wantsDye && reDyeVariant.MatchString(p.Name) {
			continue
		}
		score := strutil.Similarity(target, strings.ToLower(cleanTitle(p.Name)), m.dice)
		if score >= m.params.MatchThreshold {
			accepted = append(accepted, scoredProduct{product: p, score: score})
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].score > accepted[j].score })
	return accepted
}

// disambiguate asks the text-generation service which of the scored candidates
// genuinely are the material. A parseable empty array is a real answer (none
// match); an unusable reply falls back to the top-scored candidates.
func (m *RelevanceMatcher) disambiguate(ctx context.Context, materialName string, candidates []scoredProduct) []scoredProduct {
	raw, err := m.ai.Complete(ctx, buildDisambiguationPrompt(materialName, candidates))
	if err != nil {
		m.log.WithContext(ctx).UpstreamError("textgen", "material disambiguation", err)
		return m.topN(candidates)
	}

	payload, err := extractJSONArray(raw)
	if err != nil {
		m.log.WithContext(ctx).UpstreamError("textgen", "material disambiguation parse", err)
		return m.topN(candidates)
	}

	var ids []string
	if err := json.Unmarshal([]byte(payload), &ids); err != nil {
		return m.topN(candidates)
	}

	chosen := make(map[string]bool, len(ids))
	for _, id := range ids {
		chosen[strings.TrimSpace(id)] = true
	}

	filtered := candidates[:0:0]
	for _, c := range candidates {
		if chosen[c.product.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func (m *RelevanceMatcher) topN(candidates []scoredProduct) []scoredProduct {
	n := m.params.DisambiguationTopN
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// manualOption synthesizes the always-present manual-entry fallback.
func manualOption(materialName string) transport.MaterialOption {
	slug := strings.Trim(reSlug.ReplaceAllString(strings.ToLower(materialName), "-"), "-")
	if slug == "" {
		slug = "item"
	}
	return transport.MaterialOption{
		ID:          "manual-" + slug,
		Name:        materialName,
		Description: "No catalog match found; price manually (to be quoted).",
	}
}

package service

import (
	"fmt"
	"strings"

	"tradequote_backend/internal/catalog/client"
)

// Prompt construction for every call the pipeline makes to the
// text-generation service. The service gives no output-format guarantee, so
// every prompt states the expected shape explicitly and every reply is still
// parsed defensively.

func buildKeywordPrompt(description string) string {
	var b strings.Builder
	b.WriteString("You are helping search a UK builders' merchant product catalogue.\n")
	b.WriteString("List the materials, products and accessories needed for the job below.\n")
	b.WriteString("Reply with ONLY a comma-separated list of short product nouns.\n")
	b.WriteString("No numbering, no explanations, no quantities, no dimensions.\n\n")
	b.WriteString("Job description: ")
	b.WriteString(description)
	return b.String()
}

func buildClassifyPrompt(description string) string {
	var b strings.Builder
	b.WriteString("Classify the following construction job into a short project type ")
	b.WriteString("(for example: patio, fencing, decking, driveway, garden wall).\n")
	b.WriteString("Reply with ONLY the project type, nothing else.\n\n")
	b.WriteString("Job description: ")
	b.WriteString(description)
	return b.String()
}

func buildPlanPrompt(description, projectType string, products []client.Product, params Params) string {
	var b strings.Builder
	b.WriteString("You are an experienced UK builder preparing a quote.\n")
	if projectType != "" {
		b.WriteString("Project type: ")
		b.WriteString(projectType)
		b.WriteString("\n")
	}
	b.WriteString("Job description: ")
	b.WriteString(description)
	b.WriteString("\n\n")

	if len(products) > 0 {
		b.WriteString("These products are available from the merchant; prefer their names when a material matches one:\n")
		limit := params.MaxCatalogInPrompt
		if limit <= 0 || limit > len(products) {
			limit = len(products)
		}
		for _, p := range products[:limit] {
			b.WriteString("- ")
			b.WriteString(p.Name)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Produce the full materials list and working method. Allow %d%% extra for waste.\n", params.WasteFactorPct)
	b.WriteString("Use UK trade quantity conventions (m2 for paving and turf, bags for cement and aggregate, linear m for timber).\n")
	b.WriteString("If a material cannot be matched to a product, still include it and append \"(to be quoted)\" to its name; never omit a required material.\n")
	b.WriteString("Reply with ONLY a JSON object in exactly this shape:\n")
	b.WriteString(`{"materials":[{"name":"...","quantity":0,"unit":"..."}],` +
		`"method":{"steps":["..."],"considerations":["..."]},"labourHours":0}`)
	return b.String()
}

func buildDisambiguationPrompt(materialName string, candidates []scoredProduct) string {
	var b strings.Builder
	b.WriteString("A builder needs: ")
	b.WriteString(materialName)
	b.WriteString("\n\nCandidate products:\n")
	for _, c := range candidates {
		b.WriteString(c.product.ID)
		b.WriteString(": ")
		b.WriteString(c.product.Name)
		if c.product.Description != "" {
			b.WriteString(" :: ")
			b.WriteString(c.product.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nWhich candidate ids are genuinely this material (not merely related)?\n")
	b.WriteString("Reply with ONLY a JSON array of id strings, e.g. [\"12\",\"34\"]. Reply [] if none match.")
	return b.String()
}

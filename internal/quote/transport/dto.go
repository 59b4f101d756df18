// Package transport defines the request/response shapes for the quote module.
package transport

// Service tiers selectable by the front end. The default is the full priced
// customer quote; lower tiers omit the method and pricing blocks.
const (
	TierMaterials = "materials"
	TierMethod    = "method"
	TierFull      = "full"
)

// GenerateQuoteRequest is the inbound payload for quote generation.
type GenerateQuoteRequest struct {
	JobDescription string  `json:"jobDescription" validate:"required"`
	ServiceTier    string  `json:"serviceTier" validate:"omitempty,oneof=materials method full"`
	LabourRate     float64 `json:"labourRate" validate:"omitempty,gte=0"`
}

// MaterialOption is one way to fulfil a material requirement: either a real
// catalog product projection or a synthesized manual-entry placeholder
// (id prefixed "manual-").
type MaterialOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// ResolvedMaterial is a plan line item with its resolved product options.
// Options is never empty: the manual placeholder is always present and always
// first, so the user has a deterministic fallback choice.
type ResolvedMaterial struct {
	Name     string           `json:"name"`
	Quantity float64          `json:"quantity"`
	Unit     string           `json:"unit"`
	Options  []MaterialOption `json:"options"`
}

// ConstructionMethod holds the generated working method. Steps are
// order-significant sequential instructions.
type ConstructionMethod struct {
	Steps          []string `json:"steps"`
	Considerations []string `json:"considerations"`
}

// CustomerQuote carries the priced summary stamped at assembly time.
type CustomerQuote struct {
	QuoteNumber string  `json:"quoteNumber"`
	Date        string  `json:"date"`
	LabourHours float64 `json:"labourHours"`
	LabourRate  float64 `json:"labourRate"`
	LabourCost  float64 `json:"labourCost"`
}

// QuoteResponse is the complete quote returned to the caller. Method and
// CustomerQuote are omitted below the corresponding service tier.
type QuoteResponse struct {
	Materials     []ResolvedMaterial  `json:"materials"`
	Method        *ConstructionMethod `json:"method,omitempty"`
	CustomerQuote *CustomerQuote      `json:"customerQuote,omitempty"`
}

package service

import (
	"fmt"
	"time"

	"tradequote_backend/internal/quote/transport"
)

// QuoteAssembler stamps the final response: tier gating, quote numbering and
// labour pricing. The clock is injectable for tests.
type QuoteAssembler struct {
	params Params
	now    func() time.Time
}

// NewQuoteAssembler creates an assembler using the wall clock.
func NewQuoteAssembler(params Params) *QuoteAssembler {
	return &QuoteAssembler{params: params, now: time.Now}
}

// Assemble builds the response for the requested tier. The materials tier
// returns materials only; the method tier adds the working method; the full
// tier adds the priced customer quote. A zero labour rate falls back to the
// configured default.
func (a *QuoteAssembler) Assemble(tier string, materials []transport.ResolvedMaterial, plan Plan, labourRate float64) transport.QuoteResponse {
	if materials == nil {
		materials = []transport.ResolvedMaterial{}
	}
	resp := transport.QuoteResponse{Materials: materials}
	if tier == transport.TierMaterials {
		return resp
	}

	method := plan.Method
	resp.Method = &method
	if tier == transport.TierMethod {
		return resp
	}

	if labourRate <= 0 {
		labourRate = a.params.DefaultLabourRate
	}
	now := a.now()
	resp.CustomerQuote = &transport.CustomerQuote{
		QuoteNumber: fmt.Sprintf("Q-%d", now.UnixMilli()),
		Date:        now.Format("02 January 2006"),
		LabourHours: plan.LabourHours,
		LabourRate:  labourRate,
		LabourCost:  plan.LabourHours * labourRate,
	}
	return resp
}

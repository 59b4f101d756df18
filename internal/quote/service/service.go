// Package service implements the quote generation pipeline: keyword
// extraction, catalog search, plan generation, material resolution and final
// assembly.
package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/internal/quote/transport"
	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/apperr"
	"tradequote_backend/platform/logger"
)

// Searcher is the catalog dependency. A nil Searcher runs the pipeline in
// catalog-less mode: every material resolves to its manual placeholder.
type Searcher interface {
	Search(ctx context.Context, query string) ([]client.Product, error)
}

// Service orchestrates quote generation.
type Service struct {
	keywords  *KeywordExtractor
	planner   *PlanGenerator
	matcher   *RelevanceMatcher
	assembler *QuoteAssembler
	catalog   Searcher
	params    Params
	log       *logger.Logger
}

// New wires the pipeline stages around one completer and an optional catalog.
func New(ai textgen.Completer, catalog Searcher, params Params, log *logger.Logger) *Service {
	return &Service{
		keywords:  NewKeywordExtractor(params, ai, log),
		planner:   NewPlanGenerator(ai, params, log),
		matcher:   NewRelevanceMatcher(params, ai, log),
		assembler: NewQuoteAssembler(params),
		catalog:   catalog,
		params:    params,
		log:       log,
	}
}

// Generate runs the full pipeline for one request. Catalog unavailability and
// per-keyword search failures degrade the result (fewer product options) but
// never fail it; only invalid input and plan generation failure are errors.
func (s *Service) Generate(ctx context.Context, req transport.GenerateQuoteRequest) (transport.QuoteResponse, error) {
	description := strings.TrimSpace(req.JobDescription)
	if description == "" {
		return transport.QuoteResponse{}, apperr.Validation("jobDescription is required")
	}
	tier := req.ServiceTier
	if tier == "" {
		tier = transport.TierFull
	}

	log := s.log.WithContext(ctx)

	var products []client.Product
	if s.catalog != nil {
		keywords := s.keywords.Extract(ctx, description)
		log.Info("extracted search keywords", "count", len(keywords))
		products = client.SearchKeywords(ctx, s.catalog, keywords, s.params.MaxSearchKeywords, s.log)
		products = client.FilterNaturalStone(description, products)
		log.Info("catalog search complete", "products", len(products))
	}

	plan, err := s.planner.Generate(ctx, description, products)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	materials, err := s.resolveMaterials(ctx, plan.Materials, products)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	return s.assembler.Assemble(tier, materials, plan, req.LabourRate), nil
}

// resolveMaterials matches every plan line item against the fetched products
// concurrently, preserving plan order. Nameless line items are dropped.
func (s *Service) resolveMaterials(ctx context.Context, requirements []MaterialRequirement, products []client.Product) ([]transport.ResolvedMaterial, error) {
	kept := requirements[:0:0]
	for _, r := range requirements {
		if strings.TrimSpace(r.Name) == "" {
			s.log.WithContext(ctx).Warn("dropping nameless material from plan")
			continue
		}
		kept = append(kept, r)
	}

	resolved := make([]transport.ResolvedMaterial, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.params.MaxResolveConcurrency)

	for i, r := range kept {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = transport.ResolvedMaterial{
				Name:     r.Name,
				Quantity: r.Quantity,
				Unit:     r.Unit,
				Options:  s.matcher.Resolve(gctx, r.Name, products),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

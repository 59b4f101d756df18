package service

import (
	"context"
	"errors"
	"testing"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/platform/apperr"
)

func TestGenerateParsesPlanWithSurroundingProse(t *testing.T) {
	ai := &scriptedCompleter{replies: []string{
		"Here is the plan you asked for:\n```json\n" +
			`{"materials":[{"name":"Cement","quantity":4,"unit":"bags"}],` +
			`"method":{"steps":["Dig out"],"considerations":["Check drainage"]},"labourHours":16}` +
			"\n```\nLet me know if you need anything else.",
	}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	plan, err := g.Generate(context.Background(), "lay a patio", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Materials) != 1 || plan.Materials[0].Name != "Cement" {
		t.Fatalf("unexpected materials: %+v", plan.Materials)
	}
	if plan.Materials[0].Quantity != 4 || plan.Materials[0].Unit != "bags" {
		t.Fatalf("unexpected quantity/unit: %+v", plan.Materials[0])
	}
	if len(plan.Method.Steps) != 1 || plan.Method.Steps[0] != "Dig out" {
		t.Fatalf("unexpected steps: %+v", plan.Method.Steps)
	}
	if plan.LabourHours != 16 {
		t.Fatalf("unexpected labour hours: %v", plan.LabourHours)
	}
}

func TestGenerateNoJSONObjectIsUpstreamError(t *testing.T) {
	ai := &scriptedCompleter{replies: []string{"I cannot produce a plan for that."}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	_, err := g.Generate(context.Background(), "lay a patio", nil)
	if err == nil {
		t.Fatal("expected an error for a reply without JSON")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected an upstream error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Details == nil {
		t.Fatalf("raw reply should be preserved in details, got %+v", err)
	}
}

func TestGenerateCompletionFailureIsUpstreamError(t *testing.T) {
	ai := &scriptedCompleter{errs: []error{errors.New("overloaded")}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	_, err := g.Generate(context.Background(), "lay a patio", nil)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected an upstream error, got %v", err)
	}
}

func TestGenerateDefaultsForMissingFields(t *testing.T) {
	ai := &scriptedCompleter{replies: []string{`{"labourHours":"8"}`}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	plan, err := g.Generate(context.Background(), "lay a patio", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Materials) != 0 {
		t.Fatalf("expected no materials, got %+v", plan.Materials)
	}
	if plan.Method.Steps == nil || plan.Method.Considerations == nil {
		t.Fatal("method lists must be empty, not nil")
	}
	if plan.LabourHours != 8 {
		t.Fatalf("string labour hours should coerce to 8, got %v", plan.LabourHours)
	}
}

func TestGenerateClampsNegativeQuantities(t *testing.T) {
	ai := &scriptedCompleter{replies: []string{
		`{"materials":[{"name":"Sand","quantity":-3,"unit":"bags"}],"labourHours":-2}`,
	}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	plan, err := g.Generate(context.Background(), "lay a patio", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Materials[0].Quantity != 0 {
		t.Fatalf("negative quantity should clamp to 0, got %v", plan.Materials[0].Quantity)
	}
	if plan.LabourHours != 0 {
		t.Fatalf("negative labour hours should clamp to 0, got %v", plan.LabourHours)
	}
}

func TestGenerateClassifiesOnlyWithCatalog(t *testing.T) {
	planJSON := `{"materials":[],"method":{"steps":[],"considerations":[]},"labourHours":1}`
	ai := &routingCompleter{routes: []promptRoute{
		{contains: "Classify the following", reply: "patio"},
		{contains: "preparing a quote", reply: planJSON},
	}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())

	if _, err := g.Generate(context.Background(), "lay a patio", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.calls != 1 {
		t.Fatalf("no classification without catalog products, got %d calls", ai.calls)
	}

	products := []client.Product{{ID: "1", Name: "Paving Slab"}}
	if _, err := g.Generate(context.Background(), "lay a patio", products); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.calls != 3 {
		t.Fatalf("expected classify plus plan calls, got %d total", ai.calls)
	}
}

func TestGenerateClassificationFailureIsNotFatal(t *testing.T) {
	planJSON := `{"materials":[{"name":"Slab","quantity":10,"unit":"m2"}],"labourHours":4}`
	ai := &routingCompleter{routes: []promptRoute{
		{contains: "Classify the following", err: errors.New("unavailable")},
		{contains: "preparing a quote", reply: planJSON},
	}}
	g := NewPlanGenerator(ai, DefaultParams(), testLogger())
	products := []client.Product{{ID: "1", Name: "Paving Slab"}}

	plan, err := g.Generate(context.Background(), "lay a patio", products)
	if err != nil {
		t.Fatalf("classification failure must not fail the plan: %v", err)
	}
	if len(plan.Materials) != 1 {
		t.Fatalf("unexpected materials: %+v", plan.Materials)
	}
}

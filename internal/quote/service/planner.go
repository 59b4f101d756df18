package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/internal/quote/transport"
	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/apperr"
	"tradequote_backend/platform/logger"
)

// MaterialRequirement is one line item the generated plan calls for.
type MaterialRequirement struct {
	Name     string
	Quantity float64
	Unit     string
}

// Plan is the validated output of one generation round.
type Plan struct {
	Materials   []MaterialRequirement
	Method      transport.ConstructionMethod
	LabourHours float64
}

// PlanGenerator asks the text-generation service for a materials list,
// working method and labour estimate, and defensively parses the reply.
type PlanGenerator struct {
	ai     textgen.Completer
	params Params
	log    *logger.Logger
}

// NewPlanGenerator creates a plan generator.
func NewPlanGenerator(ai textgen.Completer, params Params, log *logger.Logger) *PlanGenerator {
	return &PlanGenerator{ai: ai, params: params, log: log}
}

// Generate produces a plan for the job description. When catalog products are
// supplied, the prompt embeds their titles (so generated material names line
// up with real products) and a project-type classification round runs first;
// classification failure only degrades the prompt and is never fatal.
//
// A reply without a parseable JSON object is a hard error for this stage:
// there is no partial-plan recovery, and the raw text is preserved in the
// error details for diagnosis.
func (g *PlanGenerator) Generate(ctx context.Context, description string, products []client.Product) (Plan, error) {
	projectType := ""
	if len(products) > 0 {
		projectType = g.classifyProjectType(ctx, description)
	}

	raw, err := g.ai.Complete(ctx, buildPlanPrompt(description, projectType, products, g.params))
	if err != nil {
		return Plan{}, apperr.Wrap(apperr.KindUpstream, "text generation failed", err).WithOp("planner.Generate")
	}

	payload, err := extractJSONObject(raw)
	if err != nil {
		return Plan{}, apperr.Wrap(apperr.KindUpstream, "AI did not return a valid JSON object", err).
			WithOp("planner.Generate").
			WithDetails(truncate(raw, 500))
	}

	return parsePlan(payload), nil
}

func (g *PlanGenerator) classifyProjectType(ctx context.Context, description string) string {
	raw, err := g.ai.Complete(ctx, buildClassifyPrompt(description))
	if err != nil {
		g.log.WithContext(ctx).UpstreamError("textgen", "project type classification", err)
		return ""
	}
	projectType := strings.ToLower(strings.TrimSpace(raw))
	if len(projectType) > 40 || strings.ContainsAny(projectType, "{}\n") {
		// Reply ignored the format instruction; not worth embedding.
		return ""
	}
	return projectType
}

// flexFloat accepts JSON numbers that arrive as strings ("12") or numbers.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(parsed)
		return nil
	}
	*f = 0
	return nil
}

type rawMaterial struct {
	Name     string    `json:"name"`
	Quantity flexFloat `json:"quantity"`
	Unit     string    `json:"unit"`
}

type rawMethod struct {
	Steps          []string `json:"steps"`
	Considerations []string `json:"considerations"`
}

type rawPlan struct {
	Materials   json.RawMessage `json:"materials"`
	Method      json.RawMessage `json:"method"`
	LabourHours flexFloat       `json:"labourHours"`
}

// parsePlan fills sane defaults for any missing or malformed substructure:
// materials defaults to an empty list, method to empty step lists, labour
// hours to zero. The payload is already known to be valid JSON.
func parsePlan(payload string) Plan {
	var raw rawPlan
	_ = json.Unmarshal([]byte(payload), &raw)

	plan := Plan{
		Method:      transport.ConstructionMethod{Steps: []string{}, Considerations: []string{}},
		LabourHours: float64(raw.LabourHours),
	}
	if plan.LabourHours < 0 {
		plan.LabourHours = 0
	}

	var materials []rawMaterial
	if len(raw.Materials) > 0 && json.Unmarshal(raw.Materials, &materials) == nil {
		for _, m := range materials {
			quantity := float64(m.Quantity)
			if quantity < 0 {
				quantity = 0
			}
			unit := strings.TrimSpace(m.Unit)
			if unit == "" {
				unit = "unit"
			}
			plan.Materials = append(plan.Materials, MaterialRequirement{
				Name:     strings.TrimSpace(m.Name),
				Quantity: quantity,
				Unit:     unit,
			})
		}
	}

	var method rawMethod
	if len(raw.Method) > 0 && json.Unmarshal(raw.Method, &method) == nil {
		if method.Steps != nil {
			plan.Method.Steps = method.Steps
		}
		if method.Considerations != nil {
			plan.Method.Considerations = method.Considerations
		}
	}

	return plan
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

package structure

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"nyaya-sahayak/logic/chat"
	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

var planTmpl = template.Must(template.New("plan").Parse(vars.PLAN))

// Structurer turns raw advice text into a StructuredResponse, calling the
// model a second time to synthesise the action plan.
type Structurer struct {
	completer chat.Completer
	log       *slog.Logger
}

func NewStructurer(completer chat.Completer) *Structurer {
	return &Structurer{completer: completer, log: logging.New("structure")}
}

// Structure never fails. Extraction failures fall back per field; a
// structuring error yields Default(raw).
func (s *Structurer) Structure(ctx context.Context, raw, query string) types.StructuredResponse {
	resp, err := s.structure(ctx, raw, query)
	if err != nil {
		s.warn("structuring failed, using default response", query, err)
		return Default(raw)
	}
	return resp
}

type extraction struct {
	disclaimer  string
	hasDisclaim bool
	sources     []types.Source
	hasSources  bool
}

func (s *Structurer) structure(ctx context.Context, raw, query string) (types.StructuredResponse, error) {
	// 1. 文本解析
	ex, err := extract(raw)
	if err != nil {
		return types.StructuredResponse{}, err
	}

	// 2. 二次调用生成行动计划
	plan, hasPlan := s.GeneratePlan(ctx, query, raw)

	// 3. 兜底与置信度
	resp := types.StructuredResponse{
		Text:       raw,
		Disclaimer: ex.disclaimer,
		Sources:    ex.sources,
		ActionPlan: plan,
		Confidence: vars.ConfidenceNominal,
	}
	if !ex.hasDisclaim {
		resp.Disclaimer = vars.CanonicalDisclaimer
	}
	if !ex.hasSources {
		resp.Sources = DefaultSources()
	}
	if !hasPlan {
		resp.ActionPlan = DefaultActionPlan()
	}
	if !ex.hasDisclaim || !ex.hasSources || !hasPlan {
		resp.Confidence = vars.ConfidenceFallback
	}
	return resp, nil
}

func extract(raw string) (ex extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", types.ErrStructuring, r)
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return ex, fmt.Errorf("%w: empty model output", types.ErrStructuring)
	}
	ex.disclaimer, ex.hasDisclaim = ExtractDisclaimer(raw)
	ex.sources, ex.hasSources = ExtractSources(raw)
	return ex, nil
}

// GeneratePlan asks the model for a 3-5 step plan based on body and parses it.
// The second result is false when the default plan was substituted.
func (s *Structurer) GeneratePlan(ctx context.Context, query, body string) ([]types.ActionStep, bool) {
	var buf bytes.Buffer
	if err := planTmpl.Execute(&buf, map[string]string{"Query": query, "Body": body}); err != nil {
		s.warn("render plan prompt failed", query, err)
		return DefaultActionPlan(), false
	}

	text, err := s.completer.Complete(ctx, vars.PLAN_SYSTEM, buf.String(), vars.PlanTemperature, vars.PlanMaxTokens)
	if err != nil {
		s.warn("action plan completion failed, using default plan", query, err)
		return DefaultActionPlan(), false
	}

	steps, ok := ParseActionPlan(text)
	if !ok {
		s.warn("no action steps found in plan output, using default plan", query, fmt.Errorf("%w: unparseable plan", types.ErrStructuring))
		return DefaultActionPlan(), false
	}
	return steps, true
}

// Default is the canonical response used when structuring fails outright.
func Default(raw string) types.StructuredResponse {
	return types.StructuredResponse{
		Text:       raw,
		Disclaimer: vars.CanonicalDisclaimer,
		Sources:    DefaultSources(),
		ActionPlan: DefaultActionPlan(),
		Confidence: vars.ConfidenceFallback,
	}
}

func (s *Structurer) warn(msg, query string, err error) {
	s.log.Warn(msg,
		slog.Any("error", err),
		slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
}

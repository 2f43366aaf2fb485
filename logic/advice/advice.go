package advice

import (
	"bytes"
	"context"
	"log/slog"
	"text/template"

	"nyaya-sahayak/logic/chat"
	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

var adviceTmpl = template.Must(template.New("advice").Parse(vars.ADVICE))

// Generator drafts grounded legal advice. It never returns an error: model
// failures yield vars.FallbackAdvice.
type Generator struct {
	completer chat.Completer
	log       *slog.Logger
}

func NewGenerator(completer chat.Completer) *Generator {
	return &Generator{completer: completer, log: logging.New("advice")}
}

// BuildPrompt renders the grounding prompt for query and documents.
func BuildPrompt(query string, docs []types.RetrievedDocument) (string, error) {
	var buf bytes.Buffer
	err := adviceTmpl.Execute(&buf, map[string]any{
		"Query":     query,
		"Documents": docs,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Generate returns the raw model text, or the fallback text on any failure.
func (g *Generator) Generate(ctx context.Context, query string, docs []types.RetrievedDocument) string {
	prompt, err := BuildPrompt(query, docs)
	if err != nil {
		g.warn("render advice prompt failed", query, err)
		return vars.FallbackAdvice
	}

	raw, err := g.completer.Complete(ctx, vars.ADVICE_SYSTEM, prompt, vars.AdviceTemperature, vars.AdviceMaxTokens)
	if err != nil {
		g.warn("advice completion failed, using fallback text", query, err)
		return vars.FallbackAdvice
	}
	return raw
}

func (g *Generator) warn(msg, query string, err error) {
	g.log.Warn(msg,
		slog.Any("error", err),
		slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
}

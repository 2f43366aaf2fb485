package embed

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/generative-ai-go/genai"
)

// GeminiEmbedder implements the eino embedder interface on top of the Gemini
// embedding model, so ingestion and retrieval can use it interchangeably.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model}
}

func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	em := e.client.EmbeddingModel(e.model)
	out := make([][]float64, 0, len(texts))
	for i, text := range texts {
		res, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("gemini embed text %d: %w", i, err)
		}
		if res == nil || res.Embedding == nil {
			return nil, fmt.Errorf("gemini embed text %d: empty embedding", i)
		}
		out = append(out, toFloat64(res.Embedding.Values))
	}
	return out, nil
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

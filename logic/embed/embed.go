package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/ollama"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"nyaya-sahayak/types"
)

// Embedder is the query-side embedding collaborator.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// QueryEmbedder adapts an eino embedder to Embedder with a per-call timeout.
type QueryEmbedder struct {
	inner   embedding.Embedder
	timeout time.Duration
}

func NewQueryEmbedder(inner embedding.Embedder, timeout time.Duration) *QueryEmbedder {
	return &QueryEmbedder{inner: inner, timeout: timeout}
}

func (e *QueryEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vectors, err := e.inner.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbedding, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty vector", types.ErrEmbedding)
	}
	return vectors[0], nil
}

// NewOllamaEmbedder 创建 Ollama embedder，外层包 NaN 清理
func NewOllamaEmbedder(ctx context.Context, baseURL, model string, timeout time.Duration) (embedding.Embedder, error) {
	embedder, err := ollama.NewEmbedder(ctx, &ollama.EmbeddingConfig{
		BaseURL: baseURL,
		Model:   model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("NewEmbedder of ollama error: %w", err)
	}
	return NewCleanEmbedder(embedder), nil
}

type Config struct {
	Provider  string
	Model     string
	OllamaURL string
	GeminiKey string
	Timeout   time.Duration
}

var ErrUnknownProvider = errors.New("unknown embedding provider")

// New builds the document-side embedder for cfg.Provider. Ingestion uses it
// directly; queries go through NewQueryEmbedder.
func New(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllamaEmbedder(ctx, cfg.OllamaURL, cfg.Model, cfg.Timeout)
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("create gemini embedder failed: GEMINI_API_KEY is not set")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
		if err != nil {
			return nil, fmt.Errorf("create gemini embedder failed: %w", err)
		}
		return NewCleanEmbedder(NewGeminiEmbedder(client, cfg.Model)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

package embed

import (
	"context"
	"log/slog"
	"math"

	"github.com/cloudwego/eino/components/embedding"

	"nyaya-sahayak/logging"
)

// CleanEmbedder 包装原始 embedder，处理 NaN/Inf 值
type CleanEmbedder struct {
	inner embedding.Embedder
}

func NewCleanEmbedder(inner embedding.Embedder) *CleanEmbedder {
	return &CleanEmbedder{inner: inner}
}

// EmbedStrings replaces NaN and Inf components with 0 so vector stores accept them.
func (e *CleanEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	vectors, err := e.inner.EmbedStrings(ctx, texts, opts...)
	if err != nil {
		return nil, err
	}

	cleaned := 0
	for _, vec := range vectors {
		for j, val := range vec {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				vec[j] = 0.0
				cleaned++
			}
		}
	}
	if cleaned > 0 {
		logging.New("embed").Warn("replaced non-finite embedding values", slog.Int("dims", cleaned))
	}

	return vectors, nil
}

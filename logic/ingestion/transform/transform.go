package transform

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/semantic"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/embedding"
)

// NewSplitter 语义切分：相邻句子向量距离超过分位阈值处断开
func NewSplitter(ctx context.Context, embedder embedding.Embedder) (document.Transformer, error) {
	splitter, err := semantic.NewSplitter(ctx, &semantic.Config{
		Embedding:    embedder,
		BufferSize:   5,
		MinChunkSize: 200,
		Separators:   []string{"\n\n", "\n", ". ", "? ", "! ", "; "},
		LenFunc: func(s string) int {
			return len([]rune(s))
		},
		Percentile: 0.85,
	})
	if err != nil {
		return nil, fmt.Errorf("create semantic splitter: %w", err)
	}
	return splitter, nil
}

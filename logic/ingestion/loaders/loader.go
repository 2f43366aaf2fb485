package loaders

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
)

// New returns a file loader that reads a path from disk with p. Document IDs
// are the file names.
func New(ctx context.Context, p parser.Parser) (document.Loader, error) {
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      p,
	})
	if err != nil {
		return nil, fmt.Errorf("create file loader: %w", err)
	}
	return loader, nil
}

package parser

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
)

// New returns a parser choosing by file extension: PDF for .pdf, plain text
// for everything else.
func New(ctx context.Context) (parser.Parser, error) {
	pdfParser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser: %w", err)
	}
	return parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers: map[string]parser.Parser{
			".pdf": pdfParser,
		},
		FallbackParser: parser.TextParser{},
	})
}

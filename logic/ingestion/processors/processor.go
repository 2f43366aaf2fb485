package processors

import (
	"context"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"

	"nyaya-sahayak/logging"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// CleanText 去掉控制字符和非法 UTF-8，压缩空白，保留段落换行供切分使用
func CleanText(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = controlChars.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Processor cleans every document in place and drops the ones left empty,
// since empty input makes the embedder fail.
func Processor(_ context.Context, src []*schema.Document) ([]*schema.Document, error) {
	var cleanDocs []*schema.Document
	for _, doc := range src {
		content := CleanText(doc.Content)
		if content == "" {
			logging.New("ingestion").Debug("skipping empty document", "id", doc.ID)
			continue
		}
		doc.Content = content
		cleanDocs = append(cleanDocs, doc)
	}
	return cleanDocs, nil
}

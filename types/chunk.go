package types

import "fmt"

// 分块元数据字段，三种向量后端共用同一套列名
const (
	MetaSourceType   = FilterSourceType
	MetaSourceName   = "source_name"
	MetaSourceURL    = "source_url"
	MetaDocumentType = FilterDocumentType
	MetaLanguage     = FilterLanguage
)

// ChunkFields lists the scalar metadata columns stored next to each chunk.
var ChunkFields = []string{MetaSourceType, MetaSourceName, MetaSourceURL, MetaDocumentType, MetaLanguage}

// ChunkID 分块 ID：<file>-chunk-<i>
func ChunkID(file string, i int) string {
	return fmt.Sprintf("%s-chunk-%d", file, i)
}

// ClampScore keeps similarity scores inside [0, 1].
func ClampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// DocumentFromMeta builds a RetrievedDocument from a search hit.
func DocumentFromMeta(id, text string, score float64, meta map[string]any) RetrievedDocument {
	str := func(key string) string {
		if v, ok := meta[key].(string); ok {
			return v
		}
		return ""
	}
	return RetrievedDocument{
		ID:             id,
		Text:           text,
		RelevanceScore: ClampScore(score),
		Source: SourceMetadata{
			SourceName:   str(MetaSourceName),
			SourceType:   str(MetaSourceType),
			SourceURL:    str(MetaSourceURL),
			DocumentType: str(MetaDocumentType),
		},
	}
}

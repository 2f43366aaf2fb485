package milvus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"nyaya-sahayak/types"
)

func TestBuildExpr(t *testing.T) {
	tests := []struct {
		name   string
		filter types.RetrievalFilter
		want   string
	}{
		{"empty", nil, ""},
		{"language only", types.RetrievalFilter{"language": "en"}, `language == "en"`},
		{
			"sorted keys",
			types.RetrievalFilter{"source_type": "law", "language": "en", "document_type": "Code"},
			`document_type == "Code" && language == "en" && source_type == "law"`,
		},
		{"unknown keys dropped", types.RetrievalFilter{"language": "en", "party_a": "x"}, `language == "en"`},
		{"quotes escaped", types.RetrievalFilter{"source_name": `a"b`}, `source_name == "a\"b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildExpr(tt.filter); got != tt.want {
				t.Errorf("BuildExpr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertResult(t *testing.T) {
	result := client.SearchResult{
		ResultCount: 2,
		IDs:         entity.NewColumnVarChar("id", []string{"ipc.pdf-chunk-0", "faq.txt-chunk-3"}),
		Scores:      []float32{0.5, 0.25},
		Fields: client.ResultSet{
			entity.NewColumnVarChar("content", []string{"Section 420", "Free legal aid"}),
			entity.NewColumnVarChar("source_type", []string{"law", "faq"}),
			entity.NewColumnVarChar("source_name", []string{"Indian Penal Code", "NALSA FAQ"}),
		},
	}

	docs, err := convertResult(context.Background(), result)
	if err != nil {
		t.Fatalf("convertResult: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}

	got := []types.RetrievedDocument{
		types.DocumentFromMeta(docs[0].ID, docs[0].Content, docs[0].Score(), docs[0].MetaData),
		types.DocumentFromMeta(docs[1].ID, docs[1].Content, docs[1].Score(), docs[1].MetaData),
	}
	want := []types.RetrievedDocument{
		{ID: "ipc.pdf-chunk-0", Text: "Section 420", RelevanceScore: 0.5, Source: types.SourceMetadata{SourceName: "Indian Penal Code", SourceType: "law"}},
		{ID: "faq.txt-chunk-3", Text: "Free legal aid", RelevanceScore: 0.25, Source: types.SourceMetadata{SourceName: "NALSA FAQ", SourceType: "faq"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertChunks(t *testing.T) {
	docs := []*schema.Document{{
		ID:      "act.pdf-chunk-0",
		Content: "text",
		MetaData: map[string]any{
			types.MetaSourceType: "law",
			types.MetaLanguage:   "en",
			"ignored":            1,
		},
	}}
	rows, err := convertChunks(context.Background(), docs, [][]float64{{0.5, 1}})
	if err != nil {
		t.Fatalf("convertChunks: %v", err)
	}
	want := map[string]interface{}{
		"id":                   "act.pdf-chunk-0",
		"vector":               []float32{0.5, 1},
		"content":              "text",
		types.MetaSourceType:   "law",
		types.MetaSourceName:   "",
		types.MetaSourceURL:    "",
		types.MetaDocumentType: "",
		types.MetaLanguage:     "en",
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	if _, err := convertChunks(context.Background(), docs, nil); err == nil {
		t.Error("expected error for missing vectors")
	}
}

func TestVectorEmbedder(t *testing.T) {
	vecs, err := vectorEmbedder{1, 2}.EmbedStrings(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedStrings: %v", err)
	}
	if diff := cmp.Diff([][]float64{{1, 2}, {1, 2}}, vecs); diff != "" {
		t.Errorf("vectors mismatch (-want +got):\n%s", diff)
	}
	if _, err := vectorEmbedder(nil).EmbedStrings(context.Background(), []string{"a"}); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestSearcher_UnprobedIsUnavailable(t *testing.T) {
	s := NewSearcher("127.0.0.1:1", "legal", time.Second)
	if s.Available() {
		t.Error("searcher should start unavailable")
	}
	_, err := s.Search(context.Background(), []float64{1}, nil, 5)
	if !errors.Is(err, types.ErrVectorStoreUnavailable) {
		t.Errorf("Search error = %v, want ErrVectorStoreUnavailable", err)
	}
}

package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkID(t *testing.T) {
	if got := ChunkID("ipc.txt", 3); got != "ipc.txt-chunk-3" {
		t.Errorf("ChunkID = %q", got)
	}
}

func TestClampScore(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-0.2, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	} {
		if got := ClampScore(tc.in); got != tc.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDocumentFromMeta(t *testing.T) {
	meta := map[string]any{
		MetaSourceName:   "Indian Penal Code",
		MetaSourceType:   "law",
		MetaDocumentType: "Code",
		MetaSourceURL:    42, // non-string values are ignored
	}
	got := DocumentFromMeta("ipc-chunk-0", "Section 41", 1.3, meta)
	want := RetrievedDocument{
		ID:             "ipc-chunk-0",
		Text:           "Section 41",
		RelevanceScore: 1,
		Source: SourceMetadata{
			SourceName:   "Indian Penal Code",
			SourceType:   "law",
			DocumentType: "Code",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DocumentFromMeta mismatch (-want +got):\n%s", diff)
	}
}

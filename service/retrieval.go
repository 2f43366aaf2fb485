package service

import (
	"context"
	"log/slog"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/logic/embed"
	"nyaya-sahayak/logic/retrieval"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

// VectorSearcher is a vector-store backend (milvus, elasticsearch or pgvector).
// Available reports the last health probe and is read before every search.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error)
	Available() bool
}

type RetrievalService struct {
	embedder embed.Embedder
	searcher VectorSearcher
	topK     int
	log      *slog.Logger
}

func NewRetrievalService(embedder embed.Embedder, searcher VectorSearcher) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		searcher: searcher,
		topK:     vars.TopK,
		log:      logging.New("retrieval"),
	}
}

// Retrieve 嵌入 → 向量检索。任何失败（含后端不可用、结果为空）都返回兜底文档，不向上抛错
func (s *RetrievalService) Retrieve(ctx context.Context, query string, filter types.RetrievalFilter) []types.RetrievedDocument {
	if !s.searcher.Available() {
		s.fallback("vector store unavailable, using mock documents", query, types.ErrVectorStoreUnavailable)
		return retrieval.MockDocuments(query, filter)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.fallback("embedding failed, using mock documents", query, err)
		return retrieval.MockDocuments(query, filter)
	}

	docs, err := s.searcher.Search(ctx, vector, filter, s.topK)
	if err != nil {
		s.fallback("vector search failed, using mock documents", query, err)
		return retrieval.MockDocuments(query, filter)
	}
	if len(docs) == 0 {
		s.log.Info("no matching documents, using mock documents", slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
		return retrieval.MockDocuments(query, filter)
	}
	if len(docs) > s.topK {
		docs = docs[:s.topK]
	}
	return docs
}

// Search runs a direct document search. A caller-supplied filter is used as
// given, with language defaulting to en; otherwise the filter is derived
// from the query.
func (s *RetrievalService) Search(ctx context.Context, query string, filter types.RetrievalFilter) types.SearchResult {
	if len(filter) == 0 {
		filter = retrieval.BuildFilter(retrieval.AnalyzeQuery(query))
	} else {
		copied := make(types.RetrievalFilter, len(filter)+1)
		for k, v := range filter {
			copied[k] = v
		}
		if copied[types.FilterLanguage] == "" {
			copied[types.FilterLanguage] = "en"
		}
		filter = copied
	}
	return types.SearchResult{
		Query:     query,
		Filter:    filter,
		Documents: s.Retrieve(ctx, query, filter),
	}
}

func (s *RetrievalService) fallback(msg, query string, err error) {
	s.log.Warn(msg,
		slog.Any("error", err),
		slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
}

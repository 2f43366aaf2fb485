package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

// Searcher runs kNN queries against the chunk index.
type Searcher struct {
	client    *elasticsearch.Client
	index     string
	timeout   time.Duration
	available atomic.Bool
	log       *slog.Logger
}

func NewSearcher(client *elasticsearch.Client, index string, timeout time.Duration) *Searcher {
	return &Searcher{client: client, index: index, timeout: timeout, log: logging.New("es")}
}

func (s *Searcher) Available() bool {
	return s.available.Load()
}

// Probe 检查索引是否存在
func (s *Searcher) Probe(ctx context.Context) error {
	err := s.probe(ctx)
	if was := s.available.Swap(err == nil); was != (err == nil) {
		if err != nil {
			s.log.Warn("vector store unavailable", slog.Any("error", err))
		} else {
			s.log.Info("vector store available", "index", s.index)
		}
	}
	return err
}

func (s *Searcher) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrVectorStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return fmt.Errorf("%w: index %s status %d", types.ErrVectorStoreUnavailable, s.index, res.StatusCode)
	}
	return nil
}

// buildKNNQuery kNN + term 过滤
func buildKNNQuery(vector []float64, filter types.RetrievalFilter, topK int) map[string]any {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var terms []map[string]any
	for _, key := range keys {
		if !isChunkField(key) {
			continue
		}
		terms = append(terms, map[string]any{"term": map[string]any{key: filter[key]}})
	}

	knn := map[string]any{
		"field":          fieldVector,
		"query_vector":   vector,
		"k":              topK,
		"num_candidates": topK * 10,
	}
	if len(terms) > 0 {
		knn["filter"] = terms
	}
	return map[string]any{
		"knn":     knn,
		"size":    topK,
		"_source": append([]string{fieldContent}, types.ChunkFields...),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Score  float64        `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Searcher) Search(ctx context.Context, vector []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(buildKNNQuery(vector, filter, topK))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", types.ErrSearch, err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: es: %v", types.ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: es response: %s", types.ErrSearch, res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", types.ErrSearch, err)
	}
	return toDocuments(parsed), nil
}

func toDocuments(parsed searchResponse) []types.RetrievedDocument {
	docs := make([]types.RetrievedDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		text, _ := hit.Source[fieldContent].(string)
		docs = append(docs, types.DocumentFromMeta(hit.ID, text, hit.Score, hit.Source))
	}
	return docs
}

func isChunkField(key string) bool {
	for _, f := range types.ChunkFields {
		if f == key {
			return true
		}
	}
	return false
}

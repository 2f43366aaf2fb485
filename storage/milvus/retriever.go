package milvus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino-ext/components/retriever/milvus"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

const (
	fieldID      = "id"
	fieldVector  = "vector"
	fieldContent = "content"
)

// Searcher 基于 Milvus 的向量检索。连接和 retriever 都在 Probe 成功后才建立，
// 启动时 Milvus 不可达不影响服务启动。
type Searcher struct {
	addr       string
	collection string
	timeout    time.Duration
	log        *slog.Logger

	mu        sync.RWMutex
	cli       client.Client
	retr      *milvus.Retriever
	available atomic.Bool
}

func NewSearcher(addr, collection string, timeout time.Duration) *Searcher {
	return &Searcher{
		addr:       addr,
		collection: collection,
		timeout:    timeout,
		log:        logging.New("milvus"),
	}
}

// Available reports the result of the most recent probe.
func (s *Searcher) Available() bool {
	return s.available.Load()
}

// Probe checks that Milvus is reachable and the collection exists, and flips
// the availability flag accordingly.
func (s *Searcher) Probe(ctx context.Context) error {
	err := s.probe(ctx)
	if was := s.available.Swap(err == nil); was != (err == nil) {
		if err != nil {
			s.log.Warn("vector store unavailable", slog.Any("error", err))
		} else {
			s.log.Info("vector store available", "collection", s.collection)
		}
	}
	return err
}

func (s *Searcher) probe(ctx context.Context) error {
	s.mu.RLock()
	cli, retr := s.cli, s.retr
	s.mu.RUnlock()

	if cli == nil {
		c, err := Connect(ctx, s.addr)
		if err != nil {
			return err
		}
		cli = c
		s.mu.Lock()
		s.cli = cli
		s.mu.Unlock()
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	has, err := cli.HasCollection(probeCtx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrVectorStoreUnavailable, err)
	}
	if !has {
		return fmt.Errorf("%w: collection %s not found", types.ErrVectorStoreUnavailable, s.collection)
	}

	if retr == nil {
		r, err := newRetriever(probeCtx, cli, s.collection)
		if err != nil {
			return fmt.Errorf("%w: %v", types.ErrVectorStoreUnavailable, err)
		}
		s.mu.Lock()
		s.retr = r
		s.mu.Unlock()
	}
	return nil
}

// Search returns up to topK chunks nearest to vector, most similar first.
func (s *Searcher) Search(ctx context.Context, vector []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error) {
	s.mu.RLock()
	retr := s.retr
	s.mu.RUnlock()
	if retr == nil {
		return nil, types.ErrVectorStoreUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// 向量已由上游算好，这里用固定向量替换 retriever 自带的 embedding
	docs, err := retr.Retrieve(ctx, "",
		retriever.WithEmbedding(vectorEmbedder(vector)),
		retriever.WithTopK(topK),
		milvus.WithFilter(BuildExpr(filter)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: milvus: %v", types.ErrSearch, err)
	}

	out := make([]types.RetrievedDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, types.DocumentFromMeta(doc.ID, doc.Content, doc.Score(), doc.MetaData))
	}
	return out, nil
}

func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cli == nil {
		return nil
	}
	return s.cli.Close()
}

func newRetriever(ctx context.Context, cli client.Client, collection string) (*milvus.Retriever, error) {
	return milvus.NewRetriever(ctx, &milvus.RetrieverConfig{
		Client:            cli,
		Collection:        collection,
		VectorField:       fieldVector,
		OutputFields:      append([]string{fieldContent}, types.ChunkFields...),
		DocumentConverter: convertResult,
		VectorConverter:   toFloatVectors,
		MetricType:        entity.COSINE,
		TopK:              5,
		Embedding:         vectorEmbedder(nil),
	})
}

// vectorEmbedder returns the same precomputed vector for every input.
type vectorEmbedder []float64

func (v vectorEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(v) == 0 {
		return nil, errors.New("no query vector supplied")
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = v
	}
	return out, nil
}

func toFloatVectors(_ context.Context, vectors [][]float64) ([]entity.Vector, error) {
	out := make([]entity.Vector, 0, len(vectors))
	for _, vec := range vectors {
		out = append(out, entity.FloatVector(toFloat32(vec)))
	}
	return out, nil
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

// convertResult 把检索结果转成 Document，分数放进 Document 的 score
func convertResult(_ context.Context, result client.SearchResult) ([]*schema.Document, error) {
	if result.IDs == nil {
		return nil, nil
	}
	docs := make([]*schema.Document, result.IDs.Len())
	for i := 0; i < result.IDs.Len(); i++ {
		id, err := result.IDs.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get id: %w", err)
		}

		doc := &schema.Document{ID: id, MetaData: make(map[string]any)}
		if len(result.Scores) > i {
			doc = doc.WithScore(float64(result.Scores[i]))
		}

		for _, field := range result.Fields {
			value, err := field.GetAsString(i)
			if err != nil {
				continue
			}
			if field.Name() == fieldContent {
				doc.Content = value
			} else {
				doc.MetaData[field.Name()] = value
			}
		}
		docs[i] = doc
	}
	return docs, nil
}

// BuildExpr 构建标量过滤表达式，只接受分块元数据字段，按字段名排序
func BuildExpr(filter types.RetrievalFilter) string {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		if isChunkField(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	exprs := make([]string, 0, len(keys))
	for _, key := range keys {
		exprs = append(exprs, fmt.Sprintf("%s == %s", key, strconv.Quote(filter[key])))
	}
	return strings.Join(exprs, " && ")
}

func isChunkField(key string) bool {
	for _, f := range types.ChunkFields {
		if f == key {
			return true
		}
	}
	return false
}

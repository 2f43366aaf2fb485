package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

const (
	fieldContent = "content"
	fieldVector  = "vector"
)

// NewClient 创建 ES 客户端，不会立即建立连接
func NewClient(addresses []string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("error creating the client: %w", err)
	}
	return es, nil
}

// ESIndexer 把分块连同向量批量写入 ES，实现 eino indexer.Indexer
type ESIndexer struct {
	client   *elasticsearch.Client
	index    string
	embedder embedding.Embedder
	log      *slog.Logger

	// 映射创建成功后置位，失败的下次重试
	mu    sync.Mutex
	ready bool
}

var _ indexer.Indexer = (*ESIndexer)(nil)

func NewESIndexer(client *elasticsearch.Client, index string, embedder embedding.Embedder) *ESIndexer {
	return &ESIndexer{client: client, index: index, embedder: embedder, log: logging.New("es")}
}

// indexMapping 标量字段用 keyword 以支持 term 过滤
func indexMapping(dims int) string {
	props := map[string]any{
		fieldContent: map[string]any{"type": "text"},
		fieldVector: map[string]any{
			"type":       "dense_vector",
			"dims":       dims,
			"index":      true,
			"similarity": "cosine",
		},
	}
	for _, name := range types.ChunkFields {
		props[name] = map[string]any{"type": "keyword"}
	}
	body, _ := json.Marshal(map[string]any{
		"settings": map[string]any{"number_of_shards": 1, "number_of_replicas": 0},
		"mappings": map[string]any{"properties": props},
	})
	return string(body)
}

func (e *ESIndexer) ensureMapping(ctx context.Context, dims int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.initMapping(ctx, dims); err != nil {
		return err
	}
	e.ready = true
	return nil
}

func (e *ESIndexer) initMapping(ctx context.Context, dims int) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	e.log.Info("creating index", "index", e.index, "dims", dims)
	res, err = e.client.Indices.Create(
		e.index,
		e.client.Indices.Create.WithBody(strings.NewReader(indexMapping(dims))),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index error: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index response error: %s", res.String())
	}
	return nil
}

// Store 批量存储，_id 使用分块 ID，重复写入即覆盖
func (e *ESIndexer) Store(ctx context.Context, docs []*schema.Document, _ ...indexer.Option) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vectors, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbedding, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", types.ErrEmbedding, len(vectors), len(docs))
	}

	if err := e.ensureMapping(ctx, len(vectors[0])); err != nil {
		return nil, err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:  e.index,
		Client: e.client,
	})
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(chunkSource(doc, vectors[i]))
		if err != nil {
			return nil, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, _ esutil.BulkIndexerResponseItem, _ error) {
				mu.Lock()
				failed = append(failed, item.DocumentID)
				mu.Unlock()
			},
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}

	if err := bi.Close(ctx); err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("%w: %d of %d chunks rejected by elasticsearch", types.ErrStorage, len(failed), len(docs))
	}
	return ids, nil
}

func chunkSource(doc *schema.Document, vector []float64) map[string]any {
	source := map[string]any{
		fieldContent: doc.Content,
		fieldVector:  vector,
	}
	for _, name := range types.ChunkFields {
		if v, ok := doc.MetaData[name].(string); ok {
			source[name] = v
		}
	}
	return source
}

// Package pgvector stores and searches legal chunks in Postgres with the
// pgvector extension.
package pgvector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

const table = "legal_chunks"

// NewPool opens a pgx pool; connections are established lazily.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

// formatVector formats an embedding vector as a pgvector literal
func formatVector(embedding []float64) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func schemaStatements(dims int) []string {
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    source_type TEXT NOT NULL DEFAULT '',
    source_name TEXT NOT NULL DEFAULT '',
    source_url TEXT NOT NULL DEFAULT '',
    document_type TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    embedding vector(%d),
    created_at TIMESTAMP DEFAULT NOW()
)`, table, dims),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING hnsw (embedding vector_cosine_ops) WITH (m = 16, ef_construction = 64)", table, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_source_type ON %s(source_type)", table, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_language ON %s(language)", table, table),
	}
}

// EnsureSchema creates the extension, table and indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, dims int) error {
	for _, stmt := range schemaStatements(dims) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %v", types.ErrStorage, err)
		}
	}
	return nil
}

// Searcher 余弦距离检索，score = 1 - distance
type Searcher struct {
	pool      *pgxpool.Pool
	timeout   time.Duration
	available atomic.Bool
	log       *slog.Logger
}

func NewSearcher(pool *pgxpool.Pool, timeout time.Duration) *Searcher {
	return &Searcher{pool: pool, timeout: timeout, log: logging.New("pgvector")}
}

func (s *Searcher) Available() bool {
	return s.available.Load()
}

func (s *Searcher) Probe(ctx context.Context) error {
	err := s.probe(ctx)
	if was := s.available.Swap(err == nil); was != (err == nil) {
		if err != nil {
			s.log.Warn("vector store unavailable", slog.Any("error", err))
		} else {
			s.log.Info("vector store available", "table", table)
		}
	}
	return err
}

func (s *Searcher) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %v", types.ErrVectorStoreUnavailable, err)
	}
	if !exists {
		return fmt.Errorf("%w: table %s not found", types.ErrVectorStoreUnavailable, table)
	}
	return nil
}

// buildSearchSQL 过滤字段只接受分块元数据列，参数从 $2 开始
func buildSearchSQL(vector []float64, filter types.RetrievalFilter, topK int) (string, []any) {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		if isChunkField(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	args := []any{formatVector(vector)}
	var where []string
	for _, key := range keys {
		args = append(args, filter[key])
		where = append(where, fmt.Sprintf("%s = $%d", key, len(args)))
	}
	args = append(args, topK)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT id, content, source_type, source_name, source_url, document_type, 1 - (embedding <=> $1::vector) AS score FROM %s", table)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY embedding <=> $1::vector LIMIT $%d", len(args))
	return b.String(), args
}

func (s *Searcher) Search(ctx context.Context, vector []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query, args := buildSearchSQL(vector, filter, topK)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pgvector: %v", types.ErrSearch, err)
	}
	defer rows.Close()

	var docs []types.RetrievedDocument
	for rows.Next() {
		var (
			doc   types.RetrievedDocument
			score float64
		)
		err := rows.Scan(&doc.ID, &doc.Text,
			&doc.Source.SourceType, &doc.Source.SourceName, &doc.Source.SourceURL, &doc.Source.DocumentType,
			&score)
		if err != nil {
			return nil, fmt.Errorf("%w: scan chunk: %v", types.ErrSearch, err)
		}
		doc.RelevanceScore = types.ClampScore(score)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate chunks: %v", types.ErrSearch, err)
	}
	return docs, nil
}

// Indexer upserts chunks with their embeddings; implements eino indexer.Indexer.
type Indexer struct {
	pool     *pgxpool.Pool
	embedder embedding.Embedder

	mu    sync.Mutex
	ready bool
}

var _ indexer.Indexer = (*Indexer)(nil)

func NewIndexer(pool *pgxpool.Pool, embedder embedding.Embedder) *Indexer {
	return &Indexer{pool: pool, embedder: embedder}
}

func (i *Indexer) ensureSchema(ctx context.Context, dims int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}
	if err := EnsureSchema(ctx, i.pool, dims); err != nil {
		return err
	}
	i.ready = true
	return nil
}

var upsertSQL = fmt.Sprintf(`INSERT INTO %s (id, content, source_type, source_name, source_url, document_type, language, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)
ON CONFLICT (id) DO UPDATE SET
    content = EXCLUDED.content,
    source_type = EXCLUDED.source_type,
    source_name = EXCLUDED.source_name,
    source_url = EXCLUDED.source_url,
    document_type = EXCLUDED.document_type,
    language = EXCLUDED.language,
    embedding = EXCLUDED.embedding`, table)

func (i *Indexer) Store(ctx context.Context, docs []*schema.Document, _ ...indexer.Option) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for n, doc := range docs {
		texts[n] = doc.Content
	}
	vectors, err := i.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbedding, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", types.ErrEmbedding, len(vectors), len(docs))
	}

	if err := i.ensureSchema(ctx, len(vectors[0])); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	ids := make([]string, len(docs))
	for n, doc := range docs {
		meta := func(key string) string {
			v, _ := doc.MetaData[key].(string)
			return v
		}
		batch.Queue(upsertSQL, doc.ID, doc.Content,
			meta(types.MetaSourceType), meta(types.MetaSourceName), meta(types.MetaSourceURL),
			meta(types.MetaDocumentType), meta(types.MetaLanguage),
			formatVector(vectors[n]))
		ids[n] = doc.ID
	}

	if err := i.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("%w: upsert chunks: %v", types.ErrStorage, err)
	}
	return ids, nil
}

func isChunkField(key string) bool {
	for _, f := range types.ChunkFields {
		if f == key {
			return true
		}
	}
	return false
}

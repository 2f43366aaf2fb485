// Package vectorstore opens the configured vector-search backend and the
// indexers ingestion writes to.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	milvuscli "github.com/milvus-io/milvus-sdk-go/v2/client"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/storage/es"
	"nyaya-sahayak/storage/milvus"
	"nyaya-sahayak/storage/pgvector"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

const (
	BackendMilvus   = "milvus"
	BackendES       = "elasticsearch"
	BackendPGVector = "pgvector"
)

var ErrUnknownBackend = errors.New("unknown vector store backend")

// Searcher is what every backend exposes to retrieval and the health job.
type Searcher interface {
	Search(ctx context.Context, vector []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error)
	Available() bool
	Probe(ctx context.Context) error
}

type Config struct {
	// Backend serves searches; IndexBackends receive ingested chunks
	// (defaults to Backend alone).
	Backend       string
	IndexBackends []string

	MilvusAddr  string
	Collection  string
	ESAddr      string
	ESIndex     string
	DatabaseURL string
	Timeout     time.Duration
}

// ConfigFromEnv reads SEARCH_BACKEND, INDEX_BACKENDS and the backend addresses.
func ConfigFromEnv() Config {
	return Config{
		Backend:       vars.SEARCH_BACKEND,
		IndexBackends: ParseBackends(vars.INDEX_BACKENDS),
		MilvusAddr:    vars.MILVUSADDR,
		Collection:    vars.MILVUS_COLL,
		ESAddr:        vars.ESADDR,
		ESIndex:       vars.ES_INDEX,
		DatabaseURL:   vars.DATABASE_URL,
		Timeout:       vars.SEARCH_TIMEOUT,
	}
}

type Store struct {
	Backend  string
	Searcher Searcher
	Indexers []indexer.Indexer

	closers []func()
}

// ParseBackends splits a comma separated backend list.
func ParseBackends(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Open builds the searcher and indexers. Nothing here dials a backend
// eagerly: availability is established by Probe.
func Open(ctx context.Context, cfg Config, embedder embedding.Embedder) (*Store, error) {
	st := &Store{Backend: cfg.Backend}
	o := &opener{cfg: cfg}

	searcher, err := o.searcher(ctx)
	if err != nil {
		st.closers = o.closers
		st.Close()
		return nil, err
	}
	st.Searcher = searcher

	backends := cfg.IndexBackends
	if len(backends) == 0 {
		backends = []string{cfg.Backend}
	}
	for _, b := range backends {
		idx, err := o.indexer(ctx, b, embedder)
		if err != nil {
			st.closers = o.closers
			st.Close()
			return nil, err
		}
		st.Indexers = append(st.Indexers, idx)
	}
	st.closers = o.closers
	return st, nil
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// opener shares one client per backend between the searcher and indexers.
type opener struct {
	cfg     Config
	esCli   *elasticsearch.Client
	pool    *pgxpool.Pool
	closers []func()
}

func (o *opener) es() (*elasticsearch.Client, error) {
	if o.esCli == nil {
		cli, err := es.NewClient([]string{o.cfg.ESAddr})
		if err != nil {
			return nil, err
		}
		o.esCli = cli
	}
	return o.esCli, nil
}

func (o *opener) pg(ctx context.Context) (*pgxpool.Pool, error) {
	if o.pool == nil {
		pool, err := pgvector.NewPool(ctx, o.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		o.pool = pool
		o.closers = append(o.closers, pool.Close)
	}
	return o.pool, nil
}

func (o *opener) searcher(ctx context.Context) (Searcher, error) {
	switch o.cfg.Backend {
	case BackendMilvus:
		s := milvus.NewSearcher(o.cfg.MilvusAddr, o.cfg.Collection, o.cfg.Timeout)
		o.closers = append(o.closers, func() { _ = s.Close() })
		return s, nil
	case BackendES:
		cli, err := o.es()
		if err != nil {
			return nil, err
		}
		return es.NewSearcher(cli, o.cfg.ESIndex, o.cfg.Timeout), nil
	case BackendPGVector:
		pool, err := o.pg(ctx)
		if err != nil {
			return nil, err
		}
		return pgvector.NewSearcher(pool, o.cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.cfg.Backend)
	}
}

func (o *opener) indexer(ctx context.Context, backend string, embedder embedding.Embedder) (indexer.Indexer, error) {
	switch backend {
	case BackendMilvus:
		l := &lazyIndexer{name: BackendMilvus, open: func(ctx context.Context) (indexer.Indexer, func(), error) {
			cli, err := milvus.Connect(ctx, o.cfg.MilvusAddr)
			if err != nil {
				return nil, nil, err
			}
			idx, err := milvus.NewChunkIndexer(ctx, cli, embedder, o.cfg.Collection)
			if err != nil {
				cli.Close()
				return nil, nil, err
			}
			return idx, func() { closeMilvus(cli) }, nil
		}}
		o.closers = append(o.closers, l.Close)
		return l, nil
	case BackendES:
		cli, err := o.es()
		if err != nil {
			return nil, err
		}
		return es.NewESIndexer(cli, o.cfg.ESIndex, embedder), nil
	case BackendPGVector:
		pool, err := o.pg(ctx)
		if err != nil {
			return nil, err
		}
		return pgvector.NewIndexer(pool, embedder), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func closeMilvus(cli milvuscli.Client) {
	if err := cli.Close(); err != nil {
		logging.New("vectorstore").Warn("close milvus client failed", "error", err)
	}
}

// lazyIndexer defers building an indexer until the first Store, retrying on
// every call until it succeeds.
type lazyIndexer struct {
	name string
	open func(ctx context.Context) (indexer.Indexer, func(), error)

	mu    sync.Mutex
	inner indexer.Indexer
	close func()
}

func (l *lazyIndexer) get(ctx context.Context) (indexer.Indexer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner != nil {
		return l.inner, nil
	}
	inner, closeFn, err := l.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s indexer: %w", l.name, err)
	}
	l.inner, l.close = inner, closeFn
	return inner, nil
}

func (l *lazyIndexer) Store(ctx context.Context, docs []*schema.Document, opts ...indexer.Option) ([]string, error) {
	inner, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return inner.Store(ctx, docs, opts...)
}

func (l *lazyIndexer) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.close != nil {
		l.close()
	}
	l.inner, l.close = nil, nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/logic/ingestion"
	"nyaya-sahayak/logic/ingestion/processors"
	"nyaya-sahayak/storage/files"
	"nyaya-sahayak/types"
)

// 允许上传的分类目录
var uploadCategories = []string{
	ingestion.DirLegalCodes, ingestion.DirConstitution, ingestion.DirSchemes, ingestion.DirFAQs, "guides",
}

// IngestionService 知识库入库：加载 → 清洗 → 语义切分 → 写入向量库
type IngestionService struct {
	loader   document.Loader
	parser   parser.Parser
	splitter document.Transformer
	archive  files.Storage
	indexers []indexer.Indexer
	log      *slog.Logger
}

// NewIngestionService wires the pipeline. archive may be nil when uploads are
// not archived; every indexer receives every chunk.
func NewIngestionService(loader document.Loader, p parser.Parser, splitter document.Transformer, archive files.Storage, indexers ...indexer.Indexer) *IngestionService {
	return &IngestionService{
		loader:   loader,
		parser:   p,
		splitter: splitter,
		archive:  archive,
		indexers: indexers,
		log:      logging.New("ingestion"),
	}
}

// IngestFile loads one file from disk; metadata comes from its parent directory.
func (s *IngestionService) IngestFile(ctx context.Context, filePath string) types.IngestResult {
	name := filepath.Base(filePath)
	docs, err := s.loader.Load(ctx, document.Source{URI: filePath})
	if err != nil {
		return s.result(name, nil, fmt.Errorf("load: %w", err))
	}
	ids, err := s.ingest(ctx, name, ingestion.MetadataFor(filePath), docs)
	return s.result(name, ids, err)
}

// IngestDir walks root and ingests every regular, non-hidden file. Per-file
// failures are reported in the results; only a walk error is returned.
func (s *IngestionService) IngestDir(ctx context.Context, root string) ([]types.IngestResult, error) {
	var results []types.IngestResult
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, s.IngestFile(ctx, p))
		return nil
	})
	return results, err
}

// Upload archives an uploaded file under category and ingests it.
func (s *IngestionService) Upload(ctx context.Context, category string, fh *multipart.FileHeader) (types.IngestResult, error) {
	if category == "" {
		category = "guides"
	}
	if !validCategory(category) {
		return types.IngestResult{}, fmt.Errorf("%w: unknown category %q", types.ErrInvalidInput, category)
	}

	src, err := fh.Open()
	if err != nil {
		return types.IngestResult{}, fmt.Errorf("%w: open upload: %v", types.ErrInvalidInput, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return types.IngestResult{}, fmt.Errorf("%w: read upload: %v", types.ErrInvalidInput, err)
	}

	if s.archive != nil {
		key, err := s.archive.Upload(ctx, category, fh.Filename, bytes.NewReader(data))
		if err != nil {
			return types.IngestResult{}, fmt.Errorf("%w: archive upload: %v", types.ErrStorage, err)
		}
		s.log.Info("archived upload", "key", key)
	}

	name := filepath.Base(fh.Filename)
	docs, err := s.parser.Parse(ctx, bytes.NewReader(data), parser.WithURI(name))
	if err != nil {
		return types.IngestResult{}, fmt.Errorf("%w: parse %s: %v", types.ErrInvalidInput, name, err)
	}
	ids, err := s.ingest(ctx, name, ingestion.MetadataFor(path.Join(category, name)), docs)
	res := s.result(name, ids, err)
	return res, err
}

func (s *IngestionService) ingest(ctx context.Context, name string, meta map[string]any, docs []*schema.Document) ([]string, error) {
	start := time.Now()

	docs, err := processors.Processor(ctx, docs)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s has no text", types.ErrInvalidInput, name)
	}

	chunks, err := s.splitter.Transform(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if chunks, err = processors.Processor(ctx, chunks); err != nil {
		return nil, err
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunk.ID = types.ChunkID(name, i)
		chunk.MetaData = maps.Clone(meta)
		ids[i] = chunk.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, idx := range s.indexers {
		g.Go(func() error {
			_, err := idx.Store(gctx, chunks)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	s.log.Info("ingested", "file", name, "chunks", len(chunks), "elapsed", time.Since(start))
	return ids, nil
}

func (s *IngestionService) result(name string, ids []string, err error) types.IngestResult {
	res := types.IngestResult{File: name, ChunkIDs: ids}
	if err != nil {
		s.log.Warn("ingest failed", "file", name, slog.Any("error", err))
		res.Error = err.Error()
		res.ChunkIDs = nil
	}
	return res
}

func validCategory(category string) bool {
	for _, c := range uploadCategories {
		if c == category {
			return true
		}
	}
	return false
}

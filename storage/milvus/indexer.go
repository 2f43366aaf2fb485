package milvus

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cloudwego/eino-ext/components/indexer/milvus"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

// chunkFields 分块集合的 schema，标量字段与 types.ChunkFields 一致
func chunkFields(dim int) []*entity.Field {
	fields := []*entity.Field{
		{
			Name:       fieldID,
			DataType:   entity.FieldTypeVarChar,
			PrimaryKey: true,
			AutoID:     false,
			TypeParams: map[string]string{"max_length": "512"},
		},
		{
			Name:       fieldVector,
			DataType:   entity.FieldTypeFloatVector,
			TypeParams: map[string]string{"dim": strconv.Itoa(dim)},
		},
		{
			Name:       fieldContent,
			DataType:   entity.FieldTypeVarChar,
			TypeParams: map[string]string{"max_length": "65535"},
		},
	}
	for _, name := range types.ChunkFields {
		fields = append(fields, &entity.Field{
			Name:       name,
			DataType:   entity.FieldTypeVarChar,
			TypeParams: map[string]string{"max_length": "1024"},
		})
	}
	return fields
}

// NewChunkIndexer 返回写入法律文档分块的 indexer。集合不存在时建表并建 HNSW(COSINE) 索引。
func NewChunkIndexer(ctx context.Context, cli client.Client, embedder embedding.Embedder, collection string) (indexer.Indexer, error) {
	log := logging.New("milvus")

	vecs, err := embedder.EmbedStrings(ctx, []string{"test"})
	if err != nil {
		return nil, fmt.Errorf("%w: probe dimension: %v", types.ErrEmbedding, err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("%w: probe dimension: empty vector", types.ErrEmbedding)
	}
	dim := len(vecs[0])

	existed, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrVectorStoreUnavailable, err)
	}

	idx, err := milvus.NewIndexer(ctx, &milvus.IndexerConfig{
		Client:            cli,
		Collection:        collection,
		Embedding:         embedder,
		Fields:            chunkFields(dim),
		DocumentConverter: convertChunks,
		MetricType:        milvus.L2,
	})
	if err != nil {
		return nil, fmt.Errorf("[NewIndexer] create collection: %w", err)
	}
	if existed {
		return idx, nil
	}

	log.Info("new collection, building indexes", "collection", collection, "dim", dim)

	// 先 Release 才能操作索引
	_ = cli.ReleaseCollection(ctx, collection)
	if err := cli.DropIndex(ctx, collection, fieldVector); err != nil {
		log.Debug("drop default index", slog.Any("error", err))
	}

	hnsw, err := entity.NewIndexHNSW(entity.COSINE, 16, 200)
	if err != nil {
		return nil, err
	}
	if err := cli.CreateIndex(ctx, collection, fieldVector, hnsw, false); err != nil {
		return nil, fmt.Errorf("create HNSW index: %w", err)
	}
	for _, name := range []string{types.MetaSourceType, types.MetaLanguage, types.MetaDocumentType} {
		if err := cli.CreateIndex(ctx, collection, name, entity.NewScalarIndex(), false); err != nil {
			return nil, fmt.Errorf("create %s index: %w", name, err)
		}
	}

	if err := cli.LoadCollection(ctx, collection, false); err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return idx, nil
}

func convertChunks(_ context.Context, docs []*schema.Document, vectors [][]float64) ([]interface{}, error) {
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(docs))
	}
	rows := make([]interface{}, len(docs))
	for i, doc := range docs {
		row := map[string]interface{}{
			fieldID:      doc.ID,
			fieldVector:  toFloat32(vectors[i]),
			fieldContent: doc.Content,
		}
		for _, name := range types.ChunkFields {
			value, _ := doc.MetaData[name].(string)
			row[name] = value
		}
		rows[i] = row
	}
	return rows, nil
}

// Package files archives uploaded source documents on local disk or S3.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage 原始文档归档
type Storage interface {
	// Upload stores data under category and returns the storage key.
	Upload(ctx context.Context, category, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

type Config struct {
	Type      Type
	LocalPath string
	S3Bucket  string
	S3Region  string
}

var ErrNotFound = errors.New("file not found")

func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// storageKey 生成 <category>/<id前两位>/<id>_<name>，category 决定入库元数据
func storageKey(category string, fileID uuid.UUID, filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)

	category = strings.Trim(path.Clean("/"+category), "/")
	if category == "" {
		category = "uncategorized"
	}
	id := fileID.String()
	return fmt.Sprintf("%s/%s/%s_%s%s", category, id[:2], id, base, ext)
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/response"
	"nyaya-sahayak/types"
)

const maxUploadSize = 20 << 20

// UserIDHeader carries the caller's id until authentication is added.
const UserIDHeader = "X-User-ID"

func userID(c *gin.Context) string {
	if id := c.GetHeader(UserIDHeader); id != "" {
		return id
	}
	return "anonymous"
}

type Pipeline interface {
	Handle(ctx context.Context, query, userID, conversationID string) (*types.ChatResult, error)
}

type DocumentSearcher interface {
	Search(ctx context.Context, query string, filter types.RetrievalFilter) types.SearchResult
}

type DocumentUploader interface {
	Upload(ctx context.Context, category string, fh *multipart.FileHeader) (types.IngestResult, error)
}

// LegalHandler 提问、检索和知识库上传接口
type LegalHandler struct {
	pipeline Pipeline
	searcher DocumentSearcher
	uploader DocumentUploader
}

func NewLegalHandler(pipeline Pipeline, searcher DocumentSearcher, uploader DocumentUploader) *LegalHandler {
	return &LegalHandler{
		pipeline: pipeline,
		searcher: searcher,
		uploader: uploader,
	}
}

// Query POST /api/legal/query
func (h *LegalHandler) Query(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "query and conversationId are required")
		return
	}
	if req.UserID == "" {
		req.UserID = userID(c)
	}

	result, err := h.pipeline.Handle(c.Request.Context(), req.Query, req.UserID, req.ConversationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Search GET /api/legal/search?query=...&filters={"source_type":"law"}
func (h *LegalHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.Fail(c, "query is required")
		return
	}

	var filter types.RetrievalFilter
	if raw := c.Query("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			response.Fail(c, "filters must be a JSON object of strings")
			return
		}
	}

	response.Success(c, h.searcher.Search(c.Request.Context(), query, filter))
}

// Upload POST /api/legal/documents，form 字段 file（可多个）和 category
func (h *LegalHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize*5)
	form, err := c.MultipartForm()
	if err != nil {
		response.Fail(c, "multipart form expected")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		response.Fail(c, "no file received, the form field must be named 'file'")
		return
	}
	category := c.PostForm("category")

	var (
		results   []types.IngestResult
		allDocIDs []string
		failed    []string
		firstErr  error
	)
	for _, fh := range files {
		res, err := h.upload(c.Request.Context(), category, fh)
		if err != nil {
			// 单个文件失败不影响其他文件
			failed = append(failed, fh.Filename)
			if firstErr == nil {
				firstErr = err
			}
		}
		results = append(results, res)
		allDocIDs = append(allDocIDs, res.ChunkIDs...)
	}

	if len(failed) == len(files) {
		response.Error(c, fmt.Errorf("all files failed %v: %w", failed, firstErr))
		return
	}
	response.Success(c, gin.H{
		"files":       results,
		"chunk_ids":   allDocIDs,
		"total_count": len(allDocIDs),
		"fail_files":  failed,
	})
}

func (h *LegalHandler) upload(ctx context.Context, category string, fh *multipart.FileHeader) (types.IngestResult, error) {
	if fh.Size > maxUploadSize {
		err := fmt.Errorf("%w: %s exceeds %d bytes", types.ErrInvalidInput, fh.Filename, maxUploadSize)
		return types.IngestResult{File: fh.Filename, Error: err.Error()}, err
	}
	res, err := h.uploader.Upload(ctx, category, fh)
	if err != nil && res.File == "" {
		res = types.IngestResult{File: fh.Filename, Error: err.Error()}
	}
	return res, err
}

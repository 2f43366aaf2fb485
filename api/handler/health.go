package handler

import (
	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/response"
)

type Availability interface {
	Available() bool
}

type HealthHandler struct {
	backend     string
	vectorStore Availability
}

func NewHealthHandler(backend string, vectorStore Availability) *HealthHandler {
	return &HealthHandler{backend: backend, vectorStore: vectorStore}
}

// Health GET /api/health. A degraded vector store still answers queries from
// fallback documents, so the service reports ok either way.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "available"
	if !h.vectorStore.Available() {
		status = "degraded"
	}
	response.Success(c, gin.H{
		"status":       "ok",
		"vector_store": gin.H{"backend": h.backend, "status": status},
	})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/response"
	"nyaya-sahayak/types"
)

type ConversationManager interface {
	Create(ctx context.Context, req types.CreateConversationRequest) (*types.Conversation, error)
	List(ctx context.Context, userID string) ([]types.Conversation, error)
	Get(ctx context.Context, id string) (*types.ConversationDetail, error)
	Update(ctx context.Context, id string, req types.UpdateConversationRequest) (*types.Conversation, error)
	Delete(ctx context.Context, id string) error
}

type ConversationHandler struct {
	svc ConversationManager
}

func NewConversationHandler(svc ConversationManager) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// List GET /api/conversations?userId=
func (h *ConversationHandler) List(c *gin.Context) {
	uid := c.Query("userId")
	if uid == "" {
		uid = userID(c)
	}
	list, err := h.svc.List(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req types.CreateConversationRequest
	// 允许空 body
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, "invalid request body")
			return
		}
	}
	if req.UserID == "" {
		req.UserID = userID(c)
	}
	conv, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, conv)
}

func (h *ConversationHandler) Update(c *gin.Context) {
	var req types.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request body")
		return
	}
	conv, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}

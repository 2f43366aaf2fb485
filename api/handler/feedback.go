package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/response"
	"nyaya-sahayak/types"
)

type FeedbackRecorder interface {
	Submit(ctx context.Context, req types.FeedbackRequest) (*types.Feedback, bool, error)
	ForResponse(ctx context.Context, responseID string) (*types.ResponseFeedback, error)
}

type FeedbackHandler struct {
	svc FeedbackRecorder
}

func NewFeedbackHandler(svc FeedbackRecorder) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit POST /api/feedback，首次提交 201，更新 200
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "responseId and rating are required")
		return
	}
	if req.UserID == "" {
		req.UserID = userID(c)
	}

	fb, created, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, fb)
		return
	}
	response.Success(c, fb)
}

// ForResponse GET /api/feedback/response/:responseId
func (h *FeedbackHandler) ForResponse(c *gin.Context) {
	rf, err := h.svc.ForResponse(c.Request.Context(), c.Param("responseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rf)
}

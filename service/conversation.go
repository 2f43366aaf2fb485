package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

type ConversationStore interface {
	CreateConversation(ctx context.Context, c *types.Conversation) error
	ListConversations(ctx context.Context, userID string) ([]types.Conversation, error)
	GetConversationDetail(ctx context.Context, id string) (*types.ConversationDetail, error)
	UpdateConversation(ctx context.Context, id, title, status string) (*types.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	ArchiveIdle(ctx context.Context, before time.Time) (int64, error)
}

type ConversationService struct {
	store ConversationStore
	log   *slog.Logger
}

func NewConversationService(store ConversationStore) *ConversationService {
	return &ConversationService{store: store, log: logging.New("conversation")}
}

func (s *ConversationService) Create(ctx context.Context, req types.CreateConversationRequest) (*types.Conversation, error) {
	c := &types.Conversation{
		UserID: req.UserID,
		Title:  strings.TrimSpace(req.Title),
		Status: types.StatusActive,
	}
	if c.Title == "" {
		c.Title = vars.DefaultConversationTitle
	}
	if err := s.store.CreateConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ConversationService) List(ctx context.Context, userID string) ([]types.Conversation, error) {
	list, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []types.Conversation{}
	}
	return list, nil
}

func (s *ConversationService) Get(ctx context.Context, id string) (*types.ConversationDetail, error) {
	return s.store.GetConversationDetail(ctx, id)
}

func (s *ConversationService) Update(ctx context.Context, id string, req types.UpdateConversationRequest) (*types.Conversation, error) {
	var title, status string
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if req.Status != nil {
		status = *req.Status
		if status != types.StatusActive && status != types.StatusArchived {
			return nil, fmt.Errorf("%w: status must be %q or %q", types.ErrInvalidInput, types.StatusActive, types.StatusArchived)
		}
	}
	return s.store.UpdateConversation(ctx, id, title, status)
}

func (s *ConversationService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteConversation(ctx, id)
}

// ArchiveIdle archives active conversations untouched for vars.ArchiveAfter.
func (s *ConversationService) ArchiveIdle(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.ArchiveIdle(ctx, now.Add(-vars.ArchiveAfter))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("archived idle conversations", slog.Int64("count", n))
	}
	return n, nil
}

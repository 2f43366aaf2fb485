package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

// LegalRepo 会话、提问、回答、反馈四张表的读写
type LegalRepo struct {
	db *gorm.DB
}

func NewLegalRepo(db *gorm.DB) *LegalRepo {
	return &LegalRepo{db: db}
}

// wrap maps gorm errors onto the storage sentinels.
func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.ErrNotFound
	default:
		return fmt.Errorf("%w: %v", types.ErrStorage, err)
	}
}

func newID() string {
	return uuid.NewString()
}

// --- conversations ---

func (r *LegalRepo) CreateConversation(ctx context.Context, c *types.Conversation) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return wrap(r.db.WithContext(ctx).Create(c).Error)
}

func (r *LegalRepo) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	var c types.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, wrap(err)
	}
	return &c, nil
}

// ListConversations 按更新时间倒序
func (r *LegalRepo) ListConversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	var list []types.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, wrap(err)
}

// GetConversationDetail returns the conversation with its queries in creation
// order, each paired with its response when one exists.
func (r *LegalRepo) GetConversationDetail(ctx context.Context, id string) (*types.ConversationDetail, error) {
	c, err := r.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	var queries []types.Query
	if err := r.db.WithContext(ctx).Where("conversation_id = ?", id).Order("created_at ASC").Find(&queries).Error; err != nil {
		return nil, wrap(err)
	}

	var responseIDs []string
	for _, q := range queries {
		if q.ResponseID != nil {
			responseIDs = append(responseIDs, *q.ResponseID)
		}
	}
	byID := make(map[string]*types.Response, len(responseIDs))
	if len(responseIDs) > 0 {
		var responses []types.Response
		if err := r.db.WithContext(ctx).Where("id IN ?", responseIDs).Find(&responses).Error; err != nil {
			return nil, wrap(err)
		}
		for i := range responses {
			byID[responses[i].ID] = &responses[i]
		}
	}

	detail := &types.ConversationDetail{Conversation: *c, Messages: make([]types.Exchange, 0, len(queries))}
	for _, q := range queries {
		ex := types.Exchange{Query: q}
		if q.ResponseID != nil {
			ex.Response = byID[*q.ResponseID]
		}
		detail.Messages = append(detail.Messages, ex)
	}
	return detail, nil
}

// UpdateConversation applies non-empty fields and bumps updated_at.
func (r *LegalRepo) UpdateConversation(ctx context.Context, id string, title, status string) (*types.Conversation, error) {
	c, err := r.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != "" {
		c.Title = title
	}
	if status != "" {
		c.Status = status
	}
	c.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, wrap(err)
	}
	return c, nil
}

// TouchConversation bumps updated_at and, while the conversation still has
// the default title, replaces it with title.
func (r *LegalRepo) TouchConversation(ctx context.Context, id, title string) error {
	updates := map[string]any{"updated_at": time.Now()}
	tx := r.db.WithContext(ctx).Model(&types.Conversation{}).Where("id = ?", id)
	if err := tx.Updates(updates).Error; err != nil {
		return wrap(err)
	}
	if title == "" {
		return nil
	}
	return wrap(r.db.WithContext(ctx).Model(&types.Conversation{}).
		Where("id = ? AND title = ?", id, vars.DefaultConversationTitle).
		Update("title", title).Error)
}

// DeleteConversation 级联删除提问、回答和反馈
func (r *LegalRepo) DeleteConversation(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&types.Conversation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		queryIDs := tx.Model(&types.Query{}).Select("id").Where("conversation_id = ?", id)
		responseIDs := tx.Model(&types.Response{}).Select("id").Where("query_id IN (?)", queryIDs)
		if err := tx.Where("response_id IN (?)", responseIDs).Delete(&types.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("query_id IN (?)", queryIDs).Delete(&types.Response{}).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", id).Delete(&types.Query{}).Error
	}))
}

// ArchiveIdle 定时任务：把长时间无活动的会话归档
func (r *LegalRepo) ArchiveIdle(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&types.Conversation{}).
		Where("status = ? AND updated_at < ?", types.StatusActive, before).
		Update("status", types.StatusArchived)
	return res.RowsAffected, wrap(res.Error)
}

// --- queries & responses ---

func (r *LegalRepo) CreateQuery(ctx context.Context, q *types.Query) error {
	if q.ID == "" {
		q.ID = newID()
	}
	return wrap(r.db.WithContext(ctx).Create(q).Error)
}

// SaveResponse 写入回答并回填 query.response_id
func (r *LegalRepo) SaveResponse(ctx context.Context, resp *types.Response) error {
	if resp.ID == "" {
		resp.ID = newID()
	}
	return wrap(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resp).Error; err != nil {
			return err
		}
		return tx.Model(&types.Query{}).Where("id = ?", resp.QueryID).Update("response_id", resp.ID).Error
	}))
}

func (r *LegalRepo) GetResponse(ctx context.Context, id string) (*types.Response, error) {
	var resp types.Response
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resp).Error; err != nil {
		return nil, wrap(err)
	}
	return &resp, nil
}

// --- feedback ---

// UpsertFeedback 每个 (user, response) 只保留一条；再次提交时覆盖评分，
// 评论和改进方向为空则保留原值。created 表示是否新建。
func (r *LegalRepo) UpsertFeedback(ctx context.Context, fb *types.Feedback) (created bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing types.Feedback
		err := tx.Where("user_id = ? AND response_id = ?", fb.UserID, fb.ResponseID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if fb.ID == "" {
				fb.ID = newID()
			}
			created = true
			return tx.Create(fb).Error
		case err != nil:
			return err
		}

		existing.Rating = fb.Rating
		if fb.Comments != "" {
			existing.Comments = fb.Comments
		}
		if len(fb.ImprovementAreas) > 0 {
			existing.ImprovementAreas = fb.ImprovementAreas
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*fb = existing
		return nil
	})
	return created, wrap(err)
}

func (r *LegalRepo) ListFeedback(ctx context.Context, responseID string) ([]types.Feedback, error) {
	var list []types.Feedback
	err := r.db.WithContext(ctx).Where("response_id = ?", responseID).Order("created_at ASC").Find(&list).Error
	return list, wrap(err)
}

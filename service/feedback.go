package service

import (
	"context"
	"fmt"
	"slices"

	"nyaya-sahayak/types"
)

type FeedbackStore interface {
	GetResponse(ctx context.Context, id string) (*types.Response, error)
	UpsertFeedback(ctx context.Context, fb *types.Feedback) (created bool, err error)
	ListFeedback(ctx context.Context, responseID string) ([]types.Feedback, error)
}

type FeedbackService struct {
	store FeedbackStore
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit 同一用户对同一回答重复提交时更新原记录
func (s *FeedbackService) Submit(ctx context.Context, req types.FeedbackRequest) (*types.Feedback, bool, error) {
	if req.ResponseID == "" {
		return nil, false, fmt.Errorf("%w: response id is required", types.ErrInvalidInput)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, false, fmt.Errorf("%w: rating must be between 1 and 5", types.ErrInvalidInput)
	}
	for _, area := range req.ImprovementAreas {
		if !slices.Contains(types.ImprovementAreas, area) {
			return nil, false, fmt.Errorf("%w: unknown improvement area %q", types.ErrInvalidInput, area)
		}
	}

	if _, err := s.store.GetResponse(ctx, req.ResponseID); err != nil {
		return nil, false, err
	}

	fb := &types.Feedback{
		UserID:           req.UserID,
		ResponseID:       req.ResponseID,
		Rating:           req.Rating,
		Comments:         req.Comments,
		ImprovementAreas: req.ImprovementAreas,
	}
	created, err := s.store.UpsertFeedback(ctx, fb)
	if err != nil {
		return nil, false, err
	}
	return fb, created, nil
}

// ForResponse returns every feedback record for a response with its stats.
func (s *FeedbackService) ForResponse(ctx context.Context, responseID string) (*types.ResponseFeedback, error) {
	list, err := s.store.ListFeedback(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []types.Feedback{}
	}
	return &types.ResponseFeedback{Feedback: list, Stats: statsFor(responseID, list)}, nil
}

func (s *FeedbackService) Stats(ctx context.Context, responseID string) (*types.FeedbackStats, error) {
	rf, err := s.ForResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	return &rf.Stats, nil
}

func statsFor(responseID string, list []types.Feedback) types.FeedbackStats {
	stats := types.FeedbackStats{
		ResponseID:       responseID,
		Count:            int64(len(list)),
		ImprovementAreas: map[string]int{},
	}
	var total int
	for _, fb := range list {
		total += fb.Rating
		for _, area := range fb.ImprovementAreas {
			stats.ImprovementAreas[area]++
		}
	}
	if len(list) > 0 {
		stats.AverageRating = float64(total) / float64(len(list))
	}
	return stats
}

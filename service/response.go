package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/logic/retrieval"
	"nyaya-sahayak/logic/structure"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

// Store is the persistence the pipeline needs. Its failures are the only ones
// Handle returns.
type Store interface {
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	CreateQuery(ctx context.Context, q *types.Query) error
	SaveResponse(ctx context.Context, resp *types.Response) error
	TouchConversation(ctx context.Context, id, title string) error
}

type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string, filter types.RetrievalFilter) []types.RetrievedDocument
}

type AdviceGenerator interface {
	Generate(ctx context.Context, query string, docs []types.RetrievedDocument) string
}

type ResponseStructurer interface {
	Structure(ctx context.Context, raw, query string) types.StructuredResponse
}

// ResponseService 一次提问的完整处理：分类 → 落库 → 检索 → 生成 → 结构化 → 落库
type ResponseService struct {
	store      Store
	retriever  DocumentRetriever
	advisor    AdviceGenerator
	structurer ResponseStructurer
	log        *slog.Logger
}

func NewResponseService(store Store, retriever DocumentRetriever, advisor AdviceGenerator, structurer ResponseStructurer) *ResponseService {
	return &ResponseService{
		store:      store,
		retriever:  retriever,
		advisor:    advisor,
		structurer: structurer,
		log:        logging.New("pipeline"),
	}
}

// Handle answers query inside conversationID and returns the persisted pair.
// Model and retrieval failures are absorbed; only storage errors (and invalid
// input) are returned.
func (s *ResponseService) Handle(ctx context.Context, query, userID, conversationID string) (*types.ChatResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query text is required", types.ErrInvalidInput)
	}
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", types.ErrInvalidInput)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// 1. 分类
	analysis := retrieval.AnalyzeQuery(query)

	// 2. 落库 Query
	q := &types.Query{
		ConversationID: conversationID,
		UserID:         userID,
		Text:           query,
		Intent:         analysis.Intent,
		Entities:       analysis.Entities,
		Urgency:        analysis.Urgency,
		Complexity:     analysis.Complexity,
	}
	if err := s.store.CreateQuery(ctx, q); err != nil {
		return nil, err
	}

	// 3-6. 检索、生成、结构化，内部各自兜底
	filter := retrieval.BuildFilter(analysis)
	docs := s.retriever.Retrieve(ctx, query, filter)
	raw := s.advisor.Generate(ctx, query, docs)
	structured := s.structurer.Structure(ctx, raw, query)

	if v := structure.Validate(structured); !v.Valid {
		s.log.Warn("response failed validation",
			slog.String("reason", v.Reason),
			slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
	}

	// 7. 落库 Response 并回填 query.response_id
	resp := &types.Response{
		QueryID:    q.ID,
		Text:       structured.Text,
		ActionPlan: structured.ActionPlan,
		Sources:    structured.Sources,
		Disclaimer: structured.Disclaimer,
		Confidence: structured.Confidence,
	}
	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return nil, err
	}
	q.ResponseID = &resp.ID

	var title string
	if conv.Title == vars.DefaultConversationTitle {
		title = truncateRunes(query, vars.TitleMaxRunes)
	}
	if err := s.store.TouchConversation(ctx, conversationID, title); err != nil {
		s.log.Warn("touch conversation failed", slog.Any("error", err), slog.String("conversation", conversationID))
	}

	s.log.Info("query answered",
		slog.String("query_id", q.ID),
		slog.String("intent", string(analysis.Intent)),
		slog.Int("documents", len(docs)),
		slog.Float64("confidence", structured.Confidence))

	return &types.ChatResult{Query: q, Response: resp}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

// memStore is an in-memory Store, ConversationStore and FeedbackStore.
type memStore struct {
	mu            sync.Mutex
	seq           int
	conversations map[string]*types.Conversation
	queries       map[string]*types.Query
	responses     map[string]*types.Response
	feedback      []*types.Feedback

	failCreateQuery  error
	failSaveResponse error
	touched          []string
}

func newMemStore() *memStore {
	return &memStore{
		conversations: map[string]*types.Conversation{},
		queries:       map[string]*types.Query{},
		responses:     map[string]*types.Response{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return prefix + "-" + strconv.Itoa(m.seq)
}

func (m *memStore) CreateConversation(_ context.Context, c *types.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = m.nextID("conv")
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *memStore) GetConversation(_ context.Context, id string) (*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListConversations(_ context.Context, userID string) ([]types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) GetConversationDetail(ctx context.Context, id string) (*types.ConversationDetail, error) {
	c, err := m.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	detail := &types.ConversationDetail{Conversation: *c, Messages: []types.Exchange{}}
	for _, q := range m.queries {
		if q.ConversationID != id {
			continue
		}
		ex := types.Exchange{Query: *q}
		if q.ResponseID != nil {
			ex.Response = m.responses[*q.ResponseID]
		}
		detail.Messages = append(detail.Messages, ex)
	}
	return detail, nil
}

func (m *memStore) UpdateConversation(_ context.Context, id, title, status string) (*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	if title != "" {
		c.Title = title
	}
	if status != "" {
		c.Status = status
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (m *memStore) DeleteConversation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.conversations, id)
	for qid, q := range m.queries {
		if q.ConversationID == id {
			if q.ResponseID != nil {
				delete(m.responses, *q.ResponseID)
			}
			delete(m.queries, qid)
		}
	}
	return nil
}

func (m *memStore) ArchiveIdle(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.conversations {
		if c.Status == types.StatusActive && c.UpdatedAt.Before(before) {
			c.Status = types.StatusArchived
			n++
		}
	}
	return n, nil
}

func (m *memStore) TouchConversation(_ context.Context, id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return types.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	if title != "" && c.Title == vars.DefaultConversationTitle {
		c.Title = title
	}
	m.touched = append(m.touched, id)
	return nil
}

func (m *memStore) CreateQuery(_ context.Context, q *types.Query) error {
	if m.failCreateQuery != nil {
		return m.failCreateQuery
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = m.nextID("query")
	cp := *q
	m.queries[q.ID] = &cp
	return nil
}

func (m *memStore) SaveResponse(_ context.Context, resp *types.Response) error {
	if m.failSaveResponse != nil {
		return m.failSaveResponse
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queries[resp.QueryID]
	if !ok {
		return errors.New("unknown query")
	}
	resp.ID = m.nextID("resp")
	cp := *resp
	m.responses[resp.ID] = &cp
	id := resp.ID
	q.ResponseID = &id
	return nil
}

func (m *memStore) GetResponse(_ context.Context, id string) (*types.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return r, nil
}

func (m *memStore) UpsertFeedback(_ context.Context, fb *types.Feedback) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.feedback {
		if existing.UserID == fb.UserID && existing.ResponseID == fb.ResponseID {
			existing.Rating = fb.Rating
			if fb.Comments != "" {
				existing.Comments = fb.Comments
			}
			if len(fb.ImprovementAreas) > 0 {
				existing.ImprovementAreas = fb.ImprovementAreas
			}
			*fb = *existing
			return false, nil
		}
	}
	fb.ID = m.nextID("fb")
	cp := *fb
	m.feedback = append(m.feedback, &cp)
	return true, nil
}

func (m *memStore) ListFeedback(_ context.Context, responseID string) ([]types.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Feedback
	for _, fb := range m.feedback {
		if fb.ResponseID == responseID {
			out = append(out, *fb)
		}
	}
	return out, nil
}

// fakeEmbedder returns a fixed vector or an error.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float64{0.1, 0.2, 0.3}, nil
}

// fakeSearcher returns canned documents and records the last filter.
type fakeSearcher struct {
	available bool
	docs      []types.RetrievedDocument
	err       error
	filter    types.RetrievalFilter
	topK      int
	calls     int
}

func (f *fakeSearcher) Available() bool { return f.available }

func (f *fakeSearcher) Search(_ context.Context, _ []float64, filter types.RetrievalFilter, topK int) ([]types.RetrievedDocument, error) {
	f.calls++
	f.filter, f.topK = filter, topK
	return f.docs, f.err
}

// scriptedCompleter answers by system prompt so the advice call and the plan
// call can be scripted independently.
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	prompts []string
}

func (s *scriptedCompleter) Complete(_ context.Context, system, user string, _ float32, _ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, user)
	if err := s.errs[system]; err != nil {
		return "", err
	}
	return s.replies[system], nil
}

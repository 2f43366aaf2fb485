package types

// 改进方向
var ImprovementAreas = []string{"accuracy", "relevance", "clarity", "actionability", "completeness"}

type ChatRequest struct {
	Query          string `json:"query" binding:"required"`
	ConversationID string `json:"conversationId" binding:"required"`
	UserID         string `json:"userId"`
}

// ChatResult 管道返回的 query/response 对
type ChatResult struct {
	Query    *Query    `json:"query"`
	Response *Response `json:"response"`
}

type CreateConversationRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
}

type UpdateConversationRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

type FeedbackRequest struct {
	ResponseID       string   `json:"responseId" binding:"required"`
	UserID           string   `json:"userId"`
	Rating           int      `json:"rating" binding:"required"`
	Comments         string   `json:"comments"`
	ImprovementAreas []string `json:"improvementAreas"`
}

type SearchResult struct {
	Query     string              `json:"query"`
	Filter    RetrievalFilter     `json:"filters"`
	Documents []RetrievedDocument `json:"documents"`
}

// IngestResult 单个文件的入库结果
type IngestResult struct {
	File     string   `json:"file"`
	ChunkIDs []string `json:"chunkIds"`
	Error    string   `json:"error,omitempty"`
}

package types

import "time"

// 会话状态
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Conversation 对应 conversations 表
type Conversation struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index" json:"userId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Status    string    `gorm:"type:varchar(16);default:active;index" json:"status"`
	Summary   string    `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Query 用户提问及分类结果
type Query struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;index;not null" json:"conversationId"`
	UserID         string    `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Intent         Intent    `gorm:"type:varchar(32)" json:"intent"`
	Entities       []Entity  `gorm:"type:jsonb;serializer:json" json:"entities"`
	Urgency        Level     `gorm:"type:varchar(16)" json:"urgency"`
	Complexity     Level     `gorm:"type:varchar(16)" json:"complexity"`
	ResponseID     *string   `gorm:"type:uuid" json:"responseId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Query) TableName() string {
	return "queries"
}

// Response 结构化回答，写入后不再修改
type Response struct {
	ID         string       `gorm:"type:uuid;primaryKey" json:"id"`
	QueryID    string       `gorm:"type:uuid;index;not null" json:"queryId"`
	Text       string       `gorm:"type:text" json:"text"`
	ActionPlan []ActionStep `gorm:"type:jsonb;serializer:json" json:"actionPlan"`
	Sources    []Source     `gorm:"type:jsonb;serializer:json" json:"sources"`
	Disclaimer string       `gorm:"type:text" json:"disclaimer"`
	Confidence float64      `gorm:"type:decimal(3,2)" json:"confidence"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func (Response) TableName() string {
	return "responses"
}

// Feedback 每个 (user, response) 唯一
type Feedback struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(64);uniqueIndex:idx_feedback_user_response" json:"userId"`
	ResponseID       string    `gorm:"type:uuid;uniqueIndex:idx_feedback_user_response" json:"responseId"`
	Rating           int       `gorm:"type:smallint;not null" json:"rating"`
	Comments         string    `gorm:"type:text" json:"comments,omitempty"`
	ImprovementAreas []string  `gorm:"type:jsonb;serializer:json" json:"improvementAreas"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// Exchange pairs a query with its response; Response is nil while pending.
type Exchange struct {
	Query    Query     `json:"query"`
	Response *Response `json:"response"`
}

// ConversationDetail 会话及其消息
type ConversationDetail struct {
	Conversation
	Messages []Exchange `json:"messages"`
}

// FeedbackStats 单个回答的反馈统计
type FeedbackStats struct {
	ResponseID       string         `json:"responseId"`
	Count            int64          `json:"count"`
	AverageRating    float64        `json:"averageRating"`
	ImprovementAreas map[string]int `json:"improvementAreas"`
}

// ResponseFeedback 某个回答的全部反馈及统计
type ResponseFeedback struct {
	Feedback []Feedback    `json:"feedback"`
	Stats    FeedbackStats `json:"stats"`
}

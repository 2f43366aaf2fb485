package types

// --- 常量定义 ---

type Intent string

const (
	IntentCriminal       Intent = "criminal"
	IntentCivil          Intent = "civil"
	IntentConstitutional Intent = "constitutional"
	IntentFamily         Intent = "family"
	IntentProperty       Intent = "property"
	IntentLabor          Intent = "labor"
	IntentOther          Intent = "other"
)

// Level is shared by urgency, complexity and action-step priority.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type EntityType string

const (
	EntityDate         EntityType = "date"
	EntityAmount       EntityType = "amount"
	EntityLocation     EntityType = "location"
	EntityPerson       EntityType = "person"
	EntityLegalConcept EntityType = "legal_concept"
)

type SourceType string

const (
	SourceLaw          SourceType = "law"
	SourceScheme       SourceType = "scheme"
	SourceFAQ          SourceType = "faq"
	SourceGuide        SourceType = "guide"
	SourceConstitution SourceType = "constitution"
)

// 检索过滤字段
const (
	FilterLanguage     = "language"
	FilterSourceType   = "source_type"
	FilterDocumentType = "document_type"
)

// --- 结构体定义 ---

type Entity struct {
	Type  EntityType `json:"type"`
	Value string     `json:"value"`
}

// QueryAnalysis 查询分类结果，每个请求生成一次
type QueryAnalysis struct {
	Intent     Intent   `json:"intent"`
	Entities   []Entity `json:"entities"`
	Urgency    Level    `json:"urgency"`
	Complexity Level    `json:"complexity"`
}

// DefaultAnalysis is substituted when classification fails.
func DefaultAnalysis() QueryAnalysis {
	return QueryAnalysis{
		Intent:     IntentOther,
		Entities:   []Entity{},
		Urgency:    LevelMedium,
		Complexity: LevelMedium,
	}
}

// RetrievalFilter maps metadata keys to expected values. Always carries language.
type RetrievalFilter map[string]string

type SourceMetadata struct {
	SourceName   string `json:"sourceName"`
	SourceType   string `json:"sourceType"`
	SourceURL    string `json:"sourceUrl,omitempty"`
	DocumentType string `json:"documentType,omitempty"`
}

// RetrievedDocument 检索结果，按相关度降序
type RetrievedDocument struct {
	ID             string         `json:"id,omitempty"`
	Text           string         `json:"text"`
	RelevanceScore float64        `json:"relevanceScore"`
	Source         SourceMetadata `json:"sourceMetadata"`
}

type Source struct {
	SourceType SourceType `json:"sourceType"`
	SourceName string     `json:"sourceName"`
	SourceURL  string     `json:"sourceUrl"`
	Relevance  float64    `json:"relevance"`
}

type ActionStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    Level  `json:"priority"`
}

// StructuredResponse 模型输出解析后的结构化回答
type StructuredResponse struct {
	Text       string       `json:"text"`
	Disclaimer string       `json:"disclaimer"`
	Sources    []Source     `json:"sources"`
	ActionPlan []ActionStep `json:"actionPlan"`
	Confidence float64      `json:"confidence"`
}

// Validation is the outcome of a post-structuring quality check.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

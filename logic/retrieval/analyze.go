package retrieval

import (
	"log/slog"
	"regexp"
	"strings"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

type intentRule struct {
	intent  types.Intent
	pattern *regexp.Regexp
}

// intentRules 顺序即优先级，先命中者胜出
var intentRules = []intentRule{
	{types.IntentCriminal, regexp.MustCompile(`(?i)\b(crime|criminal|theft|robbery|murder|assault|bail|arrest|fir|police|ipc)\b`)},
	{types.IntentCivil, regexp.MustCompile(`(?i)\b(civil|contract|agreement|breach|damages|compensation|tort|negligence)\b`)},
	{types.IntentConstitutional, regexp.MustCompile(`(?i)\b(constitution|fundamental right|directive principle|writ|article|supreme court)\b`)},
	{types.IntentFamily, regexp.MustCompile(`(?i)\b(marriage|divorce|custody|adoption|maintenance|alimony|succession|inheritance|will)\b`)},
	{types.IntentProperty, regexp.MustCompile(`(?i)\b(property|land|tenant|landlord|rent|lease|eviction|title|ownership|possession)\b`)},
	{types.IntentLabor, regexp.MustCompile(`(?i)\b(employee|employer|salary|wage|termination|dismissal|leave|bonus|pf|esi|gratuity)\b`)},
}

var (
	datePattern   = regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`)
	amountPattern = regexp.MustCompile(`(?i)\b(Rs\.?\s?\d+(?:,\d+)*(?:\.\d+)?|\d+\s?rupees)\b`)

	highUrgency = regexp.MustCompile(`(?i)\b(immediate|urgent|emergency|arrest|detained|deadline|tomorrow|today|right now)\b`)
	lowUrgency  = regexp.MustCompile(`(?i)\b(future|planning|general|curious|sometime|eventually|later|maybe|might)\b`)
)

var (
	cities        = []string{"delhi", "mumbai", "kolkata", "chennai", "bangalore", "hyderabad", "ahmedabad", "pune"}
	legalConcepts = []string{"contract", "tort", "property", "lease", "bail", "divorce", "will", "fir", "ipc", "crpc"}
)

// AnalyzeQuery 查询分类，内部异常时返回默认分类
func AnalyzeQuery(query string) (analysis types.QueryAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			logging.New("classifier").Warn("query analysis failed, using default",
				slog.Any("panic", r),
				slog.String("query", logging.Preview(query, vars.LogPreviewLen)))
			analysis = types.DefaultAnalysis()
		}
	}()

	return types.QueryAnalysis{
		Intent:     DetermineIntent(query),
		Entities:   ExtractEntities(query),
		Urgency:    DetermineUrgency(query),
		Complexity: DetermineComplexity(query),
	}
}

// DetermineIntent returns the first intent whose keyword set matches.
func DetermineIntent(query string) types.Intent {
	for _, rule := range intentRules {
		if rule.pattern.MatchString(query) {
			return rule.intent
		}
	}
	return types.IntentOther
}

// ExtractEntities runs the date, amount, location and legal-concept extractors
// in that order and concatenates their results.
func ExtractEntities(query string) []types.Entity {
	entities := []types.Entity{}

	for _, date := range datePattern.FindAllString(query, -1) {
		entities = append(entities, types.Entity{Type: types.EntityDate, Value: date})
	}
	for _, amount := range amountPattern.FindAllString(query, -1) {
		entities = append(entities, types.Entity{Type: types.EntityAmount, Value: amount})
	}

	lower := strings.ToLower(query)
	for _, city := range cities {
		if strings.Contains(lower, city) {
			entities = append(entities, types.Entity{Type: types.EntityLocation, Value: strings.ToUpper(city[:1]) + city[1:]})
		}
	}
	for _, concept := range legalConcepts {
		if strings.Contains(lower, concept) {
			entities = append(entities, types.Entity{Type: types.EntityLegalConcept, Value: concept})
		}
	}

	return entities
}

// DetermineUrgency checks the high set before the low set.
func DetermineUrgency(query string) types.Level {
	if highUrgency.MatchString(query) {
		return types.LevelHigh
	}
	if lowUrgency.MatchString(query) {
		return types.LevelLow
	}
	return types.LevelMedium
}

// DetermineComplexity grades by character length and word count.
func DetermineComplexity(query string) types.Level {
	length := len([]rune(query))
	words := len(strings.Fields(query))

	if length > 300 || words > 50 {
		return types.LevelHigh
	}
	if length < 100 || words < 15 {
		return types.LevelLow
	}
	return types.LevelMedium
}

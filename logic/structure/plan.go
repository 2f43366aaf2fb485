package structure

import (
	"fmt"
	"regexp"
	"strings"

	"nyaya-sahayak/types"
)

const maxPlanSteps = 5

type planStrategy struct {
	name    string
	pattern *regexp.Regexp
	// build returns title and description for the n-th (1-based) match.
	build func(m []string, n int) (string, string)
}

// planStrategies 按顺序尝试，第一个有结果的策略生效
var planStrategies = []planStrategy{
	{
		name:    "bracketed",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.\s+\[([^\]\n]+)\]:[ \t]*(.+?)[ \t]*$`),
		build: func(m []string, _ int) (string, string) {
			return m[2], m[3]
		},
	},
	{
		name:    "colon",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.\s+\*{0,2}([^:\n\[\]*]{1,100}?)\*{0,2}:\*{0,2}[ \t]+(.+?)[ \t]*$`),
		build: func(m []string, _ int) (string, string) {
			return m[2], m[3]
		},
	},
	{
		name:    "numbered",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(\d+)[.)][ \t]+(.+?)[ \t]*$`),
		build: func(m []string, n int) (string, string) {
			return fmt.Sprintf("Step %d", n), m[2]
		},
	},
}

// ParseActionPlan applies the strategy cascade to text. Steps are renumbered
// 1..N in order of appearance and capped at five.
func ParseActionPlan(text string) ([]types.ActionStep, bool) {
	for _, strategy := range planStrategies {
		matches := strategy.pattern.FindAllStringSubmatch(text, -1)
		var steps []types.ActionStep
		for _, m := range matches {
			if len(steps) == maxPlanSteps {
				break
			}
			n := len(steps) + 1
			title, desc := strategy.build(m, n)
			title = cleanInline(title)
			desc = cleanInline(desc)
			if title == "" || desc == "" {
				continue
			}
			steps = append(steps, types.ActionStep{
				Step:        n,
				Title:       title,
				Description: desc,
				Priority:    priorityFor(n),
			})
		}
		if len(steps) > 0 {
			return steps, true
		}
	}
	return nil, false
}

func priorityFor(step int) types.Level {
	switch step {
	case 1:
		return types.LevelHigh
	case 2:
		return types.LevelMedium
	default:
		return types.LevelLow
	}
}

func cleanInline(s string) string {
	s = markdown.Replace(s)
	s = strings.Trim(s, " \t[]")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// DefaultActionPlan is substituted when the plan cannot be generated or parsed.
func DefaultActionPlan() []types.ActionStep {
	return []types.ActionStep{
		{
			Step:        1,
			Title:       "Understand Your Rights",
			Description: "Read up on the laws that apply to your situation so you know your rights and obligations.",
			Priority:    types.LevelHigh,
		},
		{
			Step:        2,
			Title:       "Consult a Lawyer",
			Description: "Speak to a qualified lawyer or your nearest Legal Services Authority for advice on your specific case.",
			Priority:    types.LevelMedium,
		},
		{
			Step:        3,
			Title:       "Document Everything",
			Description: "Keep copies of all relevant documents, notices, receipts and communications.",
			Priority:    types.LevelLow,
		},
	}
}

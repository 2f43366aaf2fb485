package structure

import (
	"strings"

	"nyaya-sahayak/types"
)

var harmfulKeywords = []string{"illegal", "unlawful", "avoid authorities", "evade", "fake"}

// Validate flags responses that lack a plan or disclaimer, or that contain
// wording suggesting harmful advice.
func Validate(resp types.StructuredResponse) types.Validation {
	if len(resp.ActionPlan) == 0 {
		return types.Validation{Reason: "Missing action plan"}
	}
	if strings.TrimSpace(resp.Disclaimer) == "" {
		return types.Validation{Reason: "Missing disclaimer"}
	}

	lower := strings.ToLower(resp.Text)
	for _, kw := range harmfulKeywords {
		if strings.Contains(lower, kw) {
			return types.Validation{Reason: "Potentially harmful advice detected"}
		}
	}
	return types.Validation{Valid: true}
}

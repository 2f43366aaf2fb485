package structure

import (
	"testing"

	"nyaya-sahayak/types"
)

func TestValidate(t *testing.T) {
	ok := Default("Speak to a lawyer about your tenancy.")

	noPlan := ok
	noPlan.ActionPlan = nil

	noDisclaimer := ok
	noDisclaimer.Disclaimer = " "

	harmful := ok
	harmful.Text = "You could simply Evade the summons."

	tests := []struct {
		name string
		resp types.StructuredResponse
		want types.Validation
	}{
		{"valid", ok, types.Validation{Valid: true}},
		{"missing plan", noPlan, types.Validation{Reason: "Missing action plan"}},
		{"missing disclaimer", noDisclaimer, types.Validation{Reason: "Missing disclaimer"}},
		{"harmful keyword", harmful, types.Validation{Reason: "Potentially harmful advice detected"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.resp); got != tt.want {
				t.Errorf("Validate = %+v, want %+v", got, tt.want)
			}
		})
	}
}

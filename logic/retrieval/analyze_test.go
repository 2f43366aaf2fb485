package retrieval

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nyaya-sahayak/types"
)

func TestDetermineIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  types.Intent
	}{
		{"criminal", "The police filed an FIR against my brother", types.IntentCriminal},
		{"criminal wins over civil", "There was a theft and a contract dispute", types.IntentCriminal},
		{"civil", "The builder is in breach of our agreement", types.IntentCivil},
		{"constitutional", "Can I file a writ for my fundamental right to privacy?", types.IntentConstitutional},
		{"family", "How long does a divorce by mutual consent take?", types.IntentFamily},
		{"property", "My landlord in Delhi is trying to evict me without notice", types.IntentProperty},
		{"labor", "My employer has not paid my salary for three months", types.IntentLabor},
		{"other", "How do I register a trademark?", types.IntentOther},
		{"case insensitive", "CUSTODY of my daughter", types.IntentFamily},
		{"whole word only", "The landing page of my website", types.IntentOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineIntent(tt.query); got != tt.want {
				t.Errorf("DetermineIntent(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []types.Entity
	}{
		{
			name:  "none",
			query: "What should I do?",
			want:  []types.Entity{},
		},
		{
			name:  "extractor order",
			query: "In Mumbai I paid Rs. 5,000 on 12/03/2024 as a lease deposit",
			want: []types.Entity{
				{Type: types.EntityDate, Value: "12/03/2024"},
				{Type: types.EntityAmount, Value: "Rs. 5,000"},
				{Type: types.EntityLocation, Value: "Mumbai"},
				{Type: types.EntityLegalConcept, Value: "lease"},
			},
		},
		{
			name:  "rupees suffix and multiple cities",
			query: "I sent 500 rupees from pune to chennai",
			want: []types.Entity{
				{Type: types.EntityAmount, Value: "500 rupees"},
				{Type: types.EntityLocation, Value: "Chennai"},
				{Type: types.EntityLocation, Value: "Pune"},
			},
		},
		{
			name:  "repeated term emitted once",
			query: "bail, bail and more bail",
			want: []types.Entity{
				{Type: types.EntityLegalConcept, Value: "bail"},
			},
		},
		{
			name:  "substring concepts",
			query: "Is my contract with the firm valid?",
			want: []types.Entity{
				{Type: types.EntityLegalConcept, Value: "contract"},
				{Type: types.EntityLegalConcept, Value: "fir"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractEntities mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetermineUrgency(t *testing.T) {
	tests := []struct {
		query string
		want  types.Level
	}{
		{"I need this done right now, it's an emergency", types.LevelHigh},
		{"just curious about this for the future", types.LevelLow},
		{"What are the rules for registering a trademark?", types.LevelMedium},
		{"Maybe my brother will be arrested tomorrow", types.LevelHigh},
		// "general" is a low-urgency keyword, so this is low rather than medium.
		{"What are the general rules?", types.LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := DetermineUrgency(tt.query); got != tt.want {
				t.Errorf("DetermineUrgency(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestDetermineComplexity(t *testing.T) {
	fortyWords := strings.Repeat("abcde ", 39) + "abcdefghijklmnop"
	if len(fortyWords) != 250 || len(strings.Fields(fortyWords)) != 40 {
		t.Fatalf("fixture has %d chars and %d words", len(fortyWords), len(strings.Fields(fortyWords)))
	}

	tests := []struct {
		name  string
		query string
		want  types.Level
	}{
		{"forty words", fortyWords, types.LevelMedium},
		{"five words", "Can my landlord evict me?", types.LevelLow},
		{"sixty words", strings.TrimSpace(strings.Repeat("law ", 60)), types.LevelHigh},
		{"long text", strings.Repeat("x", 301), types.LevelHigh},
		{"many short words", strings.TrimSpace(strings.Repeat("a ", 20)), types.LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineComplexity(tt.query); got != tt.want {
				t.Errorf("DetermineComplexity = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeQuery_LandlordScenario(t *testing.T) {
	got := AnalyzeQuery("My landlord in Delhi is trying to evict me without notice")

	if got.Intent != types.IntentProperty {
		t.Errorf("Intent = %q, want property", got.Intent)
	}
	found := false
	for _, e := range got.Entities {
		if e == (types.Entity{Type: types.EntityLocation, Value: "Delhi"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("Entities %v missing Delhi location", got.Entities)
	}
	if got.Urgency != types.LevelMedium {
		t.Errorf("Urgency = %q, want medium", got.Urgency)
	}
	if got.Complexity != types.LevelLow {
		t.Errorf("Complexity = %q, want low", got.Complexity)
	}

	filter := BuildFilter(got)
	want := types.RetrievalFilter{"language": "en", "source_type": "law"}
	if diff := cmp.Diff(want, filter); diff != "" {
		t.Errorf("BuildFilter mismatch (-want +got):\n%s", diff)
	}
}

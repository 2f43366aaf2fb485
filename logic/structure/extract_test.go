package structure

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

func TestExtractDisclaimer(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "labelled paragraph",
			raw:    "Intro.\n\nDisclaimer: This is general information.\nConsult a lawyer.\n\nMore text",
			want:   "This is general information. Consult a lawyer.",
			wantOK: true,
		},
		{
			name:   "bold label",
			raw:    "**Disclaimer:** Not legal advice.",
			want:   "Not legal advice.",
			wantOK: true,
		},
		{
			name:   "heading then paragraph",
			raw:    "Body\n\n### Disclaimer\n\nThis response is informational.",
			want:   "This response is informational.",
			wantOK: true,
		},
		{
			name:   "numbered label",
			raw:    "3. Relevant Laws: none\n4. Disclaimer: Speak to an advocate.",
			want:   "Speak to an advocate.",
			wantOK: true,
		},
		{
			name:   "inline label",
			raw:    "Please read this disclaimer: nothing here is advice.",
			want:   "nothing here is advice.",
			wantOK: true,
		},
		{
			name:   "canonical sentence from fallback text",
			raw:    vars.FallbackAdvice,
			want:   vars.CanonicalDisclaimer,
			wantOK: true,
		},
		{
			name: "no label",
			raw:  "Tenants have rights under the Transfer of Property Act.",
		},
		{
			name: "label without text",
			raw:  "Body text.\n\nDisclaimer:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDisclaimer(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractDisclaimer = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractSources(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.Source
	}{
		{
			name: "bulleted section",
			raw: "Intro text.\n\nRelevant Laws:\n" +
				"- Transfer of Property Act, 1882 (https://www.indiacode.nic.in)\n" +
				"- Constitution of India, Article 21\n" +
				"- Pradhan Mantri Awas Yojana - https://pmay-urban.gov.in\n" +
				"- Tenant Rights FAQ\n" +
				"- [Delhi Rent Control Guide](https://example.org/guide)\n" +
				"\nDisclaimer: Not advice.",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Transfer of Property Act, 1882", SourceURL: "https://www.indiacode.nic.in", Relevance: 0.9},
				{SourceType: types.SourceConstitution, SourceName: "Constitution of India, Article 21", Relevance: 0.9},
				{SourceType: types.SourceScheme, SourceName: "Pradhan Mantri Awas Yojana", SourceURL: "https://pmay-urban.gov.in", Relevance: 0.9},
				{SourceType: types.SourceFAQ, SourceName: "Tenant Rights FAQ", Relevance: 0.9},
				{SourceType: types.SourceGuide, SourceName: "Delhi Rent Control Guide", SourceURL: "https://example.org/guide", Relevance: 0.9},
			},
		},
		{
			name: "plain lines under heading",
			raw:  "## References\nHindu Marriage Act, 1955\nSpecial Marriage Act, 1954\n\nOther text",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Hindu Marriage Act, 1955", Relevance: 0.9},
				{SourceType: types.SourceLaw, SourceName: "Special Marriage Act, 1954", Relevance: 0.9},
			},
		},
		{
			name: "numbered list stops at disclaimer",
			raw:  "**Citations:**\n1. Indian Penal Code, 1860.\n2. Code of Criminal Procedure, 1973\nDisclaimer: consult a lawyer",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Indian Penal Code, 1860", Relevance: 0.9},
				{SourceType: types.SourceLaw, SourceName: "Code of Criminal Procedure, 1973", Relevance: 0.9},
			},
		},
		{
			name: "inline after colon",
			raw:  "Sources: Payment of Gratuity Act, 1972\n\nDisclaimer: none",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Payment of Gratuity Act, 1972", Relevance: 0.9},
			},
		},
		{
			name: "non-url parenthetical stays in name",
			raw:  "Relevant Laws:\n- Transfer of Property Act, 1882 (Section 106)",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Transfer of Property Act, 1882 (Section 106)", Relevance: 0.9},
			},
		},
		{
			name: "bare domains split off",
			raw: "Relevant Laws:\n" +
				"- Transfer of Property Act, 1882 (indiacode.nic.in)\n" +
				"- Model Tenancy Act - mohua.gov.in\n" +
				"- Legal Aid Guide (nalsa.gov.in/legal-aid)",
			want: []types.Source{
				{SourceType: types.SourceLaw, SourceName: "Transfer of Property Act, 1882", SourceURL: "indiacode.nic.in", Relevance: 0.9},
				{SourceType: types.SourceLaw, SourceName: "Model Tenancy Act", SourceURL: "mohua.gov.in", Relevance: 0.9},
				{SourceType: types.SourceGuide, SourceName: "Legal Aid Guide", SourceURL: "nalsa.gov.in/legal-aid", Relevance: 0.9},
			},
		},
		{
			name: "non-url suffixes stay in name",
			raw: "Relevant Laws:\n" +
				"- Constitution (Amendment) Act, 2019 (Amendment)\n" +
				"- Arbitration Act (s.41.1)\n" +
				"- Right to Information Act - 2005",
			want: []types.Source{
				{SourceType: types.SourceConstitution, SourceName: "Constitution (Amendment) Act, 2019 (Amendment)", Relevance: 0.9},
				{SourceType: types.SourceLaw, SourceName: "Arbitration Act (s.41.1)", Relevance: 0.9},
				{SourceType: types.SourceLaw, SourceName: "Right to Information Act - 2005", Relevance: 0.9},
			},
		},
		{
			name: "no section",
			raw:  "Sources of law in India include statutes and precedent.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSources(tt.raw)
			if ok != (len(tt.want) > 0) {
				t.Fatalf("ok = %v, sources = %+v", ok, got)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractSources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultSources_Relevance(t *testing.T) {
	for _, src := range DefaultSources() {
		if src.Relevance != vars.DefaultSourceRelevance {
			t.Errorf("%s relevance = %v, want %v", src.SourceName, src.Relevance, vars.DefaultSourceRelevance)
		}
		if src.Relevance >= vars.SourceRelevance {
			t.Errorf("%s relevance %v not below extracted relevance %v", src.SourceName, src.Relevance, vars.SourceRelevance)
		}
	}
}

func TestDetermineSourceType(t *testing.T) {
	tests := []struct {
		name string
		want types.SourceType
	}{
		{"Constitution of India", types.SourceConstitution},
		{"Constitution (Amendment) Act", types.SourceConstitution},
		{"Indian Contract Act", types.SourceLaw},
		{"Code of Civil Procedure", types.SourceLaw},
		{"Labour Law Handbook", types.SourceLaw},
		{"Ayushman Bharat Yojana", types.SourceScheme},
		{"Stand-Up India Scheme", types.SourceScheme},
		{"Consumer Rights FAQ", types.SourceFAQ},
		{"Tenant Handbook", types.SourceGuide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineSourceType(tt.name); got != tt.want {
				t.Errorf("DetermineSourceType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

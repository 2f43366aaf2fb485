package ingestion

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nyaya-sahayak/types"
)

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		path string
		want map[string]any
	}{
		{
			"data/raw/legal_codes/indian_penal_code.pdf",
			map[string]any{
				types.MetaLanguage:     "en",
				types.MetaSourceType:   "law",
				types.MetaSourceName:   "Indian Penal Code, 1860",
				types.MetaSourceURL:    "https://www.indiacode.nic.in/handle/123456789/2263",
				types.MetaDocumentType: "Code",
			},
		},
		{
			"data/raw/legal_codes/consumer_protection_act.pdf",
			map[string]any{
				types.MetaLanguage:     "en",
				types.MetaSourceType:   "law",
				types.MetaSourceName:   "Consumer Protection Act",
				types.MetaDocumentType: "Code",
			},
		},
		{
			"raw/constitution/part_iii.txt",
			map[string]any{
				types.MetaLanguage:     "en",
				types.MetaSourceType:   "constitution",
				types.MetaSourceName:   "The Constitution of India",
				types.MetaSourceURL:    "https://www.indiacode.nic.in/handle/123456789/15663",
				types.MetaDocumentType: "Constitution",
			},
		},
		{
			"raw/schemes/pm_jay_scheme.txt",
			map[string]any{
				types.MetaLanguage:   "en",
				types.MetaSourceType: "scheme",
				types.MetaSourceName: "Pradhan Mantri Jan Arogya Yojana (PM-JAY)",
				types.MetaSourceURL:  "https://pmjay.gov.in/about/pmjay",
			},
		},
		{
			"raw/faqs/3f2a6c1e-0000-4000-8000-000000000000_rti_faq.txt",
			map[string]any{
				types.MetaLanguage:   "en",
				types.MetaSourceType: "faq",
				types.MetaSourceName: "Rti Faq",
			},
		},
		{
			"raw/misc/tenant_guide.md",
			map[string]any{
				types.MetaLanguage:   "en",
				types.MetaSourceType: "guide",
				types.MetaSourceName: "tenant_guide.md",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, MetadataFor(tt.path)); diff != "" {
				t.Errorf("MetadataFor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

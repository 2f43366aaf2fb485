// Package ingestion holds the knowledge-base preparation steps shared by the
// upload endpoint and the ingest CLI.
package ingestion

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"nyaya-sahayak/types"
)

// 目录名决定来源类型
const (
	DirLegalCodes   = "legal_codes"
	DirConstitution = "constitution"
	DirSchemes      = "schemes"
	DirFAQs         = "faqs"
)

type knownSource struct {
	match        string
	name, url    string
	documentType string
}

// 已知文件的来源信息，按文件名子串匹配
var knownSources = map[string][]knownSource{
	DirLegalCodes: {
		{match: "indian_penal_code", name: "Indian Penal Code, 1860", url: "https://www.indiacode.nic.in/handle/123456789/2263", documentType: "Code"},
	},
	DirSchemes: {
		{match: "pm_jay_scheme", name: "Pradhan Mantri Jan Arogya Yojana (PM-JAY)", url: "https://pmjay.gov.in/about/pmjay"},
	},
	DirFAQs: {
		{match: "ncrb_fir_faqs", name: "National Crime Records Bureau Portal - FAQs", url: "https://ncrb.gov.in/en/common-questions"},
	},
}

// MetadataFor derives chunk metadata from a file's parent directory.
func MetadataFor(path string) map[string]any {
	path = filepath.ToSlash(path)
	dir := filepath.Base(filepath.Dir(path))
	filename := filepath.Base(path)

	meta := map[string]any{
		types.MetaLanguage:   "en",
		types.MetaSourceName: sourceNameFromFile(filename),
	}

	switch dir {
	case DirLegalCodes:
		meta[types.MetaSourceType] = string(types.SourceLaw)
		meta[types.MetaDocumentType] = "Code"
	case DirConstitution:
		meta[types.MetaSourceType] = string(types.SourceConstitution)
		meta[types.MetaSourceName] = "The Constitution of India"
		meta[types.MetaSourceURL] = "https://www.indiacode.nic.in/handle/123456789/15663"
		meta[types.MetaDocumentType] = "Constitution"
		return meta
	case DirSchemes:
		meta[types.MetaSourceType] = string(types.SourceScheme)
	case DirFAQs:
		meta[types.MetaSourceType] = string(types.SourceFAQ)
	default:
		meta[types.MetaSourceType] = string(types.SourceGuide)
		meta[types.MetaSourceName] = filename
		return meta
	}

	lower := strings.ToLower(filename)
	for _, known := range knownSources[dir] {
		if strings.Contains(lower, known.match) {
			meta[types.MetaSourceName] = known.name
			meta[types.MetaSourceURL] = known.url
			if known.documentType != "" {
				meta[types.MetaDocumentType] = known.documentType
			}
			break
		}
	}
	return meta
}

// sourceNameFromFile turns "consumer_protection_act.pdf" into
// "Consumer Protection Act".
func sourceNameFromFile(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	// 上传归档的文件名带 <uuid>_ 前缀
	if len(base) > 37 && base[36] == '_' && strings.Count(base[:36], "-") == 4 {
		base = base[37:]
	}
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

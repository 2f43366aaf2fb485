package structure

import (
	"regexp"
	"strings"
)

// disclaimerLabels 依次尝试：行首标签，其次正文内联标签
var disclaimerLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^[ \t>#*_-]*(?:\d+\.[ \t]*)?[*_]*disclaimer\b[ \t*_]*:?[\s*_]*`),
	regexp.MustCompile(`(?i)\bdisclaimer\b[\s*_]*[:\-\x{2013}][\s*_]*`),
}

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\r?\n`)
	whitespace = regexp.MustCompile(`\s+`)
	markdown   = strings.NewReplacer("**", "", "__", "", "`", "")
)

// ExtractDisclaimer returns the first paragraph following a "disclaimer" label.
func ExtractDisclaimer(raw string) (string, bool) {
	for _, label := range disclaimerLabels {
		loc := label.FindStringIndex(raw)
		if loc == nil {
			continue
		}
		if para := firstParagraph(raw[loc[1]:]); para != "" {
			return para, true
		}
	}
	return "", false
}

func firstParagraph(s string) string {
	s = strings.TrimLeft(s, " \t\r\n")
	para := blankLine.Split(s, 2)[0]
	para = markdown.Replace(para)
	return strings.TrimSpace(whitespace.ReplaceAllString(para, " "))
}

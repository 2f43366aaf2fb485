package structure

import (
	"regexp"
	"strings"

	"nyaya-sahayak/types"
	"nyaya-sahayak/vars"
)

// sectionHeader matches a sources heading either followed by a colon (with
// optional inline content) or standing alone on its line.
var sectionHeader = regexp.MustCompile(`(?im)^[ \t>#*_]*(?:\d+\.[ \t]*)?[*_]*(?:relevant\s+(?:laws?|legal\s+provisions|sources|statutes)|applicable\s+laws?|legal\s+references?|sources?|references?|citations?)(?:\s+(?:and|&)\s+[a-z]+)?(?:\s+cited)?(?:[ \t*_]*:[ \t*_]*(.*)|[ \t*_]*)$`)

var (
	listItem      = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s+(.+)$`)
	markdownLink  = regexp.MustCompile(`^\[([^\]]+)\]\(([^)\s]+)\)$`)
	trailingParen = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)
	trailingDash  = regexp.MustCompile(`^(.*?)\s+[-\x{2013}\x{2014}]\s+(\S+)$`)
	trailingURL   = regexp.MustCompile(`^(.*?)[\s:]+((?:https?://|www\.)\S+)$`)
	looksLikeURL  = regexp.MustCompile(`(?i)^(?:https?://\S+|www\.\S+|(?:[a-z0-9-]+\.)+[a-z]{2,}(?:/\S*)?)$`)
)

// ExtractSources parses the labelled sources section of raw. The second result
// is false when nothing could be extracted.
func ExtractSources(raw string) ([]types.Source, bool) {
	candidates := sectionLines(raw)
	if len(candidates) == 0 {
		return nil, false
	}

	// 优先列表项，没有则逐行
	var items []string
	for _, line := range candidates {
		if m := listItem.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
		}
	}
	if len(items) == 0 {
		items = candidates
	}

	var sources []types.Source
	for _, item := range items {
		name, url := splitSource(item)
		if name == "" {
			continue
		}
		sources = append(sources, types.Source{
			SourceType: DetermineSourceType(name),
			SourceName: name,
			SourceURL:  url,
			Relevance:  vars.SourceRelevance,
		})
	}
	return sources, len(sources) > 0
}

// sectionLines returns the non-empty lines of the sources section.
func sectionLines(raw string) []string {
	loc := sectionHeader.FindStringSubmatchIndex(raw)
	if loc == nil {
		return nil
	}

	var lines []string
	if loc[2] >= 0 {
		if inline := strings.TrimSpace(raw[loc[2]:loc[3]]); inline != "" {
			lines = append(lines, inline)
		}
	}

	// 第一个元素是标题行剩余部分
	for _, line := range strings.Split(raw[loc[1]:], "\n")[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if disclaimerLabels[0].MatchString(trimmed) {
			break
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func splitSource(item string) (name, url string) {
	item = strings.TrimSpace(markdown.Replace(item))
	item = strings.TrimRight(item, ".,; ")

	if m := markdownLink.FindStringSubmatch(item); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	for _, re := range []*regexp.Regexp{trailingParen, trailingDash, trailingURL} {
		if m := re.FindStringSubmatch(item); m != nil && looksLikeURL.MatchString(strings.TrimSpace(m[2])) {
			return strings.TrimRight(strings.TrimSpace(m[1]), ":-\u2013\u2014 "), strings.TrimSpace(m[2])
		}
	}
	return item, ""
}

// DetermineSourceType classifies a source by name, first match wins.
func DetermineSourceType(name string) types.SourceType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "constitution"):
		return types.SourceConstitution
	case strings.Contains(lower, "act"), strings.Contains(lower, "code"), strings.Contains(lower, "law"):
		return types.SourceLaw
	case strings.Contains(lower, "scheme"), strings.Contains(lower, "yojana"):
		return types.SourceScheme
	case strings.Contains(lower, "faq"):
		return types.SourceFAQ
	default:
		return types.SourceGuide
	}
}

// DefaultSources is substituted when no sources could be extracted.
func DefaultSources() []types.Source {
	return []types.Source{
		{
			SourceType: types.SourceLaw,
			SourceName: "India Code: Central and State Acts",
			SourceURL:  "https://www.indiacode.nic.in",
			Relevance:  vars.DefaultSourceRelevance,
		},
		{
			SourceType: types.SourceGuide,
			SourceName: "National Legal Services Authority: Free Legal Aid",
			SourceURL:  "https://nalsa.gov.in",
			Relevance:  vars.DefaultSourceRelevance,
		},
	}
}

package corpus

import "strings"

const (
	// SummaryHeader is the exact heading line that opens summary capture.
	SummaryHeader = "## 概要"

	// SummaryMaxLength is the maximum summary length in characters (runes).
	SummaryMaxLength = 500

	// sectionGlyph is the decorative marker stripped from section headings.
	sectionGlyph = "▼"

	heading2Prefix = "## "
	heading3Prefix = "### "
)

// ParsedDocument is the intermediate record produced from one raw transcript.
// RawText is retained for downstream vocabulary matching.
type ParsedDocument struct {
	Summary  string
	Sections []string
	RawText  string
}

// ParseDocument turns raw transcript text into a ParsedDocument.
//
// Summary: lines after the exact SummaryHeader line are captured until the
// next level-2 or level-3 heading; non-empty lines are joined with a single
// space, a leading blockquote marker is stripped, and the result is
// truncated to SummaryMaxLength runes. No summary header means an empty
// summary.
//
// Sections: every level-3 heading contributes one entry, with the heading
// prefix and the decorative glyph stripped and surrounding whitespace
// trimmed. Document order is preserved and duplicates are kept.
func ParseDocument(text string) ParsedDocument {
	lines := strings.Split(text, "\n")

	sections := make([]string, 0)
	var summaryParts []string
	capturing := false

	for _, line := range lines {
		if strings.HasPrefix(line, heading3Prefix) {
			capturing = false
			heading := strings.TrimPrefix(line, heading3Prefix)
			heading = strings.ReplaceAll(heading, sectionGlyph, "")
			sections = append(sections, strings.TrimSpace(heading))
			continue
		}

		if strings.TrimSpace(line) == SummaryHeader {
			capturing = true
			continue
		}

		if strings.HasPrefix(line, heading2Prefix) {
			capturing = false
			continue
		}

		if capturing {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))
			if trimmed != "" {
				summaryParts = append(summaryParts, trimmed)
			}
		}
	}

	summary := strings.Join(summaryParts, " ")
	if runes := []rune(summary); len(runes) > SummaryMaxLength {
		summary = string(runes[:SummaryMaxLength])
	}

	return ParsedDocument{
		Summary:  summary,
		Sections: sections,
		RawText:  text,
	}
}

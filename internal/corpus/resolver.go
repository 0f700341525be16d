package corpus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// ExtraEpisodePrefix marks out-of-band episodes ("番外編-3").
	ExtraEpisodePrefix = "番外編"

	// EpisodeZeroTitle is the fixed title for the sentinel episode "0".
	EpisodeZeroTitle = "イントロダクション 〜このポッドキャストについて〜"

	// extraEpisodeSortOffset pushes extra episodes after all numbered ones
	// in the canonical sort order.
	extraEpisodeSortOffset = 100000
)

// Filename patterns accepted into the corpus. Anything else (README.md,
// notes.txt, ...) is excluded silently.
var (
	plainIDPattern = regexp.MustCompile(`^\d+$`)
	subIDPattern   = regexp.MustCompile(`^\d+-\d+$`)
	extraIDPattern = regexp.MustCompile(`^` + ExtraEpisodePrefix + `-\d+$`)
)

// ResolveID derives the canonical episode ID from a filename. The second
// return value is false when the filename does not match any accepted
// pattern, which excludes the document from the corpus.
func ResolveID(filename string) (string, bool) {
	stem := filename
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}

	if plainIDPattern.MatchString(stem) || subIDPattern.MatchString(stem) || extraIDPattern.MatchString(stem) {
		return stem, true
	}
	return "", false
}

// ResolveTitle derives the display title for an episode.
//
// Precedence: the sentinel ID "0" gets a fixed title; extra episodes get a
// generated label from their numeric suffix; otherwise the first level-2
// heading that is not the summary header is used; failing that, a label
// containing the ID.
func ResolveTitle(id, content string) string {
	if id == "0" {
		return EpisodeZeroTitle
	}

	if suffix, ok := strings.CutPrefix(id, ExtraEpisodePrefix+"-"); ok {
		return fmt.Sprintf("%s 第%s回", ExtraEpisodePrefix, suffix)
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == SummaryHeader {
			continue
		}
		if heading, ok := strings.CutPrefix(trimmed, heading2Prefix); ok {
			if title := strings.TrimSpace(heading); title != "" {
				return title
			}
		}
	}

	return fmt.Sprintf("第%s回", id)
}

// SortKey maps an episode ID to its canonical ordering key: "0" first,
// numeric IDs ascending by major*10+minor (minor defaults to 0), extra
// episodes last by their numeric suffix plus a large offset.
func SortKey(id string) int {
	if suffix, ok := strings.CutPrefix(id, ExtraEpisodePrefix+"-"); ok {
		n, _ := strconv.Atoi(suffix)
		return extraEpisodeSortOffset + n
	}

	major, minor, found := strings.Cut(id, "-")
	m, _ := strconv.Atoi(major)
	key := m * 10
	if found {
		n, _ := strconv.Atoi(minor)
		key += n
	}
	return key
}

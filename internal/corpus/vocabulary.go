package corpus

import "strings"

// DefaultThemeVocabulary is the fixed controlled vocabulary for themes:
// coarse topical tags surfaced to users as filter facets. Matching is plain
// substring containment over the raw transcript text; the lists are
// configuration, not mutable state.
var DefaultThemeVocabulary = []string{
	"理学療法",
	"作業療法",
	"リハビリテーション",
	"教育",
	"研究",
	"科学",
	"キャリア",
	"臨床",
	"養成校",
	"国家試験",
	"大学院",
	"留学",
	"英語",
	"論文",
	"学会",
	"統計",
	"解剖学",
	"生理学",
	"運動学",
	"スポーツ",
	"地域医療",
	"予防",
	"介護",
	"起業",
	"副業",
	"医療制度",
	"哲学",
}

// DefaultKeywordVocabulary is the fixed controlled vocabulary for keywords:
// finer-grained terms used only as similarity-scoring input.
var DefaultKeywordVocabulary = []string{
	"理学療法士",
	"PT",
	"OT",
	"ST",
	"エビデンス",
	"研究",
	"論文",
	"臨床実習",
	"実習",
	"国家試験",
	"養成校",
	"大学院",
	"博士",
	"修士",
	"査読",
	"学会発表",
	"インパクトファクター",
	"統計解析",
	"症例報告",
	"ガイドライン",
	"診療報酬",
	"訪問リハ",
	"デイケア",
	"急性期",
	"回復期",
}

// Matcher scans text against a fixed ordered vocabulary and returns the
// subset of terms present. Matching is case-sensitive substring containment
// with no tokenization or word-boundary checks; a term matching inside a
// larger word still counts.
type Matcher struct {
	vocabulary []string
}

// NewMatcher creates a Matcher over the given vocabulary. The slice is not
// copied; callers pass immutable package-level vocabularies.
func NewMatcher(vocabulary []string) *Matcher {
	return &Matcher{vocabulary: vocabulary}
}

// Match returns the vocabulary terms that occur anywhere in text. The result
// has set semantics: no duplicates, no ordering guarantee beyond vocabulary
// order. A text matching nothing yields an empty (non-nil) slice.
func (m *Matcher) Match(text string) []string {
	matched := make([]string, 0)
	seen := make(map[string]bool, len(m.vocabulary))

	for _, term := range m.vocabulary {
		if seen[term] {
			continue
		}
		if strings.Contains(text, term) {
			matched = append(matched, term)
			seen[term] = true
		}
	}

	return matched
}

// Vocabulary returns the terms this matcher scans for.
func (m *Matcher) Vocabulary() []string {
	return m.vocabulary
}

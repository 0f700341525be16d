package domain

// Episode is the durable unit of the corpus index. It is built once per
// build run from a source transcript, enriched with related episodes in a
// second pass, and never mutated after serialization.
type Episode struct {
	// ID is the stable episode identifier derived from the filename.
	// Format: "12", "2-1", or "番外編-3".
	ID string `json:"id"`

	// Filename is the originating document name, kept for provenance only.
	Filename string `json:"filename"`

	// Title is the display string, derived once from filename and content.
	Title string `json:"title"`

	// Summary is a plain-text excerpt capped at 500 characters.
	Summary string `json:"summary"`

	// Themes are coarse topical tags drawn from the fixed theme vocabulary.
	// Set semantics: no duplicates, order not meaningful.
	Themes []string `json:"themes"`

	// Keywords are finer-grained fixed-vocabulary terms used as similarity
	// input. Same set semantics as Themes.
	Keywords []string `json:"keywords"`

	// Sections are the document's level-3 headings in document order.
	Sections []string `json:"sections"`

	// RelatedEpisodes is ranked descending by similarity and capped at 5.
	// Never contains the episode's own ID.
	RelatedEpisodes []RelatedEpisode `json:"relatedEpisodes"`
}

// RelatedEpisode is one entry in an episode's relatedness ranking.
type RelatedEpisode struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Similarity is the rounded integer percentage in [0,100].
	Similarity int `json:"similarity"`
}

// CorpusIndex is the single output artifact of a build run, consumed by the
// browser UI in one fetch. It is replaced wholesale on each run.
type CorpusIndex struct {
	GeneratedAt   string    `json:"generatedAt"`
	TotalEpisodes int       `json:"totalEpisodes"`
	Episodes      []Episode `json:"episodes"`
}

// ThemeList is the sidecar artifact listing every distinct theme observed in
// the corpus, sorted ascending, for filter-chip rendering.
type ThemeList struct {
	Themes []string `json:"themes"`
}

// Bleve field name constants for consistent field references in queries and
// mappings.
const (
	EpisodeFieldID       = "id"
	EpisodeFieldTitle    = "title"
	EpisodeFieldSummary  = "summary"
	EpisodeFieldThemes   = "themes"
	EpisodeFieldSections = "sections"
)

package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/podatlas/podatlas/internal/domain"
)

// indexedEpisode is the flattened document shape stored in the Bleve index.
// Sections are joined so one analyzed text field covers all headings.
type indexedEpisode struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Themes   []string `json:"themes"`
	Sections string   `json:"sections"`
}

// Result is one search hit returned to the serve layer.
type Result struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Score     float64  `json:"score"`
	Fragments []string `json:"fragments,omitempty"`
}

// Index is an in-memory full-text index over built episodes. It is immutable
// after construction; a rebuilt corpus gets a fresh Index.
type Index struct {
	index      bleve.Index
	maxResults int
}

// CreateIndexMapping creates the Bleve index mapping for episode documents.
// Text fields use the CJK analyzer because the corpus is Japanese; ID and
// themes are keyword fields for exact filtering.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = cjk.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.EpisodeFieldTitle, titleField)

	summaryField := bleve.NewTextFieldMapping()
	summaryField.Analyzer = cjk.AnalyzerName
	summaryField.Store = true
	summaryField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.EpisodeFieldSummary, summaryField)

	sectionsField := bleve.NewTextFieldMapping()
	sectionsField.Analyzer = cjk.AnalyzerName
	sectionsField.Store = true
	docMapping.AddFieldMappingsAt(domain.EpisodeFieldSections, sectionsField)

	themesField := bleve.NewTextFieldMapping()
	themesField.Analyzer = keyword.Name
	themesField.Store = true
	docMapping.AddFieldMappingsAt(domain.EpisodeFieldThemes, themesField)

	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.EpisodeFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = cjk.AnalyzerName

	return indexMapping
}

// NewIndex builds an in-memory index over the given corpus.
func NewIndex(corpus *domain.CorpusIndex, maxResults int) (*Index, error) {
	index, err := bleve.NewMemOnly(CreateIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := index.NewBatch()
	for _, episode := range corpus.Episodes {
		doc := indexedEpisode{
			ID:       episode.ID,
			Title:    episode.Title,
			Summary:  episode.Summary,
			Themes:   episode.Themes,
			Sections: strings.Join(episode.Sections, " "),
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return nil, fmt.Errorf("failed to index episode %s: %w", episode.ID, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("batch index failed: %w", err)
	}

	return &Index{index: index, maxResults: maxResults}, nil
}

// Search runs a full-text query, optionally filtered to a single theme.
// An empty query with a theme filter returns all episodes tagged with it.
func (i *Index) Search(queryStr, theme string) ([]Result, error) {
	searchReq := bleve.NewSearchRequest(i.buildQuery(queryStr, theme))
	searchReq.Size = i.maxResults
	searchReq.Fields = []string{domain.EpisodeFieldID, domain.EpisodeFieldTitle}
	searchReq.Highlight = bleve.NewHighlight()
	searchReq.Highlight.AddField(domain.EpisodeFieldSummary)

	results, err := i.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		result := Result{ID: hit.ID, Score: hit.Score}
		if val, ok := hit.Fields[domain.EpisodeFieldTitle].(string); ok {
			result.Title = val
		}
		if fragments, ok := hit.Fragments[domain.EpisodeFieldSummary]; ok {
			result.Fragments = fragments
		}
		hits = append(hits, result)
	}
	return hits, nil
}

// buildQuery constructs a Bleve query: match queries over title (boosted),
// summary, and sections, optionally conjoined with a theme term filter.
func (i *Index) buildQuery(queryStr, theme string) query.Query {
	var textQuery query.Query
	if strings.TrimSpace(queryStr) == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		titleQuery := bleve.NewMatchQuery(queryStr)
		titleQuery.SetField(domain.EpisodeFieldTitle)
		titleQuery.SetBoost(3.0)

		summaryQuery := bleve.NewMatchQuery(queryStr)
		summaryQuery.SetField(domain.EpisodeFieldSummary)

		sectionsQuery := bleve.NewMatchQuery(queryStr)
		sectionsQuery.SetField(domain.EpisodeFieldSections)

		textQuery = bleve.NewDisjunctionQuery(titleQuery, summaryQuery, sectionsQuery)
	}

	if theme == "" {
		return textQuery
	}

	themeQuery := bleve.NewTermQuery(theme)
	themeQuery.SetField(domain.EpisodeFieldThemes)
	return bleve.NewConjunctionQuery(textQuery, themeQuery)
}

// Close releases index resources.
func (i *Index) Close() error {
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}

// DocCount returns the number of indexed episodes.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

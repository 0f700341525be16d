package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/podatlas/podatlas/internal/domain"
)

// Builder drives the corpus-to-index transformation: load accepted source
// documents, extract per-episode records, compute cross-episode relatedness
// over the completed set, sort into canonical order, and assemble the final
// artifacts. The two passes are strictly ordered because relatedness is only
// valid once every record's theme and keyword sets are finalized.
type Builder struct {
	themes   *Matcher
	keywords *Matcher
	now      func() time.Time
}

// NewBuilder creates a Builder with the default fixed vocabularies.
func NewBuilder() *Builder {
	return NewBuilderWithVocabularies(DefaultThemeVocabulary, DefaultKeywordVocabulary)
}

// NewBuilderWithVocabularies creates a Builder with custom vocabularies,
// used by tests.
func NewBuilderWithVocabularies(themeVocabulary, keywordVocabulary []string) *Builder {
	return &Builder{
		themes:   NewMatcher(themeVocabulary),
		keywords: NewMatcher(keywordVocabulary),
		now:      time.Now,
	}
}

// SetClock injects a custom time source for deterministic tests.
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// BuildDir reads every file in dir and builds the corpus index. Documents
// whose filenames fail the ID pattern are skipped silently; any read failure
// is fatal and no artifact is produced.
func (b *Builder) BuildDir(dir string) (*domain.CorpusIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	docs := make(map[string]string, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		docs[entry.Name()] = string(content)
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	index := b.Build(names, docs)
	slog.Info("Corpus build complete", "dir", dir, "episodes", index.TotalEpisodes, "skipped", len(names)-index.TotalEpisodes)
	return index, nil
}

// Build runs the two-pass transformation over in-memory documents: names is
// the document enumeration order, docs maps filename to raw content.
func (b *Builder) Build(names []string, docs map[string]string) *domain.CorpusIndex {
	// Pass 1: per-episode extraction into an immutable arena.
	episodes := make([]domain.Episode, 0, len(names))
	for _, name := range names {
		id, ok := ResolveID(name)
		if !ok {
			slog.Debug("Skipping document with unrecognized filename", "filename", name)
			continue
		}

		content := docs[name]
		parsed := ParseDocument(content)

		episodes = append(episodes, domain.Episode{
			ID:       id,
			Filename: name,
			Title:    ResolveTitle(id, content),
			Summary:  parsed.Summary,
			Themes:   b.themes.Match(parsed.RawText),
			Keywords: b.keywords.Match(parsed.RawText),
			Sections: parsed.Sections,
		})
	}

	// Pass 2: cross-episode relatedness over the completed set.
	for i := range episodes {
		episodes[i].RelatedEpisodes = RankRelated(episodes, i)
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return SortKey(episodes[i].ID) < SortKey(episodes[j].ID)
	})

	return &domain.CorpusIndex{
		GeneratedAt:   b.now().UTC().Format(time.RFC3339),
		TotalEpisodes: len(episodes),
		Episodes:      episodes,
	}
}

// CollectThemes returns the distinct themes observed across the corpus,
// sorted ascending, for the sidecar artifact.
func CollectThemes(index *domain.CorpusIndex) domain.ThemeList {
	seen := make(map[string]bool)
	themes := make([]string, 0)
	for _, episode := range index.Episodes {
		for _, theme := range episode.Themes {
			if !seen[theme] {
				seen[theme] = true
				themes = append(themes, theme)
			}
		}
	}
	sort.Strings(themes)
	return domain.ThemeList{Themes: themes}
}

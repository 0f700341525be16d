package server

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/podatlas/podatlas/internal/corpus"
	"github.com/podatlas/podatlas/internal/domain"
	"github.com/podatlas/podatlas/internal/search"
)

// snapshot is one immutable view of a built corpus: the artifacts plus the
// search index over them. Requests read a snapshot; a reload builds a fresh
// one and swaps it in atomically.
type snapshot struct {
	index    *domain.CorpusIndex
	themes   *domain.ThemeList
	byID     map[string]*domain.Episode
	searcher *search.Index
}

// Library holds the currently served corpus snapshot. Cross-request state is
// immutable after each full reload; a reload replaces the previous snapshot
// wholesale, never patches it.
type Library struct {
	dir        string
	maxResults int
	current    atomic.Pointer[snapshot]
}

// NewLibrary creates a Library reading artifacts from dir.
func NewLibrary(dir string, maxResults int) *Library {
	return &Library{dir: dir, maxResults: maxResults}
}

// Reload loads the artifacts from disk, builds a fresh search index, and
// swaps the served snapshot. The previous snapshot's search index is closed
// after the swap.
func (l *Library) Reload() error {
	index, err := corpus.LoadIndex(l.dir)
	if err != nil {
		return fmt.Errorf("failed to load corpus index: %w", err)
	}

	themes, err := corpus.LoadThemes(l.dir)
	if err != nil {
		return fmt.Errorf("failed to load themes: %w", err)
	}

	searcher, err := search.NewIndex(index, l.maxResults)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}

	byID := make(map[string]*domain.Episode, len(index.Episodes))
	for i := range index.Episodes {
		byID[index.Episodes[i].ID] = &index.Episodes[i]
	}

	old := l.current.Swap(&snapshot{
		index:    index,
		themes:   themes,
		byID:     byID,
		searcher: searcher,
	})
	if old != nil && old.searcher != nil {
		if err := old.searcher.Close(); err != nil {
			slog.Error("Failed to close previous search index", "error", err)
		}
	}

	slog.Info("Corpus snapshot loaded", "episodes", index.TotalEpisodes, "themes", len(themes.Themes))
	return nil
}

// Snapshot returns the current snapshot, or nil before the first Reload.
func (l *Library) Snapshot() *snapshot {
	return l.current.Load()
}

// Close releases the current snapshot's resources.
func (l *Library) Close() error {
	old := l.current.Swap(nil)
	if old != nil && old.searcher != nil {
		return old.searcher.Close()
	}
	return nil
}

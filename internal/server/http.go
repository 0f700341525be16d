package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/podatlas/podatlas/internal/config"
)

// NewHTTPServer creates the HTTP server for the browser UI: the corpus
// artifacts, episode lookup, full-text search, and optionally the static UI
// bundle.
func NewHTTPServer(library *Library, settings *config.ServeSettings) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", settings.Host, settings.Port),
		Handler: NewRouter(library, settings.StaticDir),
	}
}

// NewRouter builds the chi router. staticDir, when non-empty, is served at
// the root for the UI bundle.
func NewRouter(library *Library, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := &handlers{library: library}
	r.Route("/api", func(r chi.Router) {
		r.Get("/index", h.getIndex)
		r.Get("/themes", h.getThemes)
		r.Get("/episodes", h.listEpisodes)
		r.Get("/episodes/{id}", h.getEpisode)
		r.Get("/search", h.search)
	})

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}

// corsHeaders allows the browser UI to fetch the API from any origin. The
// corpus is public, read-only data.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type handlers struct {
	library *Library
}

func (h *handlers) getIndex(w http.ResponseWriter, r *http.Request) {
	snap := h.library.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}
	writeJSON(w, snap.index)
}

func (h *handlers) getThemes(w http.ResponseWriter, r *http.Request) {
	snap := h.library.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}
	writeJSON(w, snap.themes)
}

func (h *handlers) listEpisodes(w http.ResponseWriter, r *http.Request) {
	snap := h.library.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}
	writeJSON(w, snap.index.Episodes)
}

func (h *handlers) getEpisode(w http.ResponseWriter, r *http.Request) {
	snap := h.library.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}

	id := chi.URLParam(r, "id")
	episode, ok := snap.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "episode not found")
		return
	}
	writeJSON(w, episode)
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	snap := h.library.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}

	query := r.URL.Query().Get("q")
	theme := r.URL.Query().Get("theme")
	if query == "" && theme == "" {
		writeError(w, http.StatusBadRequest, "q or theme parameter is required")
		return
	}

	results, err := snap.searcher.Search(query, theme)
	if err != nil {
		slog.Error("Search failed", "query", query, "theme", theme, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, map[string]any{
		"query":   query,
		"theme":   theme,
		"results": results,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

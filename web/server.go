// Package web exposes the story feed over a JSON HTTP API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hn-scout/hn"
	"hn-scout/readinglist"
	"hn-scout/scrape"
	"hn-scout/stories"
)

// StoryService is the part of the story pipeline the API consumes.
type StoryService interface {
	ListPage(ctx context.Context, pageIndex, pageSize int) (stories.Page, error)
	GetStory(ctx context.Context, id string) (hn.Story, error)
	Comments(ctx context.Context, storyID string) ([]hn.Comment, error)
	Decorate(st hn.Story) stories.Story
	CacheLen() int
}

// ReadingList persists saved stories.
type ReadingList interface {
	Save(e *readinglist.Entry) error
	Remove(storyID string) error
	List() ([]readinglist.Entry, error)
}

// Extractor produces readable article previews.
type Extractor interface {
	Extract(ctx context.Context, url string) (*scrape.Preview, error)
}

// Server handles HTTP requests for the story API.
type Server struct {
	stories   StoryService
	list      ReadingList
	extractor Extractor
	addr      string
}

// New creates a new API server.
func New(svc StoryService, list ReadingList, extractor Extractor, addr string) *Server {
	return &Server{
		stories:   svc,
		list:      list,
		extractor: extractor,
		addr:      addr,
	}
}

// Handler returns the routed handler, CORS included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Stories
	mux.HandleFunc("GET /api/stories", s.listStories)
	mux.HandleFunc("GET /api/stories/{id}", s.getStory)
	mux.HandleFunc("GET /api/stories/{id}/comments", s.getComments)
	mux.HandleFunc("GET /api/stories/{id}/preview", s.getPreview)

	// Reading list
	mux.HandleFunc("GET /api/reading-list", s.listSaved)
	mux.HandleFunc("POST /api/reading-list", s.saveStory)
	mux.HandleFunc("DELETE /api/reading-list/{id}", s.removeSaved)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for frontend development.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cacheEntries": s.stories.CacheLen(),
	})
}

// StoriesResponse is the payload for the story feed.
type StoriesResponse struct {
	Stories     []stories.Story `json:"stories"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalHits   int             `json:"totalHits"`
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	result, err := s.stories.ListPage(r.Context(), page-1, 0)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StoriesResponse{
		Stories:     result.Stories,
		CurrentPage: page,
		TotalPages:  result.NbPages,
		TotalHits:   result.NbHits,
	})
}

func (s *Server) getStory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	st, err := s.stories.GetStory(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.stories.Decorate(st))
}

func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	comments, err := s.stories.Comments(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"storyId":  id,
		"comments": comments,
	})
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	st, err := s.stories.GetStory(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if st.URL == "" {
		writeError(w, http.StatusBadRequest, "story has no external URL")
		return
	}

	preview, err := s.extractor.Extract(r.Context(), st.URL)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not extract article: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// SaveRequest is the request body for saving a story.
type SaveRequest struct {
	StoryID     string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
}

func (s *Server) saveStory(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.StoryID) == "" {
		writeError(w, http.StatusBadRequest, "objectID is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	entry := readinglist.Entry{
		StoryID:     req.StoryID,
		Title:       req.Title,
		URL:         req.URL,
		Author:      req.Author,
		Points:      req.Points,
		NumComments: req.NumComments,
	}
	if err := s.list.Save(&entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) listSaved(w http.ResponseWriter, r *http.Request) {
	entries, err := s.list.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []readinglist.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) removeSaved(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.list.Remove(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUpstreamError maps client errors onto HTTP statuses.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var fetchErr *hn.FetchError
	switch {
	case errors.Is(err, hn.ErrNotFound):
		writeError(w, http.StatusNotFound, "story not found")
	case errors.Is(err, hn.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "upstream request timed out")
	case errors.As(err, &fetchErr), errors.Is(err, hn.ErrMalformed):
		writeError(w, http.StatusBadGateway, "upstream request failed")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

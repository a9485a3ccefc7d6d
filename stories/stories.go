// Package stories aggregates popular and recent Hacker News result
// sets into ranked, cached pages and serves cached detail lookups.
package stories

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"hn-scout/cache"
	"hn-scout/hn"
	"hn-scout/rank"
	"hn-scout/recency"
)

// Config holds the aggregation parameters.
type Config struct {
	PageSize     int           // stories per page
	ListTimeout  time.Duration // shared deadline for the dual list fetch
	ItemTimeout  time.Duration // deadline for single-entity fetches
	CacheTTL     time.Duration // response cache lifetime
	RecentWindow time.Duration // how far back the recent query reaches
	CommentLimit int           // comments returned per story
}

// DefaultConfig mirrors the aggregation parameters of the production
// deployment.
func DefaultConfig() Config {
	return Config{
		PageSize:     20,
		ListTimeout:  3 * time.Second,
		ItemTimeout:  2 * time.Second,
		CacheTTL:     60 * time.Second,
		RecentWindow: 72 * time.Hour,
		CommentLimit: 5,
	}
}

// Story is a story decorated with its quality score and recency status
// as of the instant the page was assembled.
type Story struct {
	hn.Story
	Quality rank.Score   `json:"qualityScore"`
	Recency recency.Info `json:"recencyStatus"`
	TimeAgo string       `json:"timeAgo"`
	Domain  string       `json:"domain,omitempty"`
}

// Page is one assembled result page. Page metadata comes from the
// popular query; NbHits sums both queries.
type Page struct {
	Stories     []Story `json:"stories"`
	Page        int     `json:"page"`
	NbPages     int     `json:"nbPages"`
	HitsPerPage int     `json:"hitsPerPage"`
	NbHits      int     `json:"nbHits"`
}

// Service fetches, merges, ranks and caches stories. Each Service owns
// its caches; construct one per process (or per test).
type Service struct {
	client   hn.Client
	cfg      Config
	now      func() time.Time
	pages    *cache.Cache[Page]
	stories  *cache.Cache[hn.Story]
	comments *cache.Cache[[]hn.Comment]
}

// New creates a Service around the given client.
func New(client hn.Client, cfg Config) *Service {
	return NewWithClock(client, cfg, time.Now)
}

// NewWithClock creates a Service with a custom clock (for testing).
func NewWithClock(client hn.Client, cfg Config, now func() time.Time) *Service {
	return &Service{
		client:   client,
		cfg:      cfg,
		now:      now,
		pages:    cache.NewWithClock[Page](cfg.CacheTTL, now),
		stories:  cache.NewWithClock[hn.Story](cfg.CacheTTL, now),
		comments: cache.NewWithClock[[]hn.Comment](cfg.CacheTTL, now),
	}
}

// ListPage returns one ranked page of stories. Pages are cached per
// (pageIndex, pageSize) for the configured TTL; a cache hit returns the
// previously assembled page verbatim, ordering included.
//
// On a miss, two fetches run concurrently under one shared deadline: a
// popular query for 70% of the page and a recent query, restricted to
// the recency window, for 30%. Both must succeed; either failure (or
// the deadline) fails the whole operation and leaves no cache entry.
func (s *Service) ListPage(ctx context.Context, pageIndex, pageSize int) (Page, error) {
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}

	key := fmt.Sprintf("stories-%d-%d", pageIndex, pageSize)
	if p, ok := s.pages.Get(key); ok {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ListTimeout)
	defer cancel()

	now := s.now()
	popularCount := int(math.Ceil(float64(pageSize) * 0.7))
	recentCount := int(math.Ceil(float64(pageSize) * 0.3))
	cutoff := now.Add(-s.cfg.RecentWindow).Unix()

	var (
		popular, recent *hn.SearchResponse
		popErr, recErr  error
		wg              sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		popular, popErr = s.client.SearchStories(ctx, pageIndex, popularCount)
	}()
	go func() {
		defer wg.Done()
		recent, recErr = s.client.SearchRecent(ctx, cutoff, recentCount)
	}()
	wg.Wait()

	if popErr != nil {
		return Page{}, fmt.Errorf("stories: popular fetch: %w", popErr)
	}
	if recErr != nil {
		return Page{}, fmt.Errorf("stories: recent fetch: %w", recErr)
	}

	// Popular hits come first, so on duplicate IDs the popular-set
	// version wins.
	combined := make([]hn.Story, 0, len(popular.Hits)+len(recent.Hits))
	combined = append(combined, popular.Hits...)
	combined = append(combined, recent.Hits...)
	merged := dedupe(combined)

	ranked := rank.Sort(merged, now)
	if len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}

	page := Page{
		Stories:     s.decorateAll(ranked, now),
		Page:        popular.Page,
		NbPages:     popular.NbPages,
		HitsPerPage: pageSize,
		NbHits:      popular.NbHits + recent.NbHits,
	}

	s.pages.Put(key, page)
	slog.Debug("page assembled",
		"page", pageIndex,
		"popular", len(popular.Hits),
		"recent", len(recent.Hits),
		"merged", len(merged),
		"returned", len(page.Stories))
	return page, nil
}

// GetStory returns a single story by ID, cached. A story absent
// upstream fails with hn.ErrNotFound; failures are never cached.
func (s *Service) GetStory(ctx context.Context, id string) (hn.Story, error) {
	key := "story-" + id
	if st, ok := s.stories.Get(key); ok {
		return st, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()

	st, err := s.client.GetStory(ctx, id)
	if err != nil {
		return hn.Story{}, fmt.Errorf("stories: %w", err)
	}

	s.stories.Put(key, *st)
	return *st, nil
}

// Comments returns up to the configured number of comments for a story,
// cached. A story with no comments yields an empty slice, which is
// cached like any other successful result.
func (s *Service) Comments(ctx context.Context, storyID string) ([]hn.Comment, error) {
	key := "comments-" + storyID
	if cs, ok := s.comments.Get(key); ok {
		return cs, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()

	cs, err := s.client.Comments(ctx, storyID, s.cfg.CommentLimit)
	if err != nil {
		return nil, fmt.Errorf("stories: %w", err)
	}

	s.comments.Put(key, cs)
	return cs, nil
}

// Decorate attaches the quality score, recency status and display
// helpers to a story as of now.
func (s *Service) Decorate(st hn.Story) Story {
	return decorate(st, s.now())
}

// ClearCaches drops every cached page, story and comment list.
func (s *Service) ClearCaches() {
	s.pages.Clear()
	s.stories.Clear()
	s.comments.Clear()
}

// CacheLen reports the total number of cache entries, expired included.
func (s *Service) CacheLen() int {
	return s.pages.Len() + s.stories.Len() + s.comments.Len()
}

func (s *Service) decorateAll(stories []hn.Story, now time.Time) []Story {
	out := make([]Story, len(stories))
	for i, st := range stories {
		out[i] = decorate(st, now)
	}
	return out
}

func decorate(st hn.Story, now time.Time) Story {
	return Story{
		Story:   st,
		Quality: rank.For(st, now),
		Recency: recency.For(st, now),
		TimeAgo: TimeAgo(st.CreatedAtI, now),
		Domain:  Domain(st.URL),
	}
}

// dedupe removes stories sharing an ID, keeping the first occurrence.
func dedupe(stories []hn.Story) []hn.Story {
	seen := make(map[string]bool, len(stories))
	out := make([]hn.Story, 0, len(stories))
	for _, st := range stories {
		if seen[st.ID] {
			continue
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	return out
}

// TimeAgo renders a coarse human-readable age for display.
func TimeAgo(createdAtI int64, now time.Time) string {
	diff := now.Sub(time.Unix(createdAtI, 0))

	days := int(diff.Hours() / 24)
	hours := int(diff.Hours())
	minutes := int(diff.Minutes())

	switch {
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == 1:
		return "1 day ago"
	case hours > 1:
		return fmt.Sprintf("%d hours ago", hours)
	case hours == 1:
		return "1 hour ago"
	case minutes > 1:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes == 1:
		return "1 minute ago"
	default:
		return "just now"
	}
}

// Domain extracts the bare hostname of a story URL for display.
// Invalid or absent URLs yield an empty string.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

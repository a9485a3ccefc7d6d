package stories

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hn-scout/hn"
	"hn-scout/recency"
)

// fakeClient implements hn.Client with canned responses and call counts.
type fakeClient struct {
	popular    *hn.SearchResponse
	recent     *hn.SearchResponse
	story      *hn.Story
	comments   []hn.Comment
	popularErr error
	recentErr  error
	storyErr   error
	commentErr error

	popularCalls int32
	recentCalls  int32
	storyCalls   int32
	commentCalls int32
}

func (f *fakeClient) SearchStories(ctx context.Context, page, hitsPerPage int) (*hn.SearchResponse, error) {
	atomic.AddInt32(&f.popularCalls, 1)
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	return f.popular, nil
}

func (f *fakeClient) SearchRecent(ctx context.Context, cutoff int64, hitsPerPage int) (*hn.SearchResponse, error) {
	atomic.AddInt32(&f.recentCalls, 1)
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeClient) GetStory(ctx context.Context, id string) (*hn.Story, error) {
	atomic.AddInt32(&f.storyCalls, 1)
	if f.storyErr != nil {
		return nil, f.storyErr
	}
	return f.story, nil
}

func (f *fakeClient) Comments(ctx context.Context, storyID string, limit int) ([]hn.Comment, error) {
	atomic.AddInt32(&f.commentCalls, 1)
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return f.comments, nil
}

func testService(t *testing.T, client hn.Client, now time.Time) *Service {
	t.Helper()
	return NewWithClock(client, DefaultConfig(), func() time.Time { return now })
}

func oldStory(id string, points int, now time.Time) hn.Story {
	return hn.Story{ID: id, Title: "story " + id, Points: points, CreatedAtI: now.Add(-100 * time.Hour).Unix()}
}

func TestListPage_RanksAndTruncates(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popular: &hn.SearchResponse{
			Hits:    []hn.Story{oldStory("p1", 10, now), oldStory("p2", 5000, now)},
			Page:    0,
			NbPages: 30,
			NbHits:  400,
		},
		recent: &hn.SearchResponse{
			Hits:   []hn.Story{oldStory("r1", 300, now)},
			NbHits: 50,
		},
	}
	svc := testService(t, client, now)

	page, err := svc.ListPage(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"p2", "r1", "p1"}
	if len(page.Stories) != 3 {
		t.Fatalf("expected 3 stories, got %d", len(page.Stories))
	}
	for i, id := range want {
		if page.Stories[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, page.Stories[i].ID)
		}
	}
	if page.NbPages != 30 {
		t.Errorf("expected page count from popular query, got %d", page.NbPages)
	}
	if page.NbHits != 450 {
		t.Errorf("expected summed hit count 450, got %d", page.NbHits)
	}
	if page.HitsPerPage != 3 {
		t.Errorf("expected hitsPerPage 3, got %d", page.HitsPerPage)
	}
}

func TestListPage_TruncatesToPageSize(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popular: &hn.SearchResponse{Hits: []hn.Story{
			oldStory("a", 400, now), oldStory("b", 300, now), oldStory("c", 200, now),
		}},
		recent: &hn.SearchResponse{Hits: []hn.Story{oldStory("d", 100, now)}},
	}
	svc := testService(t, client, now)

	page, err := svc.ListPage(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Stories) != 2 {
		t.Fatalf("expected truncation to 2 stories, got %d", len(page.Stories))
	}
	if page.Stories[0].ID != "a" || page.Stories[1].ID != "b" {
		t.Errorf("unexpected order: %s, %s", page.Stories[0].ID, page.Stories[1].ID)
	}
}

func TestListPage_DeduplicatesPopularWins(t *testing.T) {
	now := time.Unix(1700000000, 0)
	shared := oldStory("dup", 100, now)
	shared.Title = "popular version"
	recentDup := oldStory("dup", 100, now)
	recentDup.Title = "recent version"

	client := &fakeClient{
		popular: &hn.SearchResponse{Hits: []hn.Story{shared}},
		recent:  &hn.SearchResponse{Hits: []hn.Story{recentDup}},
	}
	svc := testService(t, client, now)

	page, err := svc.ListPage(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Stories) != 1 {
		t.Fatalf("expected 1 story after dedup, got %d", len(page.Stories))
	}
	if page.Stories[0].Title != "popular version" {
		t.Errorf("expected popular-set version to win, got %q", page.Stories[0].Title)
	}
}

func TestListPage_CacheHitSkipsFetch(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popular: &hn.SearchResponse{Hits: []hn.Story{oldStory("a", 10, now)}},
		recent:  &hn.SearchResponse{Hits: nil},
	}
	svc := testService(t, client, now)

	first, err := svc.ListPage(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListPage(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.popularCalls != 1 || client.recentCalls != 1 {
		t.Errorf("expected exactly one fetch pair, got %d/%d", client.popularCalls, client.recentCalls)
	}
	if len(second.Stories) != len(first.Stories) || second.Stories[0].ID != first.Stories[0].ID {
		t.Errorf("cached page differs from original: %+v vs %+v", second, first)
	}
	if second.Stories[0].Quality != first.Stories[0].Quality {
		t.Errorf("cached page recomputed scores: %+v vs %+v", second.Stories[0].Quality, first.Stories[0].Quality)
	}
}

func TestListPage_DistinctKeysFetchSeparately(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popular: &hn.SearchResponse{Hits: []hn.Story{oldStory("a", 10, now)}},
		recent:  &hn.SearchResponse{Hits: nil},
	}
	svc := testService(t, client, now)

	svc.ListPage(context.Background(), 0, 5)
	svc.ListPage(context.Background(), 1, 5)
	svc.ListPage(context.Background(), 0, 10)

	if client.popularCalls != 3 {
		t.Errorf("expected 3 popular fetches for 3 distinct keys, got %d", client.popularCalls)
	}
}

func TestListPage_EitherFailureFailsWhole(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("popular fails", func(t *testing.T) {
		client := &fakeClient{
			popularErr: &hn.FetchError{Status: 500},
			recent:     &hn.SearchResponse{Hits: nil},
		}
		svc := testService(t, client, now)

		_, err := svc.ListPage(context.Background(), 0, 5)
		var fetchErr *hn.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
	})

	t.Run("recent fails", func(t *testing.T) {
		client := &fakeClient{
			popular:   &hn.SearchResponse{Hits: nil},
			recentErr: fmt.Errorf("request failed: %w", hn.ErrTimeout),
		}
		svc := testService(t, client, now)

		_, err := svc.ListPage(context.Background(), 0, 5)
		if !errors.Is(err, hn.ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
	})
}

func TestListPage_NoCacheEntryOnFailure(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popularErr: hn.ErrTimeout,
		recentErr:  hn.ErrTimeout,
	}
	svc := testService(t, client, now)

	if _, err := svc.ListPage(context.Background(), 0, 5); !errors.Is(err, hn.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if svc.CacheLen() != 0 {
		t.Errorf("expected no cache entries after failure, got %d", svc.CacheLen())
	}

	// A retry reaches upstream again rather than serving a failure.
	svc.ListPage(context.Background(), 0, 5)
	if client.popularCalls != 2 {
		t.Errorf("expected second attempt to fetch, got %d calls", client.popularCalls)
	}
}

func TestListPage_DefaultPageSize(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{
		popular: &hn.SearchResponse{Hits: nil},
		recent:  &hn.SearchResponse{Hits: nil},
	}
	svc := testService(t, client, now)

	page, err := svc.ListPage(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.HitsPerPage != DefaultConfig().PageSize {
		t.Errorf("expected default page size %d, got %d", DefaultConfig().PageSize, page.HitsPerPage)
	}
}

func TestGetStory_CachesResult(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := oldStory("42", 77, now)
	client := &fakeClient{story: &st}
	svc := testService(t, client, now)

	first, err := svc.GetStory(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetStory(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.storyCalls != 1 {
		t.Errorf("expected one upstream fetch, got %d", client.storyCalls)
	}
	if first.ID != "42" || second != first {
		t.Errorf("unexpected stories: %+v vs %+v", first, second)
	}
}

func TestGetStory_NotFoundNotCached(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{storyErr: fmt.Errorf("story missing: %w", hn.ErrNotFound)}
	svc := testService(t, client, now)

	_, err := svc.GetStory(context.Background(), "missing")
	if !errors.Is(err, hn.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if svc.CacheLen() != 0 {
		t.Errorf("expected no cache entries, got %d", svc.CacheLen())
	}
}

func TestComments_EmptyResultIsCached(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeClient{comments: []hn.Comment{}}
	svc := testService(t, client, now)

	first, err := svc.Comments(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 0 {
		t.Errorf("expected empty comments, got %d", len(first))
	}

	svc.Comments(context.Background(), "42")
	if client.commentCalls != 1 {
		t.Errorf("expected empty result to be cached, got %d fetches", client.commentCalls)
	}
}

func TestDecorate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	st := hn.Story{
		ID:          "7",
		Title:       "Decorated",
		URL:         "https://www.example.com/post",
		Points:      100,
		NumComments: 50,
		CreatedAtI:  now.Add(-1 * time.Hour).Unix(),
	}
	svc := testService(t, &fakeClient{}, now)

	got := svc.Decorate(st)
	if got.Quality.Total != 155.3 {
		t.Errorf("expected total 155.3, got %v", got.Quality.Total)
	}
	if got.Recency.Status != recency.Hot {
		t.Errorf("expected hot status, got %s", got.Recency.Status)
	}
	if got.Domain != "example.com" {
		t.Errorf("expected domain example.com, got %q", got.Domain)
	}
	if got.TimeAgo != "1 hour ago" {
		t.Errorf("expected '1 hour ago', got %q", got.TimeAgo)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{1 * time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{1 * time.Hour, "1 hour ago"},
		{20 * time.Hour, "20 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{80 * time.Hour, "3 days ago"},
	}

	for _, tt := range tests {
		got := TimeAgo(now.Add(-tt.age).Unix(), now)
		if got != tt.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/a/b", "example.com"},
		{"https://blog.example.org", "blog.example.org"},
		{"", ""},
		{"not a url", ""},
	}

	for _, tt := range tests {
		if got := Domain(tt.url); got != tt.want {
			t.Errorf("Domain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

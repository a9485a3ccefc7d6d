// Package hn is a client for the Hacker News Algolia search API.
package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const BaseURL = "https://hn.algolia.com/api/v1"

// Story is a submitted item as returned by the search API.
type Story struct {
	ID          string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at"`
	CreatedAtI  int64  `json:"created_at_i"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	// StoryText carries untrusted HTML-bearing text. It must never be
	// rendered unescaped.
	StoryText string `json:"story_text,omitempty"`
}

// HoursSince returns the story's age in hours at the given instant.
// The result may be negative when upstream clocks are ahead of ours.
func (s Story) HoursSince(now time.Time) float64 {
	return now.Sub(time.Unix(s.CreatedAtI, 0)).Hours()
}

// Comment is a single comment hit. CommentText is untrusted HTML-bearing
// text; ParentID and StoryID are lookup references, not ownership.
type Comment struct {
	ID          string `json:"objectID"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at"`
	CreatedAtI  int64  `json:"created_at_i"`
	CommentText string `json:"comment_text"`
	ParentID    int64  `json:"parent_id"`
	StoryID     int64  `json:"story_id"`
}

// SearchResponse is the envelope returned by the search endpoints.
type SearchResponse struct {
	Hits        []Story `json:"hits"`
	Page        int     `json:"page"`
	NbPages     int     `json:"nbPages"`
	HitsPerPage int     `json:"hitsPerPage"`
	NbHits      int     `json:"nbHits"`
}

type commentsResponse struct {
	Hits []Comment `json:"hits"`
}

// Client interface for HN search API operations.
type Client interface {
	SearchStories(ctx context.Context, page, hitsPerPage int) (*SearchResponse, error)
	SearchRecent(ctx context.Context, cutoff int64, hitsPerPage int) (*SearchResponse, error)
	GetStory(ctx context.Context, id string) (*Story, error)
	Comments(ctx context.Context, storyID string, limit int) ([]Comment, error)
}

type httpClient struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new search API client with the given HTTP client.
// Deadlines are expected to arrive via the request context.
func NewClient(client *http.Client) Client {
	return NewClientWithBaseURL(client, BaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL (for testing).
func NewClientWithBaseURL(client *http.Client, baseURL string) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		client:  client,
		baseURL: baseURL,
	}
}

// SearchStories fetches one page of stories in popularity order.
func (c *httpClient) SearchStories(ctx context.Context, page, hitsPerPage int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search?tags=story&page=%d&hitsPerPage=%d", c.baseURL, page, hitsPerPage)

	var resp SearchResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("searching stories page %d: %w", page, err)
	}
	return &resp, nil
}

// SearchRecent fetches stories created after the cutoff (Unix seconds),
// newest first.
func (c *httpClient) SearchRecent(ctx context.Context, cutoff int64, hitsPerPage int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search_by_date?tags=story&numericFilters=created_at_i>%d&hitsPerPage=%d", c.baseURL, cutoff, hitsPerPage)

	var resp SearchResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("searching recent stories: %w", err)
	}
	return &resp, nil
}

// GetStory fetches a single story by its object ID. The search endpoint
// is used instead of the item endpoint so num_comments is populated.
func (c *httpClient) GetStory(ctx context.Context, id string) (*Story, error) {
	u := fmt.Sprintf("%s/search?tags=story&filters=objectID:%s", c.baseURL, url.QueryEscape(id))

	var resp SearchResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("fetching story %s: %w", id, err)
	}
	if len(resp.Hits) == 0 {
		return nil, fmt.Errorf("story %s: %w", id, ErrNotFound)
	}
	return &resp.Hits[0], nil
}

// Comments fetches up to limit comments for the given story. A story
// with no comments yields an empty slice, not an error.
func (c *httpClient) Comments(ctx context.Context, storyID string, limit int) ([]Comment, error) {
	u := fmt.Sprintf("%s/search?tags=comment,story_%s&hitsPerPage=%d", c.baseURL, url.QueryEscape(storyID), limit)

	var resp commentsResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("fetching comments for story %s: %w", storyID, err)
	}
	if resp.Hits == nil {
		return []Comment{}, nil
	}
	return resp.Hits, nil
}

// get performs a GET and decodes the JSON body into v, translating
// failures into the package's error kinds.
func (c *httpClient) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", ErrMalformed)
	}
	return nil
}

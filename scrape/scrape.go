// Package scrape extracts a readable preview of a story's linked
// article for the detail view.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const maxPreviewLength = 4000

// Preview is the readable portion of a linked article.
type Preview struct {
	Title   string `json:"title"`
	Byline  string `json:"byline,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Content string `json:"content"`
}

// Extractor fetches a URL and extracts a readable preview.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Preview, error)
}

type httpExtractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor with the given timeout for HTTP
// requests.
func NewExtractor(timeout time.Duration) Extractor {
	return &httpExtractor{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewExtractorWithClient creates an Extractor with a custom HTTP client
// (for testing).
func NewExtractorWithClient(client *http.Client) Extractor {
	return &httpExtractor{
		client: client,
	}
}

// Extract fetches url and runs readability extraction over the body.
// Preview content is truncated to 4000 characters.
func (e *httpExtractor) Extract(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating preview request for %s: %w", url, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preview fetch for %s returned status %d", url, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", url, err)
	}

	content := article.TextContent
	if len(content) > maxPreviewLength {
		content = content[:maxPreviewLength]
	}

	return &Preview{
		Title:   article.Title,
		Byline:  article.Byline,
		Excerpt: article.Excerpt,
		Content: content,
	}, nil
}

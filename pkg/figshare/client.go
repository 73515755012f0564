// Package figshare provides a client for the Figshare v2 API, used to
// list thesis articles and fetch their PDF files for DOI scanning.
package figshare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the Figshare v2 API.
type Client struct {
	client  *http.Client
	apiURL  string
	timeout time.Duration
}

// NewClient creates a Figshare API client.
func NewClient(options ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiURL:  "https://api.figshare.com/v2",
		timeout: 30 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Option defines configuration options for the Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
		c.client.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithAPIURL overrides the API base URL (for testing).
func WithAPIURL(u string) Option {
	return func(c *Client) {
		c.apiURL = u
	}
}

const pageSize = 50

// thesisItemTypes are the Figshare item_type codes tried in order when
// listing theses. Older deployments used 3, newer ones 8.
var thesisItemTypes = []int{3, 8}

// ListTheses returns up to limit thesis articles, newest first. Both
// known thesis item types are tried; the first that yields results wins.
func (c *Client) ListTheses(ctx context.Context, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = pageSize
	}

	var lastErr error

	for _, itemType := range thesisItemTypes {
		out := make([]Article, 0, limit)
		page := 1

		for len(out) < limit {
			params := url.Values{}
			params.Set("item_type", strconv.Itoa(itemType))
			params.Set("page", strconv.Itoa(page))
			params.Set("page_size", strconv.Itoa(min(pageSize, limit-len(out))))
			params.Set("order", "published_date")
			params.Set("order_direction", "desc")

			var batch []Article
			if err := c.getJSON(ctx, c.apiURL+"/articles?"+params.Encode(), &batch); err != nil {
				lastErr = err
				break
			}

			if len(batch) == 0 {
				break
			}

			out = append(out, batch...)
			page++
		}

		if len(out) > 0 {
			if len(out) > limit {
				out = out[:limit]
			}

			return out, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("figshare: list theses: %w", lastErr)
	}

	return nil, nil
}

// ArticleDetail fetches the full record for an article, including its
// file list.
func (c *Client) ArticleDetail(ctx context.Context, articleID int64) (*ArticleDetail, error) {
	var detail ArticleDetail
	if err := c.getJSON(ctx, fmt.Sprintf("%s/articles/%d", c.apiURL, articleID), &detail); err != nil {
		return nil, fmt.Errorf("figshare: article %d: %w", articleID, err)
	}

	return &detail, nil
}

// DownloadPDF fetches a PDF file into memory.
func (c *Client) DownloadPDF(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("figshare: download %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("figshare: download %s: status %d", downloadURL, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

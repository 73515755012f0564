// Package crossref looks up bibliographic metadata from the Crossref
// REST API, used to reconcile extracted reference titles against the
// registry's canonical record.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// RateLimit keeps us well inside Crossref's polite-pool allowance.
	RateLimit = 10.0

	// minQueryLen guards bibliographic search against junk fragments.
	minQueryLen = 12
)

// Work is the subset of a Crossref work record the pipeline uses.
type Work struct {
	Title  string `json:"title"`
	DOI    string `json:"doi,omitempty"`
	Source string `json:"source,omitempty"` // container title or publisher
}

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string

	mu     sync.Mutex
	byDOI  map[string]Work
	missed map[string]bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUserAgent sets the User-Agent header. Crossref asks polite-pool
// clients to include a mailto contact.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  "doi-validator/1.0 (mailto:example@example.com)",
		byDOI:      make(map[string]Work),
		missed:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type worksMessage struct {
	Message workRecord `json:"message"`
}

type searchMessage struct {
	Message struct {
		Items []workRecord `json:"items"`
	} `json:"message"`
}

type workRecord struct {
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Publisher      string   `json:"publisher"`
	DOI            string   `json:"DOI"`
}

func (r workRecord) toWork() Work {
	w := Work{DOI: r.DOI}

	if len(r.Title) > 0 {
		w.Title = strings.TrimSpace(r.Title[0])
	}

	if len(r.ContainerTitle) > 0 && r.ContainerTitle[0] != "" {
		w.Source = r.ContainerTitle[0]
	} else {
		w.Source = r.Publisher
	}

	return w
}

// TitleByDOI fetches the registered work for a DOI. The second return
// value is false when the DOI is not registered or the lookup failed;
// misses are cached so each DOI costs at most one request per run.
func (c *Client) TitleByDOI(ctx context.Context, doi string) (Work, bool) {
	key := strings.ToLower(strings.TrimSpace(doi))
	if key == "" {
		return Work{}, false
	}

	c.mu.Lock()
	if work, ok := c.byDOI[key]; ok {
		c.mu.Unlock()
		return work, true
	}

	if c.missed[key] {
		c.mu.Unlock()
		return Work{}, false
	}
	c.mu.Unlock()

	var payload worksMessage

	err := c.getJSON(ctx, c.baseURL+"/works/"+doi, &payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.missed[key] = true
		return Work{}, false
	}

	work := payload.Message.toWork()
	if work.Title == "" {
		c.missed[key] = true
		return Work{}, false
	}

	c.byDOI[key] = work

	return work, true
}

// SearchBibliographic runs a query.bibliographic search and returns the
// top hit. Queries shorter than 12 characters are rejected outright:
// they match everything and nothing.
func (c *Client) SearchBibliographic(ctx context.Context, query string) (Work, bool) {
	q := strings.TrimSpace(query)
	if len(q) < minQueryLen {
		return Work{}, false
	}

	params := url.Values{}
	params.Set("query.bibliographic", q)
	params.Set("rows", strconv.Itoa(1))

	var payload searchMessage
	if err := c.getJSON(ctx, c.baseURL+"/works?"+params.Encode(), &payload); err != nil {
		return Work{}, false
	}

	items := payload.Message.Items
	if len(items) == 0 {
		return Work{}, false
	}

	work := items[0].toWork()
	if work.Title == "" {
		return Work{}, false
	}

	return work, true
}

func (c *Client) getJSON(ctx context.Context, target string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("crossref: unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

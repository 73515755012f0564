// Package verify resolves DOIs against the doi.org handle service and
// classifies the outcome.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Category is the coarse outcome of a resolution attempt.
type Category string

const (
	CategoryValid   Category = "valid"
	CategoryInvalid Category = "invalid"
	CategoryUnknown Category = "unknown"
)

// Verdict is the result of resolving one DOI.
type Verdict struct {
	DOI        string        `json:"doi"`
	OK         bool          `json:"ok"`
	Category   Category      `json:"category"`
	HTTPStatus int           `json:"http_status,omitempty"`
	Message    string        `json:"message"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Config holds configuration for the validator.
type Config struct {
	// BaseURL overrides the resolver endpoint. Defaults to https://doi.org.
	BaseURL string
	Timeout time.Duration
	// MaxRetries is the number of resolution attempts per DOI.
	MaxRetries int
	// BackoffBase scales the exponential wait between attempts.
	BackoffBase time.Duration
}

// Validator resolves DOIs over HTTP with a HEAD-then-GET strategy and
// memoizes verdicts so a DOI shared across documents is checked once.
type Validator struct {
	client      *http.Client
	cache       *Cache
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
}

// New creates a Validator from config, filling in defaults.
func New(config Config) *Validator {
	if config.BaseURL == "" {
		config.BaseURL = "https://doi.org"
	}

	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}

	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	if config.BackoffBase == 0 {
		config.BackoffBase = time.Second
	}

	client := &http.Client{
		Timeout: config.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects: %d", len(via))
			}
			// Preserve headers through redirects
			if len(via) > 0 {
				req.Header = via[0].Header.Clone()
			}
			return nil
		},
	}

	return &Validator{
		client:      client,
		cache:       NewCache(),
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		maxRetries:  config.MaxRetries,
		backoffBase: config.BackoffBase,
	}
}

// Validate resolves a DOI and classifies the response. Results are
// cached by lowercased DOI for the lifetime of the validator.
func (v *Validator) Validate(ctx context.Context, doi string) Verdict {
	key := strings.ToLower(doi)
	if verdict, ok := v.cache.Get(key); ok {
		verdict.DOI = doi
		return verdict
	}

	start := time.Now()

	store := func(ok bool, cat Category, status int, msg string) Verdict {
		verdict := Verdict{
			DOI:        doi,
			OK:         ok,
			Category:   cat,
			HTTPStatus: status,
			Message:    msg,
			Elapsed:    time.Since(start),
		}
		v.cache.Put(key, verdict)

		return verdict
	}

	// DOIs embed slashes that must survive in the path.
	target := v.baseURL + "/" + doi

	for attempt := 0; attempt < v.maxRetries; attempt++ {
		status, err := v.resolve(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return store(false, CategoryUnknown, 0, "canceled")
			}

			if attempt < v.maxRetries-1 {
				v.sleep(ctx, attempt, 1.0)
				continue
			}

			return store(false, CategoryUnknown, 0, requestErrorMessage(err))
		}

		switch {
		case status >= 200 && status < 400:
			return store(true, CategoryValid, status, fmt.Sprintf("resolves (HTTP %d)", status))

		case status == http.StatusTooManyRequests:
			if attempt < v.maxRetries-1 {
				v.sleep(ctx, attempt, 1.0)
				continue
			}

			return store(false, CategoryUnknown, status, "rate limited (HTTP 429)")

		case status >= 500:
			if attempt < v.maxRetries-1 {
				v.sleep(ctx, attempt, 0.8)
				continue
			}

			return store(false, CategoryUnknown, status, fmt.Sprintf("server error (HTTP %d)", status))

		case status == http.StatusNotFound:
			// 404 confirmed by GET: the handle does not exist.
			return store(false, CategoryInvalid, status, "did not resolve (HTTP 404)")

		case status == http.StatusBadRequest:
			return store(false, CategoryInvalid, status, "rejected by resolver (HTTP 400), likely malformed")

		default:
			if attempt < v.maxRetries-1 {
				v.sleep(ctx, attempt, 0.6)
				continue
			}

			return store(false, CategoryUnknown, status, fmt.Sprintf("inconclusive (HTTP %d)", status))
		}
	}

	return store(false, CategoryUnknown, 0, "retries exhausted")
}

// resolve tries HEAD first, then falls back to GET when the HEAD status
// is inconclusive. Some handlers reject HEAD (405/403), and doi.org has
// been seen returning 404 to HEAD for handles that GET resolves.
func (v *Validator) resolve(ctx context.Context, target string) (int, error) {
	status, err := v.request(ctx, http.MethodHead, target)
	if err != nil {
		return 0, err
	}

	if status == 405 || status == 403 || status == 404 || status == 400 || status >= 500 {
		return v.request(ctx, http.MethodGet, target)
	}

	return status, nil
}

func (v *Validator) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (DOI Validator)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.7,es;q=0.5")

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// sleep waits (2^attempt)*scale*base or until the context is done.
func (v *Validator) sleep(ctx context.Context, attempt int, scale float64) {
	wait := time.Duration(float64(int64(1)<<uint(attempt)) * scale * float64(v.backoffBase))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func requestErrorMessage(err error) string {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "context deadline exceeded"), strings.Contains(msg, "Client.Timeout"):
		return "timeout"
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return "connection error"
	default:
		if len(msg) > 80 {
			msg = msg[:80]
		}

		return "request failed: " + msg
	}
}

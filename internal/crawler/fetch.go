// Package crawler implements site crawling and heuristic contact extraction.
package crawler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Fetcher retrieves HTML pages. Every failure mode (network error, timeout,
// non-2xx status, non-HTML content type) yields an empty result rather than
// an error: callers treat absence of data as a valid state.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	log        logger.Interface
}

// FetcherConfig configures page fetching.
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// NewFetcher creates a new page fetcher.
func NewFetcher(cfg FetcherConfig, log logger.Interface) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		log:        log,
	}
}

// FetchHTML fetches a page and returns its HTML body, or "" when the page
// could not be fetched as HTML.
func (f *Fetcher) FetchHTML(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Debug("page fetch failed", "url", pageURL, "error", err.Error())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		f.log.Debug("skipping non-HTML response", "url", pageURL, "content_type", contentType)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return ""
	}

	return string(body)
}

// isHTMLContentType reports whether a Content-Type header denotes an HTML
// document. An empty header is accepted: small-business servers frequently
// omit it.
func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml+xml")
}

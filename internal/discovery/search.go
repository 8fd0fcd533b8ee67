// Package discovery implements company discovery via web search.
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// maxSearchBodyBytes limits the size of fetched result-listing responses.
const maxSearchBodyBytes = 5 * 1024 * 1024 // 5 MB

// defaultSearchEndpoints are tried in order until one returns a non-empty
// result set. The {query} placeholder receives the URL-encoded query. The
// last endpoint is a text proxy that renders results as markdown links.
var defaultSearchEndpoints = []string{
	"https://lite.duckduckgo.com/lite/?q={query}",
	"https://html.duckduckgo.com/html/?q={query}",
	"https://duckduckgo.com/html/?q={query}",
	"https://r.jina.ai/http://duckduckgo.com/html/?q={query}",
}

// excludedDomains lists non-target domains dropped from search results:
// search engines, social networks, directories, and job boards.
var excludedDomains = map[string]struct{}{
	"duckduckgo.com":   {},
	"google.com":       {},
	"bing.com":         {},
	"mfg.com":          {},
	"thomasnet.com":    {},
	"linkedin.com":     {},
	"facebook.com":     {},
	"instagram.com":    {},
	"youtube.com":      {},
	"x.com":            {},
	"twitter.com":      {},
	"wikipedia.org":    {},
	"indeed.com":       {},
	"ziprecruiter.com": {},
	"glassdoor.com":    {},
	"mapquest.com":     {},
	"yelp.com":         {},
	"yellowpages.com":  {},
	"dnb.com":          {},
	"zoominfo.com":     {},
}

// markdownLinkRe matches links in markdown-rendered result listings.
var markdownLinkRe = regexp.MustCompile(`\[[^\]]+\]\((https?://[^)\s]+)\)`)

// Client issues keyword queries against a search provider and returns
// candidate URLs deduplicated by normalized domain.
type Client struct {
	httpClient *http.Client
	userAgent  string
	endpoint   string
	log        logger.Interface
}

// ClientConfig configures the search client.
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Endpoint, when non-empty, is tried before the built-in endpoints.
	Endpoint string
}

// NewClient creates a new search client.
func NewClient(cfg ClientConfig, log logger.Interface) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		endpoint:   cfg.Endpoint,
		log:        log,
	}
}

// Search returns up to maxResults candidate URLs for the query, in the order
// links appear on the results page, deduplicated by normalized domain with
// excluded domains removed. Endpoints are tried in order; the first one that
// yields any results wins. A failed fetch advances to the next endpoint.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []string {
	encoded := url.QueryEscape(query)

	for _, endpoint := range c.endpoints() {
		listingURL := strings.ReplaceAll(endpoint, "{query}", encoded)

		html, err := c.fetchListing(ctx, listingURL)
		if err != nil {
			c.log.Debug("search endpoint failed", "endpoint", endpoint, "error", err.Error())
			continue
		}

		urls := parseResults(html, maxResults)
		if len(urls) > 0 {
			return urls
		}
	}

	return nil
}

// endpoints returns the configured endpoint (if any) followed by the
// defaults, without duplicates.
func (c *Client) endpoints() []string {
	endpoints := make([]string, 0, len(defaultSearchEndpoints)+1)
	if configured := strings.TrimSpace(c.endpoint); configured != "" {
		endpoints = append(endpoints, configured)
	}
	for _, endpoint := range defaultSearchEndpoints {
		already := false
		for _, existing := range endpoints {
			if existing == endpoint {
				already = true
				break
			}
		}
		if !already {
			endpoints = append(endpoints, endpoint)
		}
	}
	return endpoints
}

// fetchListing retrieves the result-listing body for one endpoint.
func (c *Client) fetchListing(ctx context.Context, listingURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read listing body: %w", err)
	}

	return string(body), nil
}

// parseResults extracts candidate URLs from a result listing. Anchor hrefs
// are collected in document order, then markdown-style links for text-proxy
// endpoints. The first occurrence of each domain wins.
func parseResults(html string, maxResults int) []string {
	hrefs := collectHrefs(html)
	for _, match := range markdownLinkRe.FindAllStringSubmatch(html, -1) {
		hrefs = append(hrefs, match[1])
	}

	var urls []string
	seenDomains := make(map[string]struct{})

	for _, href := range hrefs {
		target := unwrapRedirect(href)
		if !strings.HasPrefix(target, "http") {
			continue
		}

		domain := NormalizeDomain(target)
		if domain == "" || IsExcludedDomain(domain) {
			continue
		}

		if _, seen := seenDomains[domain]; seen {
			continue
		}
		seenDomains[domain] = struct{}{}

		urls = append(urls, target)
		if len(urls) >= maxResults {
			break
		}
	}

	return urls
}

// collectHrefs returns every anchor href in document order. Result-listing
// markup varies between endpoints, so no listing-specific selectors are used.
func collectHrefs(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists {
			hrefs = append(hrefs, href)
		}
	})

	return hrefs
}

// unwrapRedirect recovers the true destination from search-engine redirect
// and ad-tracking wrappers.
func unwrapRedirect(rawHref string) string {
	href := rawHref
	if unescaped, err := url.QueryUnescape(href); err == nil {
		href = unescaped
	}
	href = strings.ReplaceAll(href, "&amp;", "&")

	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	if strings.Contains(href, "duckduckgo.com/l/?") {
		if parsed, err := url.Parse(href); err == nil {
			if uddg := parsed.Query().Get("uddg"); uddg != "" {
				if unescaped, err := url.QueryUnescape(uddg); err == nil {
					return unescaped
				}
				return uddg
			}
		}
	}

	if strings.Contains(href, "duckduckgo.com/y.js") {
		if parsed, err := url.Parse(href); err == nil {
			if adDomain := strings.ToLower(strings.TrimSpace(parsed.Query().Get("ad_domain"))); adDomain != "" {
				if strings.Contains(adDomain, ".") {
					return "https://" + adDomain
				}
			}
		}
	}

	return href
}

// NormalizeDomain reduces a URL to its company identity key: the lowercased
// host with any www. prefix stripped. Non-http(s) URLs yield "". The
// operation is idempotent.
func NormalizeDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	if host == "" {
		return ""
	}
	host = strings.TrimPrefix(host, "www.")

	return host
}

// IsExcludedDomain reports whether the domain, or any parent of it, is on
// the exclusion list.
func IsExcludedDomain(domain string) bool {
	if _, excluded := excludedDomains[domain]; excluded {
		return true
	}
	for excluded := range excludedDomains {
		if strings.HasSuffix(domain, "."+excluded) {
			return true
		}
	}
	return false
}

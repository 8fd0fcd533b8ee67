package crawler

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// homepageContactConfidence is assigned to contacts derived from a
// successful site crawl.
const homepageContactConfidence = 0.9

// titleSplitRe splits a homepage title into name candidates.
var titleSplitRe = regexp.MustCompile(`\||-`)

// HTMLFetcher fetches a page as HTML, returning "" when unavailable.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, pageURL string) string
}

// CompanyStore persists enrichment outcomes.
type CompanyStore interface {
	UpdateEnrichment(ctx context.Context, id string, update database.EnrichmentUpdate) error
	MarkUnreachable(ctx context.Context, id, notes string, crawledAt time.Time) error
}

// PageStore persists page snapshots.
type PageStore interface {
	Upsert(ctx context.Context, page *domain.Page) error
}

// ContactStore persists extracted contacts.
type ContactStore interface {
	Upsert(ctx context.Context, contact *domain.Contact) error
}

// Enricher crawls a company's site and persists the merged contact signals.
type Enricher struct {
	fetcher   HTMLFetcher
	companies CompanyStore
	pages     PageStore
	contacts  ContactStore
	log       logger.Interface
	maxPages  int
	workers   int
}

// EnricherConfig configures enrichment.
type EnricherConfig struct {
	// MaxPages bounds contact subpages fetched beyond the homepage.
	MaxPages int
	// Workers sizes the enrichment worker pool. 1 means sequential.
	Workers int
}

// NewEnricher creates a new enricher.
func NewEnricher(
	fetcher HTMLFetcher,
	companies CompanyStore,
	pages PageStore,
	contacts ContactStore,
	log logger.Interface,
	cfg EnricherConfig,
) *Enricher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		fetcher:   fetcher,
		companies: companies,
		pages:     pages,
		contacts:  contacts,
		log:       log,
		maxPages:  cfg.MaxPages,
		workers:   workers,
	}
}

// Result reports the outcome of enriching one company.
type Result struct {
	Updated      bool
	Reason       string
	EmailsFound  int
	PhonesFound  int
	PagesCrawled int
}

// EnrichCompany crawls one company to completion: homepage, protocol
// fallback, bounded contact subpages, merged signal persistence. The crawl is
// terminal after one pass; the single enrichment UPDATE keeps the merge
// atomic per company.
func (e *Enricher) EnrichCompany(ctx context.Context, company *domain.Company) (*Result, error) {
	crawlTime := time.Now().UTC()
	baseURL := company.BaseURL()

	html := e.fetcher.FetchHTML(ctx, baseURL)
	if html == "" {
		if alternate := swapProtocol(baseURL); alternate != "" {
			if html = e.fetcher.FetchHTML(ctx, alternate); html != "" {
				baseURL = alternate
			}
		}
	}

	if html == "" {
		if err := e.companies.MarkUnreachable(ctx, company.ID, "Could not fetch site", crawlTime); err != nil {
			return nil, err
		}
		e.log.Info("site unreachable", "domain", company.Domain)
		return &Result{Updated: false, Reason: "unreachable"}, nil
	}

	home := Extract(baseURL, html)
	if err := e.persistPage(ctx, company.ID, home); err != nil {
		return nil, err
	}

	emails := make(map[string]struct{})
	phones := make(map[string]struct{})
	addAll(emails, home.Emails)
	addAll(phones, home.Phones)
	linkedInURL := home.LinkedInURL
	contactFormURL := home.ContactFormURL

	subpages := home.ContactLinks
	if len(subpages) > e.maxPages {
		subpages = subpages[:e.maxPages]
	}

	crawledCount := 1
	for _, pageURL := range subpages {
		pageHTML := e.fetcher.FetchHTML(ctx, pageURL)
		if pageHTML == "" {
			continue
		}
		crawledCount++

		page := Extract(pageURL, pageHTML)
		if err := e.persistPage(ctx, company.ID, page); err != nil {
			return nil, err
		}

		addAll(emails, page.Emails)
		addAll(phones, page.Phones)

		// First discovery wins, in crawl order.
		if linkedInURL == "" {
			linkedInURL = page.LinkedInURL
		}
		if contactFormURL == "" {
			contactFormURL = page.ContactFormURL
		}
	}

	primaryEmail := PickPrimaryEmail(sortedKeys(emails))
	phone := smallestKey(phones)
	name := deriveCompanyName(home.Title, company.Domain)

	update := database.EnrichmentUpdate{
		Name:           &name,
		Phone:          optional(phone),
		ContactFormURL: optional(contactFormURL),
		LinkedInURL:    optional(linkedInURL),
		PrimaryEmail:   optional(primaryEmail),
		Notes:          fmt.Sprintf("Crawled %d page(s)", crawledCount),
		LastCrawledAt:  crawlTime,
	}
	if err := e.companies.UpdateEnrichment(ctx, company.ID, update); err != nil {
		return nil, err
	}

	if primaryEmail != "" || phone != "" || linkedInURL != "" {
		contact := &domain.Contact{
			CompanyID:   company.ID,
			Email:       optional(primaryEmail),
			Phone:       optional(phone),
			LinkedInURL: optional(linkedInURL),
			SourceURL:   optional(baseURL),
			Confidence:  homepageContactConfidence,
		}
		if err := e.contacts.Upsert(ctx, contact); err != nil {
			return nil, err
		}
	}

	e.log.Info("company enriched",
		"domain", company.Domain,
		"pages_crawled", crawledCount,
		"emails_found", len(emails),
		"phones_found", len(phones),
	)

	return &Result{
		Updated:      true,
		EmailsFound:  len(emails),
		PhonesFound:  len(phones),
		PagesCrawled: crawledCount,
	}, nil
}

// BatchStats summarizes one enrichment batch. A company whose site could not
// be fetched counts as attempted, not failed.
type BatchStats struct {
	Attempted   int `json:"attempted"`
	Enriched    int `json:"enriched"`
	Unreachable int `json:"unreachable"`
	Failed      int `json:"failed"`
}

// EnrichBatch enriches each company, one at a time per worker. Failures are
// logged and counted; no single company aborts the batch.
func (e *Enricher) EnrichBatch(ctx context.Context, companies []*domain.Company) *BatchStats {
	stats := &BatchStats{}

	if e.workers <= 1 {
		for _, company := range companies {
			e.enrichOne(ctx, company, stats, nil)
		}
		return stats
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan *domain.Company)

	for range e.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range work {
				e.enrichOne(ctx, company, stats, &mu)
			}
		}()
	}

	for _, company := range companies {
		work <- company
	}
	close(work)
	wg.Wait()

	return stats
}

// enrichOne processes a single company and records the outcome.
func (e *Enricher) enrichOne(ctx context.Context, company *domain.Company, stats *BatchStats, mu *sync.Mutex) {
	result, err := e.EnrichCompany(ctx, company)

	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}

	stats.Attempted++
	switch {
	case err != nil:
		stats.Failed++
		e.log.Error("enrichment failed", "domain", company.Domain, "error", err.Error())
	case result.Updated:
		stats.Enriched++
	default:
		stats.Unreachable++
	}
}

// persistPage stores a page snapshot for the company.
func (e *Enricher) persistPage(ctx context.Context, companyID string, page *PageData) error {
	return e.pages.Upsert(ctx, &domain.Page{
		CompanyID:   companyID,
		URL:         page.URL,
		Title:       page.Title,
		TextExcerpt: page.Text,
	})
}

// swapProtocol flips a URL between https and http for the retry pass.
func swapProtocol(pageURL string) string {
	switch {
	case strings.HasPrefix(pageURL, "https://"):
		return "http://" + strings.TrimPrefix(pageURL, "https://")
	case strings.HasPrefix(pageURL, "http://"):
		return "https://" + strings.TrimPrefix(pageURL, "http://")
	default:
		return ""
	}
}

// deriveCompanyName derives a display name from the homepage title, falling
// back to the domain's first label.
func deriveCompanyName(homeTitle, companyDomain string) string {
	if homeTitle != "" {
		candidate := strings.TrimSpace(titleSplitRe.Split(homeTitle, -1)[0])
		if len(candidate) >= 2 && len(candidate) <= 80 {
			return candidate
		}
	}

	label, _, _ := strings.Cut(companyDomain, ".")
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)

	words := strings.Fields(label)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func addAll(set map[string]struct{}, values []string) {
	for _, value := range values {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// smallestKey returns the lexicographically smallest member, or "".
func smallestKey(set map[string]struct{}) string {
	smallest := ""
	for key := range set {
		if smallest == "" || key < smallest {
			smallest = key
		}
	}
	return smallest
}

// optional converts "" to a nil pointer for nullable columns.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

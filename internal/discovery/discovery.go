package discovery

import (
	"context"

	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// Searcher issues one keyword query and returns candidate URLs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []string
}

// CompanyUpserter persists discovered companies, merging repeat discoveries
// into the existing row. Returns true when a new row was inserted.
type CompanyUpserter interface {
	Upsert(ctx context.Context, domain, url, segment, sourceQuery string) (bool, error)
}

// Stats summarizes one discovery batch. Individual failures never abort the
// batch; the counters report partial progress.
type Stats struct {
	Queries            int `json:"queries"`
	QueriesWithResults int `json:"queries_with_results"`
	ResultsFound       int `json:"results_found"`
	UniqueDomainsFound int `json:"unique_domains_found"`
	Inserted           int `json:"inserted"`
	Existing           int `json:"existing"`
	SkippedInvalid     int `json:"skipped_invalid"`
	SkippedExcluded    int `json:"skipped_excluded"`
	UpsertErrors       int `json:"upsert_errors"`
}

// Discoverer runs search queries and persists the resulting companies.
type Discoverer struct {
	search    Searcher
	companies CompanyUpserter
	log       logger.Interface
}

// NewDiscoverer creates a new discoverer.
func NewDiscoverer(search Searcher, companies CompanyUpserter, log logger.Interface) *Discoverer {
	return &Discoverer{
		search:    search,
		companies: companies,
		log:       log,
	}
}

// Run searches each query in order and upserts every surviving result.
// Queries are processed to completion one at a time.
func (d *Discoverer) Run(ctx context.Context, queries []string, maxResultsPerQuery int, segment string) (*Stats, error) {
	stats := &Stats{Queries: len(queries)}
	uniqueDomains := make(map[string]struct{})

	for _, query := range queries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}

		found := d.search.Search(ctx, query, maxResultsPerQuery)
		if len(found) > 0 {
			stats.QueriesWithResults++
		}
		stats.ResultsFound += len(found)

		d.log.Info("search query completed", "query", query, "results", len(found))

		for _, rawURL := range found {
			domain := NormalizeDomain(rawURL)
			if domain == "" {
				stats.SkippedInvalid++
				continue
			}
			if IsExcludedDomain(domain) {
				stats.SkippedExcluded++
				continue
			}

			uniqueDomains[domain] = struct{}{}

			inserted, err := d.companies.Upsert(ctx, domain, rawURL, segment, query)
			if err != nil {
				stats.UpsertErrors++
				d.log.Error("company upsert failed", "domain", domain, "error", err.Error())
				continue
			}

			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
	}

	stats.UniqueDomainsFound = len(uniqueDomains)

	return stats, nil
}

package discovery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/leadcrawl/internal/discovery"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// MockSearcher implements discovery.Searcher for testing.
type MockSearcher struct {
	results map[string][]string
}

func (m *MockSearcher) Search(_ context.Context, query string, _ int) []string {
	return m.results[query]
}

// MockCompanyUpserter implements discovery.CompanyUpserter for testing.
type MockCompanyUpserter struct {
	upserts  []upsertCall
	existing map[string]bool
	failFor  map[string]error
}

type upsertCall struct {
	domain      string
	url         string
	segment     string
	sourceQuery string
}

func (m *MockCompanyUpserter) Upsert(_ context.Context, domain, url, segment, sourceQuery string) (bool, error) {
	if err := m.failFor[domain]; err != nil {
		return false, err
	}
	m.upserts = append(m.upserts, upsertCall{domain, url, segment, sourceQuery})
	return !m.existing[domain], nil
}

func TestDiscovererRun(t *testing.T) {
	searcher := &MockSearcher{results: map[string][]string{
		"cnc machining ontario": {
			"https://acmemachining.com/",
			"https://www.precisioncnc.com/about",
		},
		"metal fabrication ontario": {
			"https://acmemachining.com/", // repeat domain, upserted again
		},
		"no results query": nil,
	}}
	store := &MockCompanyUpserter{
		existing: map[string]bool{"precisioncnc.com": true},
	}

	d := discovery.NewDiscoverer(searcher, store, logger.NewNoOp())
	stats, err := d.Run(context.Background(),
		[]string{"cnc machining ontario", "metal fabrication ontario", "no results query"},
		10, "manufacturing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Queries != 3 {
		t.Errorf("Queries = %d, want 3", stats.Queries)
	}
	if stats.QueriesWithResults != 2 {
		t.Errorf("QueriesWithResults = %d, want 2", stats.QueriesWithResults)
	}
	if stats.ResultsFound != 3 {
		t.Errorf("ResultsFound = %d, want 3", stats.ResultsFound)
	}
	if stats.UniqueDomainsFound != 2 {
		t.Errorf("UniqueDomainsFound = %d, want 2", stats.UniqueDomainsFound)
	}
	if stats.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", stats.Inserted)
	}
	if stats.Existing != 1 {
		t.Errorf("Existing = %d, want 1", stats.Existing)
	}

	if len(store.upserts) != 3 {
		t.Fatalf("expected 3 upserts, got %d", len(store.upserts))
	}
	first := store.upserts[0]
	if first.domain != "acmemachining.com" || first.segment != "manufacturing" ||
		first.sourceQuery != "cnc machining ontario" {
		t.Errorf("unexpected first upsert %+v", first)
	}
}

func TestDiscovererSkipsInvalidAndExcluded(t *testing.T) {
	searcher := &MockSearcher{results: map[string][]string{
		"query": {
			"mailto:info@acme.com",
			"https://linkedin.com/company/acme",
			"https://acmemachining.com/",
		},
	}}
	store := &MockCompanyUpserter{}

	d := discovery.NewDiscoverer(searcher, store, logger.NewNoOp())
	stats, err := d.Run(context.Background(), []string{"query"}, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.SkippedInvalid != 1 {
		t.Errorf("SkippedInvalid = %d, want 1", stats.SkippedInvalid)
	}
	if stats.SkippedExcluded != 1 {
		t.Errorf("SkippedExcluded = %d, want 1", stats.SkippedExcluded)
	}
	if len(store.upserts) != 1 {
		t.Errorf("expected 1 upsert, got %d", len(store.upserts))
	}
}

func TestDiscovererUpsertErrorDoesNotAbort(t *testing.T) {
	searcher := &MockSearcher{results: map[string][]string{
		"query": {
			"https://broken.example-shop.com/",
			"https://acmemachining.com/",
		},
	}}
	store := &MockCompanyUpserter{
		failFor: map[string]error{"broken.example-shop.com": errors.New("connection reset")},
	}

	d := discovery.NewDiscoverer(searcher, store, logger.NewNoOp())
	stats, err := d.Run(context.Background(), []string{"query"}, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.UpsertErrors != 1 {
		t.Errorf("UpsertErrors = %d, want 1", stats.UpsertErrors)
	}
	if stats.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", stats.Inserted)
	}
}

func TestDiscovererStopsOnCanceledContext(t *testing.T) {
	searcher := &MockSearcher{results: map[string][]string{}}
	store := &MockCompanyUpserter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := discovery.NewDiscoverer(searcher, store, logger.NewNoOp())
	_, err := d.Run(ctx, []string{"a", "b"}, 10, "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

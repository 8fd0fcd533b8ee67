package scoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
	"github.com/jonesrussell/leadcrawl/internal/scoring"
)

type mockTextAggregator struct {
	texts   map[string]string
	failFor map[string]bool
}

func (m *mockTextAggregator) AggregateText(_ context.Context, companyID string) (string, error) {
	if m.failFor[companyID] {
		return "", errors.New("pages unavailable")
	}
	return m.texts[companyID], nil
}

type mockScoreStore struct {
	updates map[string]database.ScoreUpdate
	failFor map[string]bool
}

func (m *mockScoreStore) UpdateScores(_ context.Context, id string, update database.ScoreUpdate) error {
	if m.failFor[id] {
		return errors.New("update failed")
	}
	if m.updates == nil {
		m.updates = make(map[string]database.ScoreUpdate)
	}
	m.updates[id] = update
	return nil
}

func TestScoreCompaniesPersistsResults(t *testing.T) {
	pages := &mockTextAggregator{texts: map[string]string{
		"company-1": "Precision CNC machine shop with metal fabrication.",
		"company-2": "We are a boutique law firm.",
	}}
	store := &mockScoreStore{}

	scorer := scoring.NewScorer(pages, store, logger.NewNoOp())
	companies := []*domain.Company{
		{ID: "company-1", Domain: "acmemachining.com", PrimaryEmail: strptr("operations@acmemachining.com")},
		{ID: "company-2", Domain: "quietshop.com"},
	}

	scored, err := scorer.ScoreCompanies(context.Background(), companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored != 2 {
		t.Fatalf("scored = %d, want 2", scored)
	}

	first := store.updates["company-1"]
	if first.FitScore <= 0 {
		t.Errorf("company-1 FitScore = %v, want positive", first.FitScore)
	}
	if first.BestChannel != domain.ChannelEmail {
		t.Errorf("company-1 BestChannel = %q, want email", first.BestChannel)
	}

	second := store.updates["company-2"]
	if second.FitScore != 0 {
		t.Errorf("company-2 FitScore = %v, want clamped to 0", second.FitScore)
	}
	if second.BestChannel != domain.ChannelResearch {
		t.Errorf("company-2 BestChannel = %q, want research", second.BestChannel)
	}
}

func TestScoreCompaniesSkipsFailures(t *testing.T) {
	pages := &mockTextAggregator{
		texts:   map[string]string{"company-2": "cnc machining"},
		failFor: map[string]bool{"company-1": true},
	}
	store := &mockScoreStore{failFor: map[string]bool{"company-3": true}}

	scorer := scoring.NewScorer(pages, store, logger.NewNoOp())
	companies := []*domain.Company{
		{ID: "company-1", Domain: "a.example"},
		{ID: "company-2", Domain: "b.example"},
		{ID: "company-3", Domain: "c.example"},
	}

	scored, err := scorer.ScoreCompanies(context.Background(), companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored != 1 {
		t.Errorf("scored = %d, want 1", scored)
	}
	if _, ok := store.updates["company-2"]; !ok {
		t.Error("company-2 should have been scored")
	}
}

func TestScoreCompaniesStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scorer := scoring.NewScorer(&mockTextAggregator{}, &mockScoreStore{}, logger.NewNoOp())
	scored, err := scorer.ScoreCompanies(ctx, []*domain.Company{{ID: "company-1", Domain: "a.example"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if scored != 0 {
		t.Errorf("scored = %d, want 0", scored)
	}
}

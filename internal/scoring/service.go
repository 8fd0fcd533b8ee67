package scoring

import (
	"context"

	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// TextAggregator reads the stored page text for a company.
type TextAggregator interface {
	AggregateText(ctx context.Context, companyID string) (string, error)
}

// ScoreStore persists scoring results.
type ScoreStore interface {
	UpdateScores(ctx context.Context, id string, update database.ScoreUpdate) error
}

// Scorer scores enriched companies from their persisted page text.
type Scorer struct {
	pages     TextAggregator
	companies ScoreStore
	log       logger.Interface
}

// NewScorer creates a new scorer.
func NewScorer(pages TextAggregator, companies ScoreStore, log logger.Interface) *Scorer {
	return &Scorer{
		pages:     pages,
		companies: companies,
		log:       log,
	}
}

// ScoreCompanies scores each company and persists the result, transitioning
// it to scored. Individual failures are logged; the return value counts the
// companies actually scored.
func (s *Scorer) ScoreCompanies(ctx context.Context, companies []*domain.Company) (int, error) {
	scored := 0

	for _, company := range companies {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return scored, ctxErr
		}

		text, err := s.pages.AggregateText(ctx, company.ID)
		if err != nil {
			s.log.Error("failed to load page text", "domain", company.Domain, "error", err.Error())
			continue
		}

		result := ScoreCompany(company, text)

		update := database.ScoreUpdate{
			FitScore:      result.FitScore,
			ContactScore:  result.ContactScore,
			OutreachScore: result.OutreachScore,
			BestChannel:   result.BestChannel,
			ChannelReason: result.ChannelReason,
		}
		if err := s.companies.UpdateScores(ctx, company.ID, update); err != nil {
			s.log.Error("failed to persist scores", "domain", company.Domain, "error", err.Error())
			continue
		}

		scored++
	}

	return scored, nil
}

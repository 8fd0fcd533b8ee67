package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// ErrCompanyNotFound is returned when a company lookup matches no row.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository handles database operations for companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Upsert inserts a newly discovered company or merges a discovery hit into an
// existing row. On conflict the source query is appended to source_queries
// unless already present, and url/segment are filled only when still null:
// existing non-null values are never overwritten. Returns true when a new row
// was inserted.
func (r *CompanyRepository) Upsert(ctx context.Context, companyDomain, url, segment, sourceQuery string) (bool, error) {
	query := `
		INSERT INTO companies (id, domain, url, segment, source_queries, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ARRAY[$5], $6, NOW(), NOW())
		ON CONFLICT (domain)
		DO UPDATE SET
			url = COALESCE(companies.url, EXCLUDED.url),
			segment = COALESCE(companies.segment, EXCLUDED.segment),
			source_queries = CASE
				WHEN $5 = ANY (companies.source_queries) THEN companies.source_queries
				ELSE companies.source_queries || $5
			END,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowContext(
		ctx,
		query,
		uuid.New().String(),
		companyDomain,
		url,
		segment,
		sourceQuery,
		domain.CompanyStatusDiscovered,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert company: %w", err)
	}

	return inserted, nil
}

// GetByDomain retrieves a company by its normalized domain.
func (r *CompanyRepository) GetByDomain(ctx context.Context, companyDomain string) (*domain.Company, error) {
	var company domain.Company

	err := r.db.GetContext(ctx, &company, `SELECT * FROM companies WHERE domain = $1`, companyDomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// GetByID retrieves a company by ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company

	err := r.db.GetContext(ctx, &company, `SELECT * FROM companies WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// ListForEnrichment retrieves companies eligible for crawling: newly
// discovered ones plus anything never crawled.
func (r *CompanyRepository) ListForEnrichment(ctx context.Context, limit int) ([]*domain.Company, error) {
	var companies []*domain.Company

	query := `
		SELECT * FROM companies
		WHERE status IN ($1, $2) OR last_crawled_at IS NULL
		ORDER BY outreach_score DESC, created_at ASC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &companies, query,
		domain.CompanyStatusNew, domain.CompanyStatusDiscovered, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies for enrichment: %w", err)
	}

	return companies, nil
}

// ListForScoring retrieves enriched and previously scored companies.
func (r *CompanyRepository) ListForScoring(ctx context.Context) ([]*domain.Company, error) {
	var companies []*domain.Company

	query := `
		SELECT * FROM companies
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC
	`

	err := r.db.SelectContext(ctx, &companies, query,
		domain.CompanyStatusEnriched, domain.CompanyStatusScored)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies for scoring: %w", err)
	}

	return companies, nil
}

// ListRanked retrieves scored and enriched companies ordered by outreach
// priority. Used by planning, the leads table, and the dashboard.
func (r *CompanyRepository) ListRanked(ctx context.Context, limit int) ([]*domain.Company, error) {
	var companies []*domain.Company

	query := `
		SELECT * FROM companies
		WHERE status IN ($1, $2)
		ORDER BY outreach_score DESC, fit_score DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &companies, query,
		domain.CompanyStatusScored, domain.CompanyStatusEnriched, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranked companies: %w", err)
	}

	return companies, nil
}

// ListAllForExport retrieves every company in stable export order.
func (r *CompanyRepository) ListAllForExport(ctx context.Context) ([]*domain.Company, error) {
	var companies []*domain.Company

	query := `
		SELECT * FROM companies
		ORDER BY outreach_score DESC, fit_score DESC, domain ASC
	`

	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("failed to list companies for export: %w", err)
	}

	return companies, nil
}

// EnrichmentUpdate carries the merged crawl result applied to a company in a
// single statement, keeping the enrichment update atomic per company.
type EnrichmentUpdate struct {
	Name           *string
	Phone          *string
	ContactFormURL *string
	LinkedInURL    *string
	PrimaryEmail   *string
	Notes          string
	LastCrawledAt  time.Time
}

// UpdateEnrichment persists a crawl pass and transitions the company to
// enriched.
func (r *CompanyRepository) UpdateEnrichment(ctx context.Context, id string, update EnrichmentUpdate) error {
	query := `
		UPDATE companies
		SET name = COALESCE($2, name),
			status = $3,
			phone = $4,
			contact_form_url = $5,
			linkedin_url = $6,
			primary_email = $7,
			notes = $8,
			last_crawled_at = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		update.Name,
		domain.CompanyStatusEnriched,
		update.Phone,
		update.ContactFormURL,
		update.LinkedInURL,
		update.PrimaryEmail,
		update.Notes,
		update.LastCrawledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update company enrichment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// MarkUnreachable records a failed crawl pass. Only status, notes, and the
// crawl timestamp change; previously extracted channels are left alone.
func (r *CompanyRepository) MarkUnreachable(ctx context.Context, id, notes string, crawledAt time.Time) error {
	query := `
		UPDATE companies
		SET status = $2,
			notes = $3,
			last_crawled_at = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.CompanyStatusEnriched, notes, crawledAt)
	if err != nil {
		return fmt.Errorf("failed to mark company unreachable: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// ScoreUpdate carries a scoring result for a company.
type ScoreUpdate struct {
	FitScore      float64
	ContactScore  float64
	OutreachScore float64
	BestChannel   string
	ChannelReason string
}

// UpdateScores persists a scoring result and transitions the company to
// scored.
func (r *CompanyRepository) UpdateScores(ctx context.Context, id string, update ScoreUpdate) error {
	query := `
		UPDATE companies
		SET fit_score = $2,
			contact_score = $3,
			outreach_score = $4,
			best_channel = $5,
			channel_reason = $6,
			status = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		update.FitScore,
		update.ContactScore,
		update.OutreachScore,
		update.BestChannel,
		update.ChannelReason,
		domain.CompanyStatusScored,
	)
	if err != nil {
		return fmt.Errorf("failed to update company scores: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// Delete removes a company. Contacts, pages, and outreach actions cascade.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// CountByStatus returns company counts grouped by lifecycle status.
func (r *CompanyRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM companies GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", scanErr)
		}
		counts[status] = count
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", rowsErr)
	}

	return counts, nil
}

package database

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// maxExcerptLen bounds the stored page text excerpt in bytes.
const maxExcerptLen = 5000

// PageRepository handles database operations for page snapshots.
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Upsert stores a page snapshot, overwriting any previous snapshot of the
// same URL for the company. The text excerpt is truncated before storage.
func (r *PageRepository) Upsert(ctx context.Context, page *domain.Page) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	page.TextExcerpt = truncateExcerpt(page.TextExcerpt)

	query := `
		INSERT INTO pages (id, company_id, url, title, text_excerpt, fetched_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT ON CONSTRAINT pages_company_url_key
		DO UPDATE SET
			title = EXCLUDED.title,
			text_excerpt = EXCLUDED.text_excerpt,
			fetched_at = NOW()
		RETURNING id, fetched_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		page.ID,
		page.CompanyID,
		page.URL,
		page.Title,
		page.TextExcerpt,
	).Scan(&page.ID, &page.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

// truncateExcerpt bounds the excerpt without splitting a rune at the cut.
// Non-UTF-8 bytes are dropped first; Postgres rejects invalid UTF-8 and a
// rejected page aborts the whole enrichment for that company.
func truncateExcerpt(text string) string {
	text = strings.ToValidUTF8(text, "")
	if len(text) <= maxExcerptLen {
		return text
	}

	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// AggregateText returns the concatenated text excerpts of all pages stored
// for a company, in fetch order. Scoring reads this instead of refetching.
func (r *PageRepository) AggregateText(ctx context.Context, companyID string) (string, error) {
	var text string

	query := `
		SELECT COALESCE(string_agg(text_excerpt, E'\n' ORDER BY fetched_at ASC), '')
		FROM pages
		WHERE company_id = $1
	`

	if err := r.db.GetContext(ctx, &text, query, companyID); err != nil {
		return "", fmt.Errorf("failed to aggregate page text: %w", err)
	}

	return text, nil
}

// ListByCompany retrieves all page snapshots for a company.
func (r *PageRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Page, error) {
	var pages []*domain.Page

	query := `
		SELECT * FROM pages
		WHERE company_id = $1
		ORDER BY fetched_at ASC
	`

	if err := r.db.SelectContext(ctx, &pages, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	return pages, nil
}

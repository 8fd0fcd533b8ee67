package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// ContactRepository handles database operations for contacts.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Upsert inserts a contact or merges it into the existing row with the same
// (company, email, phone, linkedin) identity. Merging keeps the highest
// confidence seen and refreshes the source URL. Contacts carrying no channel
// at all are dropped.
func (r *ContactRepository) Upsert(ctx context.Context, contact *domain.Contact) error {
	if contact.Email == nil && contact.Phone == nil && contact.LinkedInURL == nil {
		return nil
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}

	query := `
		INSERT INTO contacts (
			id, company_id, name, title, email, phone, linkedin_url,
			source_url, confidence, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT contacts_identity_key
		DO UPDATE SET
			source_url = EXCLUDED.source_url,
			confidence = GREATEST(contacts.confidence, EXCLUDED.confidence),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		contact.ID,
		contact.CompanyID,
		contact.Name,
		contact.Title,
		contact.Email,
		contact.Phone,
		contact.LinkedInURL,
		contact.SourceURL,
		contact.Confidence,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}

	return nil
}

// GetPrimary retrieves the highest-confidence contact for a company, or nil
// when none exists.
func (r *ContactRepository) GetPrimary(ctx context.Context, companyID string) (*domain.Contact, error) {
	var contact domain.Contact

	query := `
		SELECT * FROM contacts
		WHERE company_id = $1
		ORDER BY confidence DESC, created_at ASC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &contact, query, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get primary contact: %w", err)
	}

	return &contact, nil
}

// ListByCompany retrieves all contacts for a company.
func (r *ContactRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Contact, error) {
	var contacts []*domain.Contact

	query := `
		SELECT * FROM contacts
		WHERE company_id = $1
		ORDER BY confidence DESC, created_at ASC
	`

	if err := r.db.SelectContext(ctx, &contacts, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// ErrActionNotFound is returned when an outreach action lookup matches no row.
var ErrActionNotFound = errors.New("outreach action not found")

// ActionRepository handles database operations for outreach actions.
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository creates a new outreach action repository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Upsert schedules an outreach action. Re-planning the same (company, step,
// date) updates channel, subject, and body in place instead of duplicating.
func (r *ActionRepository) Upsert(ctx context.Context, action *domain.OutreachAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.Status == "" {
		action.Status = domain.ActionStatusPending
	}

	query := `
		INSERT INTO outreach_actions (
			id, company_id, contact_id, step_name, channel, subject, body,
			scheduled_for, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT outreach_actions_step_key
		DO UPDATE SET
			channel = EXCLUDED.channel,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		action.ID,
		action.CompanyID,
		action.ContactID,
		action.StepName,
		action.Channel,
		action.Subject,
		action.Body,
		action.ScheduledFor,
		action.Status,
	).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert outreach action: %w", err)
	}

	return nil
}

// ListDueEmails retrieves pending email actions scheduled on or before the
// given date, joined with the company fields needed for delivery. Highest
// scoring companies go first within a date.
func (r *ActionRepository) ListDueEmails(ctx context.Context, dueBy time.Time, limit int) ([]*domain.DueEmailAction, error) {
	var actions []*domain.DueEmailAction

	query := `
		SELECT oa.*,
			c.name AS company_name,
			c.domain AS company_domain,
			c.primary_email
		FROM outreach_actions oa
		JOIN companies c ON c.id = oa.company_id
		WHERE oa.channel = $1
			AND oa.status = $2
			AND oa.scheduled_for <= $3
		ORDER BY oa.scheduled_for ASC, c.outreach_score DESC
		LIMIT $4
	`

	err := r.db.SelectContext(ctx, &actions, query,
		domain.ChannelEmail, domain.ActionStatusPending, dueBy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due email actions: %w", err)
	}

	return actions, nil
}

// MarkStatus records the outcome of an action attempt. A nil sentAt leaves
// any previous sent timestamp in place.
func (r *ActionRepository) MarkStatus(ctx context.Context, id, status string, sentAt *time.Time, errorText *string) error {
	query := `
		UPDATE outreach_actions
		SET status = $2,
			sent_at = COALESCE($3, sent_at),
			error = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, sentAt, errorText)
	if err != nil {
		return fmt.Errorf("failed to mark action status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrActionNotFound
	}

	return nil
}

// ListByCompany retrieves all outreach actions for a company in schedule
// order.
func (r *ActionRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.OutreachAction, error) {
	var actions []*domain.OutreachAction

	query := `
		SELECT * FROM outreach_actions
		WHERE company_id = $1
		ORDER BY scheduled_for ASC, step_name ASC
	`

	if err := r.db.SelectContext(ctx, &actions, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list outreach actions: %w", err)
	}

	return actions, nil
}

// CountByStatus returns outreach action counts grouped by status.
func (r *ActionRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM outreach_actions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count outreach actions: %w", err)
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

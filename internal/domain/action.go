package domain

import "time"

// Outreach action statuses.
const (
	ActionStatusPending   = "pending"
	ActionStatusSent      = "sent"
	ActionStatusSimulated = "simulated"
	ActionStatusFailed    = "failed"
	ActionStatusSkipped   = "skipped"
)

// OutreachAction is a scheduled touch-point owned by a company, optionally
// linked to a contact. Uniqueness is enforced on (company, step name,
// scheduled date); re-planning updates content in place.
type OutreachAction struct {
	ID           string     `db:"id"            json:"id"`
	CompanyID    string     `db:"company_id"    json:"company_id"`
	ContactID    *string    `db:"contact_id"    json:"contact_id,omitempty"`
	StepName     string     `db:"step_name"     json:"step_name"`
	Channel      string     `db:"channel"       json:"channel"`
	Subject      string     `db:"subject"       json:"subject"`
	Body         string     `db:"body"          json:"body"`
	ScheduledFor time.Time  `db:"scheduled_for" json:"scheduled_for"`
	Status       string     `db:"status"        json:"status"`
	SentAt       *time.Time `db:"sent_at"       json:"sent_at,omitempty"`
	Error        *string    `db:"error"         json:"error,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// DueEmailAction joins a pending email action with the company fields needed
// to deliver it.
type DueEmailAction struct {
	OutreachAction
	CompanyName   *string `db:"company_name"   json:"company_name,omitempty"`
	CompanyDomain string  `db:"company_domain" json:"company_domain"`
	PrimaryEmail  *string `db:"primary_email"  json:"primary_email,omitempty"`
}

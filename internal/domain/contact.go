package domain

import "time"

// Contact represents a person or mailbox reachable at a company. Uniqueness
// is enforced on (company, email, phone, linkedin); merging an existing
// contact keeps the highest confidence seen.
type Contact struct {
	ID          string    `db:"id"           json:"id"`
	CompanyID   string    `db:"company_id"   json:"company_id"`
	Name        *string   `db:"name"         json:"name,omitempty"`
	Title       *string   `db:"title"        json:"title,omitempty"`
	Email       *string   `db:"email"        json:"email,omitempty"`
	Phone       *string   `db:"phone"        json:"phone,omitempty"`
	LinkedInURL *string   `db:"linkedin_url" json:"linkedin_url,omitempty"`
	SourceURL   *string   `db:"source_url"   json:"source_url,omitempty"`
	Confidence  float64   `db:"confidence"   json:"confidence"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

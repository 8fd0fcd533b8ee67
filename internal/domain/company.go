// Package domain provides domain models used across the application.
package domain

import (
	"time"

	"github.com/lib/pq"
)

// Company lifecycle statuses. Status only moves forward, except that
// re-enrichment may set an already scored company back to enriched.
const (
	CompanyStatusNew        = "new"
	CompanyStatusDiscovered = "discovered"
	CompanyStatusEnriched   = "enriched"
	CompanyStatusScored     = "scored"
)

// Outreach channels selectable for a company.
const (
	ChannelEmail       = "email"
	ChannelPhone       = "phone"
	ChannelContactForm = "contact_form"
	ChannelLinkedIn    = "linkedin"
	ChannelResearch    = "research"
)

// Company represents a candidate company keyed by its normalized domain.
type Company struct {
	ID             string         `db:"id"               json:"id"`
	Domain         string         `db:"domain"           json:"domain"`
	Name           *string        `db:"name"             json:"name,omitempty"`
	URL            *string        `db:"url"              json:"url,omitempty"`
	Segment        *string        `db:"segment"          json:"segment,omitempty"`
	SourceQueries  pq.StringArray `db:"source_queries"   json:"source_queries"`
	Status         string         `db:"status"           json:"status"`
	FitScore       float64        `db:"fit_score"        json:"fit_score"`
	ContactScore   float64        `db:"contact_score"    json:"contact_score"`
	OutreachScore  float64        `db:"outreach_score"   json:"outreach_score"`
	BestChannel    *string        `db:"best_channel"     json:"best_channel,omitempty"`
	ChannelReason  *string        `db:"channel_reason"   json:"channel_reason,omitempty"`
	Phone          *string        `db:"phone"            json:"phone,omitempty"`
	ContactFormURL *string        `db:"contact_form_url" json:"contact_form_url,omitempty"`
	LinkedInURL    *string        `db:"linkedin_url"     json:"linkedin_url,omitempty"`
	PrimaryEmail   *string        `db:"primary_email"    json:"primary_email,omitempty"`
	Notes          *string        `db:"notes"            json:"notes,omitempty"`
	LastCrawledAt  *time.Time     `db:"last_crawled_at"  json:"last_crawled_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"       json:"updated_at"`
}

// BaseURL returns the stored canonical URL, falling back to https on the
// company domain when discovery never recorded one.
func (c *Company) BaseURL() string {
	if c.URL != nil && *c.URL != "" {
		return *c.URL
	}
	return "https://" + c.Domain
}

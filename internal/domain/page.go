package domain

import "time"

// Page is a fetched page snapshot owned by a company. At most one row exists
// per (company, URL); refetching overwrites.
type Page struct {
	ID          string    `db:"id"           json:"id"`
	CompanyID   string    `db:"company_id"   json:"company_id"`
	URL         string    `db:"url"          json:"url"`
	Title       string    `db:"title"        json:"title"`
	TextExcerpt string    `db:"text_excerpt" json:"text_excerpt"`
	FetchedAt   time.Time `db:"fetched_at"   json:"fetched_at"`
}

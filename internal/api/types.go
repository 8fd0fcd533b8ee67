package api

import "github.com/jonesrussell/leadcrawl/internal/domain"

// LeadsListResponse is the response for GET /api/v1/leads.
type LeadsListResponse struct {
	Leads []*domain.Company `json:"leads"`
	Total int               `json:"total"`
}

// CompanyDetailResponse is the response for GET /api/v1/companies/:domain.
type CompanyDetailResponse struct {
	Company  *domain.Company          `json:"company"`
	Contacts []*domain.Contact        `json:"contacts"`
	Pages    []*domain.Page           `json:"pages"`
	Actions  []*domain.OutreachAction `json:"actions"`
}

// StatsResponse is the response for GET /api/v1/stats.
type StatsResponse struct {
	Companies map[string]int `json:"companies"`
	Actions   map[string]int `json:"actions"`
}

// DiscoverRequest is the request body for POST /api/v1/pipeline/discover.
type DiscoverRequest struct {
	Queries    []string `json:"queries"`
	MaxResults int      `json:"max_results"`
	Segment    string   `json:"segment"`
}

// EnrichRequest is the request body for POST /api/v1/pipeline/enrich.
type EnrichRequest struct {
	Limit int `json:"limit"`
}

// PlanRequest is the request body for POST /api/v1/pipeline/plan.
type PlanRequest struct {
	// StartDate is the first-step date in YYYY-MM-DD form. Defaults to today.
	StartDate string `json:"start_date"`
	Limit     int    `json:"limit"`
}

// SendRequest is the request body for POST /api/v1/pipeline/send.
type SendRequest struct {
	Live  bool `json:"live"`
	Limit int  `json:"limit"`
}

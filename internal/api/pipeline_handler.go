package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/leadcrawl/internal/crawler"
	"github.com/jonesrussell/leadcrawl/internal/discovery"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
	"github.com/jonesrussell/leadcrawl/internal/sender"
)

const (
	defaultDiscoverMaxResults = 10
	defaultEnrichLimit        = 25
	defaultPlanLimit          = 25
	defaultSendLimit          = 50
)

// DiscoveryRunner runs search queries and persists discovered companies.
type DiscoveryRunner interface {
	Run(ctx context.Context, queries []string, maxResultsPerQuery int, segment string) (*discovery.Stats, error)
}

// EnrichmentRunner crawls a batch of companies.
type EnrichmentRunner interface {
	EnrichBatch(ctx context.Context, companies []*domain.Company) *crawler.BatchStats
}

// ScoringRunner scores a batch of companies.
type ScoringRunner interface {
	ScoreCompanies(ctx context.Context, companies []*domain.Company) (int, error)
}

// PlanRunner schedules outreach sequences for companies.
type PlanRunner interface {
	PlanOutreach(ctx context.Context, companies []*domain.Company, startDate time.Time) (int, error)
}

// SendRunner processes due email actions.
type SendRunner interface {
	SendDueEmails(ctx context.Context, dueBy time.Time, limit int, live bool) (*sender.Stats, error)
}

// PipelineCompanyStore lists companies for the pipeline stages.
type PipelineCompanyStore interface {
	ListForEnrichment(ctx context.Context, limit int) ([]*domain.Company, error)
	ListForScoring(ctx context.Context) ([]*domain.Company, error)
	ListRanked(ctx context.Context, limit int) ([]*domain.Company, error)
}

// PipelineHandler exposes the pipeline stages as trigger endpoints.
type PipelineHandler struct {
	discoverer DiscoveryRunner
	enricher   EnrichmentRunner
	scorer     ScoringRunner
	planner    PlanRunner
	sender     SendRunner
	companies  PipelineCompanyStore
	log        logger.Interface
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(
	discoverer DiscoveryRunner,
	enricher EnrichmentRunner,
	scorer ScoringRunner,
	planRunner PlanRunner,
	sendRunner SendRunner,
	companies PipelineCompanyStore,
	log logger.Interface,
) *PipelineHandler {
	return &PipelineHandler{
		discoverer: discoverer,
		enricher:   enricher,
		scorer:     scorer,
		planner:    planRunner,
		sender:     sendRunner,
		companies:  companies,
		log:        log,
	}
}

// Discover handles POST /api/v1/pipeline/discover
func (h *PipelineHandler) Discover(c *gin.Context) {
	var req DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	queries := req.Queries
	if len(queries) == 0 {
		queries = discovery.DefaultManufacturingQueries(nil)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultDiscoverMaxResults
	}

	stats, err := h.discoverer.Run(c.Request.Context(), queries, maxResults, req.Segment)
	if err != nil {
		h.log.Error("Discovery run failed", "error", err)
		respondInternalError(c, "Discovery failed")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Enrich handles POST /api/v1/pipeline/enrich
func (h *PipelineHandler) Enrich(c *gin.Context) {
	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultEnrichLimit
	}

	companies, err := h.companies.ListForEnrichment(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, "Failed to list companies for enrichment")
		return
	}

	stats := h.enricher.EnrichBatch(c.Request.Context(), companies)
	c.JSON(http.StatusOK, stats)
}

// Score handles POST /api/v1/pipeline/score
func (h *PipelineHandler) Score(c *gin.Context) {
	companies, err := h.companies.ListForScoring(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to list companies for scoring")
		return
	}

	scored, err := h.scorer.ScoreCompanies(c.Request.Context(), companies)
	if err != nil {
		h.log.Error("Scoring run failed", "error", err)
		respondInternalError(c, "Scoring failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"scored": scored})
}

// Plan handles POST /api/v1/pipeline/plan
func (h *PipelineHandler) Plan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	startDate := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondBadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPlanLimit
	}

	companies, err := h.companies.ListRanked(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, "Failed to list companies for planning")
		return
	}

	planned, err := h.planner.PlanOutreach(c.Request.Context(), companies, startDate)
	if err != nil {
		h.log.Error("Plan run failed", "error", err)
		respondInternalError(c, "Planning failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"planned": planned})
}

// Send handles POST /api/v1/pipeline/send
func (h *PipelineHandler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSendLimit
	}

	stats, err := h.sender.SendDueEmails(c.Request.Context(), time.Now(), limit, req.Live)
	if err != nil {
		h.log.Error("Send run failed", "error", err)
		respondInternalError(c, "Send failed")
		return
	}

	c.JSON(http.StatusOK, stats)
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/domain"
)

const defaultLeadsLimit = 50

// CompanyReader defines the company queries the handlers need.
type CompanyReader interface {
	ListRanked(ctx context.Context, limit int) ([]*domain.Company, error)
	GetByDomain(ctx context.Context, companyDomain string) (*domain.Company, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ContactReader lists contacts for a company.
type ContactReader interface {
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Contact, error)
}

// PageReader lists crawled pages for a company.
type PageReader interface {
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Page, error)
}

// ActionReader lists outreach actions for a company.
type ActionReader interface {
	ListByCompany(ctx context.Context, companyID string) ([]*domain.OutreachAction, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// LeadsHandler handles lead and company HTTP requests.
type LeadsHandler struct {
	companies CompanyReader
	contacts  ContactReader
	pages     PageReader
	actions   ActionReader
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(
	companies CompanyReader,
	contacts ContactReader,
	pages PageReader,
	actions ActionReader,
) *LeadsHandler {
	return &LeadsHandler{
		companies: companies,
		contacts:  contacts,
		pages:     pages,
		actions:   actions,
	}
}

// ListLeads handles GET /api/v1/leads
func (h *LeadsHandler) ListLeads(c *gin.Context) {
	limit := parseLimit(c, defaultLeadsLimit)

	leads, err := h.companies.ListRanked(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, LeadsListResponse{
		Leads: leads,
		Total: len(leads),
	})
}

// GetCompany handles GET /api/v1/companies/:domain
func (h *LeadsHandler) GetCompany(c *gin.Context) {
	companyDomain := c.Param("domain")
	if companyDomain == "" {
		respondBadRequest(c, "Invalid company domain")
		return
	}

	company, err := h.companies.GetByDomain(c.Request.Context(), companyDomain)
	if err != nil {
		if errors.Is(err, database.ErrCompanyNotFound) {
			respondNotFound(c, "Company")
			return
		}
		respondInternalError(c, "Failed to retrieve company")
		return
	}

	contacts, err := h.contacts.ListByCompany(c.Request.Context(), company.ID)
	if err != nil {
		respondInternalError(c, "Failed to retrieve contacts")
		return
	}

	pages, err := h.pages.ListByCompany(c.Request.Context(), company.ID)
	if err != nil {
		respondInternalError(c, "Failed to retrieve pages")
		return
	}

	actions, err := h.actions.ListByCompany(c.Request.Context(), company.ID)
	if err != nil {
		respondInternalError(c, "Failed to retrieve actions")
		return
	}

	c.JSON(http.StatusOK, CompanyDetailResponse{
		Company:  company,
		Contacts: contacts,
		Pages:    pages,
		Actions:  actions,
	})
}

// DeleteCompany handles DELETE /api/v1/companies/:domain
func (h *LeadsHandler) DeleteCompany(c *gin.Context) {
	companyDomain := c.Param("domain")

	company, err := h.companies.GetByDomain(c.Request.Context(), companyDomain)
	if err != nil {
		respondNotFound(c, "Company")
		return
	}

	if err := h.companies.Delete(c.Request.Context(), company.ID); err != nil {
		respondInternalError(c, "Failed to delete company")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company deleted successfully",
	})
}

// GetStats handles GET /api/v1/stats
func (h *LeadsHandler) GetStats(c *gin.Context) {
	companyCounts, err := h.companies.CountByStatus(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to retrieve company counts")
		return
	}

	actionCounts, err := h.actions.CountByStatus(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to retrieve action counts")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Companies: companyCounts,
		Actions:   actionCounts,
	})
}

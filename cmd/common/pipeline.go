package common

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/leadcrawl/internal/crawler"
	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/discovery"
	"github.com/jonesrussell/leadcrawl/internal/outreach"
	"github.com/jonesrussell/leadcrawl/internal/scoring"
	"github.com/jonesrussell/leadcrawl/internal/sender"
)

// Pipeline wires the repositories and stage services over one database
// connection. Commands pick the pieces they need.
type Pipeline struct {
	DB *sqlx.DB

	Companies *database.CompanyRepository
	Contacts  *database.ContactRepository
	Pages     *database.PageRepository
	Actions   *database.ActionRepository

	Discoverer *discovery.Discoverer
	Enricher   *crawler.Enricher
	Scorer     *scoring.Scorer
	Planner    *outreach.Planner
	Sender     *sender.Sender
}

// NewPipeline connects to the database and constructs every pipeline stage.
func NewPipeline(deps *CommandDeps) (*Pipeline, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(deps.Config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	companies := database.NewCompanyRepository(db)
	contacts := database.NewContactRepository(db)
	pages := database.NewPageRepository(db)
	actions := database.NewActionRepository(db)

	searchClient := discovery.NewClient(discovery.ClientConfig{
		Timeout:   deps.Config.Crawler.FetchTimeout,
		UserAgent: deps.Config.Crawler.UserAgent,
		Endpoint:  deps.Config.Discovery.SearchEndpoint,
	}, deps.Logger)

	fetcher := crawler.NewFetcher(crawler.FetcherConfig{
		Timeout:   deps.Config.Crawler.FetchTimeout,
		UserAgent: deps.Config.Crawler.UserAgent,
	}, deps.Logger)

	enricher := crawler.NewEnricher(fetcher, companies, pages, contacts, deps.Logger,
		crawler.EnricherConfig{
			MaxPages: deps.Config.Crawler.MaxPagesPerCompany,
			Workers:  deps.Config.Crawler.EnrichWorkers,
		})

	mailer := sender.NewSMTPMailer(deps.Config.SMTP)

	return &Pipeline{
		DB:         db,
		Companies:  companies,
		Contacts:   contacts,
		Pages:      pages,
		Actions:    actions,
		Discoverer: discovery.NewDiscoverer(searchClient, companies, deps.Logger),
		Enricher:   enricher,
		Scorer:     scoring.NewScorer(pages, companies, deps.Logger),
		Planner:    outreach.NewPlanner(actions, contacts, deps.Logger, deps.Config.Outreach.ValueProp),
		Sender:     sender.NewSender(actions, mailer, deps.Logger),
	}, nil
}

// Close releases the database connection.
func (p *Pipeline) Close() error {
	return p.DB.Close()
}

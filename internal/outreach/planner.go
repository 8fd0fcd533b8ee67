package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// ActionStore schedules outreach actions idempotently on
// (company, step, date).
type ActionStore interface {
	Upsert(ctx context.Context, action *domain.OutreachAction) error
}

// ContactFinder looks up the best contact for a company.
type ContactFinder interface {
	GetPrimary(ctx context.Context, companyID string) (*domain.Contact, error)
}

// Planner emits channel-specific outreach sequences for scored companies.
type Planner struct {
	actions   ActionStore
	contacts  ContactFinder
	log       logger.Interface
	valueProp string
}

// NewPlanner creates a new planner. An empty valueProp falls back to the
// default value proposition.
func NewPlanner(actions ActionStore, contacts ContactFinder, log logger.Interface, valueProp string) *Planner {
	if valueProp == "" {
		valueProp = DefaultValueProp
	}
	return &Planner{
		actions:   actions,
		contacts:  contacts,
		log:       log,
		valueProp: valueProp,
	}
}

// PlanOutreach schedules the sequence for each company starting at
// startDate. Re-running with the same companies and start date updates the
// existing actions in place. Returns the number of actions planned.
func (p *Planner) PlanOutreach(ctx context.Context, companies []*domain.Company, startDate time.Time) (int, error) {
	planned := 0

	for _, company := range companies {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return planned, ctxErr
		}

		companyName := displayName(company)
		bestChannel := domain.ChannelResearch
		if company.BestChannel != nil && *company.BestChannel != "" {
			bestChannel = *company.BestChannel
		}

		var contactID *string
		contact, err := p.contacts.GetPrimary(ctx, company.ID)
		if err != nil {
			p.log.Error("failed to look up primary contact", "domain", company.Domain, "error", err.Error())
		} else if contact != nil {
			contactID = &contact.ID
		}

		for _, step := range SequenceForChannel(bestChannel) {
			scheduledFor := startDate.AddDate(0, 0, step.DayOffset)

			var subject, body string
			if step.Channel == domain.ChannelEmail {
				subject = EmailSubject(step.Name, companyName)
				body = EmailBody(step.Name, companyName, company.Domain, p.valueProp)
			} else {
				subject = fmt.Sprintf("%s for %s", step.Name, companyName)
				body = NonEmailMessage(step.Name, companyName, p.valueProp)
			}

			action := &domain.OutreachAction{
				CompanyID:    company.ID,
				ContactID:    contactID,
				StepName:     step.Name,
				Channel:      step.Channel,
				Subject:      subject,
				Body:         body,
				ScheduledFor: scheduledFor,
			}
			if upsertErr := p.actions.Upsert(ctx, action); upsertErr != nil {
				p.log.Error("failed to schedule action",
					"domain", company.Domain,
					"step", step.Name,
					"error", upsertErr.Error(),
				)
				continue
			}
			planned++
		}
	}

	return planned, nil
}

// displayName falls back to a title-cased domain label when enrichment never
// derived a name.
func displayName(company *domain.Company) string {
	if company.Name != nil && *company.Name != "" {
		return *company.Name
	}

	label, _, _ := strings.Cut(company.Domain, ".")
	if label == "" {
		return company.Domain
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

package outreach_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
	"github.com/jonesrussell/leadcrawl/internal/outreach"
	"github.com/jonesrussell/leadcrawl/internal/scoring"
)

// MockActionStore implements outreach.ActionStore for testing. It keys
// actions the way the database constraint does, so re-planning overwrites
// instead of duplicating.
type MockActionStore struct {
	actions map[string]*domain.OutreachAction
	order   []string
	failAll bool
}

func NewMockActionStore() *MockActionStore {
	return &MockActionStore{actions: make(map[string]*domain.OutreachAction)}
}

func (m *MockActionStore) Upsert(_ context.Context, action *domain.OutreachAction) error {
	if m.failAll {
		return errors.New("insert failed")
	}
	key := action.CompanyID + "|" + action.StepName + "|" + action.ScheduledFor.Format("2006-01-02")
	if _, exists := m.actions[key]; !exists {
		m.order = append(m.order, key)
	}
	m.actions[key] = action
	return nil
}

// MockContactFinder implements outreach.ContactFinder for testing.
type MockContactFinder struct {
	contacts map[string]*domain.Contact
}

func (m *MockContactFinder) GetPrimary(_ context.Context, companyID string) (*domain.Contact, error) {
	return m.contacts[companyID], nil
}

func strptr(s string) *string { return &s }

func emailCompany() *domain.Company {
	return &domain.Company{
		ID:          "company-1",
		Domain:      "acmemachining.com",
		Name:        strptr("Acme Machining"),
		BestChannel: strptr(domain.ChannelEmail),
	}
}

func TestPlanOutreachEmailSequence(t *testing.T) {
	store := NewMockActionStore()
	contacts := &MockContactFinder{contacts: map[string]*domain.Contact{
		"company-1": {ID: "contact-1", CompanyID: "company-1"},
	}}

	planner := outreach.NewPlanner(store, contacts, logger.NewNoOp(), "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	planned, err := planner.PlanOutreach(context.Background(), []*domain.Company{emailCompany()}, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planned != 4 {
		t.Fatalf("planned = %d, want 4", planned)
	}

	wantDates := []string{"2024-01-01", "2024-01-04", "2024-01-08", "2024-01-13"}
	wantSteps := []string{"intro_email", "followup_email_1", "call_followup", "followup_email_2"}

	if len(store.order) != 4 {
		t.Fatalf("stored %d actions, want 4", len(store.order))
	}
	for i, key := range store.order {
		action := store.actions[key]
		if action.StepName != wantSteps[i] {
			t.Errorf("action[%d].StepName = %q, want %q", i, action.StepName, wantSteps[i])
		}
		if got := action.ScheduledFor.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("action[%d] scheduled %q, want %q", i, got, wantDates[i])
		}
		if action.ContactID == nil || *action.ContactID != "contact-1" {
			t.Errorf("action[%d].ContactID = %v", i, action.ContactID)
		}
	}

	intro := store.actions[store.order[0]]
	if intro.Subject != "Idea to reduce machine-tending interventions at Acme Machining" {
		t.Errorf("intro subject = %q", intro.Subject)
	}
	if intro.Channel != domain.ChannelEmail {
		t.Errorf("intro channel = %q", intro.Channel)
	}
}

func TestPlanOutreachRerunDoesNotDuplicate(t *testing.T) {
	store := NewMockActionStore()
	contacts := &MockContactFinder{}

	planner := outreach.NewPlanner(store, contacts, logger.NewNoOp(), "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	companies := []*domain.Company{emailCompany()}

	if _, err := planner.PlanOutreach(context.Background(), companies, start); err != nil {
		t.Fatal(err)
	}
	if _, err := planner.PlanOutreach(context.Background(), companies, start); err != nil {
		t.Fatal(err)
	}

	if len(store.actions) != 4 {
		t.Errorf("stored %d distinct actions after replan, want 4", len(store.actions))
	}
}

func TestPlanOutreachFallsBackToResearch(t *testing.T) {
	store := NewMockActionStore()
	contacts := &MockContactFinder{}

	planner := outreach.NewPlanner(store, contacts, logger.NewNoOp(), "")
	company := &domain.Company{ID: "company-2", Domain: "quietshop.com"}

	planned, err := planner.PlanOutreach(context.Background(), []*domain.Company{company},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planned != 1 {
		t.Fatalf("planned = %d, want 1", planned)
	}

	action := store.actions[store.order[0]]
	if action.StepName != "manual_research" {
		t.Errorf("StepName = %q", action.StepName)
	}
	if action.Channel != domain.ChannelResearch {
		t.Errorf("Channel = %q", action.Channel)
	}
	// Name falls back to the title-cased domain label.
	if action.Subject != "manual_research for Quietshop" {
		t.Errorf("Subject = %q", action.Subject)
	}
}

// A scored manufacturing lead with a role email plans a full email sequence
// on the expected dates.
func TestScoreThenPlanEmailLead(t *testing.T) {
	company := &domain.Company{
		ID:           "company-1",
		Domain:       "acme-machining.com",
		Name:         strptr("Acme Machining"),
		PrimaryEmail: strptr("operations@acme-machining.com"),
		Status:       domain.CompanyStatusEnriched,
	}
	text := "Acme Machining is a precision CNC machine shop offering metal " +
		"fabrication and high mix low volume production machining for aerospace " +
		"customers. Contact our operations team."

	result := scoring.ScoreCompany(company, text)
	if result.OutreachScore < 50 {
		t.Errorf("OutreachScore = %v, want >= 50", result.OutreachScore)
	}
	if result.ContactScore < 60 {
		t.Errorf("ContactScore = %v, want >= 60", result.ContactScore)
	}
	if result.BestChannel != domain.ChannelEmail {
		t.Fatalf("BestChannel = %q, want email", result.BestChannel)
	}

	company.BestChannel = &result.BestChannel
	store := NewMockActionStore()
	planner := outreach.NewPlanner(store, &MockContactFinder{}, logger.NewNoOp(), "")

	planned, err := planner.PlanOutreach(context.Background(), []*domain.Company{company},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planned != 4 {
		t.Fatalf("planned = %d, want 4", planned)
	}

	wantDates := map[string]bool{
		"2024-01-01": true, "2024-01-04": true, "2024-01-08": true, "2024-01-13": true,
	}
	for _, action := range store.actions {
		date := action.ScheduledFor.Format("2006-01-02")
		if !wantDates[date] {
			t.Errorf("unexpected scheduled date %s", date)
		}
	}
}

func TestPlanOutreachUpsertFailuresAreCounted(t *testing.T) {
	store := NewMockActionStore()
	store.failAll = true

	planner := outreach.NewPlanner(store, &MockContactFinder{}, logger.NewNoOp(), "")
	planned, err := planner.PlanOutreach(context.Background(), []*domain.Company{emailCompany()},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planned != 0 {
		t.Errorf("planned = %d, want 0 when every upsert fails", planned)
	}
}

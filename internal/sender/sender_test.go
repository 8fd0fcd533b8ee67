package sender_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/config"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
	"github.com/jonesrussell/leadcrawl/internal/sender"
)

type statusCall struct {
	id        string
	status    string
	sentAt    *time.Time
	errorText *string
}

// MockActionStore implements sender.ActionStore for testing.
type MockActionStore struct {
	due      []*domain.DueEmailAction
	listErr  error
	statuses []statusCall
	markErr  error
}

func (m *MockActionStore) ListDueEmails(_ context.Context, _ time.Time, _ int) ([]*domain.DueEmailAction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.due, nil
}

func (m *MockActionStore) MarkStatus(_ context.Context, id, status string, sentAt *time.Time, errorText *string) error {
	m.statuses = append(m.statuses, statusCall{id: id, status: status, sentAt: sentAt, errorText: errorText})
	return m.markErr
}

// MockMailer implements sender.Mailer for testing.
type MockMailer struct {
	sent    []string
	sendErr error
}

func (m *MockMailer) Send(_ context.Context, to, _, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}

func strptr(s string) *string { return &s }

func dueAction(id string, email *string) *domain.DueEmailAction {
	return &domain.DueEmailAction{
		OutreachAction: domain.OutreachAction{
			ID:      id,
			Subject: "Subject " + id,
			Body:    "Body " + id,
		},
		CompanyDomain: "acmemachining.com",
		PrimaryEmail:  email,
	}
}

func TestSendDueEmailsSimulated(t *testing.T) {
	store := &MockActionStore{due: []*domain.DueEmailAction{
		dueAction("a1", strptr("operations@acmemachining.com")),
		dueAction("a2", strptr("info@acmemachining.com")),
	}}
	mailer := &MockMailer{}

	s := sender.NewSender(store, mailer, logger.NewNoOp())
	stats, err := s.SendDueEmails(context.Background(), time.Now(), 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Processed != 2 || stats.Sent != 2 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("simulated run touched the mailer: %v", mailer.sent)
	}
	for _, call := range store.statuses {
		if call.status != domain.ActionStatusSimulated {
			t.Errorf("action %s marked %q, want simulated", call.id, call.status)
		}
		if call.sentAt == nil {
			t.Errorf("action %s missing sentAt", call.id)
		}
	}
}

func TestSendDueEmailsLive(t *testing.T) {
	store := &MockActionStore{due: []*domain.DueEmailAction{
		dueAction("a1", strptr("operations@acmemachining.com")),
	}}
	mailer := &MockMailer{}

	s := sender.NewSender(store, mailer, logger.NewNoOp())
	stats, err := s.SendDueEmails(context.Background(), time.Now(), 50, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Sent != 1 {
		t.Errorf("Sent = %d, want 1", stats.Sent)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "operations@acmemachining.com" {
		t.Errorf("mailer.sent = %v", mailer.sent)
	}
	if len(store.statuses) != 1 || store.statuses[0].status != domain.ActionStatusSent {
		t.Errorf("statuses = %+v", store.statuses)
	}
}

func TestSendDueEmailsSkipsMissingAddress(t *testing.T) {
	store := &MockActionStore{due: []*domain.DueEmailAction{
		dueAction("a1", nil),
		dueAction("a2", strptr("   ")),
	}}

	s := sender.NewSender(store, &MockMailer{}, logger.NewNoOp())
	stats, err := s.SendDueEmails(context.Background(), time.Now(), 50, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Skipped != 2 || stats.Sent != 0 {
		t.Errorf("stats = %+v", stats)
	}
	for _, call := range store.statuses {
		if call.status != domain.ActionStatusSkipped {
			t.Errorf("action %s marked %q, want skipped", call.id, call.status)
		}
		if call.errorText == nil || *call.errorText != "Missing destination email" {
			t.Errorf("action %s errorText = %v", call.id, call.errorText)
		}
	}
}

func TestSendDueEmailsMailerFailureDoesNotAbortBatch(t *testing.T) {
	store := &MockActionStore{due: []*domain.DueEmailAction{
		dueAction("a1", strptr("bounce@acmemachining.com")),
		dueAction("a2", strptr("ok@acmemachining.com")),
	}}
	mailer := &MockMailer{sendErr: errors.New("connection refused")}

	s := sender.NewSender(store, mailer, logger.NewNoOp())
	stats, err := s.SendDueEmails(context.Background(), time.Now(), 50, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Failed != 2 || stats.Processed != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if store.statuses[0].status != domain.ActionStatusFailed {
		t.Errorf("status = %q, want failed", store.statuses[0].status)
	}
	if store.statuses[0].errorText == nil || *store.statuses[0].errorText != "connection refused" {
		t.Errorf("errorText = %v", store.statuses[0].errorText)
	}
}

func TestSendDueEmailsListError(t *testing.T) {
	store := &MockActionStore{listErr: errors.New("db down")}

	s := sender.NewSender(store, &MockMailer{}, logger.NewNoOp())
	if _, err := s.SendDueEmails(context.Background(), time.Now(), 50, true); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestSMTPMailerRejectsIncompleteConfig(t *testing.T) {
	m := sender.NewSMTPMailer(config.SMTPConfig{})
	if err := m.Send(context.Background(), "to@example.com", "s", "b"); err == nil {
		t.Fatal("expected error for incomplete SMTP config")
	}
}

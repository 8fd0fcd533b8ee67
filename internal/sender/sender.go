package sender

import (
	"context"
	"strings"
	"time"

	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// ActionStore lists due email actions and records their outcomes.
type ActionStore interface {
	ListDueEmails(ctx context.Context, dueBy time.Time, limit int) ([]*domain.DueEmailAction, error)
	MarkStatus(ctx context.Context, id, status string, sentAt *time.Time, errorText *string) error
}

// Stats summarizes one send batch. Per-action failures are recorded on the
// action itself and never abort the remaining sends.
type Stats struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent_or_simulated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Sender processes due email actions.
type Sender struct {
	actions ActionStore
	mailer  Mailer
	log     logger.Interface
}

// NewSender creates a new sender.
func NewSender(actions ActionStore, mailer Mailer, log logger.Interface) *Sender {
	return &Sender{
		actions: actions,
		mailer:  mailer,
		log:     log,
	}
}

// SendDueEmails processes pending email actions due on or before dueBy.
// When live is false, actions are marked simulated without touching SMTP.
// Actions without a destination address are skipped.
func (s *Sender) SendDueEmails(ctx context.Context, dueBy time.Time, limit int, live bool) (*Stats, error) {
	actions, err := s.actions.ListDueEmails(ctx, dueBy, limit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Processed: len(actions)}

	for _, action := range actions {
		toEmail := ""
		if action.PrimaryEmail != nil {
			toEmail = strings.TrimSpace(*action.PrimaryEmail)
		}

		if toEmail == "" {
			s.markStatus(ctx, action.ID, domain.ActionStatusSkipped, nil, strPtr("Missing destination email"))
			stats.Skipped++
			continue
		}

		if !live {
			now := time.Now().UTC()
			s.markStatus(ctx, action.ID, domain.ActionStatusSimulated, &now, nil)
			stats.Sent++
			continue
		}

		if sendErr := s.mailer.Send(ctx, toEmail, action.Subject, action.Body); sendErr != nil {
			s.markStatus(ctx, action.ID, domain.ActionStatusFailed, nil, strPtr(sendErr.Error()))
			stats.Failed++
			s.log.Error("email delivery failed",
				"action_id", action.ID,
				"to", toEmail,
				"error", sendErr.Error(),
			)
			continue
		}

		now := time.Now().UTC()
		s.markStatus(ctx, action.ID, domain.ActionStatusSent, &now, nil)
		stats.Sent++
	}

	return stats, nil
}

// markStatus records an action outcome; a marking failure is logged and
// otherwise ignored so the rest of the batch proceeds.
func (s *Sender) markStatus(ctx context.Context, id, status string, sentAt *time.Time, errorText *string) {
	if err := s.actions.MarkStatus(ctx, id, status, sentAt, errorText); err != nil {
		s.log.Error("failed to mark action status", "action_id", id, "status", status, "error", err.Error())
	}
}

func strPtr(value string) *string {
	return &value
}

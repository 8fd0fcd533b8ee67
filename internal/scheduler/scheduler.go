// Package scheduler runs the recurring outreach send loop on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/leadcrawl/internal/logger"
	"github.com/jonesrussell/leadcrawl/internal/sender"
)

const defaultSendLimit = 50

// SendRunner processes due email actions.
type SendRunner interface {
	SendDueEmails(ctx context.Context, dueBy time.Time, limit int, live bool) (*sender.Stats, error)
}

// Scheduler triggers the due-email send on a cron expression.
type Scheduler struct {
	cron      *cron.Cron
	sender    SendRunner
	log       logger.Interface
	sendLimit int
	live      bool

	mu      sync.Mutex
	running bool
}

// New creates a scheduler. sendLimit bounds each send run; zero means the
// default.
func New(sendRunner SendRunner, log logger.Interface, sendLimit int, live bool) *Scheduler {
	if sendLimit <= 0 {
		sendLimit = defaultSendLimit
	}
	return &Scheduler{
		cron:      cron.New(),
		sender:    sendRunner,
		log:       log,
		sendLimit: sendLimit,
		live:      live,
	}
}

// Start registers the send job and starts the cron loop. spec uses the
// standard 5-field cron format: minute hour day month weekday.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.runSend(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add send job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.log.Info("Scheduler started", "cron", spec, "live", s.live, "send_limit", s.sendLimit)

	return nil
}

// Stop stops the cron loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runSend(ctx context.Context) {
	s.log.Info("Cron triggered send run")

	stats, err := s.sender.SendDueEmails(ctx, time.Now(), s.sendLimit, s.live)
	if err != nil {
		s.log.Error("Scheduled send run failed", "error", err)
		return
	}

	s.log.Info("Scheduled send run complete",
		"processed", stats.Processed,
		"sent", stats.Sent,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
	)
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes request logs past their retention window on a cron schedule.
type Pruner struct {
	store         Storage
	retentionDays int
	schedule      string
	cron          *cron.Cron
	logger        *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewPruner creates a pruner. A zero retention or empty schedule disables it.
func NewPruner(store Storage, retentionDays int, schedule string, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:         store,
		retentionDays: retentionDays,
		schedule:      schedule,
		cron:          cron.New(),
		logger:        logger.With("component", "storage.pruner"),
	}
}

// Prune deletes everything older than the retention window once.
func (p *Pruner) Prune(now time.Time) (int64, error) {
	if p.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -p.retentionDays)
	return p.store.DeleteRequestLogs(cutoff)
}

// Start schedules pruning until ctx is done.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.retentionDays <= 0 || p.schedule == "" {
		p.logger.Info("log retention disabled")
		return nil
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.schedule, err)
	}

	if _, err := p.cron.AddFunc(p.schedule, func() {
		deleted, err := p.Prune(time.Now())
		if err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
			return
		}
		p.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true
	p.logger.Info("log retention scheduled", "schedule", p.schedule, "retention_days", p.retentionDays)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
	}
}

// NextRun returns the next scheduled prune, or nil when not scheduled.
func (p *Pruner) NextRun() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if !p.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

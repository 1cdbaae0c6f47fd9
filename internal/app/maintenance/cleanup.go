package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/metrics"
)

const (
	defaultInviteRetention = 30 * 24 * time.Hour
	defaultSchedule        = "@daily"

	jobInvitePurge = "invite_purge"
)

// Cleaner runs periodic housekeeping against the store. It only removes
// invites that already reached a terminal status; pending invites expire
// lazily when they are used.
type Cleaner struct {
	invites   store.InviteRepository
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention time.Duration
	schedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithInviteRetention adjusts how long terminal invites are kept.
func WithInviteRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.retention = d
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup run.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil repository disables every job.
func NewCleaner(invites store.InviteRepository, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		invites:   invites,
		now:       time.Now,
		retention: defaultInviteRetention,
		schedule:  defaultSchedule,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.invites == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("maintenance run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule maintenance %q: %w", c.schedule, err)
	}

	c.cron.Start()
	c.log.Info("maintenance scheduled", zap.String("schedule", c.schedule), zap.Duration("invite_retention", c.retention))
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every cleanup routine sequentially and returns the
// combined error.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, job := range c.jobs() {
		err := job.run(ctx)
		result := "success"
		if err != nil {
			result = "failure"
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.name, err))
		}
		metrics.MaintenanceRuns.WithLabelValues(job.name, result).Inc()
	}
	return errs
}

type job struct {
	name string
	run  func(context.Context) error
}

func (c *Cleaner) jobs() []job {
	if c.invites == nil {
		return nil
	}
	return []job{{name: jobInvitePurge, run: c.purgeInvites}}
}

func (c *Cleaner) purgeInvites(ctx context.Context) error {
	removed, err := PurgeInvites(ctx, c.invites, c.now().UTC().Add(-c.retention))
	if err != nil {
		return err
	}
	if removed > 0 {
		c.log.Info("purged terminal invites", zap.Int64("count", removed))
	}
	return nil
}

// PurgeInvites deletes accepted, expired and rejected invites last touched
// before cutoff.
func PurgeInvites(ctx context.Context, invites store.InviteRepository, cutoff time.Time) (int64, error) {
	if invites == nil {
		return 0, errors.New("purge invites: repository is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return invites.PurgeTerminal(ctx, cutoff)
}

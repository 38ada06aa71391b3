package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/metrics"
)

// ActivityTracker is the subset of the group context tracker needed by
// the sweep job. Defined here so the job can be tested with a double.
type ActivityTracker interface {
	Sweep()
	Stats() groupctx.Stats
}

// ActivitySweepJob prunes expired channel and user activity and mirrors
// the tracker's totals onto the Prometheus gauges.
type ActivitySweepJob struct {
	Tracker      ActivityTracker
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/10 * * * *"
}

// Compile-time interface check.
var _ Job = (*ActivitySweepJob)(nil)

// Name implements Job.
func (j *ActivitySweepJob) Name() string { return "activity_sweep" }

// Schedule implements Job.
func (j *ActivitySweepJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/10 * * * *"
}

// Run sweeps the tracker and refreshes the tracking gauges.
func (j *ActivitySweepJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: activity sweep cancelled: %w", ctx.Err())
	}

	j.Tracker.Sweep()
	stats := j.Tracker.Stats()
	if j.Metrics != nil {
		j.Metrics.TrackedChannels.Set(float64(stats.TrackedChannels))
		j.Metrics.TrackedUsers.Set(float64(stats.TrackedUsers))
	}
	j.Logger.Debug("cron: activity swept",
		"channels", stats.TrackedChannels,
		"users", stats.TrackedUsers,
	)
	return nil
}

// ResponseCounter is the subset of the monitor needed by the reset job.
type ResponseCounter interface {
	ResetHourly()
}

// HourlyResetJob zeroes the monitor's response counter on a fixed
// interval. The reset is unconditional; bursts right after the boundary
// are an accepted property of the fixed-interval design.
type HourlyResetJob struct {
	Counter      ResponseCounter
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "@every 1h"
}

// Compile-time interface check.
var _ Job = (*HourlyResetJob)(nil)

// Name implements Job.
func (j *HourlyResetJob) Name() string { return "hourly_reset" }

// Schedule implements Job.
func (j *HourlyResetJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "@every 1h"
}

// Run resets the hourly response counter.
func (j *HourlyResetJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: hourly reset cancelled: %w", ctx.Err())
	}
	j.Counter.ResetHourly()
	j.Logger.Debug("cron: hourly response counter reset")
	return nil
}

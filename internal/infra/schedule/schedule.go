package schedule

import (
	"context"
	"fmt"
	"time"

	"ocs-acceptance/internal/logger"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job is one run of the acceptance suite. It returns the suite exit status.
type Job func(ctx context.Context) int

// Validate reports whether spec is a schedule Run accepts.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("parsing cron schedule: %w", err)
	}
	return nil
}

// Run invokes job on every activation of spec until ctx is cancelled.
// Activations that fire while the previous run is still going are skipped.
// It returns the status of the last completed run.
func Run(ctx context.Context, spec string, job Job, log logger.Logger) (int, error) {
	scheduleSpec, err := parser.Parse(spec)
	if err != nil {
		return 0, fmt.Errorf("parsing cron schedule: %w", err)
	}

	statuses := make(chan int, 1)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(scheduleSpec, cron.FuncJob(func() {
		started := time.Now()
		status := job(ctx)
		log.Infow("scheduled run finished",
			"status", status,
			"duration", time.Since(started).String(),
			"next", scheduleSpec.Next(time.Now()))
		select {
		case <-statuses:
		default:
		}
		statuses <- status
	}))

	log.Infow("scheduler started", "schedule", spec, "next", scheduleSpec.Next(time.Now()))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Infow("scheduler stopped")

	select {
	case status := <-statuses:
		return status, nil
	default:
		return 0, nil
	}
}

package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RefreshRequester is satisfied by tasks.Enqueuer and RefreshFunc
type RefreshRequester interface {
	RequestRefresh(ctx context.Context) error
}

// warmTimeout bounds a single scheduled refresh
const warmTimeout = time.Minute

// StartCacheWarmer requests a portfolio refresh on the given cron schedule
// (standard 5-field format: minute hour day-of-month month day-of-week).
// The returned scheduler must be stopped by the caller.
func StartCacheWarmer(schedule string, requester RefreshRequester, logger zerolog.Logger) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	_, err := c.AddFunc(schedule, func() {
		warmCache(requester, logger)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache warm schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info().Str("schedule", schedule).Msg("Cache warmer started")
	return c, nil
}

func warmCache(requester RefreshRequester, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	if err := requester.RequestRefresh(ctx); err != nil {
		logger.Error().Err(err).Msg("Scheduled portfolio refresh failed")
		return
	}
	logger.Debug().Msg("Scheduled portfolio refresh requested")
}

// NextWarmAt returns when the schedule next fires after from, or the zero
// time for an invalid expression
func NextWarmAt(schedule string, from time.Time) time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(from)
}

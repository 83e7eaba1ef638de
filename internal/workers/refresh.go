package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/tasks"
)

// PortfolioRefresher refetches the portfolio into the shared cache
type PortfolioRefresher interface {
	RefreshPortfolio(ctx context.Context) error
}

// RefreshFunc adapts a function into a refresh requester
type RefreshFunc func(ctx context.Context) error

// RequestRefresh runs the refresh inline
func (f RefreshFunc) RequestRefresh(ctx context.Context) error {
	return f(ctx)
}

// HandleRefreshPortfolio runs a portfolio:refresh task
func HandleRefreshPortfolio(ctx context.Context, t *asynq.Task, refresher PortfolioRefresher, logger zerolog.Logger) error {
	payload, err := tasks.ParseRefreshPayload(t)
	if err != nil {
		// Malformed payloads will never succeed
		return fmt.Errorf("failed to parse payload: %w: %w", err, asynq.SkipRetry)
	}

	start := time.Now()
	if err := refresher.RefreshPortfolio(ctx); err != nil {
		logger.Warn().
			Err(err).
			Str("reason", payload.Reason).
			Msg("Portfolio refresh failed")
		return err
	}

	logger.Info().
		Str("reason", payload.Reason).
		Dur("queued_for", start.Sub(payload.RequestedAt)).
		Dur("duration", time.Since(start)).
		Msg("Portfolio cache refreshed")

	return nil
}

package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Task type constants
const (
	// TypeRefreshPortfolio refetches the home page query into the shared cache
	TypeRefreshPortfolio = "portfolio:refresh"
)

// refreshTaskID is shared by every refresh task, so at most one refresh is
// queued or running at a time whatever its reason
const refreshTaskID = TypeRefreshPortfolio

// RefreshPayload is the payload of a portfolio refresh task
type RefreshPayload struct {
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRefreshPortfolioTask creates a task to refresh the cached portfolio
func NewRefreshPortfolioTask(reason string, now time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshPayload{
		Reason:      reason,
		RequestedAt: now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeRefreshPortfolio, payload), nil
}

// ParseRefreshPayload parses a refresh payload from an Asynq task
func ParseRefreshPayload(task *asynq.Task) (RefreshPayload, error) {
	var payload RefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

// Enqueuer schedules refresh tasks on the worker queue
type Enqueuer struct {
	client *asynq.Client
	reason string
	logger zerolog.Logger
}

// NewEnqueuer creates an enqueuer tagging its tasks with reason
func NewEnqueuer(client *asynq.Client, reason string, logger zerolog.Logger) *Enqueuer {
	return &Enqueuer{client: client, reason: reason, logger: logger}
}

// RequestRefresh enqueues a refresh. Requests made while another refresh
// is still queued or running are dropped.
func (e *Enqueuer) RequestRefresh(ctx context.Context) error {
	task, err := NewRefreshPortfolioTask(e.reason, time.Now())
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.TaskID(refreshTaskID),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			e.logger.Debug().Str("reason", e.reason).Msg("Portfolio refresh already pending")
			return nil
		}
		return fmt.Errorf("failed to enqueue portfolio refresh: %w", err)
	}

	e.logger.Debug().
		Str("task_id", info.ID).
		Str("reason", e.reason).
		Msg("Portfolio refresh enqueued")
	return nil
}

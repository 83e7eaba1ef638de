package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/internal/tasks"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) RefreshPortfolio(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestHandleRefreshPortfolio(t *testing.T) {
	task, err := tasks.NewRefreshPortfolioTask("mutation", time.Now())
	require.NoError(t, err)

	refresher := &fakeRefresher{}
	require.NoError(t, HandleRefreshPortfolio(context.Background(), task, refresher, zerolog.Nop()))
	assert.EqualValues(t, 1, refresher.calls.Load())
}

func TestHandleRefreshPortfolio_RefreshFails(t *testing.T) {
	task, err := tasks.NewRefreshPortfolioTask("cron", time.Now())
	require.NoError(t, err)

	refresher := &fakeRefresher{err: errors.New("api down")}
	err = HandleRefreshPortfolio(context.Background(), task, refresher, zerolog.Nop())
	assert.EqualError(t, err, "api down")
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient failures are retried")
}

func TestHandleRefreshPortfolio_BadPayload(t *testing.T) {
	refresher := &fakeRefresher{}
	err := HandleRefreshPortfolio(context.Background(), asynq.NewTask(tasks.TypeRefreshPortfolio, []byte("nope")), refresher, zerolog.Nop())
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, refresher.calls.Load())
}

func TestStartCacheWarmer_InvalidSchedule(t *testing.T) {
	_, err := StartCacheWarmer("every tuesday", RefreshFunc(func(context.Context) error { return nil }), zerolog.Nop())
	assert.Error(t, err)
}

func TestStartCacheWarmer_Fires(t *testing.T) {
	fired := make(chan struct{}, 1)
	c, err := StartCacheWarmer("@every 1s", RefreshFunc(func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}), zerolog.Nop())
	require.NoError(t, err)
	defer c.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("cache warmer did not fire")
	}
}

func TestNextWarmAt(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC), NextWarmAt("0 * * * *", from))
	assert.True(t, NextWarmAt("garbage", from).IsZero())
}

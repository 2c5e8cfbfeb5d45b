package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ==================== POOL ====================

func TestPool_SubmitRunsTasks(t *testing.T) {
	pool := worker.NewPool(discardLogger())

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.True(t, pool.Submit("count", func(ctx context.Context) {
			count.Add(1)
		}))
	}

	pool.Shutdown(5 * time.Second)
	assert.Equal(t, int32(5), count.Load())
}

func TestPool_SubmitWithTimeoutCancelsContext(t *testing.T) {
	pool := worker.NewPool(discardLogger())

	errCh := make(chan error, 1)
	require.True(t, pool.SubmitWithTimeout("slow", 20*time.Millisecond, func(ctx context.Context) {
		<-ctx.Done()
		errCh <- ctx.Err()
	}))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("task context never expired")
	}

	pool.Shutdown(time.Second)
}

func TestPool_RecoversFromPanics(t *testing.T) {
	pool := worker.NewPool(discardLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	require.True(t, pool.Submit("panics", func(ctx context.Context) {
		defer wg.Done()
		panic("boom")
	}))
	wg.Wait()

	ran := make(chan struct{})
	require.True(t, pool.Submit("after", func(ctx context.Context) {
		close(ran)
	}))
	<-ran

	pool.Shutdown(time.Second)
}

func TestPool_ShutdownCancelsAndRejects(t *testing.T) {
	pool := worker.NewPool(discardLogger())

	stopped := make(chan struct{})
	require.True(t, pool.Submit("loop", func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	}))

	pool.Shutdown(5 * time.Second)

	select {
	case <-stopped:
	default:
		t.Fatal("shutdown returned before the task observed cancellation")
	}

	assert.Error(t, pool.Context().Err())
	assert.False(t, pool.Submit("late", func(ctx context.Context) {}))
	assert.False(t, pool.SubmitWithTimeout("late", time.Second, func(ctx context.Context) {}))
}

// ==================== SCHEDULER ====================

func TestScheduler_AddRejectsInvalidSpec(t *testing.T) {
	pool := worker.NewPool(discardLogger())
	defer pool.Shutdown(time.Second)
	scheduler := worker.NewScheduler(pool, discardLogger())

	err := scheduler.Add("bad", "not a schedule", time.Second, func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	assert.NoError(t, scheduler.Add("hourly", "@every 1h", time.Second, func(ctx context.Context) error { return nil }))
	assert.NoError(t, scheduler.Add("nightly", "0 0 3 * * *", time.Second, func(ctx context.Context) error { return nil }))
}

func TestScheduler_RunNow(t *testing.T) {
	pool := worker.NewPool(discardLogger())
	scheduler := worker.NewScheduler(pool, discardLogger())

	ran := make(chan struct{})
	scheduler.RunNow("once", time.Second, func(ctx context.Context) error {
		close(ran)
		return errors.New("logged, not propagated")
	})

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}

	pool.Shutdown(time.Second)
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	pool := worker.NewPool(discardLogger())
	scheduler := worker.NewScheduler(pool, discardLogger())

	fired := make(chan struct{}, 10)
	require.NoError(t, scheduler.Add("tick", "@every 1s", time.Second, func(ctx context.Context) error {
		fired <- struct{}{}
		return nil
	}))

	scheduler.Start()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job never fired")
	}

	scheduler.Stop()
	pool.Shutdown(time.Second)
}

// ==================== HOUSEKEEPING ====================

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) DeleteExpiredTokens(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func TestPurgeExpiredTokens(t *testing.T) {
	t.Run("deletes tokens expired before now", func(t *testing.T) {
		purger := new(mockPurger)
		before := time.Now()
		purger.On("DeleteExpiredTokens", mock.MatchedBy(func(now time.Time) bool {
			return !now.Before(before)
		})).Return(int64(3), nil)

		job := worker.PurgeExpiredTokens(purger, discardLogger())
		assert.NoError(t, job(context.Background()))
		purger.AssertExpectations(t)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		purger := new(mockPurger)
		purger.On("DeleteExpiredTokens", mock.Anything).Return(int64(0), errors.New("db down"))

		job := worker.PurgeExpiredTokens(purger, discardLogger())
		assert.EqualError(t, job(context.Background()), "db down")
	})

	t.Run("skips work when the context is done", func(t *testing.T) {
		purger := new(mockPurger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := worker.PurgeExpiredTokens(purger, discardLogger())
		assert.ErrorIs(t, job(ctx), context.Canceled)
		purger.AssertNotCalled(t, "DeleteExpiredTokens", mock.Anything)
	})
}

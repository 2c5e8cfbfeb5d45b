package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool manages background goroutines and ensures graceful shutdown
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Submit runs a named task in the background. It returns false once the pool is shutting down.
func (p *Pool) Submit(name string, task func(ctx context.Context)) bool {
	return p.submit(p.ctx, name, func() {}, task)
}

// SubmitWithTimeout runs a named task whose context expires after timeout
func (p *Pool) SubmitWithTimeout(name string, timeout time.Duration, task func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	if !p.submit(ctx, name, cancel, task) {
		cancel()
		return false
	}
	return true
}

func (p *Pool) submit(ctx context.Context, name string, release context.CancelFunc, task func(ctx context.Context)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("⚠️ [Worker] Pool is shutting down, task rejected", "task", name)
		return false
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer release()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("❌ [Worker] Task panicked", "task", name, "panic", r)
			}
		}()

		task(ctx)
	}()
	return true
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown signals all workers to stop and waits for completion
func (p *Pool) Shutdown(timeout time.Duration) {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	// Signal all workers to stop
	p.cancel()

	// Wait for all goroutines with timeout
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
	}
}

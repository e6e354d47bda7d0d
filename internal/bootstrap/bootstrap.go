// Package bootstrap manages process lifecycle and graceful shutdown.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownHook releases one resource during shutdown.
type ShutdownHook func(ctx context.Context) error

// App runs a long-lived process and tears it down on SIGINT or SIGTERM.
type App struct {
	mu    sync.Mutex
	hooks []ShutdownHook
}

// New creates a new App.
func New() *App {
	return &App{}
}

// AddShutdownHook registers a hook. Hooks run in reverse registration
// order, so a server registered after its database shuts down first.
// Safe to call concurrently, including from inside the run function.
func (a *App) AddShutdownHook(fn ShutdownHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes run until it returns or a termination signal arrives. On a
// signal, every registered hook runs and their errors are joined. An error
// from run before any signal is returned as-is.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			done <- err
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(context.Background())
	case err := <-done:
		return err
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

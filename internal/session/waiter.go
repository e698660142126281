package session

import (
	"context"
	"errors"
	"time"

	"github.com/williampepple1/year-checker/internal/browser"
	"github.com/williampepple1/year-checker/internal/config"
	"go.uber.org/zap"
)

// Waiter waits for the results table to render
type Waiter struct {
	Guard    *Guard
	Selector string
	Timeout  time.Duration
}

// NewWaiter creates a results table waiter
func NewWaiter(cfg *config.CheckConfig, guard *Guard) *Waiter {
	return &Waiter{
		Guard:    guard,
		Selector: cfg.TableSelector,
		Timeout:  cfg.WaitTimeout,
	}
}

// AwaitResultsTable waits for the table. On timeout it assumes the session may
// have dropped to the login page, runs the guard and waits exactly once more.
// A second timeout is returned to the caller as browser.ErrTimeout.
func (w *Waiter) AwaitResultsTable(ctx context.Context, page browser.Page) error {
	err := page.WaitFor(ctx, w.Selector, w.Timeout)
	if !errors.Is(err, browser.ErrTimeout) {
		return err
	}

	w.Guard.Logger.Debug("results table did not render, checking session", zap.Error(err))
	if err := w.Guard.EnsureAuthenticated(ctx, page); err != nil {
		return err
	}
	return page.WaitFor(ctx, w.Selector, w.Timeout)
}

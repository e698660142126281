// Package session keeps the admin browser session usable: it classifies the
// loaded page, hands control to an operator when the login form shows up and
// waits for the results table with one re-authentication retry.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/williampepple1/year-checker/internal/browser"
	"github.com/williampepple1/year-checker/internal/config"
	"go.uber.org/zap"
)

// PageState classifies the currently loaded page
type PageState int

const (
	StateIndeterminate PageState = iota
	StateAdminAuthenticated
	StateLoginPrompt
)

func (s PageState) String() string {
	switch s {
	case StateAdminAuthenticated:
		return "admin"
	case StateLoginPrompt:
		return "login"
	default:
		return "indeterminate"
	}
}

// Selectors are the DOM markers used to classify a page
type Selectors struct {
	Logout   string
	Login    string
	Password string
}

// SelectorsFrom builds Selectors from the check configuration
func SelectorsFrom(cfg *config.CheckConfig) Selectors {
	return Selectors{
		Logout:   cfg.LogoutSelector,
		Login:    cfg.LoginSelector,
		Password: cfg.PasswordSelector,
	}
}

// Guard detects lost sessions and blocks until an operator restores them
type Guard struct {
	Selectors  Selectors
	Operator   Operator
	GraceDelay time.Duration
	Logger     *zap.Logger

	sleep func(context.Context, time.Duration) error
}

// NewGuard creates a session guard
func NewGuard(cfg *config.CheckConfig, operator Operator, logger *zap.Logger) *Guard {
	return &Guard{
		Selectors:  SelectorsFrom(cfg),
		Operator:   operator,
		GraceDelay: cfg.GraceDelay,
		Logger:     logger,
		sleep:      sleepContext,
	}
}

// Classify inspects the page for a logout control and the login form fields
func (g *Guard) Classify(ctx context.Context, page browser.Page) (PageState, error) {
	n, err := page.Count(ctx, g.Selectors.Logout)
	if err != nil {
		return StateIndeterminate, err
	}
	if n > 0 {
		return StateAdminAuthenticated, nil
	}

	logins, err := page.Count(ctx, g.Selectors.Login)
	if err != nil {
		return StateIndeterminate, err
	}
	passwords, err := page.Count(ctx, g.Selectors.Password)
	if err != nil {
		return StateIndeterminate, err
	}
	if logins > 0 && passwords > 0 {
		return StateLoginPrompt, nil
	}
	return StateIndeterminate, nil
}

// EnsureAuthenticated returns immediately on an admin page, asks the operator
// to log in on a login page, and otherwise waits one grace period without
// re-checking.
func (g *Guard) EnsureAuthenticated(ctx context.Context, page browser.Page) error {
	state, err := g.Classify(ctx, page)
	if err != nil {
		return err
	}

	switch state {
	case StateAdminAuthenticated:
		return nil
	case StateLoginPrompt:
		g.Logger.Warn("login page detected, the admin session has probably expired")
		if err := g.Operator.Confirm(ctx, page, "Log in to the admin panel in the browser window, then press ENTER to continue..."); err != nil {
			return fmt.Errorf("operator login: %w", err)
		}
		return nil
	default:
		g.Logger.Debug("page state indeterminate, waiting for render", zap.Duration("grace", g.GraceDelay))
		return g.sleep(ctx, g.GraceDelay)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

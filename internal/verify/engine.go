// Package verify checks one identifier at a time against the admin list page
// and turns every outcome, failures included, into a VerificationResult.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/williampepple1/year-checker/internal/browser"
	"github.com/williampepple1/year-checker/internal/config"
	"github.com/williampepple1/year-checker/internal/extraction"
	"github.com/williampepple1/year-checker/internal/session"
	"github.com/williampepple1/year-checker/pkg/models"
	"go.uber.org/zap"
)

// Comments written into results
const (
	CommentNotFound      = "ID not found in the table (filter result is empty)"
	CommentNotRecognized = "not recognized"
)

// ErrPanic wraps a panic raised while checking an identifier.
var ErrPanic = errors.New("check panicked")

// Engine runs the verification state machine against a single browser page
type Engine struct {
	Admin         *config.AdminConfig
	ExpectedYear  int
	ScreenshotDir string

	Page    browser.Page
	Guard   *session.Guard
	Waiter  *session.Waiter
	Locator *extraction.RowLocator
	Logger  *zap.Logger
}

// NewEngine creates an engine driving page with the given session guard
func NewEngine(cfg *config.AppConfig, page browser.Page, guard *session.Guard, logger *zap.Logger) *Engine {
	return &Engine{
		Admin:         &cfg.Admin,
		ExpectedYear:  cfg.Check.ExpectedYear,
		ScreenshotDir: cfg.IO.ScreenshotDir,
		Page:          page,
		Guard:         guard,
		Waiter:        session.NewWaiter(&cfg.Check, guard),
		Locator:       extraction.NewRowLocator(extraction.DefaultLinkSelector),
		Logger:        logger,
	}
}

// Check verifies one identifier. It never fails: any fault becomes an ERROR result.
func (e *Engine) Check(ctx context.Context, identifier string) models.VerificationResult {
	id := strings.TrimSpace(identifier)
	res := models.VerificationResult{
		Identifier:   id,
		URL:          BuildURL(e.Admin, id),
		ExpectedYear: e.ExpectedYear,
	}

	if err := e.safeInspect(ctx, &res); err != nil {
		e.fail(ctx, &res, err)
	}
	return res
}

func (e *Engine) safeInspect(ctx context.Context, res *models.VerificationResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return e.inspect(ctx, res)
}

func (e *Engine) inspect(ctx context.Context, res *models.VerificationResult) error {
	if err := e.Page.Navigate(ctx, res.URL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := e.Waiter.AwaitResultsTable(ctx, e.Page); err != nil {
		return err
	}
	// the table can render on a page that still lost its session
	if err := e.Guard.EnsureAuthenticated(ctx, e.Page); err != nil {
		return err
	}

	html, err := e.Page.OuterHTML(ctx, e.Waiter.Selector)
	if err != nil {
		return fmt.Errorf("read results table: %w", err)
	}
	row, found, err := e.Locator.FindRow(html, res.Identifier)
	if err != nil {
		return fmt.Errorf("parse results table: %w", err)
	}
	if !found {
		res.Status = models.StatusNotFound
		res.Comment = CommentNotFound
		res.ScreenshotPath = e.capture(ctx, res.Status, res.Identifier)
		return nil
	}

	date := extraction.ExtractYear(row.Text)
	res.RawDateText = date.RawText
	res.Year = date.Year

	if date.HasYear() && *date.Year == e.ExpectedYear {
		res.Status = models.StatusOK
		return nil
	}

	actual := CommentNotRecognized
	if date.HasYear() {
		actual = strconv.Itoa(*date.Year)
	}
	res.Status = models.StatusFail
	res.Comment = fmt.Sprintf("Expected %d, got %s", e.ExpectedYear, actual)
	res.ScreenshotPath = e.capture(ctx, res.Status, res.Identifier)
	return nil
}

func (e *Engine) fail(ctx context.Context, res *models.VerificationResult, err error) {
	res.Status = models.StatusError
	res.Year = nil
	res.RawDateText = ""

	sessionLost := errors.Is(err, browser.ErrSessionLost)
	switch {
	case errors.Is(err, browser.ErrTimeout):
		res.Comment = "Timeout: " + err.Error()
	case sessionLost:
		res.Comment = "Browser error (tab or session may have crashed): " + err.Error()
	default:
		res.Comment = "Exception: " + err.Error()
	}
	res.ScreenshotPath = e.capture(ctx, res.Status, res.Identifier)

	if sessionLost {
		e.recoverSession(ctx)
	}
}

// recoverSession makes one attempt to get back to an authenticated admin page.
// Failures are logged and swallowed so the run moves on to the next identifier.
func (e *Engine) recoverSession(ctx context.Context) {
	if r, ok := e.Page.(browser.Reopener); ok {
		if err := r.Reopen(ctx); err != nil {
			e.Logger.Warn("session recovery: reopen tab failed", zap.Error(err))
			return
		}
	}
	if err := e.Page.Navigate(ctx, e.Admin.RootURL()); err != nil {
		e.Logger.Warn("session recovery: open admin failed", zap.Error(err))
		return
	}
	if err := e.Guard.EnsureAuthenticated(ctx, e.Page); err != nil {
		e.Logger.Warn("session recovery: authentication failed", zap.Error(err))
	}
}

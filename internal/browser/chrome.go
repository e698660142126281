package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/williampepple1/year-checker/internal/config"
)

// Chrome drives one tab of a Chrome/Chromium instance through chromedp
type Chrome struct {
	Config *config.BrowserConfig

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tabCtx        context.Context
	tabCancel     context.CancelFunc
}

// NewChrome starts the browser and opens the first tab.
// extra options are appended after the defaults (proxy settings, for example).
func NewChrome(ctx context.Context, cfg *config.BrowserConfig, extra ...chromedp.ExecAllocatorOption) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserDataDir != "" {
		if err := os.MkdirAll(cfg.UserDataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create user data dir: %w", err)
		}
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.Flag("profile-directory", cfg.ProfileDir))
	}
	opts = append(opts, extra...)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// first Run launches the browser
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Chrome{
		Config:        cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		tabCtx:        browserCtx,
		tabCancel:     func() {},
	}, nil
}

// Navigate loads url and waits until the body is ready, giving up after
// Config.NavigateTimeout
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.runTimed(ctx, c.Config.NavigateTimeout, "navigate to "+url,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Count returns the number of elements matching selector
func (c *Chrome) Count(ctx context.Context, selector string) (int, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// WaitFor waits up to timeout for selector to appear
func (c *Chrome) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return c.runTimed(ctx, timeout, selector, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// OuterHTML returns the markup of the first element matching selector
func (c *Chrome) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := c.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

// Screenshot captures the full page as PNG into path
func (c *Chrome) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := c.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// Fill replaces the value of the input matching selector
func (c *Chrome) Fill(ctx context.Context, selector, value string) error {
	return c.run(ctx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

// Submit submits the form that owns the element matching selector
func (c *Chrome) Submit(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Submit(selector, chromedp.ByQuery))
}

// Reopen closes the current tab, if it is still around, and opens a new one
func (c *Chrome) Reopen(ctx context.Context) error {
	if c.browserCtx.Err() != nil {
		return fmt.Errorf("%w: browser is closed", ErrSessionLost)
	}
	c.tabCancel()

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	c.tabCtx, c.tabCancel = tabCtx, tabCancel

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	// the tab's event loop runs on the context of its first Run
	if err := chromedp.Run(tabCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: open tab: %v", ErrSessionLost, err)
	}
	return nil
}

// Close shuts down the browser
func (c *Chrome) Close() error {
	c.tabCancel()
	err := chromedp.Cancel(c.browserCtx)
	c.browserCancel()
	c.allocCancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	return c.runWithin(ctx, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, actions...)
	})
}

// runTimed runs actions with a deadline; running out of it is reported as
// ErrTimeout unless the caller or the tab went away first.
func (c *Chrome) runTimed(ctx context.Context, timeout time.Duration, what string, actions ...chromedp.Action) error {
	return c.runWithin(ctx, func(runCtx context.Context) error {
		if timeout <= 0 {
			return chromedp.Run(runCtx, actions...)
		}
		timedCtx, cancel := context.WithTimeout(runCtx, timeout)
		defer cancel()

		err := chromedp.Run(timedCtx, actions...)
		if err != nil && timedCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil && c.tabCtx.Err() == nil {
			return fmt.Errorf("%w: %s after %v", ErrTimeout, what, timeout)
		}
		return err
	})
}

// runWithin runs fn on a context bound to the current tab that is also
// cancelled when the caller's ctx is done.
func (c *Chrome) runWithin(ctx context.Context, fn func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(c.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := fn(runCtx)
	if err == nil || errors.Is(err, ErrTimeout) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sessionLost(err) {
		return fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	return err
}

func (c *Chrome) sessionLost(err error) bool {
	if c.tabCtx.Err() != nil {
		return true
	}
	if errors.Is(err, chromedp.ErrInvalidTarget) ||
		errors.Is(err, chromedp.ErrInvalidContext) ||
		errors.Is(err, chromedp.ErrChannelClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "target closed") || strings.Contains(msg, "session closed")
}

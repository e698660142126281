// Package browsertest provides an in-memory browser.Page for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/williampepple1/year-checker/internal/browser"
)

// Document is what a fake URL renders
type Document struct {
	// Counts maps a selector to how many elements it matches.
	Counts map[string]int
	// HTML maps a selector to the outer HTML of its first match.
	HTML map[string]string
}

// Page is a scripted browser.Page that records every call.
// Hooks run before the default behaviour; a non-nil hook error is returned as is.
type Page struct {
	// Documents are served by exact URL. Unknown URLs render an empty document.
	Documents map[string]Document
	// AfterSubmit replaces the current document when a form is submitted.
	AfterSubmit *Document

	NavigateHook   func(url string) error
	WaitHook       func(selector string, call int) error
	HTMLHook       func(selector string) error
	ScreenshotHook func(path string) error
	ReopenHook     func() error

	Navigations []string
	Waits       []string
	Screenshots []string
	Fills       map[string]string
	Submits     []string
	Reopens     int

	current Document
}

// New creates a fake page serving docs
func New(docs map[string]Document) *Page {
	return &Page{
		Documents: docs,
		Fills:     map[string]string{},
	}
}

// Load makes doc the current document without recording a navigation
func (p *Page) Load(doc Document) {
	p.current = doc
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Navigations = append(p.Navigations, url)
	if p.NavigateHook != nil {
		if err := p.NavigateHook(url); err != nil {
			return err
		}
	}
	p.current = p.Documents[url]
	return nil
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.current.Counts[selector], nil
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Waits = append(p.Waits, selector)
	if p.WaitHook != nil {
		if err := p.WaitHook(selector, len(p.Waits)); err != nil {
			return err
		}
	}
	if p.current.Counts[selector] > 0 {
		return nil
	}
	return fmt.Errorf("%w: %s after %v", browser.ErrTimeout, selector, timeout)
}

func (p *Page) OuterHTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.HTMLHook != nil {
		if err := p.HTMLHook(selector); err != nil {
			return "", err
		}
	}
	html, ok := p.current.HTML[selector]
	if !ok {
		return "", errors.New("no node matches " + selector)
	}
	return html, nil
}

func (p *Page) Screenshot(_ context.Context, path string) error {
	if p.ScreenshotHook != nil {
		if err := p.ScreenshotHook(path); err != nil {
			return err
		}
	}
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *Page) Fill(_ context.Context, selector, value string) error {
	p.Fills[selector] = value
	return nil
}

func (p *Page) Submit(_ context.Context, selector string) error {
	p.Submits = append(p.Submits, selector)
	if p.AfterSubmit != nil {
		p.current = *p.AfterSubmit
	}
	return nil
}

func (p *Page) Reopen(context.Context) error {
	p.Reopens++
	if p.ReopenHook != nil {
		return p.ReopenHook()
	}
	return nil
}

var (
	_ browser.Page     = (*Page)(nil)
	_ browser.Form     = (*Page)(nil)
	_ browser.Reopener = (*Page)(nil)
)

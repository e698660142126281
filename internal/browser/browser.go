// Package browser defines the page capabilities the checker drives and the
// chromedp-backed implementation used in production.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimeout is returned when an awaited element did not render in time.
	ErrTimeout = errors.New("timed out waiting for element")

	// ErrSessionLost is returned when the tab or browser became unusable.
	ErrSessionLost = errors.New("browser session lost")
)

// Page is the single browser tab the checker drives.
// Implementations are used from one goroutine only.
type Page interface {
	// Navigate loads url and waits for the document structure.
	Navigate(ctx context.Context, url string) error
	// Count returns how many elements match selector right now.
	Count(ctx context.Context, selector string) (int, error)
	// WaitFor blocks until selector matches or timeout elapses (ErrTimeout).
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// OuterHTML returns the markup of the first element matching selector.
	OuterHTML(ctx context.Context, selector string) (string, error)
	// Screenshot writes a full-page PNG to path.
	Screenshot(ctx context.Context, path string) error
}

// Form is implemented by pages that can type into inputs and submit forms.
type Form interface {
	Fill(ctx context.Context, selector, value string) error
	Submit(ctx context.Context, selector string) error
}

// Reopener is implemented by pages that can replace a dead tab with a fresh one
// in the same browser.
type Reopener interface {
	Reopen(ctx context.Context) error
}

//go:build integration

package browser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/year-checker/internal/browser"
	"github.com/williampepple1/year-checker/internal/config"
)

const listPage = `<html><body>
<a href="/bitrix/admin/?logout=Y">Logout</a>
<table class="adm-list-table"><tr><td><a href="#">A1</a></td><td>01.02.2025 10:00:00</td></tr></table>
</body></html>`

func newChrome(t *testing.T) *browser.Chrome {
	t.Helper()

	cfg := config.NewDefault().Browser
	cfg.Headless = true
	cfg.UserDataDir = t.TempDir()
	cfg.ProfileDir = ""

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	c, err := browser.NewChrome(ctx, &cfg)
	require.NoError(t, err, "failed to start browser")
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Logf("close error: %v", err)
		}
	})
	return c
}

func TestChrome_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/empty") {
			fmt.Fprintln(w, "<html><body><p>nothing</p></body></html>")
			return
		}
		fmt.Fprintln(w, listPage)
	}))
	defer ts.Close()

	c := newChrome(t)
	ctx := context.Background()

	require.NoError(t, c.Navigate(ctx, ts.URL+"/list"))
	require.NoError(t, c.WaitFor(ctx, "table.adm-list-table", 5*time.Second))

	n, err := c.Count(ctx, "a[href*='logout=Y']")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	html, err := c.OuterHTML(ctx, "table.adm-list-table")
	require.NoError(t, err)
	assert.Contains(t, html, "01.02.2025 10:00:00")

	shot := filepath.Join(t.TempDir(), "shots", "OK_A1.png")
	require.NoError(t, c.Screenshot(ctx, shot))
	info, err := os.Stat(shot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.NoError(t, c.Navigate(ctx, ts.URL+"/empty"))
	err = c.WaitFor(ctx, "table.adm-list-table", 500*time.Millisecond)
	assert.True(t, errors.Is(err, browser.ErrTimeout), "got %v", err)

	require.NoError(t, c.Reopen(ctx))
	// a reopened tab keeps answering after Reopen returns
	reopenedCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	require.NoError(t, c.Navigate(reopenedCtx, ts.URL+"/list"))
	require.NoError(t, c.WaitFor(reopenedCtx, "table.adm-list-table", 5*time.Second))
	n, err = c.Count(reopenedCtx, "a[href*='logout=Y']")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChrome_NavigateTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/stall") {
			// headers go out but the body never completes
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><head>")
			w.(http.Flusher).Flush()
			<-r.Context().Done()
			return
		}
		fmt.Fprintln(w, listPage)
	}))
	defer ts.Close()
	defer ts.CloseClientConnections()

	c := newChrome(t)
	c.Config.NavigateTimeout = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	start := time.Now()
	err := c.Navigate(ctx, ts.URL+"/stall")
	assert.True(t, errors.Is(err, browser.ErrTimeout), "got %v", err)
	assert.Less(t, time.Since(start), 10*time.Second)

	require.NoError(t, c.Navigate(ctx, ts.URL+"/list"), "tab is usable after a navigation timeout")
}

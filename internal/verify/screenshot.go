package verify

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/williampepple1/year-checker/pkg/models"
	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotPath returns <dir>/<STATUS>_<identifier>.png with unsafe characters replaced
func ScreenshotPath(dir string, status models.Status, identifier string) string {
	name := unsafeFileChars.ReplaceAllString(string(status)+"_"+identifier, "_")
	return filepath.Join(dir, name+".png")
}

// capture saves a full-page screenshot and returns its path, or "" when the
// tab could not be captured.
func (e *Engine) capture(ctx context.Context, status models.Status, identifier string) string {
	path := ScreenshotPath(e.ScreenshotDir, status, identifier)
	if err := e.Page.Screenshot(ctx, path); err != nil {
		e.Logger.Warn("screenshot failed", zap.String("id", identifier), zap.Error(err))
		return ""
	}
	return path
}

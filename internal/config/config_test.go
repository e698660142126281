package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()

	assert.Equal(t, "https://globaldrive.ru", cfg.Admin.BaseURL)
	assert.Equal(t, "4", cfg.Admin.EntityID)
	assert.Equal(t, 2025, cfg.Check.ExpectedYear)
	assert.Equal(t, 15*time.Second, cfg.Check.WaitTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Check.GraceDelay)
	assert.Equal(t, "table.adm-list-table", cfg.Check.TableSelector)
	assert.Equal(t, ModeAuto, cfg.IO.Mode)
	assert.Equal(t, FormatXLSX, cfg.IO.OutputFormat)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigateTimeout)
	assert.NotEmpty(t, cfg.Browser.UserDataDir)
	require.NoError(t, cfg.Validate())
}

func TestRootURL(t *testing.T) {
	t.Parallel()

	a := AdminConfig{BaseURL: "https://example.com/", RootPath: "/bitrix/admin/"}
	assert.Equal(t, "https://example.com/bitrix/admin/", a.RootURL())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "yearcheck.yaml")
	content := `
admin:
  base_url: https://shop.example.com/
  entity_id: "7"
check:
  expected_year: 2024
  wait_timeout: 5s
io:
  output_format: markdown
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/", cfg.Admin.BaseURL)
	assert.Equal(t, "7", cfg.Admin.EntityID)
	assert.Equal(t, 2024, cfg.Check.ExpectedYear)
	assert.Equal(t, 5*time.Second, cfg.Check.WaitTimeout)
	assert.Equal(t, FormatMarkdown, cfg.IO.OutputFormat)

	// untouched sections keep their defaults
	assert.Equal(t, DefaultListPath, cfg.Admin.ListPath)
	assert.Equal(t, DefaultGraceDelay, cfg.Check.GraceDelay)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://shop.example.com", cfg.Admin.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvBaseURL:  " https://other.example.com ",
		EnvLogin:    "admin",
		EnvPassword: "secret",
	}
	cfg := NewDefault()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "https://other.example.com", cfg.Admin.BaseURL)
	assert.Equal(t, DefaultEntityID, cfg.Admin.EntityID)
	assert.True(t, cfg.Admin.HasCredentials())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*AppConfig)
		want   error
	}{
		{"empty base url", func(c *AppConfig) { c.Admin.BaseURL = "  " }, ErrEmptyBaseURL},
		{"zero year", func(c *AppConfig) { c.Check.ExpectedYear = 0 }, ErrInvalidYear},
		{"zero timeout", func(c *AppConfig) { c.Check.WaitTimeout = 0 }, ErrInvalidTimeout},
		{"zero navigate timeout", func(c *AppConfig) { c.Browser.NavigateTimeout = 0 }, ErrInvalidTimeout},
		{"negative grace", func(c *AppConfig) { c.Check.GraceDelay = -time.Second }, ErrInvalidGraceDelay},
		{"unknown mode", func(c *AppConfig) { c.IO.Mode = "staging" }, ErrInvalidMode},
		{"unknown format", func(c *AppConfig) { c.IO.OutputFormat = "csv" }, ErrInvalidFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefault()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	t.Run("start from clamps to one", func(t *testing.T) {
		t.Parallel()
		cfg := NewDefault()
		cfg.Check.StartFrom = -3
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 1, cfg.Check.StartFrom)
	})
}

func TestSetMode(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.ErrorIs(t, cfg.SetMode(true, true), ErrConflictingModes)

	require.NoError(t, cfg.SetMode(true, false))
	assert.Equal(t, ModeProd, cfg.IO.Mode)

	cfg = NewDefault()
	require.NoError(t, cfg.SetMode(false, true))
	assert.Equal(t, ModeExample, cfg.IO.Mode)

	cfg = NewDefault()
	require.NoError(t, cfg.SetMode(false, false))
	assert.Equal(t, ModeAuto, cfg.IO.Mode)
}

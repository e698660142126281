package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/williampepple1/year-checker/internal/browser"
	"github.com/williampepple1/year-checker/internal/config"
	idio "github.com/williampepple1/year-checker/internal/io"
	"github.com/williampepple1/year-checker/internal/logging"
	"github.com/williampepple1/year-checker/internal/proxy"
	"github.com/williampepple1/year-checker/internal/runner"
	"github.com/williampepple1/year-checker/internal/session"
	"github.com/williampepple1/year-checker/internal/verify"
	"github.com/williampepple1/year-checker/pkg/models"
	"go.uber.org/zap"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every ID from the input file",
		Long: `Run opens the admin panel in a browser, waits until you are logged in and
then checks every ID from the input CSV in order.

Input selection:
  --prod      use the production ID file (io.prod_file)
  --example   use the bundled example file (io.example_file)
  neither     production file if it exists, otherwise the example

Set BITRIX_LOGIN and BITRIX_PASSWORD to log in automatically instead of
being prompted. Variables are also read from a .env file in the working
directory; the process environment takes precedence.

Examples:
  yearcheck run --example
  yearcheck run --prod --start-from 120
  yearcheck run -c yearcheck.yaml --format markdown -o report.md`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file path (YAML)")
	cmd.Flags().String("env-file", defaultEnvFile, "Dotenv file with BITRIX_* and ENTITY_ID variables")
	cmd.Flags().Bool("prod", false, "Use the production ID file (mutually exclusive with --example)")
	cmd.Flags().Bool("example", false, "Use the example ID file (mutually exclusive with --prod)")
	cmd.Flags().Int("start-from", 1, "Start checking from the N-th ID (1-based)")
	cmd.Flags().Int("year", config.DefaultExpectedYear, "Expected creation year")
	cmd.Flags().Duration("timeout", config.DefaultWaitTimeout, "Timeout for one results table wait")
	cmd.Flags().Duration("navigate-timeout", config.DefaultNavigateTimeout, "Timeout for one page load")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile, "Report file path")
	cmd.Flags().StringP("format", "f", config.FormatXLSX, "Report format: xlsx, markdown or json")
	cmd.Flags().String("screenshots", config.DefaultScreenshotDir, "Directory for failure screenshots")
	cmd.Flags().String("log-file", config.DefaultLogFile, "Run log file")
	cmd.Flags().Bool("headless", false, "Run the browser without a window")
	cmd.Flags().String("browser", "", "Browser executable path")
	cmd.Flags().String("user-data-dir", "", "Browser profile directory (default under the XDG data dir)")
	cmd.Flags().Bool("skip-login-prompt", false, "Do not wait for ENTER before the first check")

	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	getenv, err := envLookup(envFile, cmd.Flags().Changed("env-file"), os.LookupEnv)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, getenv)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	logger, err := logging.New(cfg.IO.LogFile, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping after the current ID")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runChecks(ctx, cfg, logger)
}

const defaultEnvFile = ".env"

// envLookup returns a getenv that falls back to the dotenv file at path for
// variables missing from the process environment. A missing file is only an
// error when it was asked for explicitly.
func envLookup(path string, required bool, lookup func(string) (string, bool)) (func(string) string, error) {
	values := map[string]string{}
	if path != "" {
		read, err := godotenv.Read(path)
		switch {
		case err == nil:
			values = read
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}

	return func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return values[key]
	}, nil
}

// buildConfig layers the config file, the environment and explicitly set flags.
func buildConfig(cmd *cobra.Command, getenv func(string) string) (*config.AppConfig, error) {
	flags := cmd.Flags()

	cfg := config.NewDefault()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}
	cfg.ApplyEnv(getenv)

	prod, err := flags.GetBool("prod")
	if err != nil {
		return nil, err
	}
	example, err := flags.GetBool("example")
	if err != nil {
		return nil, err
	}
	if err := cfg.SetMode(prod, example); err != nil {
		return nil, err
	}

	if flags.Changed("start-from") {
		if cfg.Check.StartFrom, err = flags.GetInt("start-from"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("year") {
		if cfg.Check.ExpectedYear, err = flags.GetInt("year"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Check.WaitTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("navigate-timeout") {
		if cfg.Browser.NavigateTimeout, err = flags.GetDuration("navigate-timeout"); err != nil {
			return nil, err
		}
	}

	strFlags := map[string]*string{
		"output":        &cfg.IO.OutputFile,
		"format":        &cfg.IO.OutputFormat,
		"screenshots":   &cfg.IO.ScreenshotDir,
		"log-file":      &cfg.IO.LogFile,
		"browser":       &cfg.Browser.ExecPath,
		"user-data-dir": &cfg.Browser.UserDataDir,
	}
	for name, dst := range strFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"headless":          &cfg.Browser.Headless,
		"skip-login-prompt": &cfg.Browser.SkipInitialPrompt,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newOperator picks the credential injector when credentials are configured
// and the console prompt otherwise.
func newOperator(cfg *config.AppConfig) session.Operator {
	if cfg.Admin.HasCredentials() {
		return session.NewCredentialOperator(cfg.Admin.Login, cfg.Admin.Password,
			session.SelectorsFrom(&cfg.Check), cfg.Check.WaitTimeout)
	}
	return session.NewConsoleOperator(os.Stdin, os.Stdout)
}

func runChecks(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	reader := idio.NewIDReader(&cfg.IO)
	ids, source, err := reader.GetIDs()
	if err != nil {
		return err
	}
	ids = idio.StartFrom(ids, cfg.Check.StartFrom)

	logger.Info("IDs source: " + source)
	logger.Info(fmt.Sprintf("IDs loaded: %d (start from %d)", len(ids), cfg.Check.StartFrom))
	if reader.IsExample(source) {
		logger.Warn("running in DEMO mode on the example file, use --prod for real checks")
	}

	if err := os.MkdirAll(cfg.IO.ScreenshotDir, 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}

	proxyOpts, err := proxy.NewManager(&cfg.Proxies).AllocatorOptions()
	if err != nil {
		return fmt.Errorf("proxy configuration: %w", err)
	}

	// the browser outlives ctx so a cancelled run can still close it cleanly
	chrome, err := browser.NewChrome(context.Background(), &cfg.Browser, proxyOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := chrome.Close(); err != nil {
			logger.Debug("browser close", zap.Error(err))
		}
	}()

	operator := newOperator(cfg)
	guard := session.NewGuard(&cfg.Check, operator, logger)

	if err := login(ctx, cfg, chrome, guard); err != nil {
		return err
	}

	engine := verify.NewEngine(cfg, chrome, guard, logger)
	results, runErr := runner.New(engine, logger).Run(ctx, ids)

	writer := idio.NewResultWriter(&cfg.IO)
	if err := writer.SaveToFile(results); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	summary := models.Summarize(results)
	logger.Info("done",
		zap.Int("ok", summary[models.StatusOK]),
		zap.Int("fail", summary[models.StatusFail]),
		zap.Int("not_found", summary[models.StatusNotFound]),
		zap.Int("error", summary[models.StatusError]),
	)
	logger.Info("Report: " + cfg.IO.OutputFile)
	logger.Info("Log: " + cfg.IO.LogFile)
	logger.Info("Screenshots: " + cfg.IO.ScreenshotDir)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("run interrupted after %d of %d IDs, partial report saved", len(results), len(ids))
		}
		return runErr
	}
	return nil
}

// login opens the admin root and makes sure the session is usable before the
// first check.
func login(ctx context.Context, cfg *config.AppConfig, page browser.Page, guard *session.Guard) error {
	if err := page.Navigate(ctx, cfg.Admin.RootURL()); err != nil {
		return fmt.Errorf("open admin: %w", err)
	}

	if cfg.Admin.HasCredentials() || cfg.Browser.SkipInitialPrompt {
		return guard.EnsureAuthenticated(ctx, page)
	}
	return guard.Operator.Confirm(ctx, page,
		"If the admin panel opened and you are logged in, press ENTER (otherwise log in first, then press ENTER)...")
}

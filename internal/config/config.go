package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Input source modes
const (
	ModeAuto    = "auto"
	ModeProd    = "prod"
	ModeExample = "example"
)

// Report formats
const (
	FormatXLSX     = "xlsx"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Environment variables consulted by ApplyEnv
const (
	EnvBaseURL  = "BITRIX_BASE_URL"
	EnvEntityID = "ENTITY_ID"
	EnvLogin    = "BITRIX_LOGIN"
	EnvPassword = "BITRIX_PASSWORD"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Admin   AdminConfig   `yaml:"admin"`
	Check   CheckConfig   `yaml:"check"`
	IO      IOConfig      `yaml:"io"`
	Browser BrowserConfig `yaml:"browser"`
	Proxies ProxyConfig   `yaml:"proxies"`
}

// AdminConfig describes where the admin interface lives
type AdminConfig struct {
	BaseURL  string `yaml:"base_url"`
	EntityID string `yaml:"entity_id"`
	ListPath string `yaml:"list_path"`
	RootPath string `yaml:"root_path"`
	Lang     string `yaml:"lang"`
	PageSize int    `yaml:"page_size"`

	// Credentials are only read from the environment.
	Login    string `yaml:"-"`
	Password string `yaml:"-"`
}

// RootURL returns the admin landing page used for login and recovery
func (a AdminConfig) RootURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.RootPath
}

// HasCredentials reports whether a login and password were supplied
func (a AdminConfig) HasCredentials() bool {
	return a.Login != "" && a.Password != ""
}

// CheckConfig holds the verification parameters
type CheckConfig struct {
	ExpectedYear     int           `yaml:"expected_year"`
	WaitTimeout      time.Duration `yaml:"wait_timeout"`
	GraceDelay       time.Duration `yaml:"grace_delay"`
	StartFrom        int           `yaml:"start_from"`
	TableSelector    string        `yaml:"table_selector"`
	LogoutSelector   string        `yaml:"logout_selector"`
	LoginSelector    string        `yaml:"login_selector"`
	PasswordSelector string        `yaml:"password_selector"`
}

// IOConfig holds the input/output configuration
type IOConfig struct {
	Mode          string `yaml:"mode"`
	ProdFile      string `yaml:"prod_file"`
	ExampleFile   string `yaml:"example_file"`
	OutputFile    string `yaml:"output_file"`
	OutputFormat  string `yaml:"output_format"`
	LogFile       string `yaml:"log_file"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ProxyConfig holds the upstream proxy configuration for the browser
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	List    []string `yaml:"list"`
}

// BrowserConfig holds the browser configuration
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	ExecPath string `yaml:"exec_path"`
	// NavigateTimeout bounds one page load, body ready included.
	NavigateTimeout   time.Duration `yaml:"navigate_timeout"`
	UserDataDir       string        `yaml:"user_data_dir"`
	ProfileDir        string        `yaml:"profile_dir"`
	UserAgent         string        `yaml:"user_agent"`
	SkipInitialPrompt bool          `yaml:"skip_initial_prompt"`
}

// Load loads the configuration from a YAML file on top of the defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := NewDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// NewDefault creates a default configuration
func NewDefault() *AppConfig {
	return &AppConfig{
		Admin: AdminConfig{
			BaseURL:  DefaultBaseURL,
			EntityID: DefaultEntityID,
			ListPath: DefaultListPath,
			RootPath: DefaultRootPath,
			Lang:     DefaultLang,
			PageSize: DefaultPageSize,
		},
		Check: CheckConfig{
			ExpectedYear:     DefaultExpectedYear,
			WaitTimeout:      DefaultWaitTimeout,
			GraceDelay:       DefaultGraceDelay,
			StartFrom:        1,
			TableSelector:    DefaultTableSelector,
			LogoutSelector:   DefaultLogoutSelector,
			LoginSelector:    DefaultLoginSelector,
			PasswordSelector: DefaultPasswordSelector,
		},
		IO: IOConfig{
			Mode:          ModeAuto,
			ProdFile:      DefaultProdFile,
			ExampleFile:   DefaultExampleFile,
			OutputFile:    DefaultOutputFile,
			OutputFormat:  FormatXLSX,
			LogFile:       DefaultLogFile,
			ScreenshotDir: DefaultScreenshotDir,
		},
		Browser: BrowserConfig{
			Headless:        false,
			NavigateTimeout: DefaultNavigateTimeout,
			UserDataDir:     DefaultUserDataDir(),
			ProfileDir:      DefaultProfileDir,
			UserAgent:       DefaultUserAgent,
		},
		Proxies: ProxyConfig{
			List: []string{},
		},
	}
}

// ApplyEnv overrides admin settings from the process environment
func (c *AppConfig) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.Admin.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvEntityID)); v != "" {
		c.Admin.EntityID = v
	}
	c.Admin.Login = getenv(EnvLogin)
	c.Admin.Password = getenv(EnvPassword)
}

// Validate checks the configuration for values the run cannot work with
func (c *AppConfig) Validate() error {
	c.Admin.BaseURL = strings.TrimRight(strings.TrimSpace(c.Admin.BaseURL), "/")
	if c.Admin.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if c.Check.ExpectedYear <= 0 {
		return ErrInvalidYear
	}
	if c.Check.WaitTimeout <= 0 || c.Browser.NavigateTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Check.GraceDelay < 0 {
		return ErrInvalidGraceDelay
	}
	switch c.IO.Mode {
	case ModeAuto, ModeProd, ModeExample:
	default:
		return ErrInvalidMode
	}
	switch c.IO.OutputFormat {
	case FormatXLSX, FormatMarkdown, FormatJSON:
	default:
		return ErrInvalidFormat
	}
	if c.Check.StartFrom < 1 {
		c.Check.StartFrom = 1
	}
	return nil
}

// SetMode resolves the mutually exclusive --prod and --example switches
func (c *AppConfig) SetMode(prod, example bool) error {
	switch {
	case prod && example:
		return ErrConflictingModes
	case prod:
		c.IO.Mode = ModeProd
	case example:
		c.IO.Mode = ModeExample
	}
	return nil
}

package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for XDG directory paths.
const AppName = "yearcheck"

const (
	DefaultBaseURL  = "https://globaldrive.ru"
	DefaultEntityID = "4"
	DefaultListPath = "/bitrix/admin/highloadblock_rows_list.php"
	DefaultRootPath = "/bitrix/admin/"
	DefaultLang     = "ru"
	DefaultPageSize = 20

	DefaultExpectedYear = 2025

	// DefaultWaitTimeout bounds one wait for the results table; the waiter retries once.
	DefaultWaitTimeout = 15 * time.Second
	DefaultGraceDelay  = 500 * time.Millisecond

	DefaultNavigateTimeout = 30 * time.Second

	DefaultTableSelector    = "table.adm-list-table"
	DefaultLogoutSelector   = "a[href*='logout=Y']"
	DefaultLoginSelector    = "input[name='USER_LOGIN']"
	DefaultPasswordSelector = "input[name='USER_PASSWORD']"

	DefaultProdFile      = "ids.csv"
	DefaultExampleFile   = "ids_example.csv"
	DefaultOutputFile    = "bitrix_2025_report.xlsx"
	DefaultLogFile       = "run.log"
	DefaultScreenshotDir = "screenshots"

	DefaultProfileDir = "Default"
)

// DefaultUserAgent is sent by the browser unless overridden
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// DefaultUserDataDir returns the persistent browser profile location.
// Keeping the profile between runs keeps the admin session cookie.
func DefaultUserDataDir() string {
	return filepath.Join(xdg.DataHome, AppName, "browser-profile")
}

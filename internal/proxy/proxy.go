package proxy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/williampepple1/year-checker/internal/config"
)

// Manager resolves the upstream proxy the browser should use
type Manager struct {
	Config *config.ProxyConfig
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// GetProxyURL returns the configured proxy URL, or nil when proxying is off.
// The browser session is long lived, so the first list entry is always used.
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Config.Enabled || len(m.Config.List) == 0 {
		return nil, nil
	}

	proxyStr := strings.TrimSpace(m.Config.List[0])
	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy %q: scheme and host are required", proxyStr)
	}
	if proxyURL.User != nil {
		// Chrome ignores credentials in --proxy-server
		return nil, fmt.Errorf("proxy %q: credentials in proxy url are not supported", proxyURL.Redacted())
	}

	return proxyURL, nil
}

// AllocatorOptions returns the exec allocator options that route the browser through the proxy
func (m *Manager) AllocatorOptions() ([]chromedp.ExecAllocatorOption, error) {
	proxyURL, err := m.GetProxyURL()
	if err != nil {
		return nil, err
	}
	if proxyURL == nil {
		return nil, nil
	}
	return []chromedp.ExecAllocatorOption{chromedp.ProxyServer(proxyURL.String())}, nil
}

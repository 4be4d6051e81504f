// Package config holds the environment-driven configuration for the
// SIGAA MCP server.
//
// Every setting has a default so the server can start without a .env file;
// credentials are the only values that cannot be defaulted and are validated
// separately via HasCredentials.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Transport modes accepted in MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the full server configuration, resolved once at startup.
type Config struct {
	// SIGAA credentials. Optional at startup; tool calls may supply
	// their own.
	Username string
	Password string

	// BaseURL is the root of the SIGAA installation.
	BaseURL string

	// OpenAIAPIKey authenticates the LLM used for natural-language
	// element lookup and structured extraction.
	OpenAIAPIKey string

	// Model overrides the default LLM model when non-empty.
	Model string

	// DownloadDir is where retrieved documents are placed. ExtraDownloadDirs
	// lists additional directories scanned for browser-initiated downloads
	// (e.g. the Chromium profile's default download folder).
	DownloadDir       string
	ExtraDownloadDirs []string

	// ScreenshotDir is where page captures are written.
	ScreenshotDir string

	// RecencyWindow is the maximum age a downloaded file may have to be
	// attributed to the current request. PollInterval is how often the
	// download directories are rescanned while waiting.
	RecencyWindow time.Duration
	PollInterval  time.Duration

	// DownloadTimeout bounds the whole wait for a file to appear.
	DownloadTimeout time.Duration

	// LoginSettle is how long to wait after submitting the login form
	// before inspecting the resulting page.
	LoginSettle time.Duration

	// Headless controls the browser mode.
	Headless bool

	// Transport selects the MCP transport ("stdio" or "http").
	Transport string

	// HTTPAddr is the listen address for the http transport.
	HTTPAddr string

	// Google Drive integration. All three must be present for the drive
	// tools to be registered.
	DriveClientSecretsPath string
	DriveTokenPath         string
	DriveFolderID          string
}

// FromEnv builds a Config from the process environment, applying defaults
// for everything that is unset.
func FromEnv() *Config {
	cfg := &Config{
		Username:               os.Getenv("SIGAA_USERNAME"),
		Password:               os.Getenv("SIGAA_PASSWORD"),
		BaseURL:                getEnv("SIGAA_BASE_URL", "https://sigaa.ufpa.br"),
		OpenAIAPIKey:           os.Getenv("OPENAI_API_KEY"),
		Model:                  os.Getenv("OPENAI_MODEL"),
		DownloadDir:            getEnv("DOWNLOAD_PATH", defaultDataDir("downloads")),
		ScreenshotDir:          getEnv("SCREENSHOT_PATH", defaultDataDir("screenshots")),
		RecencyWindow:          getDuration("DOWNLOAD_RECENCY_WINDOW", 2*time.Minute),
		PollInterval:           getDuration("DOWNLOAD_POLL_INTERVAL", 500*time.Millisecond),
		DownloadTimeout:        getDuration("DOWNLOAD_TIMEOUT", 30*time.Second),
		LoginSettle:            getDuration("LOGIN_SETTLE", 5*time.Second),
		Headless:               getBool("SIGAA_HEADLESS", true),
		Transport:              getEnv("MCP_TRANSPORT", TransportStdio),
		HTTPAddr:               getEnv("MCP_HTTP_ADDR", ":8000"),
		DriveClientSecretsPath: getEnv("DRIVE_CLIENT_SECRETS_PATH", "client_secrets.json"),
		DriveTokenPath:         getEnv("DRIVE_TOKEN_PATH", "token.json"),
		DriveFolderID:          os.Getenv("DRIVE_FOLDER_ID"),
	}

	if extra := os.Getenv("CHROME_DOWNLOAD_PATH"); extra != "" {
		cfg.ExtraDownloadDirs = append(cfg.ExtraDownloadDirs, extra)
	}

	return cfg
}

// HasCredentials reports whether both SIGAA credentials are set.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// LoginURL returns the SIGAA login page URL.
func (c *Config) LoginURL() string {
	return c.BaseURL + "/sigaa/verTelaLogin.do"
}

// PortalHost returns the host part of BaseURL, used to recognize
// whether the browser is still on the portal.
func (c *Config) PortalHost() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return c.BaseURL
	}
	return u.Host
}

// DownloadDirs returns every directory scanned for freshly downloaded
// files, the canonical download directory first.
func (c *Config) DownloadDirs() []string {
	return append([]string{c.DownloadDir}, c.ExtraDownloadDirs...)
}

// EnsureDirs creates the download and screenshot directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DownloadDir, c.ScreenshotDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func defaultDataDir(sub string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", sub)
	}
	return filepath.Join(homeDir, ".sigaa-mcp", sub)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getDuration accepts Go duration strings ("90s", "2m") and, for
// compatibility with older deployments, bare integers meaning seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

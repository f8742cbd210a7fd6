package config

import (
	"flag"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v6"
)

const (
	defaultServerAddress = ":8080"
	defaultCodeLength    = 6
	defaultLogLevel      = "info"
	defaultTLSCacheDir   = "certs"

	minCodeLength = 4
	maxCodeLength = 32
)

type Config struct {
	ServerAddress     string   `env:"SERVER_ADDRESS"`
	BaseURL           string   `env:"BASE_URL"`
	FileStoragePath   string   `env:"FILE_STORAGE_PATH"`
	DatabaseDSN       string   `env:"DATABASE_DSN"`
	ShortCodeLength   int      `env:"SHORT_CODE_LENGTH"`
	ShortenPassword   string   `env:"SHORTEN_PASSWORD"`
	AnalyticsPassword string   `env:"ANALYTICS_PASSWORD"`
	CapSiteVerifyURL  string   `env:"CAP_SITEVERIFY_URL"`
	CapSecret         string   `env:"CAP_SECRET"`
	EnableHTTPS       bool     `env:"ENABLE_HTTPS"`
	TLSHosts          []string `env:"TLS_HOSTS" envSeparator:","`
	TLSCacheDir       string   `env:"TLS_CACHE_DIR"`
	LogLevel          string   `env:"LOG_LEVEL"`
}

// ParseFlags reads command-line flags and then the environment. Non-empty
// environment variables take precedence over flags.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.ServerAddress, "a", defaultServerAddress, "Address of the server")
	flag.StringVar(&cfg.BaseURL, "b", "", "Base URL for short URLs, derived from the request when empty")
	flag.StringVar(&cfg.FileStoragePath, "f", "", "Path to the JSON lines storage file")
	flag.StringVar(&cfg.DatabaseDSN, "d", "", "PostgreSQL connection string")
	flag.IntVar(&cfg.ShortCodeLength, "l", defaultCodeLength, "Length of generated short codes")
	flag.BoolVar(&cfg.EnableHTTPS, "s", false, "Serve HTTPS with autocert certificates")
	flag.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "Log level")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.applyDefaultValues()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if c.ShortCodeLength < minCodeLength || c.ShortCodeLength > maxCodeLength {
		return fmt.Errorf("short code length must be between %d and %d, got %d",
			minCodeLength, maxCodeLength, c.ShortCodeLength)
	}

	if c.BaseURL != "" {
		u, err := url.ParseRequestURI(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL)
		}
	}

	if c.EnableHTTPS && len(c.TLSHosts) == 0 {
		return fmt.Errorf("TLS hosts cannot be empty when HTTPS is enabled")
	}

	return nil
}

func (c *Config) applyDefaultValues() {
	if c.ServerAddress == "" {
		c.ServerAddress = defaultServerAddress
	}
	if c.ShortCodeLength == 0 {
		c.ShortCodeLength = defaultCodeLength
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.TLSCacheDir == "" {
		c.TLSCacheDir = defaultTLSCacheDir
	}
}

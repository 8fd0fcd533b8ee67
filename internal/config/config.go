// Package config provides configuration management for the leadcrawl
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/leadcrawl/internal/logger"
)

// defaultUserAgent identifies fetches as a regular desktop browser. Several
// small-business sites serve error pages to unknown agents.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Crawl defaults.
const (
	defaultFetchTimeout       = 12 * time.Second
	defaultMaxPagesPerCompany = 4
	defaultEnrichWorkers      = 1
)

// Server defaults.
const (
	defaultServerAddress      = ":8080"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
)

// ErrSMTPIncomplete is returned when live sending is requested without the
// full set of SMTP credentials.
var ErrSMTPIncomplete = errors.New("incomplete SMTP settings")

// Config represents the application configuration.
type Config struct {
	// Logger holds logger configuration.
	Logger logger.Config `mapstructure:"logger"`
	// Crawler holds fetch and enrichment configuration.
	Crawler CrawlerConfig `mapstructure:"crawler"`
	// Discovery holds search client configuration.
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	// Database holds PostgreSQL connection configuration.
	Database DatabaseConfig `mapstructure:"database"`
	// SMTP holds email delivery configuration.
	SMTP SMTPConfig `mapstructure:"smtp"`
	// Server holds HTTP server configuration.
	Server ServerConfig `mapstructure:"server"`
	// Outreach holds sequencing configuration.
	Outreach OutreachConfig `mapstructure:"outreach"`
}

// CrawlerConfig configures page fetching and enrichment.
type CrawlerConfig struct {
	// FetchTimeout bounds each HTTP fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// UserAgent is sent with every fetch.
	UserAgent string `mapstructure:"user_agent"`
	// MaxPagesPerCompany bounds contact subpages fetched beyond the homepage.
	MaxPagesPerCompany int `mapstructure:"max_pages_per_company"`
	// EnrichWorkers sizes the enrichment worker pool. 1 means sequential.
	EnrichWorkers int `mapstructure:"enrich_workers"`
}

// DiscoveryConfig configures the search client.
type DiscoveryConfig struct {
	// SearchEndpoint, when set, is tried before the built-in endpoints.
	// Must contain a {query} placeholder.
	SearchEndpoint string `mapstructure:"search_endpoint"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the connection string for the configured database.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SMTPConfig holds email delivery settings. All fields except UseTLS are
// required for live sending; dry-run sending needs none of them.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// Validate checks that the settings required for live delivery are present.
func (c *SMTPConfig) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.From == "" {
		missing = append(missing, "from")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrSMTPIncomplete, missing)
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// SendCron schedules the due-action send loop, cron syntax.
	SendCron string `mapstructure:"send_cron"`
}

// OutreachConfig holds sequencing settings.
type OutreachConfig struct {
	// ValueProp is interpolated into outreach message templates.
	ValueProp string `mapstructure:"value_prop"`
}

// setDefaults registers default configuration values with Viper.
func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")

	viper.SetDefault("crawler.fetch_timeout", defaultFetchTimeout)
	viper.SetDefault("crawler.user_agent", defaultUserAgent)
	viper.SetDefault("crawler.max_pages_per_company", defaultMaxPagesPerCompany)
	viper.SetDefault("crawler.enrich_workers", defaultEnrichWorkers)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "leadcrawl")
	viper.SetDefault("database.dbname", "leadcrawl")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.use_tls", true)

	viper.SetDefault("server.address", defaultServerAddress)
	viper.SetDefault("server.read_timeout", defaultServerReadTimeout)
	viper.SetDefault("server.write_timeout", defaultServerWriteTimeout)
	viper.SetDefault("server.send_cron", "0 9 * * *")
}

// bindEnvVars maps legacy environment variable names to config keys. The
// dotted keys are already reachable through AutomaticEnv with the "." -> "_"
// replacer; these aliases keep older deployment scripts working.
func bindEnvVars() error {
	binds := map[string][]string{
		"logger.level":                  {"LOG_LEVEL"},
		"logger.encoding":               {"LOG_FORMAT"},
		"crawler.fetch_timeout":         {"OUTREACH_TIMEOUT"},
		"crawler.user_agent":            {"OUTREACH_USER_AGENT"},
		"crawler.max_pages_per_company": {"OUTREACH_MAX_PAGES"},
		"discovery.search_endpoint":     {"OUTREACH_SEARCH_ENDPOINT"},
		"database.host":                 {"DB_HOST"},
		"database.port":                 {"DB_PORT"},
		"database.user":                 {"DB_USER"},
		"database.password":             {"DB_PASSWORD"},
		"database.dbname":               {"DB_NAME"},
		"smtp.host":                     {"SMTP_HOST"},
		"smtp.port":                     {"SMTP_PORT"},
		"smtp.username":                 {"SMTP_USER"},
		"smtp.password":                 {"SMTP_PASS"},
		"smtp.from":                     {"SMTP_FROM"},
		"smtp.use_tls":                  {"SMTP_TLS"},
	}

	for key, envs := range binds {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Init registers defaults and environment bindings with Viper. Call once
// before Load, after the config file (if any) has been selected.
func Init() error {
	setDefaults()
	return bindEnvVars()
}

// Load decodes the current Viper state into a Config.
func Load() (*Config, error) {
	var cfg Config

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if cfg.Crawler.MaxPagesPerCompany < 0 {
		return nil, fmt.Errorf("crawler.max_pages_per_company must not be negative")
	}
	if cfg.Crawler.EnrichWorkers < 1 {
		cfg.Crawler.EnrichWorkers = defaultEnrichWorkers
	}

	return &cfg, nil
}

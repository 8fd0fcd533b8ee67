//nolint:testpackage // Defaults and env bindings live on package globals.
package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	if cfg.Logger.Level != "info" {
		t.Errorf("logger.level = %q, want info", cfg.Logger.Level)
	}
	if cfg.Crawler.FetchTimeout != 12*time.Second {
		t.Errorf("crawler.fetch_timeout = %v", cfg.Crawler.FetchTimeout)
	}
	if cfg.Crawler.MaxPagesPerCompany != 4 {
		t.Errorf("crawler.max_pages_per_company = %d", cfg.Crawler.MaxPagesPerCompany)
	}
	if cfg.Crawler.EnrichWorkers != 1 {
		t.Errorf("crawler.enrich_workers = %d", cfg.Crawler.EnrichWorkers)
	}
	if !strings.Contains(cfg.Crawler.UserAgent, "Mozilla/5.0") {
		t.Errorf("crawler.user_agent = %q", cfg.Crawler.UserAgent)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != "5432" {
		t.Errorf("database defaults = %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.SMTP.Port != 587 || !cfg.SMTP.UseTLS {
		t.Errorf("smtp defaults = %+v", cfg.SMTP)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("server.address = %q", cfg.Server.Address)
	}
	if cfg.Server.SendCron != "0 9 * * *" {
		t.Errorf("server.send_cron = %q", cfg.Server.SendCron)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("OUTREACH_MAX_PAGES", "2")
	t.Setenv("LOG_LEVEL", "debug")

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Crawler.MaxPagesPerCompany != 2 {
		t.Errorf("crawler.max_pages_per_company = %d, want 2", cfg.Crawler.MaxPagesPerCompany)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("logger.level = %q, want debug", cfg.Logger.Level)
	}
}

func TestLoadRejectsNegativeMaxPages(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	viper.Set("crawler.max_pages_per_company", -1)

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for negative max_pages_per_company")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "leadcrawl",
		Password: "secret",
		DBName:   "leadcrawl",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=leadcrawl password=secret dbname=leadcrawl sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestSMTPValidate(t *testing.T) {
	complete := SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "outreach@example.com",
	}
	if err := complete.Validate(); err != nil {
		t.Errorf("Validate() error = %v for complete config", err)
	}

	incomplete := SMTPConfig{Host: "smtp.example.com"}
	err := incomplete.Validate()
	if !errors.Is(err, ErrSMTPIncomplete) {
		t.Fatalf("Validate() error = %v, want ErrSMTPIncomplete", err)
	}
	for _, field := range []string{"username", "password", "from"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error %q missing field %q", err.Error(), field)
		}
	}
}

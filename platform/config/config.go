// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// UploadConfig provides settings for the upload endpoints.
type UploadConfig interface {
	GetUploadMaxFileSize() int64
	GetUploadRatePerMinute() int
	GetUploadRateBurst() int
}

// ReportConfig provides settings for the report endpoints.
type ReportConfig interface {
	GetReportDefaultRangeDays() int
	GetExpectedGrossMargin() float64
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	UploadMaxFileSize      int64
	UploadRatePerMinute    int
	UploadRateBurst        int
	ReportDefaultRangeDays int
	ExpectedGrossMargin    float64
}

// GetDatabaseURL returns the database connection string.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// GetCORSAllowAll reports whether all origins are allowed.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins returns the allowed CORS origins.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetCORSAllowCreds reports whether credentials are allowed on CORS requests.
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

// GetUploadMaxFileSize returns the maximum accepted upload size in bytes.
func (c *Config) GetUploadMaxFileSize() int64 { return c.UploadMaxFileSize }

// GetUploadRatePerMinute returns how many uploads per minute one IP may send.
func (c *Config) GetUploadRatePerMinute() int { return c.UploadRatePerMinute }

// GetUploadRateBurst returns the upload rate limiter burst size.
func (c *Config) GetUploadRateBurst() int { return c.UploadRateBurst }

// GetReportDefaultRangeDays returns the default report window when no date
// range is supplied.
func (c *Config) GetReportDefaultRangeDays() int { return c.ReportDefaultRangeDays }

// GetExpectedGrossMargin returns the expected gross margin used by the
// marketing campaign report. The 0.432 default comes from the legacy
// spreadsheet.
func (c *Config) GetExpectedGrossMargin() float64 { return c.ExpectedGrossMargin }

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		UploadMaxFileSize:      mustInt64(getEnv("UPLOAD_MAX_FILE_SIZE", "16777216")),
		UploadRatePerMinute:    mustInt(getEnv("UPLOAD_RATE_PER_MINUTE", "30")),
		UploadRateBurst:        mustInt(getEnv("UPLOAD_RATE_BURST", "10")),
		ReportDefaultRangeDays: mustInt(getEnv("REPORT_DEFAULT_RANGE_DAYS", "30")),
		ExpectedGrossMargin:    mustFloat(getEnv("EXPECTED_GROSS_MARGIN", "0.432")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, v := range values {
		if v == "*" {
			return true
		}
	}
	return false
}

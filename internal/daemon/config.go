package daemon

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultDataDir         = "data"
	defaultGRPCListenAddr  = "127.0.0.1:7070"
	defaultHTTPListenAddr  = ":8080"
	defaultAllowedOrigin   = "http://localhost:8000"
	defaultJWTIssuer       = "tauth"
	defaultJWTCookieName   = "app_session"
	defaultAdminRole       = "admin"
	defaultRequestTimeout  = 5 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Config aggregates runtime settings for the record store daemon.
type Config struct {
	DataDir          string
	GRPCListenAddr   string
	HTTPListenAddr   string
	AuditDatabaseURL string
	AllowedOrigins   []string
	JWTSigningKey    string
	JWTIssuer        string
	JWTCookieName    string
	AdminRoles       []string
	ServiceTokenKey  string
	ServiceIssuer    string
	LogDevelopment   bool
	RequestTimeout   time.Duration
}

// Validate fills defaults and ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.DataDir = defaultIfEmpty(cfg.DataDir, defaultDataDir)
	cfg.GRPCListenAddr = defaultIfEmpty(cfg.GRPCListenAddr, defaultGRPCListenAddr)
	cfg.HTTPListenAddr = defaultIfEmpty(cfg.HTTPListenAddr, defaultHTTPListenAddr)
	cfg.JWTIssuer = defaultIfEmpty(cfg.JWTIssuer, defaultJWTIssuer)
	cfg.JWTCookieName = defaultIfEmpty(cfg.JWTCookieName, defaultJWTCookieName)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if len(cfg.AdminRoles) == 0 {
		cfg.AdminRoles = []string{defaultAdminRole}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(cfg.JWTSigningKey) == "" {
		return fmt.Errorf("jwt signing key is required")
	}
	return nil
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ParseList splits comma-delimited values into a slice, dropping blanks.
func ParseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

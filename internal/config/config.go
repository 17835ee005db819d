// Package config loads ReelNotes configuration from flags, environment variables and a .env file.
package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Data     DataConfig
	Identity IdentityConfig
	TMDB     TMDBConfig
	Cache    CacheConfig
	Blog     BlogConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port                string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	CORSOrigins         []string
	PublicRatePerMinute int // per-IP limit on public post reads
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	BasePath string // sqlite database, cache and search index live under here
}

// IdentityConfig configures verification of identity-provider tokens.
type IdentityConfig struct {
	TokenKey    string   // PASETO v4 symmetric key, 64 hex characters
	AdminEmails []string // lowercased
}

// TMDBConfig configures the external movie metadata provider.
type TMDBConfig struct {
	APIKey        string // provider disabled when empty
	BaseURL       string
	ImageBaseURL  string
	EnrichTimeout time.Duration
}

// CacheConfig configures the taxonomy cache.
type CacheConfig struct {
	TaxonomyTTL time.Duration
}

// BlogConfig configures blog post regeneration and publishing.
type BlogConfig struct {
	Debounce time.Duration
	Workers  int
	SiteURL  string
}

// Enabled reports whether an API key is configured.
func (c TMDBConfig) Enabled() bool {
	return c.APIKey != ""
}

// IsAdmin reports whether email is listed in ADMIN_EMAILS.
func (c IdentityConfig) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("reelnotes", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for database, cache and search index")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	tmdbKey := fs.String("tmdb-api-key", "", "TMDB API key")
	enrichTimeout := fs.String("tmdb-enrich-timeout", "", "Metadata enrichment timeout (default: 5s)")
	taxonomyTTL := fs.String("taxonomy-cache-ttl", "", "Tag/category list cache TTL (default: 24h)")
	regenDebounce := fs.String("blog-regen-debounce", "", "Blog regeneration debounce window (default: 250ms)")
	regenWorkers := fs.String("blog-regen-workers", "", "Blog regeneration workers (default: 4)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine; variables already in the environment are not overridden.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:                getConfigValue(*port, "PORT", "8080"),
			CORSOrigins:         splitList(getConfigValue("", "CORS_ORIGINS", "*")),
			PublicRatePerMinute: getIntConfigValue("", "PUBLIC_RATE_PER_MINUTE", 120),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", "./data"),
		},
		Identity: IdentityConfig{
			TokenKey:    getConfigValue("", "IDENTITY_TOKEN_KEY", ""),
			AdminEmails: lowerAll(splitList(getConfigValue("", "ADMIN_EMAILS", ""))),
		},
		TMDB: TMDBConfig{
			APIKey:       getConfigValue(*tmdbKey, "TMDB_API_KEY", ""),
			BaseURL:      getConfigValue("", "TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getConfigValue("", "TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		},
		Blog: BlogConfig{
			Workers: getIntConfigValue(*regenWorkers, "BLOG_REGEN_WORKERS", 4),
			SiteURL: strings.TrimRight(getConfigValue("", "BLOG_SITE_URL", "http://localhost:8080"), "/"),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dst                    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*enrichTimeout, "TMDB_ENRICH_TIMEOUT", "5s", &cfg.TMDB.EnrichTimeout},
		{*taxonomyTTL, "TAXONOMY_CACHE_TTL", "24h", &cfg.Cache.TaxonomyTTL},
		{*regenDebounce, "BLOG_REGEN_DEBOUNCE", "250ms", &cfg.Blog.Debounce},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	expanded, err := expandPath(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	cfg.Data.BasePath = expanded

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var portRe = regexp.MustCompile(`^[0-9]{1,5}$`)

// Validate checks that all required values are present and well formed.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if !portRe.MatchString(c.Server.Port) {
		return fmt.Errorf("invalid port: %q", c.Server.Port)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty")
	}

	if len(c.Identity.TokenKey) != 64 {
		return errors.New("IDENTITY_TOKEN_KEY must be 64 hex characters")
	}
	if _, err := hex.DecodeString(c.Identity.TokenKey); err != nil {
		return fmt.Errorf("IDENTITY_TOKEN_KEY is not valid hex: %w", err)
	}

	if c.TMDB.EnrichTimeout <= 0 {
		return errors.New("TMDB_ENRICH_TIMEOUT must be positive")
	}
	if c.Cache.TaxonomyTTL <= 0 {
		return errors.New("TAXONOMY_CACHE_TTL must be positive")
	}
	if c.Blog.Workers < 1 {
		return errors.New("BLOG_REGEN_WORKERS must be at least 1")
	}
	if c.Blog.Debounce < 0 {
		return errors.New("BLOG_REGEN_DEBOUNCE cannot be negative")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
// Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

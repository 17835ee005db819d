package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenKey = strings.Repeat("ab", 32)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Server:   ServerConfig{Port: "8080"},
		Data:     DataConfig{BasePath: "/var/lib/reelnotes"},
		Identity: IdentityConfig{TokenKey: testTokenKey},
		TMDB:     TMDBConfig{EnrichTimeout: 5 * time.Second},
		Cache:    CacheConfig{TaxonomyTTL: 24 * time.Hour},
		Blog:     BlogConfig{Workers: 4, Debounce: 250 * time.Millisecond},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }, "invalid log level"},
		{"bad port", func(c *Config) { c.Server.Port = "http" }, "invalid port"},
		{"short token key", func(c *Config) { c.Identity.TokenKey = "abcd" }, "IDENTITY_TOKEN_KEY"},
		{"non-hex token key", func(c *Config) { c.Identity.TokenKey = strings.Repeat("zz", 32) }, "not valid hex"},
		{"zero enrich timeout", func(c *Config) { c.TMDB.EnrichTimeout = 0 }, "TMDB_ENRICH_TIMEOUT"},
		{"zero cache ttl", func(c *Config) { c.Cache.TaxonomyTTL = 0 }, "TAXONOMY_CACHE_TTL"},
		{"no workers", func(c *Config) { c.Blog.Workers = 0 }, "BLOG_REGEN_WORKERS"},
		{"negative debounce", func(c *Config) { c.Blog.Debounce = -time.Second }, "BLOG_REGEN_DEBOUNCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_TOKEN_KEY", testTokenKey)
	dataDir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.Data.BasePath)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TaxonomyTTL)
	assert.Equal(t, 5*time.Second, cfg.TMDB.EnrichTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Blog.Debounce)
	assert.Equal(t, 4, cfg.Blog.Workers)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.TMDB.Enabled())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("IDENTITY_TOKEN_KEY", testTokenKey)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("TAXONOMY_CACHE_TTL", "1h")
	dataDir := t.TempDir()

	cfg, err := Load([]string{
		"-env-file", filepath.Join(dataDir, "missing.env"),
		"-data-path", dataDir,
		"-log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level, "flag wins over env")
	assert.Equal(t, time.Hour, cfg.Cache.TaxonomyTTL, "env wins over default")
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("IDENTITY_TOKEN_KEY", testTokenKey)
	require.NoError(t, os.Unsetenv("ADMIN_EMAILS"))
	t.Cleanup(func() { _ = os.Unsetenv("ADMIN_EMAILS") })

	dataDir := t.TempDir()
	envFile := filepath.Join(dataDir, ".env")
	content := "# local overrides\nADMIN_EMAILS=\"Root@Example.com, editor@example.com\"\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load([]string{"-env-file", envFile, "-data-path", dataDir})
	require.NoError(t, err)

	assert.Equal(t, []string{"root@example.com", "editor@example.com"}, cfg.Identity.AdminEmails)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("IDENTITY_TOKEN_KEY", testTokenKey)
	t.Setenv("BLOG_REGEN_DEBOUNCE", "soon")
	dataDir := t.TempDir()

	_, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOG_REGEN_DEBOUNCE")
}

func TestLoad_MissingTokenKey(t *testing.T) {
	t.Setenv("IDENTITY_TOKEN_KEY", "")
	dataDir := t.TempDir()

	_, err := Load([]string{"-env-file", filepath.Join(dataDir, "missing.env"), "-data-path", dataDir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_TOKEN_KEY")
}

func TestIdentityConfig_IsAdmin(t *testing.T) {
	cfg := IdentityConfig{AdminEmails: []string{"root@example.com"}}

	assert.True(t, cfg.IsAdmin("root@example.com"))
	assert.True(t, cfg.IsAdmin("  ROOT@example.com "))
	assert.False(t, cfg.IsAdmin("bob@example.com"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "REELNOTES_TEST_KEY", "default"))

	t.Setenv("REELNOTES_TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "REELNOTES_TEST_KEY", "default"))

	assert.Equal(t, "default", getConfigValue("", "REELNOTES_NONEXISTENT_KEY", "default"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/reelnotes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "reelnotes"), got)

	got, err = expandPath("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

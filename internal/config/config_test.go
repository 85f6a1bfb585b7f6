package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MaxResultsCap(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Search:   SearchConfig{MaxResults: 100},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for max_results above the cap")
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		t.Run("level="+level, func(t *testing.T) {
			cfg := Config{
				Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
				Logging:  LoggingConfig{Level: level},
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid level %q: %v", level, err)
			}
		})
	}

	cfg := Config{
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Logging:  LoggingConfig{Level: "verbose"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Storage.KeyPrefix != "mediadex:" {
		t.Errorf("expected KeyPrefix=mediadex:, got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("expected MaxResults=50, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.CacheEmptySec != 5 {
		t.Errorf("expected CacheEmptySec=5, got %d", cfg.Search.CacheEmptySec)
	}
	if cfg.Search.CacheDefaultSec != 300 {
		t.Errorf("expected CacheDefaultSec=300, got %d", cfg.Search.CacheDefaultSec)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("expected MaxRequests=10, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSec != 60 {
		t.Errorf("expected WindowSec=60, got %d", cfg.RateLimit.WindowSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Storage:   StorageConfig{KeyPrefix: "custom:"},
		Search:    SearchConfig{MaxResults: 25},
		RateLimit: RateLimitConfig{MaxRequests: 3, WindowSec: 30},
	}
	cfg.ApplyDefaults()

	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("explicit prefix overwritten: %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("explicit max_results overwritten: %d", cfg.Search.MaxResults)
	}
	if cfg.RateLimit.MaxRequests != 3 || cfg.RateLimit.WindowSec != 30 {
		t.Errorf("explicit rate limit overwritten: %+v", cfg.RateLimit)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := []byte(`
database:
  addrs: ["${MEDIADEX_TEST_ADDR:-localhost:6379}"]
  password: "${MEDIADEX_TEST_PASSWORD}"
storage:
  key_prefix: "test:"
`)
	if err := os.WriteFile(filepath.Join(configDir, "test.yaml"), content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MEDIADEX_TEST_PASSWORD", "s3cret")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("default substitution failed: %v", cfg.Database.Addrs)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("env substitution failed: %q", cfg.Database.Password)
	}
	if cfg.Storage.KeyPrefix != "test:" {
		t.Errorf("unexpected prefix: %q", cfg.Storage.KeyPrefix)
	}
}

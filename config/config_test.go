package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret-key-for-unit-testing
session:
  secret: 0123456789abcdef0123456789abcdef
db:
  name: school_scan_test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Name != "school_scan_test" {
		t.Errorf("expected db name from file, got %s", cfg.Database.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != 12*time.Hour {
		t.Errorf("expected default ttl 12h, got %s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Session.MaxAge != 8*time.Hour {
		t.Errorf("expected default session max age 8h, got %s", cfg.Session.MaxAge)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret-key-for-unit-testing
session:
  secret: 0123456789abcdef0123456789abcdef
server:
  port: 9000
`)
	t.Setenv("SCAN_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env port 9100, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Auth:    AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
			Session: SessionConfig{Secret: "0123456789abcdef0123456789abcdef", SameSite: "Lax"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"short session secret", func(c *Config) { c.Session.Secret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad same site", func(c *Config) { c.Session.SameSite = "sometimes" }, true},
		{"matching timezones", func(c *Config) {
			c.Database.Timezone = "Asia/Manila"
			c.School.Timezone = "Asia/Manila"
		}, false},
		{"db timezone differs from school", func(c *Config) {
			c.Database.Timezone = "UTC"
			c.School.Timezone = "Asia/Manila"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_RejectsMismatchedTimezones(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret-key-for-unit-testing
session:
  secret: 0123456789abcdef0123456789abcdef
db:
  timezone: UTC
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when db.timezone differs from school.timezone")
	}
}

func TestSchoolConfig_Location(t *testing.T) {
	c := SchoolConfig{Timezone: "Asia/Manila"}
	if c.Location().String() != "Asia/Manila" {
		t.Errorf("expected Asia/Manila, got %s", c.Location())
	}
	bad := SchoolConfig{Timezone: "Not/AZone"}
	if bad.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %s", bad.Location())
	}
}

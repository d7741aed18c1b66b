package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if cfg.CacheTTL.Sandbox >= cfg.CacheTTL.Organization {
		t.Error("sandbox TTL should be shorter than organization TTL")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api_url: https://kai.example.com
timeout: 10s
cache_ttl:
  sandbox: 30s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://kai.example.com" {
		t.Errorf("api_url not read: %s", cfg.APIURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout not read: %v", cfg.Timeout)
	}
	if cfg.CacheTTL.Sandbox != 30*time.Second {
		t.Errorf("nested ttl not read: %v", cfg.CacheTTL.Sandbox)
	}
	// Unset fields keep defaults.
	if cfg.CacheTTL.Organization != 10*time.Minute {
		t.Errorf("default ttl lost: %v", cfg.CacheTTL.Organization)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.APIURL != Default().APIURL {
		t.Errorf("expected default api_url, got %s", cfg.APIURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.APIURL = "" }, true},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative poll", func(c *Config) { c.PollInterval = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTTLFor(t *testing.T) {
	cfg := Default()
	if cfg.TTLFor("sandboxes") != cfg.CacheTTL.Sandbox {
		t.Error("sandboxes should use the sandbox TTL")
	}
	if cfg.TTLFor("organizations") != cfg.CacheTTL.Organization {
		t.Error("organizations should use the organization TTL")
	}
	if cfg.TTLFor("projects") != cfg.CacheTTL.Default {
		t.Error("other types should use the default TTL")
	}
}

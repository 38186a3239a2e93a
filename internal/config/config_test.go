package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every variable Load consults so the developer's environment
// cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envConfig, "")
	for _, key := range []string{"TWITCH_CLIENT_ID", "TWITCH_CLIENT_SECRET", "TWITCH_ACCESS_TOKEN"} {
		t.Setenv(key, "")
	}
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, envPrefix+"_") && key != envConfig {
			t.Setenv(key, "")
		}
	}
}

func writeConfig(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %s", cfg.File)
	}
	if cfg.Integration.Name != "twitch" || cfg.Integration.Mode != ModeHelix {
		t.Fatalf("unexpected integration defaults: %+v", cfg.Integration)
	}
	if cfg.Panel.PageSize != 100 || cfg.Panel.MaxPages != 500 || cfg.Panel.MaxItems != 50000 {
		t.Fatalf("unexpected paging defaults: %+v", cfg.Panel)
	}
	if cfg.Panel.ThumbnailWidth != 30 || cfg.Panel.ThumbnailHeight != 40 {
		t.Fatalf("unexpected thumbnail defaults: %+v", cfg.Panel)
	}
	if cfg.Twitch.HelixURL != "https://api.twitch.tv/helix" {
		t.Fatalf("unexpected helix url %s", cfg.Twitch.HelixURL)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Timeout())
	}
	if cfg.Log.Level != "info" || cfg.Log.MaxFiles != 3 || cfg.Log.MaxSizeMB != 5 {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadHonoursFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `{
		"integration": {"mode": "Gateway", "gateway_url": "http://127.0.0.1:8787/", "timeout_seconds": 3},
		"panel": {"identity": " 44322889 ", "login": "Caster", "page_size": 20},
		"log": {"level": "DEBUG"},
		"stub": {"delay_ms": 250}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.File != path {
		t.Fatalf("expected file %s, got %s", path, cfg.File)
	}
	if cfg.Integration.Mode != ModeGateway || cfg.Integration.GatewayURL != "http://127.0.0.1:8787" {
		t.Fatalf("integration overrides not applied: %+v", cfg.Integration)
	}
	if cfg.Timeout() != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Timeout())
	}
	if cfg.Panel.Identity != "44322889" || cfg.Panel.Login != "caster" || cfg.Panel.PageSize != 20 {
		t.Fatalf("panel overrides not applied: %+v", cfg.Panel)
	}
	if cfg.Panel.MaxPages != 500 {
		t.Fatalf("expected untouched default max_pages, got %d", cfg.Panel.MaxPages)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected normalised level, got %s", cfg.Log.Level)
	}
	if cfg.Stub.Delay() != 250*time.Millisecond {
		t.Fatalf("expected 250ms delay, got %s", cfg.Stub.Delay())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `{"panel": {"page_size": 20}}`)
	t.Setenv("CHANNEL_PANEL_PANEL_PAGE_SIZE", "25")
	t.Setenv("CHANNEL_PANEL_INTEGRATION_NAME", "kick")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Panel.PageSize != 25 {
		t.Fatalf("expected env page size 25, got %d", cfg.Panel.PageSize)
	}
	if cfg.Integration.Name != "kick" {
		t.Fatalf("expected env integration name, got %s", cfg.Integration.Name)
	}
}

func TestLoadUsesConfigEnvPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `{"panel": {"login": "viaenv"}}`)
	t.Setenv(envConfig, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Panel.Login != "viaenv" {
		t.Fatalf("expected login from CHANNEL_PANEL_CONFIG file, got %q", cfg.Panel.Login)
	}
}

func TestLoadFindsUserConfigDir(t *testing.T) {
	isolate(t)
	base := os.Getenv("XDG_CONFIG_HOME")
	dir := filepath.Join(base, "channel-panel")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := writeConfig(t, dir, `{"panel": {"identity": "found"}}`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Panel.Identity != "found" || cfg.File != path {
		t.Fatalf("expected discovered config %s, got identity %q from %q", path, cfg.Panel.Identity, cfg.File)
	}
}

func TestLoadTwitchEnvFallbacks(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `{
		"twitch": {"client_id": "YOUR_TWITCH_CLIENT_ID_HERE", "client_secret": "from-file"}
	}`)
	t.Setenv("TWITCH_CLIENT_ID", "env-id")
	t.Setenv("TWITCH_CLIENT_SECRET", "env-secret")
	t.Setenv("TWITCH_ACCESS_TOKEN", " env-token ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Twitch.ClientID != "env-id" {
		t.Fatalf("expected placeholder replaced by env, got %s", cfg.Twitch.ClientID)
	}
	if cfg.Twitch.ClientSecret != "from-file" {
		t.Fatalf("expected file secret to win, got %s", cfg.Twitch.ClientSecret)
	}
	if cfg.Twitch.AccessToken != "env-token" {
		t.Fatalf("expected trimmed env token, got %q", cfg.Twitch.AccessToken)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `{"panel":`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"unknown mode": {
			mutate: func(c *Config) { c.Integration.Mode = "carrier-pigeon" },
			want:   "integration.mode",
		},
		"gateway without url": {
			mutate: func(c *Config) { c.Integration.Mode = ModeGateway },
			want:   "gateway_url",
		},
		"negative paging": {
			mutate: func(c *Config) { c.Panel.MaxItems = -1 },
			want:   "cannot be negative",
		},
		"missing integration": {
			mutate: func(c *Config) { c.Integration.Name = "" },
			want:   "integration.name",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Config{Integration: IntegrationConfig{Name: "twitch", Mode: ModeHelix}}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

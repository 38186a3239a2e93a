// Package config loads channel-panel settings from an optional JSON file,
// CHANNEL_PANEL_* environment variables and the Twitch credential fallbacks.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeHelix   = "helix"
	ModeGateway = "gateway"

	envPrefix  = "CHANNEL_PANEL"
	envConfig  = "CHANNEL_PANEL_CONFIG"
	configName = "config"
)

// IntegrationConfig selects how the panel reaches the platform.
type IntegrationConfig struct {
	Name           string `mapstructure:"name"`
	Mode           string `mapstructure:"mode"`
	GatewayURL     string `mapstructure:"gateway_url"`
	GatewayToken   string `mapstructure:"gateway_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// TwitchConfig holds Helix credentials and endpoints.
type TwitchConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AccessToken  string `mapstructure:"access_token"`
	HelixURL     string `mapstructure:"helix_url"`
	TokenURL     string `mapstructure:"token_url"`
}

// PanelConfig tunes the form and catalog loading.
type PanelConfig struct {
	Identity        string `mapstructure:"identity"`
	Login           string `mapstructure:"login"`
	PageSize        int    `mapstructure:"page_size"`
	MaxPages        int    `mapstructure:"max_pages"`
	MaxItems        int    `mapstructure:"max_items"`
	ThumbnailWidth  int    `mapstructure:"thumbnail_width"`
	ThumbnailHeight int    `mapstructure:"thumbnail_height"`
}

// LogConfig controls the rotating JSON log file.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Dir       string `mapstructure:"dir"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// StubConfig configures the local gateway stub.
type StubConfig struct {
	Addr        string `mapstructure:"addr"`
	CatalogSize int    `mapstructure:"catalog_size"`
	PageSize    int    `mapstructure:"page_size"`
	DelayMS     int    `mapstructure:"delay_ms"`
	Title       string `mapstructure:"title"`
	Category    string `mapstructure:"category"`
}

// Config represents the combined runtime settings.
type Config struct {
	Integration IntegrationConfig `mapstructure:"integration"`
	Twitch      TwitchConfig      `mapstructure:"twitch"`
	Panel       PanelConfig       `mapstructure:"panel"`
	Log         LogConfig         `mapstructure:"log"`
	Stub        StubConfig        `mapstructure:"stub"`

	// File is the config file that was read, or "" when none was found.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("integration.name", "twitch")
	v.SetDefault("integration.mode", ModeHelix)
	v.SetDefault("integration.gateway_url", "")
	v.SetDefault("integration.gateway_token", "")
	v.SetDefault("integration.timeout_seconds", 10)

	v.SetDefault("twitch.client_id", "")
	v.SetDefault("twitch.client_secret", "")
	v.SetDefault("twitch.access_token", "")
	v.SetDefault("twitch.helix_url", "https://api.twitch.tv/helix")
	v.SetDefault("twitch.token_url", "https://id.twitch.tv/oauth2/token")

	v.SetDefault("panel.identity", "")
	v.SetDefault("panel.login", "")
	v.SetDefault("panel.page_size", 100)
	v.SetDefault("panel.max_pages", 500)
	v.SetDefault("panel.max_items", 50000)
	v.SetDefault("panel.thumbnail_width", 30)
	v.SetDefault("panel.thumbnail_height", 40)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", defaultLogDir())
	v.SetDefault("log.file", "channel-panel.log")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_files", 3)

	v.SetDefault("stub.addr", "127.0.0.1:8787")
	v.SetDefault("stub.catalog_size", 250)
	v.SetDefault("stub.page_size", 100)
	v.SetDefault("stub.delay_ms", 0)
	v.SetDefault("stub.title", "Stub stream")
	v.SetDefault("stub.category", "Just Chatting")
}

// Load reads configuration. path wins over CHANNEL_PANEL_CONFIG; with neither,
// $XDG_CONFIG_HOME/channel-panel/config.json is used when present. An explicit
// file that cannot be read is an error, a missing default file is not.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")

	if path = strings.TrimSpace(path); path == "" {
		path = strings.TrimSpace(os.Getenv(envConfig))
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "channel-panel"))
		}
		v.AddConfigPath(".")
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	c.applyEnvFallbacks()
	c.normalise()

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyEnvFallbacks fills empty or placeholder Twitch credentials from the
// conventional TWITCH_* variables.
func (c *Config) applyEnvFallbacks() {
	if isPlaceholder(c.Twitch.ClientID, "YOUR_TWITCH_CLIENT_ID_HERE") {
		c.Twitch.ClientID = twitchEnvValue("TWITCH_CLIENT_ID")
	}
	if isPlaceholder(c.Twitch.ClientSecret, "YOUR_TWITCH_CLIENT_SECRET_HERE") {
		c.Twitch.ClientSecret = twitchEnvValue("TWITCH_CLIENT_SECRET")
	}
	if isPlaceholder(c.Twitch.AccessToken, "YOUR_TWITCH_ACCESS_TOKEN_HERE") {
		c.Twitch.AccessToken = twitchEnvValue("TWITCH_ACCESS_TOKEN")
	}
}

func (c *Config) normalise() {
	c.Integration.Name = strings.TrimSpace(c.Integration.Name)
	c.Integration.Mode = strings.ToLower(strings.TrimSpace(c.Integration.Mode))
	c.Integration.GatewayURL = strings.TrimRight(strings.TrimSpace(c.Integration.GatewayURL), "/")
	c.Panel.Identity = strings.TrimSpace(c.Panel.Identity)
	c.Panel.Login = strings.ToLower(strings.TrimSpace(c.Panel.Login))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Integration.TimeoutSeconds <= 0 {
		c.Integration.TimeoutSeconds = 10
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Integration.Mode {
	case ModeHelix:
	case ModeGateway:
		if c.Integration.GatewayURL == "" {
			return fmt.Errorf("integration.gateway_url is required in %s mode", ModeGateway)
		}
	default:
		return fmt.Errorf("integration.mode must be %q or %q, got %q", ModeHelix, ModeGateway, c.Integration.Mode)
	}
	if c.Integration.Name == "" {
		return fmt.Errorf("integration.name is required")
	}
	if c.Panel.PageSize < 0 || c.Panel.MaxPages < 0 || c.Panel.MaxItems < 0 {
		return fmt.Errorf("panel page_size, max_pages and max_items cannot be negative")
	}
	if c.Stub.CatalogSize < 0 || c.Stub.PageSize < 0 || c.Stub.DelayMS < 0 {
		return fmt.Errorf("stub catalog_size, page_size and delay_ms cannot be negative")
	}
	return nil
}

// Timeout is the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Integration.TimeoutSeconds) * time.Second
}

// Delay is the artificial latency added by the stub.
func (s StubConfig) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// LogPath is the active log file.
func (l LogConfig) LogPath() string {
	return filepath.Join(l.Dir, l.File)
}

func defaultLogDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "channel-panel")
	}
	return "logs"
}

func isPlaceholder(value, placeholder string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == placeholder
}

func twitchEnvValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

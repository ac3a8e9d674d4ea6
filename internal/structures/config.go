package structures

import (
	"livenotify/internal/models"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath string `yaml:"filePath" validate:"required"`
	Compress bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode    uint32 `yaml:"mode" validate:"required|uint"`
	Dir     string `yaml:"dir" validate:"required"`
	Console bool   `yaml:"console"`
}

// PollerConfig.Interval is in seconds.
type PollerConfig struct {
	Interval int `yaml:"interval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

type TelegramConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Token         string `yaml:"token"`
	APIEndpoint   string `yaml:"apiEndpoint"`
	UpdateTimeout int    `yaml:"updateTimeout"`
}

// PlatformConfig holds per-platform upstream settings. Timeout is in seconds.
// ClientID, ClientSecret, HelixURL and TokenURL are only read by the twitch adapter.
type PlatformConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BaseURL      string `yaml:"baseUrl"`
	Timeout      int    `yaml:"timeout"`
	Proxy        string `yaml:"proxy"`
	UserAgent    string `yaml:"userAgent"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	HelixURL     string `yaml:"helixUrl"`
	TokenURL     string `yaml:"tokenUrl"`
}

type PlatformsConfig struct {
	Douyu    PlatformConfig `yaml:"douyu"`
	Bilibili PlatformConfig `yaml:"bilibili"`
	Twitch   PlatformConfig `yaml:"twitch"`
}

func (p PlatformsConfig) For(platform models.Platform) (PlatformConfig, bool) {
	switch platform {
	case models.PlatformDouyu:
		return p.Douyu, true
	case models.PlatformBilibili:
		return p.Bilibili, true
	case models.PlatformTwitch:
		return p.Twitch, true
	}
	return PlatformConfig{}, false
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Poller      PollerConfig    `yaml:"poller"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Telegram    TelegramConfig  `yaml:"telegram"`
	Platforms   PlatformsConfig `yaml:"platforms"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

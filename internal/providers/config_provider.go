package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"livenotify/internal/structures"
)

const AppName = "LiveNotify"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("poller.interval", 60)

	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8090)

	v.SetDefault("persistence.filePath", "./data/subscriptions.json")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", 30)

	v.SetDefault("telegram.apiEndpoint", "https://api.telegram.org/bot%s/%s")
	v.SetDefault("telegram.updateTimeout", 60)

	v.SetDefault("platforms.douyu.enabled", true)
	v.SetDefault("platforms.douyu.baseUrl", "https://www.douyu.com")
	v.SetDefault("platforms.douyu.timeout", 10)

	v.SetDefault("platforms.bilibili.enabled", true)
	v.SetDefault("platforms.bilibili.baseUrl", "https://api.live.bilibili.com")
	v.SetDefault("platforms.bilibili.timeout", 10)

	v.SetDefault("platforms.twitch.enabled", true)
	v.SetDefault("platforms.twitch.baseUrl", "https://gql.twitch.tv/gql")
	v.SetDefault("platforms.twitch.helixUrl", "https://api.twitch.tv/helix")
	v.SetDefault("platforms.twitch.tokenUrl", "https://id.twitch.tv/oauth2/token")
	v.SetDefault("platforms.twitch.timeout", 10)
}

func bindConfigEnv(v *viper.Viper) {
	_ = v.BindEnv("logger.level", "LIVENOTIFY_LOG_LEVEL")
	_ = v.BindEnv("poller.interval", "LIVENOTIFY_POLL_INTERVAL", "CHECK_INTERVAL")
	_ = v.BindEnv("persistence.filePath", "LIVENOTIFY_DATA_FILE", "DATA_FILE")
	_ = v.BindEnv("persistence.compress", "LIVENOTIFY_DATA_COMPRESS")
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.enabled", "LIVENOTIFY_TELEGRAM_ENABLED")
	_ = v.BindEnv("platforms.twitch.clientId", "TWITCH_CLIENT_ID")
	_ = v.BindEnv("platforms.twitch.clientSecret", "TWITCH_CLIENT_SECRET")
	_ = v.BindEnv("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("cache.enabled", "LIVENOTIFY_CACHE_ENABLED")
	_ = v.BindEnv("metrics.enabled", "LIVENOTIFY_METRICS_ENABLED")
}

// NewConfigProvider reads the YAML file named by the flags, overlays the
// environment and validates the result. A missing file is not an error:
// defaults and environment are enough to run.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)
	bindConfigEnv(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", flags.ConfigPath, err)
			}
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	// A token in the environment is enough to turn the bot on.
	if conf.Telegram.Token != "" && !v.IsSet("telegram.enabled") {
		conf.Telegram.Enabled = true
	}

	if err := NewCnfValidator(&conf).Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

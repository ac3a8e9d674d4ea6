package providers

import (
	"errors"
	"fmt"

	"github.com/gookit/validate"

	"livenotify/internal/structures"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	if cv.conf.Telegram.Enabled && cv.conf.Telegram.Token == "" {
		return errors.New("invalid config: telegram.token is required when telegram is enabled")
	}

	p := cv.conf.Platforms
	if !p.Douyu.Enabled && !p.Bilibili.Enabled && !p.Twitch.Enabled {
		return errors.New("invalid config: at least one platform must be enabled")
	}
	for name, pc := range map[string]structures.PlatformConfig{"douyu": p.Douyu, "bilibili": p.Bilibili, "twitch": p.Twitch} {
		if pc.Enabled && pc.BaseURL == "" {
			return fmt.Errorf("invalid config: platforms.%s.baseUrl is required", name)
		}
	}

	if cv.conf.Tracing.Enabled && cv.conf.Tracing.Endpoint == "" {
		return errors.New("invalid config: tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

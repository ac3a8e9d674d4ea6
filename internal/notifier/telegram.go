package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/services"
	"livenotify/internal/structures"
)

// BotAPI is the part of tgbotapi.BotAPI the service uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewBotAPI connects to Telegram when enabled. The constructor calls getMe,
// so a bad token fails startup.
func NewBotAPI(conf *structures.Config, logger providers.Logger) (BotAPI, error) {
	if !conf.Telegram.Enabled {
		logger.Infof(providers.TypeBot, "Telegram disabled, notifications go to the log")
		return &noopBot{}, nil
	}

	client := &http.Client{Timeout: time.Duration(conf.Telegram.UpdateTimeout+10) * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(conf.Telegram.Token, conf.Telegram.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	bot.Debug = conf.Debug
	logger.Infof(providers.TypeBot, "Authorized on telegram as @%s", bot.Self.UserName)
	return bot, nil
}

type noopBot struct{}

func (n *noopBot) Send(_ tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, fmt.Errorf("telegram disabled")
}

func (n *noopBot) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (n *noopBot) StopReceivingUpdates() {}

// TelegramDeliverer sends go-live messages as Markdown chat messages.
type TelegramDeliverer struct {
	bot    BotAPI
	logger providers.Logger
}

func NewTelegramDeliverer(bot BotAPI, logger providers.Logger) *TelegramDeliverer {
	return &TelegramDeliverer{bot: bot, logger: logger}
}

func (d *TelegramDeliverer) Deliver(ctx context.Context, chatID string, n models.Notification) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(id, FormatLiveNotification(n))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := d.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", id, err)
	}
	d.logger.Debugf(providers.TypeNotify, "Sent %s:%s notification to %d", n.Platform, n.ChannelID, id)
	return nil
}

// LogDeliverer writes notifications to the notify log. Used when Telegram is
// disabled, e.g. when only the HTTP API is exposed.
type LogDeliverer struct {
	logger providers.Logger
}

func NewLogDeliverer(logger providers.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(_ context.Context, chatID string, n models.Notification) error {
	d.logger.Infof(providers.TypeNotify, "chat=%s %s:%s is live: %q by %s (%s, %d viewers) %s",
		chatID, n.Platform, n.ChannelID, n.Title, n.DisplayName, n.Category, n.ViewerCount, n.CanonicalURL)
	return nil
}

func NewDeliverer(conf *structures.Config, bot BotAPI, logger providers.Logger) services.DelivererInterface {
	if conf.Telegram.Enabled {
		return NewTelegramDeliverer(bot, logger)
	}
	return NewLogDeliverer(logger)
}

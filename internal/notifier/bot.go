package notifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/services"
	"livenotify/internal/structures"
)

// shortcut commands bind a platform to subscribe, unsubscribe and check.
var shortcuts = map[string]struct {
	platform models.Platform
	action   string
}{
	"dy":      {models.PlatformDouyu, "sub"},
	"dyun":    {models.PlatformDouyu, "unsub"},
	"dycheck": {models.PlatformDouyu, "check"},
	"bl":      {models.PlatformBilibili, "sub"},
	"blun":    {models.PlatformBilibili, "unsub"},
	"blcheck": {models.PlatformBilibili, "check"},
	"tw":      {models.PlatformTwitch, "sub"},
	"twun":    {models.PlatformTwitch, "unsub"},
	"twcheck": {models.PlatformTwitch, "check"},
}

const helpText = "🎮 *Live notify bot*\n\n" +
	"I message you when a followed channel goes live.\n\n" +
	"*Commands*\n" +
	"/sub <platform> <channel> - subscribe\n" +
	"/unsub <platform> <channel> - unsubscribe\n" +
	"/check <platform> <channel> - current status\n" +
	"/list - your subscriptions\n\n" +
	"*Shortcuts*\n" +
	"/dy /dyun /dycheck <room> - Douyu\n" +
	"/bl /blun /blcheck <room> - Bilibili\n" +
	"/tw /twun /twcheck <login> - Twitch\n\n" +
	"*Examples*\n" +
	"/dy 9999\n" +
	"/sub bilibili 21452505\n" +
	"/tw shroud"

// CommandBot long-polls Telegram updates and answers chat commands through
// the subscription service.
type CommandBot struct {
	bot     BotAPI
	service services.SubscriptionServiceInterface
	logger  providers.Logger
	enabled bool
	timeout int
	wg      sync.WaitGroup
}

func NewCommandBot(conf *structures.Config, bot BotAPI, service services.SubscriptionServiceInterface, logger providers.Logger) *CommandBot {
	return &CommandBot{
		bot:     bot,
		service: service,
		logger:  logger,
		enabled: conf.Telegram.Enabled,
		timeout: conf.Telegram.UpdateTimeout,
	}
}

// Start returns immediately; updates are handled on a background goroutine
// until ctx is cancelled or Stop is called.
func (b *CommandBot) Start(ctx context.Context) {
	if !b.enabled {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.bot.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.HandleUpdate(ctx, update)
			}
		}
	}()
	b.logger.Infof(providers.TypeBot, "Command bot listening for updates")
}

func (b *CommandBot) Stop() {
	if !b.enabled {
		return
	}
	b.bot.StopReceivingUpdates()
	b.wg.Wait()
}

func (b *CommandBot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.Chat == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf(providers.TypeBot, "Command /%s panicked: %v", msg.Command(), r)
		}
	}()

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	text, markdown := b.Route(ctx, chatID, msg.Command(), strings.Fields(msg.CommandArguments()))
	if text == "" {
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if markdown {
		reply.ParseMode = tgbotapi.ModeMarkdown
	}
	reply.DisableWebPagePreview = true
	if _, err := b.bot.Send(reply); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to reply to chat %s: %s", chatID, err)
	}
}

// Route maps a command to its reply text and whether it is Markdown.
// Unknown commands get no reply.
func (b *CommandBot) Route(ctx context.Context, chatID, command string, args []string) (string, bool) {
	command = strings.ToLower(command)
	b.logger.Debugf(providers.TypeBot, "chat=%s /%s %v", chatID, command, args)

	if sc, ok := shortcuts[command]; ok {
		if len(args) < 1 {
			return fmt.Sprintf("Usage: /%s <channel>", command), false
		}
		return b.dispatch(ctx, chatID, sc.action, string(sc.platform), args[0])
	}

	switch command {
	case "start", "help":
		return helpText, true
	case "list":
		return b.list(ctx, chatID), true
	case "sub", "unsub", "check":
		if len(args) < 2 {
			return fmt.Sprintf("Usage: /%s <platform> <channel>", command), false
		}
		return b.dispatch(ctx, chatID, command, args[0], args[1])
	}
	return "", false
}

func (b *CommandBot) dispatch(ctx context.Context, chatID, action, platform, channel string) (string, bool) {
	switch action {
	case "sub":
		info, added, err := b.service.Subscribe(ctx, chatID, platform, channel)
		if err != nil {
			return errorReply(platform, channel, err), false
		}
		p, _ := models.ParsePlatform(platform)
		if !added {
			return fmt.Sprintf("⚠️ You already follow %s channel %s", p.Title(), info.ChannelID), false
		}
		return FormatSubscribed(p, info), true
	case "unsub":
		removed, err := b.service.Unsubscribe(chatID, platform, channel)
		if err != nil {
			return errorReply(platform, channel, err), false
		}
		p, _ := models.ParsePlatform(platform)
		if !removed {
			return fmt.Sprintf("⚠️ You do not follow %s channel %s", p.Title(), channel), false
		}
		return fmt.Sprintf("✅ Unsubscribed from %s channel %s", p.Title(), channel), false
	case "check":
		info, err := b.service.Check(ctx, platform, channel)
		if err != nil {
			return errorReply(platform, channel, err), false
		}
		p, _ := models.ParsePlatform(platform)
		return FormatRoomStatus(p, info), true
	}
	return "", false
}

func (b *CommandBot) list(ctx context.Context, chatID string) string {
	subs := b.service.List(chatID)
	if subs.Empty() {
		return "📋 You are not following any channels yet. Send /help to get started."
	}

	var sb strings.Builder
	sb.WriteString("📋 *Subscriptions*\n")
	for _, p := range models.AllPlatforms {
		channels := subs[p]
		if len(channels) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n*%s*\n", platformLabel(p))
		for _, id := range channels {
			info, err := b.service.Check(ctx, string(p), id)
			if err != nil {
				fmt.Fprintf(&sb, "❓ %s (lookup failed)\n", esc(id))
				continue
			}
			badge := "⚫"
			if info.IsLive {
				badge = "🔴"
			}
			fmt.Fprintf(&sb, "%s [%s](%s) (%s)\n", badge, esc(info.DisplayName), info.CanonicalURL, esc(id))
		}
	}
	return sb.String()
}

func errorReply(platform, channel string, err error) string {
	switch {
	case errors.Is(err, services.ErrUnsupportedPlatform):
		return fmt.Sprintf("❌ Unsupported platform %q. Use douyu, bilibili or twitch.", platform)
	case errors.Is(err, services.ErrInvalidChannel):
		return fmt.Sprintf("❌ %q is not a valid channel id", channel)
	case errors.Is(err, services.ErrChannelNotFound):
		return fmt.Sprintf("❌ Channel %s does not exist", channel)
	}
	return fmt.Sprintf("❌ Could not reach %s to look up %s, try again later", platform, channel)
}

package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"livenotify/internal/models"
)

var platformIcons = map[models.Platform]string{
	models.PlatformDouyu:    "🐟",
	models.PlatformBilibili: "📺",
	models.PlatformTwitch:   "🟣",
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func platformLabel(p models.Platform) string {
	if icon, ok := platformIcons[p]; ok {
		return icon + " " + p.Title()
	}
	return p.Title()
}

// FormatViewers shortens large audience numbers: 950, 12.3K, 1.5M.
func FormatViewers(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func liveBadge(live bool) string {
	if live {
		return "🔴 Live"
	}
	return "⚫ Offline"
}

func FormatLiveNotification(n models.Notification) string {
	var b strings.Builder
	b.WriteString("🔴 *Now live*\n\n")
	fmt.Fprintf(&b, "📍 Platform: %s\n", platformLabel(n.Platform))
	fmt.Fprintf(&b, "🎮 Streamer: %s\n", esc(n.DisplayName))
	fmt.Fprintf(&b, "🏠 Title: %s\n", esc(n.Title))
	if n.Category != "" {
		fmt.Fprintf(&b, "🎯 Category: %s\n", esc(n.Category))
	}
	fmt.Fprintf(&b, "👥 Viewers: %s\n\n", FormatViewers(n.ViewerCount))
	fmt.Fprintf(&b, "🔗 [Open stream](%s)", n.CanonicalURL)
	return b.String()
}

func FormatRoomStatus(p models.Platform, info *models.RoomInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📺 *%s channel status*\n\n", p.Title())
	fmt.Fprintf(&b, "🎮 Streamer: %s\n", esc(info.DisplayName))
	fmt.Fprintf(&b, "🏠 Title: %s\n", esc(info.Title))
	fmt.Fprintf(&b, "📺 Status: %s\n", liveBadge(info.IsLive))
	if info.Category != "" {
		fmt.Fprintf(&b, "🎯 Category: %s\n", esc(info.Category))
	}
	if info.IsLive {
		fmt.Fprintf(&b, "👥 Viewers: %s\n", FormatViewers(info.ViewerCount))
	}
	fmt.Fprintf(&b, "🔗 %s", esc(info.CanonicalURL))
	return b.String()
}

func FormatSubscribed(p models.Platform, info *models.RoomInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Subscribed on %s\n\n", p.Title())
	fmt.Fprintf(&b, "🎮 Streamer: %s\n", esc(info.DisplayName))
	fmt.Fprintf(&b, "🏠 Title: %s\n", esc(info.Title))
	fmt.Fprintf(&b, "📺 Status: %s\n", liveBadge(info.IsLive))
	fmt.Fprintf(&b, "🔗 %s", esc(info.CanonicalURL))
	return b.String()
}

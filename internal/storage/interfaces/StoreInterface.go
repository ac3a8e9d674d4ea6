package interfaces

import "livenotify/internal/models"

// StoreInterface owns subscriptions and last-seen live flags. Every mutation
// is written through to disk before it returns.
type StoreInterface interface {
	AddSubscription(chatID string, platform models.Platform, channelID string) bool
	RemoveSubscription(chatID string, platform models.Platform, channelID string) bool
	ListSubscriptions(chatID string) models.ChatSubscriptions
	ListAllChannels(platform models.Platform) []string
	ListSubscribers(platform models.Platform, channelID string) []string
	GetLastStatus(platform models.Platform, channelID string) (live bool, known bool)
	SetLastStatus(platform models.Platform, channelID string, live bool)
	Stats() models.StoreStats
	Persist() error
}

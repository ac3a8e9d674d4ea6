package models

// RoomInfo is the canonical view of a channel produced by a platform adapter.
// It is never persisted.
type RoomInfo struct {
	ChannelID    string `json:"channel_id"`
	DisplayName  string `json:"display_name"`
	Title        string `json:"title"`
	IsLive       bool   `json:"is_live"`
	ViewerCount  int64  `json:"viewer_count"`
	Category     string `json:"category"`
	CanonicalURL string `json:"url"`
}

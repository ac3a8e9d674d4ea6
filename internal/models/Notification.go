package models

import "time"

// LiveEvent is emitted when a channel is seen going from offline to live.
type LiveEvent struct {
	Platform   Platform
	ChannelID  string
	Room       RoomInfo
	DetectedAt time.Time
}

// Notification is the payload handed to a deliverer for one recipient.
type Notification struct {
	Platform     Platform `json:"platform"`
	ChannelID    string   `json:"channel_id"`
	DisplayName  string   `json:"display_name"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	CanonicalURL string   `json:"url"`
	ViewerCount  int64    `json:"viewer_count"`
}

func NewNotification(event LiveEvent) Notification {
	return Notification{
		Platform:     event.Platform,
		ChannelID:    event.ChannelID,
		DisplayName:  event.Room.DisplayName,
		Title:        event.Room.Title,
		Category:     event.Room.Category,
		CanonicalURL: event.Room.CanonicalURL,
		ViewerCount:  event.Room.ViewerCount,
	}
}

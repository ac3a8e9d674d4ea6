package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform_Aliases(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"douyu", PlatformDouyu},
		{"DY", PlatformDouyu},
		{"bilibili", PlatformBilibili},
		{"bl", PlatformBilibili},
		{" bili ", PlatformBilibili},
		{"twitch", PlatformTwitch},
		{"tw", PlatformTwitch},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePlatform(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestParsePlatform_Unknown(t *testing.T) {
	_, err := ParsePlatform("youtube")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatform_Title(t *testing.T) {
	assert.Equal(t, "Bilibili", PlatformBilibili.Title())
	assert.Equal(t, "other", Platform("other").Title())
	assert.False(t, Platform("other").Valid())
}

func TestChatSubscriptions_Empty(t *testing.T) {
	subs := NewChatSubscriptions()
	assert.True(t, subs.Empty())
	assert.Len(t, subs, len(AllPlatforms))

	subs[PlatformTwitch] = append(subs[PlatformTwitch], "shroud")
	assert.False(t, subs.Empty())
}

func TestNewNotification_CopiesRoom(t *testing.T) {
	n := NewNotification(LiveEvent{
		Platform:  PlatformDouyu,
		ChannelID: "9999",
		Room: RoomInfo{
			ChannelID:    "9999",
			DisplayName:  "streamer",
			Title:        "late night",
			IsLive:       true,
			ViewerCount:  120,
			Category:     "Just Chatting",
			CanonicalURL: "https://www.douyu.com/9999",
		},
	})
	assert.Equal(t, PlatformDouyu, n.Platform)
	assert.Equal(t, "streamer", n.DisplayName)
	assert.Equal(t, int64(120), n.ViewerCount)
	assert.Equal(t, "https://www.douyu.com/9999", n.CanonicalURL)
}

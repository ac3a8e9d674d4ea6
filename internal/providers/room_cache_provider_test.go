package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"livenotify/internal/models"
)

func TestRoomCache_CountsPerPlatform(t *testing.T) {
	metrics := &mockMetrics{}
	rc := NewRoomCache(cacheConfig(true, 1, 5), &cacheTestLogger{}, metrics)

	_, ok := rc.GetRoom(models.PlatformTwitch, "shroud")
	assert.False(t, ok)

	rc.SetRoom(models.PlatformTwitch, "shroud", []byte(`{"is_live":true}`))
	data, ok := rc.GetRoom(models.PlatformTwitch, "shroud")
	assert.True(t, ok)
	assert.Equal(t, `{"is_live":true}`, string(data))

	_, ok = rc.GetRoom(models.PlatformDouyu, "shroud")
	assert.False(t, ok, "same id on another platform is a different room")

	assert.Equal(t, map[string]int{"twitch": 1}, metrics.cacheHits)
	assert.Equal(t, map[string]int{"twitch": 1, "douyu": 1}, metrics.cacheMisses)
}

func TestRoomCache_DisabledReportsNothing(t *testing.T) {
	metrics := &mockMetrics{}
	rc := NewRoomCache(cacheConfig(false, 1, 5), &cacheTestLogger{}, metrics)

	rc.SetRoom(models.PlatformDouyu, "9999", []byte("{}"))
	_, ok := rc.GetRoom(models.PlatformDouyu, "9999")
	assert.False(t, ok)
	assert.Empty(t, metrics.cacheHits)
	assert.Empty(t, metrics.cacheMisses)
}

func TestRoomCache_ZeroSizeIsDisabled(t *testing.T) {
	rc := NewRoomCache(cacheConfig(true, 0, 5), &cacheTestLogger{}, &mockMetrics{})
	assert.False(t, rc.(*RoomCache).enabled)
}

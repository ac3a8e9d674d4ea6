package providers

import (
	"livenotify/internal/models"
	"livenotify/internal/structures"
)

// RoomCacheInterface holds encoded RoomInfo answers for the /rooms lookup.
// Poll cycles never read it: the edge rule needs a fresh observation.
type RoomCacheInterface interface {
	GetRoom(platform models.Platform, channelID string) ([]byte, bool)
	SetRoom(platform models.Platform, channelID string, data []byte)
}

type RoomCache struct {
	cache   CacheProviderInterface
	metrics MetricsProviderInterface
	enabled bool
}

func roomKey(platform models.Platform, channelID string) string {
	return "room:" + models.StatusKey(platform, channelID)
}

func (rc *RoomCache) GetRoom(platform models.Platform, channelID string) ([]byte, bool) {
	if !rc.enabled {
		return nil, false
	}
	data, ok := rc.cache.Get(roomKey(platform, channelID))
	if ok {
		rc.metrics.IncCacheHits(string(platform))
	} else {
		rc.metrics.IncCacheMisses(string(platform))
	}
	return data, ok
}

func (rc *RoomCache) SetRoom(platform models.Platform, channelID string, data []byte) {
	if !rc.enabled {
		return
	}
	rc.cache.Set(roomKey(platform, channelID), data)
}

// NewRoomCache puts the freecache provider behind per-platform room keys.
// With caching off every lookup goes to the platform and no hit/miss
// series is reported.
func NewRoomCache(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) RoomCacheInterface {
	cache := NewCacheProvider(conf, logger)
	_, disabled := cache.(*noopCache)
	return &RoomCache{
		cache:   cache,
		metrics: metrics,
		enabled: !disabled,
	}
}

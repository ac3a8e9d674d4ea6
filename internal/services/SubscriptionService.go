package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"livenotify/internal/adapters"
	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/storage/interfaces"
)

// SubscriptionServiceInterface is the command surface shared by the Telegram
// bot and the HTTP API.
type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, chatID, platform, channelID string) (*models.RoomInfo, bool, error)
	Unsubscribe(chatID, platform, channelID string) (bool, error)
	List(chatID string) models.ChatSubscriptions
	Check(ctx context.Context, platform, channelID string) (*models.RoomInfo, error)
	Platforms() []models.Platform
}

type SubscriptionService struct {
	registry adapters.RegistryInterface
	store    interfaces.StoreInterface
	logger   providers.Logger
}

func NewSubscriptionService(registry adapters.RegistryInterface, store interfaces.StoreInterface, logger providers.Logger) SubscriptionServiceInterface {
	return &SubscriptionService{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// Subscribe verifies the channel exists before storing it. The returned bool
// is false when the chat already followed the channel.
func (ss *SubscriptionService) Subscribe(ctx context.Context, chatID, platform, channelID string) (*models.RoomInfo, bool, error) {
	adapter, err := ss.adapterFor(platform)
	if err != nil {
		return nil, false, err
	}
	id, err := normalize(adapter, channelID)
	if err != nil {
		return nil, false, err
	}

	info, err := ss.fetch(ctx, adapter, id)
	if err != nil {
		return nil, false, err
	}

	added := ss.store.AddSubscription(chatID, adapter.Platform(), id)
	if added {
		ss.logger.Infof(providers.TypeBot, "Chat %s subscribed to %s:%s", chatID, adapter.Platform(), id)
	}
	return info, added, nil
}

// Unsubscribe works for platforms that are currently disabled so stale
// entries can still be cleaned up.
func (ss *SubscriptionService) Unsubscribe(chatID, platform, channelID string) (bool, error) {
	p, err := models.ParsePlatform(platform)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	id := strings.TrimSpace(channelID)
	if adapter, ok := ss.registry.Get(p); ok {
		if id, err = normalize(adapter, channelID); err != nil {
			return false, err
		}
	} else if id == "" {
		return false, ErrInvalidChannel
	}

	removed := ss.store.RemoveSubscription(chatID, p, id)
	if removed {
		ss.logger.Infof(providers.TypeBot, "Chat %s unsubscribed from %s:%s", chatID, p, id)
	}
	return removed, nil
}

func (ss *SubscriptionService) List(chatID string) models.ChatSubscriptions {
	return ss.store.ListSubscriptions(chatID)
}

// Check fetches the current room state without touching the store.
func (ss *SubscriptionService) Check(ctx context.Context, platform, channelID string) (*models.RoomInfo, error) {
	adapter, err := ss.adapterFor(platform)
	if err != nil {
		return nil, err
	}
	id, err := normalize(adapter, channelID)
	if err != nil {
		return nil, err
	}
	return ss.fetch(ctx, adapter, id)
}

func (ss *SubscriptionService) Platforms() []models.Platform {
	return ss.registry.Platforms()
}

func (ss *SubscriptionService) adapterFor(platform string) (adapters.Adapter, error) {
	p, err := models.ParsePlatform(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	adapter, ok := ss.registry.Get(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s is disabled", ErrUnsupportedPlatform, p)
	}
	return adapter, nil
}

func (ss *SubscriptionService) fetch(ctx context.Context, adapter adapters.Adapter, id string) (*models.RoomInfo, error) {
	info, err := adapter.FetchRoomInfo(ctx, id)
	if err != nil {
		ss.logger.Warnf(providers.TypeBot, "Lookup of %s:%s failed: %s", adapter.Platform(), id, err)
		switch adapters.ReasonOf(err) {
		case adapters.ReasonNotFound:
			return nil, fmt.Errorf("%w: %w", ErrChannelNotFound, err)
		case adapters.ReasonInvalidID:
			return nil, fmt.Errorf("%w: %w", ErrInvalidChannel, err)
		}
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s:%s", ErrChannelNotFound, adapter.Platform(), id)
	}
	return info, nil
}

func normalize(adapter adapters.Adapter, raw string) (string, error) {
	id, err := adapter.NormalizeChannelID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidChannel, err)
	}
	if id == "" {
		return "", ErrInvalidChannel
	}
	return id, nil
}

// IsClientError reports errors caused by bad input rather than the upstream.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform) || errors.Is(err, ErrInvalidChannel)
}

package storage

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/storage/interfaces"
	"livenotify/internal/structures"
)

// SubscriptionStore keeps the whole document in memory and rewrites the file
// on every mutation. Memory stays authoritative when a write fails.
type SubscriptionStore struct {
	mu          sync.RWMutex
	doc         *models.Document
	path        string
	fileManager *FileManager
	logger      providers.Logger
}

// NewSubscriptionStore loads the document at persistence.filePath, creating
// it when absent. An unreadable document is an error and is left untouched.
func NewSubscriptionStore(conf *structures.Config, fileManager *FileManager, logger providers.Logger) (interfaces.StoreInterface, error) {
	path := conf.Persistence.FilePath
	doc, exists, migrated, err := fileManager.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	s := &SubscriptionStore{
		doc:         doc,
		path:        path,
		fileManager: fileManager,
		logger:      logger,
	}

	if !exists || migrated {
		if err := s.Persist(); err != nil {
			return nil, fmt.Errorf("failed to write subscriptions: %w", err)
		}
	}

	stats := s.Stats()
	logger.Infof(providers.TypeStore, "Loaded %s: %d chats, %d subscriptions, %d channels",
		path, stats.Chats, stats.Subscriptions, stats.Channels)
	return s, nil
}

func (s *SubscriptionStore) AddSubscription(chatID string, platform models.Platform, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.doc.Subscriptions[chatID]
	if !ok {
		subs = models.NewChatSubscriptions()
		s.doc.Subscriptions[chatID] = subs
	}
	if slices.Contains(subs[platform], channelID) {
		return false
	}
	subs[platform] = append(subs[platform], channelID)
	s.persistLocked()
	return true
}

func (s *SubscriptionStore) RemoveSubscription(chatID string, platform models.Platform, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.doc.Subscriptions[chatID]
	if !ok {
		return false
	}
	idx := slices.Index(subs[platform], channelID)
	if idx < 0 {
		return false
	}

	subs[platform] = slices.Delete(slices.Clone(subs[platform]), idx, idx+1)
	if subs.Empty() {
		delete(s.doc.Subscriptions, chatID)
	}
	s.persistLocked()
	return true
}

func (s *SubscriptionStore) ListSubscriptions(chatID string) models.ChatSubscriptions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.NewChatSubscriptions()
	for p, channels := range s.doc.Subscriptions[chatID] {
		out[p] = slices.Clone(channels)
	}
	return out
}

// ListAllChannels walks chats in sorted order so the result is stable across
// runs; the first occurrence of a channel fixes its position.
func (s *SubscriptionStore) ListAllChannels(platform models.Platform) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, chatID := range s.sortedChatsLocked() {
		for _, ch := range s.doc.Subscriptions[chatID][platform] {
			if _, dup := seen[ch]; dup {
				continue
			}
			seen[ch] = struct{}{}
			out = append(out, ch)
		}
	}
	return out
}

func (s *SubscriptionStore) ListSubscribers(platform models.Platform, channelID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for _, chatID := range s.sortedChatsLocked() {
		if slices.Contains(s.doc.Subscriptions[chatID][platform], channelID) {
			out = append(out, chatID)
		}
	}
	return out
}

func (s *SubscriptionStore) GetLastStatus(platform models.Platform, channelID string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live, known := s.doc.LiveStatus[models.StatusKey(platform, channelID)]
	return live, known
}

func (s *SubscriptionStore) SetLastStatus(platform models.Platform, channelID string, live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.LiveStatus[models.StatusKey(platform, channelID)] = live
	s.persistLocked()
}

func (s *SubscriptionStore) Stats() models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.StoreStats{Chats: len(s.doc.Subscriptions)}
	channels := make(map[string]struct{})
	for _, subs := range s.doc.Subscriptions {
		for p, ids := range subs {
			stats.Subscriptions += len(ids)
			for _, id := range ids {
				channels[models.StatusKey(p, id)] = struct{}{}
			}
		}
	}
	stats.Channels = len(channels)
	return stats
}

// Persist writes the current document. Used at startup and shutdown.
func (s *SubscriptionStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileManager.SaveToFile(s.path, s.doc)
}

func (s *SubscriptionStore) persistLocked() {
	if err := s.fileManager.SaveToFile(s.path, s.doc); err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting subscriptions to %s: %s", s.path, err)
	}
}

func (s *SubscriptionStore) sortedChatsLocked() []string {
	chats := make([]string, 0, len(s.doc.Subscriptions))
	for chatID := range s.doc.Subscriptions {
		chats = append(chats, chatID)
	}
	sort.Strings(chats)
	return chats
}

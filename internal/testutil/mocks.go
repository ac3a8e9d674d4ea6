package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"livenotify/internal/models"
	"livenotify/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level whose rendered message
// contains substr.
func (m *MockLogger) Count(level, substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			n++
		}
	}
	return n
}

// MockRoomCache implements providers.RoomCacheInterface. Data is keyed by
// models.StatusKey.
type MockRoomCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockRoomCache() *MockRoomCache {
	return &MockRoomCache{Data: make(map[string][]byte)}
}

func (m *MockRoomCache) GetRoom(p models.Platform, channelID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[models.StatusKey(p, channelID)]
	return val, ok
}

func (m *MockRoomCache) SetRoom(p models.Platform, channelID string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[models.StatusKey(p, channelID)] = data
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MockMetrics implements providers.MetricsProviderInterface and keeps counters
// keyed by label values.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            int
	CacheHits           map[string]int
	CacheMisses         map[string]int
	PersistenceWrites   int
	PersistenceFailures int
	PollCycles          int
	PollCyclesSkipped   int
	AdapterFailures     map[string]int // "platform:reason"
	Transitions         map[string]int
	Delivered           map[string]int
	DeliveryFailures    map[string]int
	Watched             map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		CacheHits:        make(map[string]int),
		CacheMisses:      make(map[string]int),
		AdapterFailures:  make(map[string]int),
		Transitions:      make(map[string]int),
		Delivered:        make(map[string]int),
		DeliveryFailures: make(map[string]int),
		Watched:          make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(platform string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits[platform]++
}
func (m *MockMetrics) IncCacheMisses(platform string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses[platform]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceWrites++
}
func (m *MockMetrics) IncPersistenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceFailures++
}
func (m *MockMetrics) IncPollCycles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCycles++
}
func (m *MockMetrics) IncPollCyclesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCyclesSkipped++
}
func (m *MockMetrics) ObservePollCycleDuration(_ time.Duration) {}
func (m *MockMetrics) IncAdapterFailures(platform, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdapterFailures[platform+":"+reason]++
}
func (m *MockMetrics) IncTransitions(platform string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[platform]++
}
func (m *MockMetrics) IncDeliveries(platform string, delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if delivered {
		m.Delivered[platform]++
	} else {
		m.DeliveryFailures[platform]++
	}
}
func (m *MockMetrics) SetWatchedChannels(platform string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Watched[platform] = count
}

// AdapterResult is one scripted answer of a MockAdapter. The zero value
// answers (nil, nil).
type AdapterResult struct {
	Info  *models.RoomInfo
	Err   error
	Panic bool
}

// Live and Offline build scripted answers for a channel.
func Live(id string) AdapterResult {
	return AdapterResult{Info: &models.RoomInfo{ChannelID: id, DisplayName: "streamer " + id, Title: "title " + id, IsLive: true}}
}

func Offline(id string) AdapterResult {
	return AdapterResult{Info: &models.RoomInfo{ChannelID: id, DisplayName: "streamer " + id}}
}

func Failure(err error) AdapterResult {
	return AdapterResult{Err: err}
}

var ErrNotScripted = errors.New("no scripted result")

// MockAdapter implements adapters.Adapter. Each channel replays its script in
// order and then repeats the last entry.
type MockAdapter struct {
	mu       sync.Mutex
	P        models.Platform
	Scripts  map[string][]AdapterResult
	Calls    []string
	Validate func(raw string) (string, error)
}

func NewMockAdapter(p models.Platform) *MockAdapter {
	return &MockAdapter{P: p, Scripts: make(map[string][]AdapterResult)}
}

// Script appends answers for channelID.
func (m *MockAdapter) Script(channelID string, results ...AdapterResult) *MockAdapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scripts[channelID] = append(m.Scripts[channelID], results...)
	return m
}

func (m *MockAdapter) Platform() models.Platform { return m.P }

func (m *MockAdapter) NormalizeChannelID(raw string) (string, error) {
	if m.Validate != nil {
		return m.Validate(raw)
	}
	return strings.TrimSpace(raw), nil
}

func (m *MockAdapter) FetchRoomInfo(_ context.Context, channelID string) (*models.RoomInfo, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, channelID)
	script := m.Scripts[channelID]
	var res AdapterResult
	switch len(script) {
	case 0:
		m.mu.Unlock()
		return nil, ErrNotScripted
	case 1:
		res = script[0]
	default:
		res = script[0]
		m.Scripts[channelID] = script[1:]
	}
	m.mu.Unlock()

	if res.Panic {
		panic("adapter exploded on " + channelID)
	}
	if res.Err != nil || res.Info == nil {
		return nil, res.Err
	}
	info := *res.Info
	return &info, nil
}

func (m *MockAdapter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Delivery is one recorded MockDeliverer call.
type Delivery struct {
	ChatID       string
	Notification models.Notification
}

// MockDeliverer implements services.DelivererInterface. Chats listed in Fail
// return an error.
type MockDeliverer struct {
	mu         sync.Mutex
	Fail       map[string]bool
	Deliveries []Delivery
	Attempts   []string
}

func NewMockDeliverer(failing ...string) *MockDeliverer {
	d := &MockDeliverer{Fail: make(map[string]bool)}
	for _, c := range failing {
		d.Fail[c] = true
	}
	return d
}

func (m *MockDeliverer) Deliver(_ context.Context, chatID string, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts = append(m.Attempts, chatID)
	if m.Fail[chatID] {
		return fmt.Errorf("deliver to %s: chat not reachable", chatID)
	}
	m.Deliveries = append(m.Deliveries, Delivery{ChatID: chatID, Notification: n})
	return nil
}

func (m *MockDeliverer) Delivered() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.Deliveries))
	copy(out, m.Deliveries)
	return out
}

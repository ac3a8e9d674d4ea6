package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/models"
	"livenotify/internal/storage"
	storeInterfaces "livenotify/internal/storage/interfaces"
	"livenotify/internal/structures"
	"livenotify/internal/testutil"
)

type mockScheduler struct {
	last     time.Time
	inFlight bool
}

func (m *mockScheduler) Start()                 {}
func (m *mockScheduler) Stop()                  {}
func (m *mockScheduler) Wait()                  {}
func (m *mockScheduler) LastCycleAt() time.Time { return m.last }
func (m *mockScheduler) InFlight() bool         { return m.inFlight }

func newHealthStore(t *testing.T) storeInterfaces.StoreInterface {
	t.Helper()
	conf := &structures.Config{Persistence: structures.Persistence{FilePath: filepath.Join(t.TempDir(), "subs.json")}}
	fm := storage.NewFileManager(&storage.PlainCompression{}, &testutil.MockLogger{}, testutil.NewMockMetrics())
	s, err := storage.NewSubscriptionStore(conf, fm, &testutil.MockLogger{})
	require.NoError(t, err)
	return s
}

func TestHealth_ReturnsOK(t *testing.T) {
	store := newHealthStore(t)
	store.AddSubscription("1", models.PlatformDouyu, "9999")
	store.AddSubscription("2", models.PlatformDouyu, "9999")
	last := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &mockService{platforms: []models.Platform{models.PlatformDouyu, models.PlatformTwitch}}
	hc := NewHealthController(store, &mockScheduler{last: last, inFlight: true}, svc)

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(2), resp["chats"])
	assert.Equal(t, float64(2), resp["subscriptions"])
	assert.Equal(t, float64(1), resp["channels"])
	assert.Equal(t, []interface{}{"douyu", "twitch"}, resp["platforms"])
	assert.Equal(t, "2026-01-02T03:04:05Z", resp["last_cycle_at"])
	assert.Equal(t, true, resp["cycle_in_flight"])
}

func TestHealth_NoCycleYet(t *testing.T) {
	hc := NewHealthController(newHealthStore(t), &mockScheduler{}, &mockService{})

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp["last_cycle_at"])
	assert.Equal(t, false, resp["cycle_in_flight"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(newHealthStore(t), &mockScheduler{}, &mockService{})

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

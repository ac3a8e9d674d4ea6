package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/models"
	"livenotify/internal/structures"
	"livenotify/internal/testutil"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func platformConfig(baseURL string) structures.PlatformConfig {
	return structures.PlatformConfig{Enabled: true, BaseURL: baseURL, Timeout: 2}
}

func newDouyu(t *testing.T, h http.HandlerFunc) Adapter {
	srv := newTestServer(t, h)
	cfg := platformConfig(srv.URL)
	return NewDouyuAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})
}

func TestDouyu_LiveRoom(t *testing.T) {
	var gotPath, gotUA string
	a := newDouyu(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"room":{"room_id":9999,"room_name":"late night","nickname":"yyf","show_status":1,"videoLoop":0,"online":"12345","cate_name":"DOTA2"}}`))
	})

	info, err := a.FetchRoomInfo(context.Background(), "9999")
	require.NoError(t, err)
	assert.Equal(t, "/betard/9999", gotPath)
	assert.Equal(t, defaultUserAgent, gotUA)
	assert.Equal(t, &models.RoomInfo{
		ChannelID:    "9999",
		DisplayName:  "yyf",
		Title:        "late night",
		IsLive:       true,
		ViewerCount:  12345,
		Category:     "DOTA2",
		CanonicalURL: "https://www.douyu.com/9999",
	}, info)
}

func TestDouyu_VideoLoopIsNotLive(t *testing.T) {
	a := newDouyu(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"room":{"room_id":1,"show_status":1,"videoLoop":1}}`))
	})

	info, err := a.FetchRoomInfo(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, info.IsLive)
}

func TestDouyu_OfflineRoom(t *testing.T) {
	a := newDouyu(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"room":{"room_id":1,"show_status":2,"videoLoop":0,"online":0}}`))
	})

	info, err := a.FetchRoomInfo(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, info.IsLive)
	assert.Equal(t, int64(0), info.ViewerCount)
}

func TestDouyu_FailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason Reason
	}{
		{"404", http.StatusNotFound, ``, ReasonNotFound},
		{"500", http.StatusInternalServerError, `oops`, ReasonUpstream},
		{"bad json", http.StatusOK, `{"room":`, ReasonMalformed},
		{"no room", http.StatusOK, `{"error":0}`, ReasonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDouyu(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			info, err := a.FetchRoomInfo(context.Background(), "9999")
			assert.Nil(t, info)
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.reason, fe.Reason)
			assert.Equal(t, models.PlatformDouyu, fe.Platform)
			assert.Equal(t, "9999", fe.ChannelID)
		})
	}
}

func TestDouyu_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := platformConfig(srv.URL)
	srv.Close()

	a := NewDouyuAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})
	_, err := a.FetchRoomInfo(context.Background(), "9999")
	assert.Equal(t, ReasonNetwork, ReasonOf(err))
}

func TestDouyu_NormalizeChannelID(t *testing.T) {
	a := NewDouyuAdapter(platformConfig("http://unused"), http.DefaultClient, &testutil.MockLogger{})

	id, err := a.NormalizeChannelID(" 288016 ")
	require.NoError(t, err)
	assert.Equal(t, "288016", id)

	_, err = a.NormalizeChannelID("abc")
	assert.Equal(t, ReasonInvalidID, ReasonOf(err))

	_, err = a.NormalizeChannelID("")
	assert.Equal(t, ReasonInvalidID, ReasonOf(err))
}

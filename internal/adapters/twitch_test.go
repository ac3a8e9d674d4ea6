package adapters

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/testutil"
)

func newTwitchGQL(t *testing.T, h http.HandlerFunc) Adapter {
	srv := newTestServer(t, h)
	cfg := platformConfig(srv.URL + "/gql")
	return NewTwitchAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})
}

func TestTwitch_GQLLive(t *testing.T) {
	a := newTwitchGQL(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, twitchWebClientID, r.Header.Get("Client-Id"))

		var req gqlRequest
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "shroud", req.Variables["login"])

		_, _ = w.Write([]byte(`{"data":{"user":{"login":"shroud","displayName":"Shroud","description":"bio","stream":{"title":"ranked","viewersCount":25000,"game":{"name":"VALORANT"}}}}}`))
	})

	info, err := a.FetchRoomInfo(context.Background(), "Shroud")
	require.NoError(t, err)
	assert.True(t, info.IsLive)
	assert.Equal(t, "shroud", info.ChannelID)
	assert.Equal(t, "Shroud", info.DisplayName)
	assert.Equal(t, "ranked", info.Title)
	assert.Equal(t, int64(25000), info.ViewerCount)
	assert.Equal(t, "VALORANT", info.Category)
	assert.Equal(t, "https://www.twitch.tv/shroud", info.CanonicalURL)
}

func TestTwitch_GQLKeepsWebClientIDWithoutSecret(t *testing.T) {
	var gotClientID string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.Header.Get("Client-Id")
		_, _ = w.Write([]byte(`{"data":{"user":{"login":"shroud","displayName":"Shroud","stream":null}}}`))
	})
	cfg := platformConfig(srv.URL + "/gql")
	cfg.ClientID = "my-app-id"
	a := NewTwitchAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})

	_, err := a.FetchRoomInfo(context.Background(), "shroud")
	require.NoError(t, err)
	assert.Equal(t, twitchWebClientID, gotClientID)
}

func TestTwitch_GQLOffline(t *testing.T) {
	a := newTwitchGQL(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":{"login":"shroud","displayName":"Shroud","description":"bio","stream":null}}}`))
	})

	info, err := a.FetchRoomInfo(context.Background(), "shroud")
	require.NoError(t, err)
	assert.False(t, info.IsLive)
	assert.Equal(t, "bio", info.Title)
}

func TestTwitch_GQLUnknownUser(t *testing.T) {
	a := newTwitchGQL(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":null}}`))
	})

	_, err := a.FetchRoomInfo(context.Background(), "nobody_here")
	assert.True(t, IsNotFound(err))
}

func TestTwitch_GQLErrors(t *testing.T) {
	a := newTwitchGQL(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"service timeout"}]}`))
	})

	_, err := a.FetchRoomInfo(context.Background(), "shroud")
	assert.Equal(t, ReasonUpstream, ReasonOf(err))
	assert.Contains(t, err.Error(), "service timeout")
}

func TestTwitch_NormalizeChannelID(t *testing.T) {
	a := NewTwitchAdapter(platformConfig("http://unused"), http.DefaultClient, &testutil.MockLogger{})

	id, err := a.NormalizeChannelID(" @Some_User ")
	require.NoError(t, err)
	assert.Equal(t, "some_user", id)

	for _, bad := range []string{"", "has space", "dash-name", strings.Repeat("a", 26)} {
		_, err := a.NormalizeChannelID(bad)
		assert.Equal(t, ReasonInvalidID, ReasonOf(err), bad)
	}
}

func TestTwitch_HelixWithClientCredentials(t *testing.T) {
	tokenRequests := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			tokenRequests++
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "cid", r.PostForm.Get("client_id"))
			assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"app-token","token_type":"bearer","expires_in":3600}`))
		case "/helix/users":
			assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
			assert.Equal(t, "cid", r.Header.Get("Client-Id"))
			assert.Equal(t, "shroud", r.URL.Query().Get("login"))
			_, _ = w.Write([]byte(`{"data":[{"id":"1","login":"shroud","display_name":"Shroud","description":"bio"}]}`))
		case "/helix/streams":
			assert.Equal(t, "shroud", r.URL.Query().Get("user_login"))
			_, _ = w.Write([]byte(`{"data":[{"title":"helix stream","viewer_count":7,"game_name":"Just Chatting"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	cfg := platformConfig(srv.URL + "/gql")
	cfg.ClientID = "cid"
	cfg.ClientSecret = "secret"
	cfg.HelixURL = srv.URL + "/helix"
	cfg.TokenURL = srv.URL + "/oauth2/token"
	a := NewTwitchAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})

	info, err := a.FetchRoomInfo(context.Background(), "shroud")
	require.NoError(t, err)
	assert.True(t, info.IsLive)
	assert.Equal(t, "helix stream", info.Title)
	assert.Equal(t, int64(7), info.ViewerCount)
	assert.Equal(t, "Just Chatting", info.Category)

	_, err = a.FetchRoomInfo(context.Background(), "shroud")
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests)
}

func TestTwitch_HelixUnknownUser(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"t","token_type":"bearer","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	cfg := platformConfig(srv.URL)
	cfg.ClientID, cfg.ClientSecret = "cid", "secret"
	cfg.HelixURL, cfg.TokenURL = srv.URL+"/helix", srv.URL+"/oauth2/token"
	a := NewTwitchAdapter(cfg, NewHTTPClient(cfg, &testutil.MockLogger{}), &testutil.MockLogger{})

	_, err := a.FetchRoomInfo(context.Background(), "ghost")
	assert.True(t, IsNotFound(err))
}

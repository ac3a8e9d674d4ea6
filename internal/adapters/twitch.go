package adapters

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/structures"
)

func init() {
	Register(models.PlatformTwitch, NewTwitchAdapter)
}

// twitchWebClientID is the id the Twitch web player sends to the public GQL
// endpoint. It needs no secret.
const twitchWebClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"

const twitchUserQuery = `query($login: String!) {
  user(login: $login) {
    login
    displayName
    description
    stream {
      title
      viewersCount
      game { name }
    }
  }
}`

var twitchLogin = regexp.MustCompile(`^[a-z0-9_]{1,25}$`)

// TwitchAdapter reads channel state from the public GQL endpoint, or from
// Helix with an app access token when a client secret is configured.
type TwitchAdapter struct {
	cfg    structures.PlatformConfig
	client *http.Client
	helix  bool
	logger providers.Logger
}

func NewTwitchAdapter(cfg structures.PlatformConfig, client *http.Client, logger providers.Logger) Adapter {
	t := &TwitchAdapter{cfg: cfg, client: client, logger: logger}

	if cfg.ClientSecret != "" && cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		authed := cc.Client(ctx)
		authed.Timeout = client.Timeout
		t.client = authed
		t.helix = true
		logger.Infof(providers.TypeApp, "Twitch adapter using Helix API")
	}
	return t
}

func (t *TwitchAdapter) Platform() models.Platform {
	return models.PlatformTwitch
}

func (t *TwitchAdapter) NormalizeChannelID(raw string) (string, error) {
	login := strings.ToLower(trimChannel(raw))
	login = strings.TrimPrefix(login, "@")
	if !twitchLogin.MatchString(login) {
		return "", newFetchError(models.PlatformTwitch, raw, ReasonInvalidID, fmt.Errorf("login must match [a-z0-9_]{1,25}"))
	}
	return login, nil
}

func (t *TwitchAdapter) FetchRoomInfo(ctx context.Context, channelID string) (*models.RoomInfo, error) {
	login, err := t.NormalizeChannelID(channelID)
	if err != nil {
		return nil, err
	}
	if t.helix {
		return t.fetchHelix(ctx, login)
	}
	return t.fetchGQL(ctx, login)
}

type gqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type gqlResponse struct {
	Data *struct {
		User *struct {
			Login       string `json:"login"`
			DisplayName string `json:"displayName"`
			Description string `json:"description"`
			Stream      *struct {
				Title        string `json:"title"`
				ViewersCount int64  `json:"viewersCount"`
				Game         *struct {
					Name string `json:"name"`
				} `json:"game"`
			} `json:"stream"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (t *TwitchAdapter) fetchGQL(ctx context.Context, login string) (*models.RoomInfo, error) {
	body, err := json.Marshal(gqlRequest{
		Query:     twitchUserQuery,
		Variables: map[string]string{"login": login},
	})
	if err != nil {
		return nil, newFetchError(models.PlatformTwitch, login, ReasonMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, newFetchError(models.PlatformTwitch, login, ReasonNetwork, err)
	}
	req.Header.Set("Client-Id", twitchWebClientID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent(t.cfg))

	var resp gqlResponse
	if err := doJSON(t.client, req, models.PlatformTwitch, login, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		msg := "empty response"
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Message
		}
		return nil, newFetchError(models.PlatformTwitch, login, ReasonUpstream, fmt.Errorf("gql: %s", msg))
	}

	user := resp.Data.User
	if user == nil {
		return nil, newFetchError(models.PlatformTwitch, login, ReasonNotFound, fmt.Errorf("no such user"))
	}

	info := &models.RoomInfo{
		ChannelID:    login,
		DisplayName:  user.DisplayName,
		Title:        user.Description,
		CanonicalURL: "https://www.twitch.tv/" + user.Login,
	}
	if s := user.Stream; s != nil {
		info.IsLive = true
		info.Title = s.Title
		info.ViewerCount = nonNegative(s.ViewersCount)
		if s.Game != nil {
			info.Category = s.Game.Name
		}
	}
	return info, nil
}

type helixUsers struct {
	Data []struct {
		ID          string `json:"id"`
		Login       string `json:"login"`
		DisplayName string `json:"display_name"`
		Description string `json:"description"`
	} `json:"data"`
}

type helixStreams struct {
	Data []struct {
		Title       string `json:"title"`
		ViewerCount int64  `json:"viewer_count"`
		GameName    string `json:"game_name"`
	} `json:"data"`
}

func (t *TwitchAdapter) fetchHelix(ctx context.Context, login string) (*models.RoomInfo, error) {
	var users helixUsers
	if err := t.helixGet(ctx, "/users", login, &users); err != nil {
		return nil, err
	}
	if len(users.Data) == 0 {
		return nil, newFetchError(models.PlatformTwitch, login, ReasonNotFound, fmt.Errorf("no such user"))
	}
	user := users.Data[0]

	var streams helixStreams
	if err := t.helixGet(ctx, "/streams", login, &streams); err != nil {
		return nil, err
	}

	info := &models.RoomInfo{
		ChannelID:    login,
		DisplayName:  user.DisplayName,
		Title:        user.Description,
		CanonicalURL: "https://www.twitch.tv/" + user.Login,
	}
	if len(streams.Data) > 0 {
		s := streams.Data[0]
		info.IsLive = true
		info.Title = s.Title
		info.ViewerCount = nonNegative(s.ViewerCount)
		info.Category = s.GameName
	}
	return info, nil
}

func (t *TwitchAdapter) helixGet(ctx context.Context, path, login string, out interface{}) error {
	q := url.Values{}
	if path == "/users" {
		q.Set("login", login)
	} else {
		q.Set("user_login", login)
	}
	endpoint := strings.TrimRight(t.cfg.HelixURL, "/") + path + "?" + q.Encode()

	req, err := newGet(ctx, endpoint, t.cfg)
	if err != nil {
		return newFetchError(models.PlatformTwitch, login, ReasonNetwork, err)
	}
	req.Header.Set("Client-Id", t.cfg.ClientID)
	return doJSON(t.client, req, models.PlatformTwitch, login, out)
}

package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/structures"
)

func init() {
	Register(models.PlatformBilibili, NewBilibiliAdapter)
}

const bilibiliReferer = "https://live.bilibili.com/"

// live_status values reported by the room endpoint.
const (
	bilibiliOffline = 0
	bilibiliLive    = 1
	bilibiliRerun   = 2
)

type BilibiliAdapter struct {
	cfg    structures.PlatformConfig
	client *http.Client
	logger providers.Logger
}

func NewBilibiliAdapter(cfg structures.PlatformConfig, client *http.Client, logger providers.Logger) Adapter {
	return &BilibiliAdapter{cfg: cfg, client: client, logger: logger}
}

type bilibiliEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type bilibiliRoomResponse struct {
	bilibiliEnvelope
	Data *struct {
		RoomID     int64   `json:"room_id"`
		ShortID    int64   `json:"short_id"`
		UID        int64   `json:"uid"`
		Title      string  `json:"title"`
		LiveStatus int     `json:"live_status"`
		Online     flexInt `json:"online"`
		AreaName   string  `json:"area_name"`
	} `json:"data"`
}

type bilibiliMasterResponse struct {
	bilibiliEnvelope
	Data *struct {
		Info struct {
			Uname string `json:"uname"`
		} `json:"info"`
	} `json:"data"`
}

func (b *BilibiliAdapter) Platform() models.Platform {
	return models.PlatformBilibili
}

func (b *BilibiliAdapter) NormalizeChannelID(raw string) (string, error) {
	return normalizeNumeric(models.PlatformBilibili, raw)
}

func (b *BilibiliAdapter) FetchRoomInfo(ctx context.Context, channelID string) (*models.RoomInfo, error) {
	id, err := b.NormalizeChannelID(channelID)
	if err != nil {
		return nil, err
	}

	var room bilibiliRoomResponse
	endpoint := b.endpoint("/room/v1/Room/get_info", url.Values{"room_id": {id}})
	if err := b.get(ctx, endpoint, id, &room); err != nil {
		return nil, err
	}
	if err := bilibiliCodeError(room.bilibiliEnvelope, id); err != nil {
		return nil, err
	}
	if room.Data == nil {
		return nil, newFetchError(models.PlatformBilibili, id, ReasonMalformed, fmt.Errorf("missing data"))
	}

	data := room.Data
	roomID := id
	if data.RoomID > 0 {
		roomID = strconv.FormatInt(data.RoomID, 10)
	}

	return &models.RoomInfo{
		ChannelID:    id,
		DisplayName:  b.anchorName(ctx, data.UID),
		Title:        data.Title,
		IsLive:       data.LiveStatus == bilibiliLive,
		ViewerCount:  nonNegative(int64(data.Online)),
		Category:     data.AreaName,
		CanonicalURL: "https://live.bilibili.com/" + roomID,
	}, nil
}

// anchorName never fails; a broken lookup degrades to the uid.
func (b *BilibiliAdapter) anchorName(ctx context.Context, uid int64) string {
	fallback := fmt.Sprintf("UID:%d", uid)
	if uid <= 0 {
		return fallback
	}

	var master bilibiliMasterResponse
	endpoint := b.endpoint("/live_user/v1/Master/info", url.Values{"uid": {strconv.FormatInt(uid, 10)}})
	if err := b.get(ctx, endpoint, strconv.FormatInt(uid, 10), &master); err != nil {
		b.logger.Debugf(providers.TypePoll, "Bilibili anchor lookup for uid %d failed: %v", uid, err)
		return fallback
	}
	if master.Code != 0 || master.Data == nil || master.Data.Info.Uname == "" {
		return fallback
	}
	return master.Data.Info.Uname
}

func (b *BilibiliAdapter) endpoint(path string, q url.Values) string {
	return strings.TrimRight(b.cfg.BaseURL, "/") + path + "?" + q.Encode()
}

func (b *BilibiliAdapter) get(ctx context.Context, endpoint, id string, out interface{}) error {
	req, err := newGet(ctx, endpoint, b.cfg)
	if err != nil {
		return newFetchError(models.PlatformBilibili, id, ReasonNetwork, err)
	}
	req.Header.Set("Referer", bilibiliReferer)
	return doJSON(b.client, req, models.PlatformBilibili, id, out)
}

// Positive codes mean the room does not exist; negative ones are API-level
// refusals such as rate limiting.
func bilibiliCodeError(env bilibiliEnvelope, id string) error {
	switch {
	case env.Code == 0:
		return nil
	case env.Code > 0:
		return newFetchError(models.PlatformBilibili, id, ReasonNotFound, fmt.Errorf("code %d: %s", env.Code, env.Message))
	default:
		return newFetchError(models.PlatformBilibili, id, ReasonUpstream, fmt.Errorf("code %d: %s", env.Code, env.Message))
	}
}

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
	Register(models.PlatformDouyu, NewDouyuAdapter)
}

type DouyuAdapter struct {
	cfg    structures.PlatformConfig
	client *http.Client
	logger providers.Logger
}

func NewDouyuAdapter(cfg structures.PlatformConfig, client *http.Client, logger providers.Logger) Adapter {
	return &DouyuAdapter{cfg: cfg, client: client, logger: logger}
}

type douyuBetard struct {
	Room *struct {
		RoomID     flexInt `json:"room_id"`
		RoomName   string  `json:"room_name"`
		Nickname   string  `json:"nickname"`
		ShowStatus int     `json:"show_status"`
		VideoLoop  int     `json:"videoLoop"`
		Online     flexInt `json:"online"`
		CateName   string  `json:"cate_name"`
	} `json:"room"`
}

func (d *DouyuAdapter) Platform() models.Platform {
	return models.PlatformDouyu
}

func (d *DouyuAdapter) NormalizeChannelID(raw string) (string, error) {
	return normalizeNumeric(models.PlatformDouyu, raw)
}

func (d *DouyuAdapter) FetchRoomInfo(ctx context.Context, channelID string) (*models.RoomInfo, error) {
	id, err := d.NormalizeChannelID(channelID)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/betard/%s", strings.TrimRight(d.cfg.BaseURL, "/"), url.PathEscape(id))
	req, err := newGet(ctx, endpoint, d.cfg)
	if err != nil {
		return nil, newFetchError(models.PlatformDouyu, id, ReasonNetwork, err)
	}

	var payload douyuBetard
	if err := doJSON(d.client, req, models.PlatformDouyu, id, &payload); err != nil {
		return nil, err
	}
	if payload.Room == nil {
		return nil, newFetchError(models.PlatformDouyu, id, ReasonNotFound, fmt.Errorf("no room in response"))
	}

	room := payload.Room
	roomID := id
	if room.RoomID > 0 {
		roomID = strconv.FormatInt(int64(room.RoomID), 10)
	}

	return &models.RoomInfo{
		ChannelID:    id,
		DisplayName:  room.Nickname,
		Title:        room.RoomName,
		IsLive:       room.ShowStatus == 1 && room.VideoLoop != 1,
		ViewerCount:  nonNegative(int64(room.Online)),
		Category:     room.CateName,
		CanonicalURL: "https://www.douyu.com/" + roomID,
	}, nil
}

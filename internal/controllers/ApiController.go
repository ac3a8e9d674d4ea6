package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.SubscriptionServiceInterface
	cache   providers.RoomCacheInterface
}

func NewApiController(logger providers.Logger, service services.SubscriptionServiceInterface, cache providers.RoomCacheInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type subscriptionRequest struct {
	ChatID    string `json:"chat_id" validate:"required"`
	Platform  string `json:"platform" validate:"required"`
	ChannelID string `json:"channel_id" validate:"required"`
}

type subscribeResponse struct {
	Created bool             `json:"created"`
	Room    *models.RoomInfo `json:"room"`
}

type unsubscribeResponse struct {
	Removed bool `json:"removed"`
}

type listResponse struct {
	ChatID        string                   `json:"chat_id"`
	Subscriptions models.ChatSubscriptions `json:"subscriptions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps command errors onto HTTP statuses: bad input 400,
// unknown channel 404, upstream trouble 502.
func (ac *ApiController) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		ac.logger.Warnf(providers.TypeGet, "Upstream lookup failed: %s", err)
		writeError(w, http.StatusBadGateway, "platform lookup failed")
	}
}

func (ac *ApiController) Subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if v := validate.Struct(&req); !v.Validate() {
		writeError(w, http.StatusBadRequest, v.Errors.One())
		return
	}

	info, created, err := ac.service.Subscribe(r.Context(), req.ChatID, req.Platform, req.ChannelID)
	if err != nil {
		ac.writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, subscribeResponse{Created: created, Room: info})
}

func (ac *ApiController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := subscriptionRequest{
		ChatID:    q.Get("chat_id"),
		Platform:  q.Get("platform"),
		ChannelID: q.Get("channel_id"),
	}
	if v := validate.Struct(&req); !v.Validate() {
		writeError(w, http.StatusBadRequest, v.Errors.One())
		return
	}

	removed, err := ac.service.Unsubscribe(req.ChatID, req.Platform, req.ChannelID)
	if err != nil {
		ac.writeServiceError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, unsubscribeResponse{Removed: false})
		return
	}
	writeJSON(w, http.StatusOK, unsubscribeResponse{Removed: true})
}

func (ac *ApiController) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{ChatID: chatID, Subscriptions: ac.service.List(chatID)})
}

// GetRoom serves a live lookup, cached for cache.ttl seconds so repeated
// polling of the endpoint does not hammer the platforms.
func (ac *ApiController) GetRoom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	platform := strings.ToLower(strings.TrimSpace(q.Get("platform")))
	channel := strings.TrimSpace(q.Get("channel_id"))
	if platform == "" || channel == "" {
		writeError(w, http.StatusBadRequest, "platform and channel_id are required")
		return
	}

	p, err := models.ParsePlatform(platform)
	if err != nil {
		ac.writeServiceError(w, fmt.Errorf("%w: %q", services.ErrUnsupportedPlatform, platform))
		return
	}
	if data, ok := ac.cache.GetRoom(p, channel); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	info, err := ac.service.Check(r.Context(), string(p), channel)
	if err != nil {
		ac.writeServiceError(w, err)
		return
	}

	gson, err := json.Marshal(info)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.SetRoom(p, channel, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

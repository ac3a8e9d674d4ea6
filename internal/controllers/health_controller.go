package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"livenotify/internal/models"
	pollerInterfaces "livenotify/internal/poller/interfaces"
	"livenotify/internal/services"
	storeInterfaces "livenotify/internal/storage/interfaces"
)

type HealthController struct {
	store     storeInterfaces.StoreInterface
	scheduler pollerInterfaces.SchedulerInterface
	service   services.SubscriptionServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string            `json:"status"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Platforms     []models.Platform `json:"platforms"`
	Chats         int               `json:"chats"`
	Subscriptions int               `json:"subscriptions"`
	Channels      int               `json:"channels"`
	LastCycleAt   *time.Time        `json:"last_cycle_at"`
	CycleInFlight bool              `json:"cycle_in_flight"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	stats := hc.store.Stats()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Platforms:     hc.service.Platforms(),
		Chats:         stats.Chats,
		Subscriptions: stats.Subscriptions,
		Channels:      stats.Channels,
		CycleInFlight: hc.scheduler.InFlight(),
	}
	if last := hc.scheduler.LastCycleAt(); !last.IsZero() {
		resp.LastCycleAt = &last
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store storeInterfaces.StoreInterface, scheduler pollerInterfaces.SchedulerInterface, service services.SubscriptionServiceInterface) *HealthController {
	return &HealthController{
		store:     store,
		scheduler: scheduler,
		service:   service,
		startTime: time.Now(),
	}
}

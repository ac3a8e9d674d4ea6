package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livenotify/internal/controllers"
	"livenotify/internal/notifier"
	pollerInterfaces "livenotify/internal/poller/interfaces"
	"livenotify/internal/providers"
	storeInterfaces "livenotify/internal/storage/interfaces"
	"livenotify/internal/structures"
)

type App struct {
	WebServer *http.Server
}

// shutdownTimeout bounds each shutdown step that takes a context.
var shutdownTimeout = 5 * time.Second

// NewHandler mounts the API routes behind the metrics middleware next to
// the infrastructure endpoints.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	apiMux := http.NewServeMux()
	routes := router.GetRoutes()
	for _, route := range routes {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, routes, apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}

// NewApp runs the service until SIGINT/SIGTERM: HTTP API, poll scheduler
// and Telegram command bot. On shutdown the in-flight cycle is awaited and
// the store flushed before returning.
func NewApp(handler http.Handler, scheduler pollerInterfaces.SchedulerInterface, bot *notifier.CommandBot, store storeInterfaces.StoreInterface, tracing providers.TracingProviderInterface, conf *structures.Config, logger providers.Logger) (*App, error) {
	defer logger.Close()
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	stats := store.Stats()
	logger.Infof(providers.TypeApp, "Loaded %d chats, %d subscriptions over %d channels", stats.Chats, stats.Subscriptions, stats.Channels)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	botCtx, cancelBot := context.WithCancel(context.Background())
	defer cancelBot()
	bot.Start(botCtx)
	scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	cancelBot()
	if err := app.shutdown(scheduler, bot, store, tracing, logger); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, runErr
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// shutdown stops intake first, waits for the in-flight poll cycle and then
// flushes the store and the span exporter.
func (a *App) shutdown(scheduler pollerInterfaces.SchedulerInterface, bot *notifier.CommandBot, store storeInterfaces.StoreInterface, tracing providers.TracingProviderInterface, logger providers.Logger) error {
	scheduler.Stop()
	bot.Stop()

	var firstErr error
	httpCtx, cancelHTTP := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelHTTP()
	if err := a.WebServer.Shutdown(httpCtx); err != nil {
		firstErr = err
	}
	scheduler.Wait()

	if err := store.Persist(); err != nil {
		logger.Errorf(providers.TypeApp, "Final persist failed: %s", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	// The cycle awaited above may have outlived httpCtx; its spans still need exporting.
	traceCtx, cancelTrace := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTrace()
	if err := tracing.Shutdown(traceCtx); err != nil {
		logger.Warnf(providers.TypeApp, "Tracing shutdown: %s", err)
	}
	return firstErr
}

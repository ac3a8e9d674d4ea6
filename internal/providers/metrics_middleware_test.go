package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"livenotify/internal/structures"
)

type mockMetrics struct {
	noopMetrics
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	cacheHits       map[string]int
	cacheMisses     map[string]int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits(platform string) {
	if m.cacheHits == nil {
		m.cacheHits = make(map[string]int)
	}
	m.cacheHits[platform]++
}
func (m *mockMetrics) IncCacheMisses(platform string) {
	if m.cacheMisses == nil {
		m.cacheMisses = make(map[string]int)
	}
	m.cacheMisses[platform]++
}

var apiRoutes = []structures.Route{{Url: "/subscriptions"}, {Url: "/rooms"}}

type recordingLogger struct {
	types []TypeEnum
}

func (l *recordingLogger) Errorf(t TypeEnum, _ string, _ ...interface{}) { l.types = append(l.types, t) }
func (l *recordingLogger) Warnf(t TypeEnum, _ string, _ ...interface{})  { l.types = append(l.types, t) }
func (l *recordingLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) { l.types = append(l.types, t) }
func (l *recordingLogger) Infof(t TypeEnum, _ string, _ ...interface{})  { l.types = append(l.types, t) }
func (l *recordingLogger) Fatalf(t TypeEnum, _ string, _ ...interface{}) { l.types = append(l.types, t) }
func (l *recordingLogger) Close()                                        {}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &mockMetrics{}
	logger := &recordingLogger{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, logger, apiRoutes, handler)

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/subscriptions", metrics.requestEndpoint)
	assert.Equal(t, http.StatusCreated, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
	assert.Equal(t, []TypeEnum{TypePost}, logger.types)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &mockMetrics{}
	logger := &recordingLogger{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mw := MetricsMiddleware(metrics, logger, apiRoutes, handler)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
	assert.Equal(t, []TypeEnum{TypeGet}, logger.types)
}

func TestMetricsMiddleware_UnknownPathsShareOneLabel(t *testing.T) {
	metrics := &mockMetrics{}
	mw := MetricsMiddleware(metrics, &recordingLogger{}, apiRoutes, http.NotFoundHandler())

	for _, path := range []string{"/wp-login.php", "/.env", "/rooms/extra"} {
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, otherEndpoint, metrics.requestEndpoint)
		assert.Equal(t, http.StatusNotFound, metrics.requestStatus)
	}
	assert.Equal(t, 3, metrics.requestCalls)
}

func TestStatusWriter_Unwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}
	assert.Equal(t, rr, sw.Unwrap())
}

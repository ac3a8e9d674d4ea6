package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/structures"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 2 << 20
)

// NewHTTPClient builds the per-platform client with timeout and optional proxy.
func NewHTTPClient(cfg structures.PlatformConfig, logger providers.Logger) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        32,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.Warnf(providers.TypeApp, "Invalid proxy %q, connecting directly: %v", cfg.Proxy, err)
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func userAgent(cfg structures.PlatformConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return defaultUserAgent
}

// doJSON executes req and decodes a 2xx body into out, mapping each failure
// onto a FetchError reason.
func doJSON(client *http.Client, req *http.Request, p models.Platform, channelID string, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return newFetchError(p, channelID, ReasonNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return newFetchError(p, channelID, ReasonNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return newFetchError(p, channelID, ReasonNotFound, fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return newFetchError(p, channelID, ReasonUpstream, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newFetchError(p, channelID, ReasonMalformed, err)
	}
	return nil
}

func newGet(ctx context.Context, rawURL string, cfg structures.PlatformConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent(cfg))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func trimChannel(raw string) string {
	return strings.TrimSpace(raw)
}

// flexInt accepts a JSON number or a numeric string. Douyu reports some
// counters either way depending on the room.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := cast.ToInt64E(s)
	if err != nil {
		fl, ferr := cast.ToFloat64E(s)
		if ferr != nil {
			return fmt.Errorf("not a number: %s", s)
		}
		n = int64(fl)
	}
	*f = flexInt(n)
	return nil
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

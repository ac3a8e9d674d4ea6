package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
}

func TestRouterProvider_SameURLSeveralMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/subscriptions", dummyHandler("list"))
	rp.Post("/subscriptions", dummyHandler("add"))
	rp.Delete("/subscriptions", dummyHandler("remove"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)

	for method, body := range map[string]string{
		http.MethodGet:    "list",
		http.MethodPost:   "add",
		http.MethodDelete: "remove",
	} {
		req := httptest.NewRequest(method, "/subscriptions", nil)
		rr := httptest.NewRecorder()
		routes[0].Handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, method)
		assert.Equal(t, body, rr.Body.String(), method)
	}
}

func TestRouterProvider_MultipleRoutesKeepOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler("a"))
	rp.Post("/b", dummyHandler("b"))
	rp.Get("/c", dummyHandler("c"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Url)
	assert.Equal(t, "/b", routes[1].Url)
	assert.Equal(t, "/c", routes[2].Url)
}

func TestRouterProvider_WrongMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/rooms", dummyHandler("ok"))
	rp.Delete("/rooms", dummyHandler("ok"))

	route := rp.GetRoutes()[0]
	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	rr := httptest.NewRecorder()
	route.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "DELETE, GET", rr.Header().Get("Allow"))
}

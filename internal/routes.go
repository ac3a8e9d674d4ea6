package internal

import (
	"net/http"

	"livenotify/internal/controllers"
	"livenotify/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/subscriptions", http.HandlerFunc(apiController.ListSubscriptions))
	routers.Post("/subscriptions", http.HandlerFunc(apiController.Subscribe))
	routers.Delete("/subscriptions", http.HandlerFunc(apiController.Unsubscribe))
	routers.Get("/rooms", http.HandlerFunc(apiController.GetRoom))
	return routers
}

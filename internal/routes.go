package internal

import (
	"github.com/go-chi/httprate"
	"net/http"
	"time"
	"tourvisto/internal/controllers"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, tripController *controllers.TripController, authController *controllers.AuthController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/dashboard/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/api/dashboard/users/growth", http.HandlerFunc(apiController.GetUserGrowth))
	routers.Get("/api/dashboard/trips/growth", http.HandlerFunc(apiController.GetTripGrowth))
	routers.Get("/api/dashboard/trips/styles", http.HandlerFunc(apiController.GetTravelStyles))
	routers.Get("/api/users", http.HandlerFunc(apiController.GetUsers))

	routers.Get("/api/me", http.HandlerFunc(authController.Me))
	routers.Get("/api/auth/login", http.HandlerFunc(authController.Login))
	routers.Post("/api/auth/logout", http.HandlerFunc(authController.Logout))

	createTrip := http.Handler(http.HandlerFunc(tripController.CreateTrip))
	if conf.Generation.RateLimit > 0 {
		createTrip = httprate.LimitByIP(conf.Generation.RateLimit, time.Minute)(createTrip)
	}
	routers.Post("/api/create-trip", createTrip)
	routers.Get("/api/trips", http.HandlerFunc(tripController.ListTrips))
	routers.Get("/api/trips/{id}", http.HandlerFunc(tripController.GetTrip))
	return routers
}

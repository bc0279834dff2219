package controllers

import (
	"net/http"
	"tourvisto/internal/providers"
	"tourvisto/internal/services"
)

// ApiController serves the admin dashboard.
type ApiController struct {
	logger    providers.Logger
	dashboard services.DashboardServiceInterface
	identity  services.IdentityServiceInterface
}

func NewApiController(logger providers.Logger, dashboard services.DashboardServiceInterface, identity services.IdentityServiceInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		dashboard: dashboard,
		identity:  identity,
	}
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ac.dashboard.GetUsersAndTripsStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (ac *ApiController) GetUserGrowth(w http.ResponseWriter, r *http.Request) {
	points, err := ac.dashboard.GetUserGrowthPerDay(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user growth")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (ac *ApiController) GetTripGrowth(w http.ResponseWriter, r *http.Request) {
	points, err := ac.dashboard.GetTripsCreatedPerDay(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load trip growth")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (ac *ApiController) GetTravelStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := ac.dashboard.GetTripsByTravelStyle(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load travel styles")
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

func (ac *ApiController) GetUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	writeJSON(w, http.StatusOK, ac.identity.GetAllUsers(r.Context(), limit, offset))
}

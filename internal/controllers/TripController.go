package controllers

import (
	"errors"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"net/http"
	"tourvisto/internal/models"
	"tourvisto/internal/providers"
	"tourvisto/internal/services"
	"tourvisto/internal/storage"
)

type TripController struct {
	logger    providers.Logger
	itinerary services.ItineraryServiceInterface
}

type tripListResponse struct {
	Trips []*models.TripView `json:"trips"`
	Total int                `json:"total"`
}

func NewTripController(logger providers.Logger, itinerary services.ItineraryServiceInterface) *TripController {
	return &TripController{
		logger:    logger,
		itinerary: itinerary,
	}
}

func statusForStage(stage string) int {
	switch stage {
	case services.StageValidate:
		return http.StatusBadRequest
	case services.StageGenerate, services.StageParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (tc *TripController) CreateTrip(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req services.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := tc.itinerary.CreateTrip(r.Context(), &req)
	if err != nil {
		var perr *services.PipelineError
		if errors.As(err, &perr) {
			writeError(w, statusForStage(perr.Stage), perr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (tc *TripController) GetTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	trip, err := tc.itinerary.GetTrip(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		tc.logger.Errorf(providers.TypeGet, "Failed to load trip %s: %s", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load trip")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (tc *TripController) ListTrips(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	trips, total, err := tc.itinerary.ListTrips(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trips")
		return
	}
	writeJSON(w, http.StatusOK, tripListResponse{Trips: trips, Total: total})
}

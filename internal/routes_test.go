package internal

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"tourvisto/internal/controllers"
	"tourvisto/internal/models"
	"tourvisto/internal/providers"
	"tourvisto/internal/services"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
	"tourvisto/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripBody = `{"country":"Japan","numberOfDays":3,"travelStyle":"Relaxed","interests":"Food","budget":"Mid-range","groupType":"Couple","userId":"u1"}`

func testConfig() *structures.Config {
	return &structures.Config{
		Dashboard:  structures.DashboardConfig{Timezone: "UTC"},
		Generation: structures.GenerationConfig{RateLimit: 2},
		WebServer:  structures.Server{CorsOrigins: []string{"https://admin.test"}},
	}
}

func newTestRouter(conf *structures.Config) (providers.RouterProviderInterface, *controllers.HealthController, *storage.MemoryStore) {
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	store := storage.NewMemoryStore()
	cache := services.NewQueryCache(testutil.NewMockCache(), logger)

	dashboard := services.NewDashboardService(conf, store, cache, logger)
	identity := services.NewIdentityService(conf, store, &testutil.MockIdentityProvider{}, &testutil.MockAvatars{}, cache, logger)
	itinerary := services.NewItineraryService(conf, store, &testutil.MockGenerator{Text: `{"name":"X","travelStyle":"Relaxed"}`}, &testutil.MockImages{}, cache, logger, metrics)

	router := InitRoutes(
		controllers.NewApiController(logger, dashboard, identity),
		controllers.NewTripController(logger, itinerary),
		controllers.NewAuthController(logger, identity),
		conf,
	)
	return router, controllers.NewHealthController(store), store
}

func newTestHandler(conf *structures.Config) http.Handler {
	h, _ := newTestHandlerWithStore(conf)
	return h
}

func newTestHandlerWithStore(conf *structures.Config) (http.Handler, *storage.MemoryStore) {
	router, health, store := newTestRouter(conf)
	return NewHandler(router, health, conf, &testutil.MockMetrics{}), store
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	router, _, _ := newTestRouter(testConfig())
	routes := router.GetRoutes()

	got := make([]string, len(routes))
	for i, r := range routes {
		got[i] = r.Method + " " + r.Url
	}

	assert.ElementsMatch(t, []string{
		"GET /api/dashboard/stats",
		"GET /api/dashboard/users/growth",
		"GET /api/dashboard/trips/growth",
		"GET /api/dashboard/trips/styles",
		"GET /api/users",
		"GET /api/me",
		"GET /api/auth/login",
		"POST /api/auth/logout",
		"POST /api/create-trip",
		"GET /api/trips",
		"GET /api/trips/{id}",
	}, got)
}

func TestHandler_MethodEnforcement(t *testing.T) {
	h := newTestHandler(testConfig())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/create-trip", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_HealthAndStats(t *testing.T) {
	h := newTestHandler(testConfig())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"totalUsers":0`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/trips/styles", nil))
	assert.JSONEq(t, `[{"travelStyle":"luxury","count":1}]`, rr.Body.String())
}

func TestHandler_CreateThenReadTrip(t *testing.T) {
	h := newTestHandler(testConfig())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(tripBody)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/trips/styles", nil))
	assert.JSONEq(t, `[{"travelStyle":"relaxed","count":1}]`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Contains(t, rr.Body.String(), `"totalTrips":1`)
}

func TestHandler_CreateTripRateLimited(t *testing.T) {
	h := newTestHandler(testConfig())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/create-trip", strings.NewReader(tripBody))
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestHandler_CorsPreflight(t *testing.T) {
	h := newTestHandler(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/create-trip", nil)
	req.Header.Set("Origin", "https://admin.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://admin.test", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_GzipResponses(t *testing.T) {
	h, store := newTestHandlerWithStore(testConfig())
	for i := 0; i < 30; i++ {
		require.NoError(t, store.CreateTrip(context.Background(), &models.TripDocument{
			ID:         fmt.Sprintf("trip-%02d", i),
			TripDetail: `{"name":"A long weekend in Lisbon","travelStyle":"Relaxed","country":"Portugal"}`,
			CreatedAt:  models.NewTimestamp(time.Now()),
			UserID:     "u1",
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips?limit=30", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"total":30`)
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"tourvisto/internal/models"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
	"tourvisto/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTripRequest() *TripRequest {
	return &TripRequest{
		Country:      "Japan",
		NumberOfDays: 3,
		TravelStyle:  "Relaxed",
		Interests:    "Food & Culinary",
		Budget:       "Mid-range",
		GroupType:    "Couple",
		UserID:       "u1",
	}
}

type itineraryFixture struct {
	service   ItineraryServiceInterface
	store     *storage.MemoryStore
	generator *testutil.MockGenerator
	images    *testutil.MockImages
	cache     *testutil.MockCache
	metrics   *testutil.MockMetrics
}

func newItineraryFixture() *itineraryFixture {
	f := &itineraryFixture{
		store:     storage.NewMemoryStore(),
		generator: &testutil.MockGenerator{},
		images:    &testutil.MockImages{},
		cache:     testutil.NewMockCache(),
		metrics:   &testutil.MockMetrics{},
	}
	logger := &testutil.MockLogger{}
	conf := &structures.Config{Images: structures.ImagesConfig{Count: 3}}
	f.service = NewItineraryService(conf, f.store, f.generator, f.images, NewQueryCache(f.cache, logger), logger, f.metrics)
	return f
}

func (f *itineraryFixture) tripCount(t *testing.T) int {
	list, err := f.store.ListTrips(context.Background(), storage.NewQuery())
	require.NoError(t, err)
	return list.Total
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"name":"X"}`, StripCodeFence("```json\n{\"name\":\"X\"}\n```"))
	assert.Equal(t, `{"name":"X"}`, StripCodeFence("```\n{\"name\":\"X\"}\n```"))
	assert.Equal(t, `{"name":"X"}`, StripCodeFence("  {\"name\":\"X\"}  "))
}

func TestParseItineraryJSON(t *testing.T) {
	out, err := ParseItineraryJSON("{\n  \"name\": \"X\",\n  \"duration\": 3\n}")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"X","duration":3}`, out)

	_, err = ParseItineraryJSON("Sure! Here is your trip.")
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseItineraryJSON("null")
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseItineraryJSON(`["not","an","object"]`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(validTripRequest())

	assert.True(t, strings.HasPrefix(prompt, "Generate a 3-day travel itinerary for Japan"))
	assert.Contains(t, prompt, "Budget: 'Mid-range'")
	assert.Contains(t, prompt, "Interests: 'Food & Culinary'")
	assert.Contains(t, prompt, "TravelStyle: 'Relaxed'")
	assert.Contains(t, prompt, "GroupType: 'Couple'")
	assert.Contains(t, prompt, `"duration": 3,`)
	assert.Contains(t, prompt, `"country": "Japan",`)
	assert.NotContains(t, prompt, "%!")
}

func TestImageQuery(t *testing.T) {
	assert.Equal(t, "Japan Food & Culinary Relaxed", ImageQuery(validTripRequest()))
}

func TestTripRequest_Validate(t *testing.T) {
	assert.NoError(t, validTripRequest().Validate())

	req := validTripRequest()
	req.Country = ""
	assert.Error(t, req.Validate())

	req = validTripRequest()
	req.NumberOfDays = 0
	assert.Error(t, req.Validate())

	req = validTripRequest()
	req.NumberOfDays = 31
	assert.Error(t, req.Validate())
}

func TestCreateTrip_FencedResponse(t *testing.T) {
	f := newItineraryFixture()
	f.generator.Text = "```json\n{\"name\":\"X\"}\n```"
	url := "https://images.test/1"
	f.images.URLs = []*string{&url, nil, nil}
	f.cache.Set(DashboardStatsKey, []byte("{}"))

	res, err := f.service.CreateTrip(context.Background(), validTripRequest())
	require.NoError(t, err)
	require.NotEmpty(t, res.TripID)

	stored, err := f.store.GetTrip(context.Background(), res.TripID)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"X"}`, stored.TripDetail)
	assert.Equal(t, "u1", stored.UserID)
	require.Len(t, stored.ImageURLs, 3)
	assert.Equal(t, url, *stored.ImageURLs[0])
	assert.Nil(t, stored.ImageURLs[1])
	assert.False(t, stored.CreatedAt.IsZero())

	assert.Equal(t, []string{"Japan Food & Culinary Relaxed"}, f.images.Queries)
	_, cached := f.cache.Get(DashboardStatsKey)
	assert.False(t, cached, "dashboard stats should be invalidated")
	assert.Equal(t, 1, f.metrics.Generations["ok"])
}

func TestCreateTrip_NonJSONResponse(t *testing.T) {
	f := newItineraryFixture()
	f.generator.Text = "I'm sorry, I can't help with that."

	res, err := f.service.CreateTrip(context.Background(), validTripRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StageParse, perr.Stage)
	assert.Equal(t, 0, f.tripCount(t))
	assert.Empty(t, f.images.Queries)
	assert.Equal(t, 1, f.metrics.Generations[StageParse])
}

func TestCreateTrip_InvalidRequest(t *testing.T) {
	f := newItineraryFixture()
	req := validTripRequest()
	req.UserID = ""

	_, err := f.service.CreateTrip(context.Background(), req)

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StageValidate, perr.Stage)
	assert.Empty(t, f.generator.Prompts)
}

func TestCreateTrip_GenerationFailure(t *testing.T) {
	f := newItineraryFixture()
	boom := errors.New("quota exceeded")
	f.generator.Err = boom

	_, err := f.service.CreateTrip(context.Background(), validTripRequest())

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StageGenerate, perr.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.tripCount(t))
}

func TestCreateTrip_ImageFailureDegrades(t *testing.T) {
	f := newItineraryFixture()
	f.generator.Text = `{"name":"X","travelStyle":"Relaxed"}`
	f.images.Err = errors.New("rate limited")

	res, err := f.service.CreateTrip(context.Background(), validTripRequest())
	require.NoError(t, err)

	stored, err := f.store.GetTrip(context.Background(), res.TripID)
	require.NoError(t, err)
	assert.Empty(t, stored.ImageURLs)
	assert.NotNil(t, stored.ImageURLs)
}

type failingTripStore struct {
	*storage.MemoryStore
}

func (s *failingTripStore) CreateTrip(context.Context, *models.TripDocument) error {
	return errors.New("write conflict")
}

func TestCreateTrip_PersistFailure(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := NewItineraryService(&structures.Config{}, &failingTripStore{storage.NewMemoryStore()},
		&testutil.MockGenerator{Text: `{"name":"X"}`}, &testutil.MockImages{}, NewQueryCache(testutil.NewMockCache(), logger), logger, &testutil.MockMetrics{})

	_, err := svc.CreateTrip(context.Background(), validTripRequest())

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StagePersist, perr.Stage)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestGetTripAndListTrips(t *testing.T) {
	f := newItineraryFixture()
	ctx := context.Background()
	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, f.store.CreateTrip(ctx, &models.TripDocument{
			ID:         id,
			TripDetail: `{"name":"Trip ` + id + `","duration":2}`,
			CreatedAt:  models.NewTimestamp(time.Now()),
			UserID:     "u1",
		}))
	}

	view, err := f.service.GetTrip(ctx, "t2")
	require.NoError(t, err)
	require.NotNil(t, view.Itinerary)
	assert.Equal(t, "Trip t2", view.Itinerary.Name)

	_, err = f.service.GetTrip(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	views, total, err := f.service.ListTrips(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, views, 2)
	assert.Equal(t, "t2", views[0].ID)
	assert.Equal(t, "t3", views[1].ID)
}

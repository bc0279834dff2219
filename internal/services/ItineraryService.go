package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"
	"strings"
	"time"
	"tourvisto/internal/clients"
	"tourvisto/internal/models"
	"tourvisto/internal/providers"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
)

const (
	StageValidate = "validate"
	StageGenerate = "generate"
	StageParse    = "parse"
	StagePersist  = "persist"
)

var ErrMalformedResponse = errors.New("generation service response is not valid JSON")

// PipelineError tells which step of trip generation failed.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("trip generation failed at %s: %s", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

type TripRequest struct {
	Country      string `json:"country" validate:"required"`
	NumberOfDays int    `json:"numberOfDays" validate:"required|min:1|max:30"`
	TravelStyle  string `json:"travelStyle" validate:"required"`
	Interests    string `json:"interests" validate:"required"`
	Budget       string `json:"budget" validate:"required"`
	GroupType    string `json:"groupType" validate:"required"`
	UserID       string `json:"userId" validate:"required"`
}

func (r *TripRequest) Validate() error {
	v := validate.Struct(r)
	if !v.Validate() {
		return v.Errors.ErrOrNil()
	}
	return nil
}

type GenerationResult struct {
	TripID string               `json:"id"`
	Trip   *models.TripDocument `json:"-"`
}

type ItineraryServiceInterface interface {
	CreateTrip(ctx context.Context, req *TripRequest) (*GenerationResult, error)
	GetTrip(ctx context.Context, id string) (*models.TripView, error)
	ListTrips(ctx context.Context, limit, offset int) ([]*models.TripView, int, error)
}

type ItineraryService struct {
	store      storage.DocumentStoreInterface
	generator  clients.GenerationClientInterface
	images     clients.ImageSearchInterface
	cache      *QueryCache
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	imageCount int
	now        func() time.Time
}

const promptTemplate = `Generate a %[1]d-day travel itinerary for %[2]s based on the following user information:
        Budget: '%[3]s'
        Interests: '%[4]s'
        TravelStyle: '%[5]s'
        GroupType: '%[6]s'
        Return the itinerary and lowest estimated price in a clean, non-markdown JSON format with the following structure:
        {
        "name": "A descriptive title for the trip",
        "description": "A brief description of the trip and its highlights not exceeding 100 words",
        "estimatedPrice": "Lowest average price for the trip in USD, e.g.$price",
        "duration": %[1]d,
        "budget": "%[3]s",
        "travelStyle": "%[5]s",
        "country": "%[2]s",
        "interests": "%[4]s",
        "groupType": "%[6]s",
        "bestTimeToVisit": [
          '🌸 Season (from month to month): reason to visit',
          '☀️ Season (from month to month): reason to visit',
          '🍁 Season (from month to month): reason to visit',
          '❄️ Season (from month to month): reason to visit'
        ],
        "weatherInfo": [
          '☀️ Season: temperature range in Celsius (temperature range in Fahrenheit)',
          '🌦️ Season: temperature range in Celsius (temperature range in Fahrenheit)',
          '🌧️ Season: temperature range in Celsius (temperature range in Fahrenheit)',
          '❄️ Season: temperature range in Celsius (temperature range in Fahrenheit)'
        ],
        "location": {
          "city": "name of the city or region",
          "coordinates": [latitude, longitude],
          "openStreetMap": "link to open street map"
        },
        "itinerary": [
        {
          "day": 1,
          "location": "City/Region Name",
          "activities": [
            {"time": "Morning", "description": "🏰 Visit the local historic castle and enjoy a scenic walk"},
            {"time": "Afternoon", "description": "🖼️ Explore a famous art museum with a guided tour"},
            {"time": "Evening", "description": "🍷 Dine at a rooftop restaurant with local wine"}
          ]
        },
        ...
        ]
    }`

func BuildPrompt(req *TripRequest) string {
	return fmt.Sprintf(promptTemplate, req.NumberOfDays, req.Country, req.Budget, req.Interests, req.TravelStyle, req.GroupType)
}

// StripCodeFence removes a surrounding ``` or ```json markdown fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseItineraryJSON checks that text is a JSON object and returns it compacted.
func ParseItineraryJSON(text string) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if obj == nil {
		return "", fmt.Errorf("%w: got null", ErrMalformedResponse)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return buf.String(), nil
}

func ImageQuery(req *TripRequest) string {
	return fmt.Sprintf("%s %s %s", req.Country, req.Interests, req.TravelStyle)
}

func (is *ItineraryService) fail(stage string, err error) (*GenerationResult, error) {
	is.logger.Errorf(providers.TypePost, "Error generating travel plan: %s: %s", stage, err)
	is.metrics.IncGenerationsTotal(stage)
	return nil, &PipelineError{Stage: stage, Err: err}
}

// CreateTrip runs prompt -> generation -> parse -> images -> persist. Nothing
// is stored unless the model answer parses. Image search failures only drop
// the images.
func (is *ItineraryService) CreateTrip(ctx context.Context, req *TripRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return is.fail(StageValidate, err)
	}

	raw, err := is.generator.Generate(ctx, BuildPrompt(req))
	if err != nil {
		return is.fail(StageGenerate, err)
	}

	detail, err := ParseItineraryJSON(StripCodeFence(raw))
	if err != nil {
		return is.fail(StageParse, err)
	}

	imageURLs, err := is.images.SearchPhotos(ctx, ImageQuery(req), is.imageCount)
	if err != nil {
		is.logger.Warnf(providers.TypePost, "Image search failed, storing trip without images: %s", err)
		imageURLs = []*string{}
	}

	trip := &models.TripDocument{
		ID:         uuid.NewString(),
		TripDetail: detail,
		CreatedAt:  models.NewTimestamp(is.now()),
		ImageURLs:  imageURLs,
		UserID:     req.UserID,
	}
	if err = is.store.CreateTrip(ctx, trip); err != nil {
		return is.fail(StagePersist, err)
	}

	is.cache.Invalidate(DashboardStatsKey)
	is.metrics.IncGenerationsTotal("ok")
	is.logger.Infof(providers.TypePost, "Trip %s generated for user %s", trip.ID, trip.UserID)

	return &GenerationResult{TripID: trip.ID, Trip: trip}, nil
}

func (is *ItineraryService) GetTrip(ctx context.Context, id string) (*models.TripView, error) {
	trip, err := is.store.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewTripView(trip), nil
}

func (is *ItineraryService) ListTrips(ctx context.Context, limit, offset int) ([]*models.TripView, int, error) {
	list, err := is.store.ListTrips(ctx, storage.NewQuery().WithLimit(limit).WithOffset(offset))
	if err != nil {
		is.logger.Errorf(providers.TypeGet, "Failed to list trips: %s", err)
		return nil, 0, err
	}
	views := make([]*models.TripView, len(list.Trips))
	for i, t := range list.Trips {
		views[i] = models.NewTripView(t)
	}
	return views, list.Total, nil
}

func NewItineraryService(conf *structures.Config, store storage.DocumentStoreInterface, generator clients.GenerationClientInterface, images clients.ImageSearchInterface, cache *QueryCache, logger providers.Logger, metrics providers.MetricsProviderInterface) ItineraryServiceInterface {
	count := conf.Images.Count
	if count <= 0 || count > models.MaxTripImages {
		count = models.MaxTripImages
	}
	return &ItineraryService{
		store:      store,
		generator:  generator,
		images:     images,
		cache:      cache,
		logger:     logger,
		metrics:    metrics,
		imageCount: count,
		now:        time.Now,
	}
}

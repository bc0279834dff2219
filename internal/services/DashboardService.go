package services

import (
	"context"
	"fmt"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"strings"
	"time"
	"tourvisto/internal/models"
	"tourvisto/internal/providers"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
)

const (
	DashboardStatsKey   = "dashboardStats"
	FallbackTravelStyle = "luxury"
	dayLabelLayout      = "Jan 2"
)

type DashboardServiceInterface interface {
	GetUsersAndTripsStats(ctx context.Context) (*models.DashboardStats, error)
	GetUserGrowthPerDay(ctx context.Context) ([]models.GrowthPoint, error)
	GetTripsCreatedPerDay(ctx context.Context) ([]models.GrowthPoint, error)
	GetTripsByTravelStyle(ctx context.Context) ([]models.TravelStyleCount, error)
	RefreshStats(ctx context.Context) error
}

type DashboardService struct {
	store    storage.DocumentStoreInterface
	cache    *QueryCache
	logger   providers.Logger
	location *time.Location
	now      func() time.Time
}

// MonthWindow returns the first instant of the current month, and the first
// and last instants of the previous month, in loc.
func MonthWindow(now time.Time, loc *time.Location) (startCurrent, startPrev, endPrev models.Timestamp) {
	local := now.In(loc)
	current := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return models.NewTimestamp(current),
		models.NewTimestamp(current.AddDate(0, -1, 0)),
		models.NewTimestamp(current.Add(-time.Millisecond))
}

// FilterByDate counts items whose key timestamp lies in [start, end]. A nil
// end means no upper bound. Comparison is on the fixed-width string form.
func FilterByDate[T any](items []T, key func(T) models.Timestamp, start models.Timestamp, end *models.Timestamp) int {
	from := start.String()
	to := ""
	if end != nil {
		to = end.String()
	}
	return lo.CountBy(items, func(item T) bool {
		v := key(item).String()
		return v >= from && (end == nil || v <= to)
	})
}

func userJoinedAt(u *models.UserDocument) models.Timestamp  { return u.JoinedAt }
func tripCreatedAt(t *models.TripDocument) models.Timestamp { return t.CreatedAt }

// ComputeDashboardStats derives month-over-month counters. It only reads its inputs.
func ComputeDashboardStats(users *models.UserList, trips *models.TripList, now time.Time, loc *time.Location) *models.DashboardStats {
	startCurrent, startPrev, endPrev := MonthWindow(now, loc)

	roleUsers := lo.Filter(users.Users, func(u *models.UserDocument, _ int) bool {
		return u.Status == models.RoleUser
	})

	return &models.DashboardStats{
		TotalUsers: users.Total,
		UsersJoined: models.MonthlyCount{
			CurrentMonth: FilterByDate(users.Users, userJoinedAt, startCurrent, nil),
			LastMonth:    FilterByDate(users.Users, userJoinedAt, startPrev, &endPrev),
		},
		UserRole: models.RoleCount{
			Total:        len(roleUsers),
			CurrentMonth: FilterByDate(roleUsers, userJoinedAt, startCurrent, nil),
			LastMonth:    FilterByDate(roleUsers, userJoinedAt, startPrev, &endPrev),
		},
		TotalTrips: trips.Total,
		TripsCreated: models.MonthlyCount{
			CurrentMonth: FilterByDate(trips.Trips, tripCreatedAt, startCurrent, nil),
			LastMonth:    FilterByDate(trips.Trips, tripCreatedAt, startPrev, &endPrev),
		},
	}
}

// GrowthByDay counts items per "Jan 2" day label. Points keep the order in
// which each label is first seen, not calendar order.
func GrowthByDay[T any](items []T, key func(T) models.Timestamp, loc *time.Location) []models.GrowthPoint {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, item := range items {
		ts := key(item)
		if ts.IsZero() {
			continue
		}
		day := ts.In(loc).Format(dayLabelLayout)
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}
	return lo.Map(order, func(day string, _ int) models.GrowthPoint {
		return models.GrowthPoint{Day: day, Count: counts[day]}
	})
}

// TravelStyle extracts the normalized travelStyle of a stored trip detail.
// ok is false when the detail is not JSON or its travelStyle is not a
// non-empty string. A whitespace-only style normalizes to "" with ok true.
func TravelStyle(detail string) (style string, ok bool) {
	if !gjson.Valid(detail) {
		return "", false
	}
	v := gjson.Get(detail, "travelStyle")
	if v.Type != gjson.String || v.Str == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(v.Str)), true
}

// TravelStyleHistogram buckets trips by travel style. Trips without a style
// are counted under FallbackTravelStyle. An empty input yields a single
// synthetic {luxury, 1} entry.
func TravelStyleHistogram(trips []*models.TripDocument) []models.TravelStyleCount {
	buckets := make([]models.TravelStyleCount, 0)
	index := make(map[string]int)
	fallback := 0

	add := func(style string, n int) {
		if i, ok := index[style]; ok {
			buckets[i].Count += n
			return
		}
		index[style] = len(buckets)
		buckets = append(buckets, models.TravelStyleCount{TravelStyle: style, Count: n})
	}

	for _, trip := range trips {
		style, ok := TravelStyle(trip.TripDetail)
		if !ok {
			fallback++
			continue
		}
		add(style, 1)
	}
	if fallback > 0 {
		add(FallbackTravelStyle, fallback)
	}

	if len(buckets) == 0 {
		return []models.TravelStyleCount{{TravelStyle: FallbackTravelStyle, Count: 1}}
	}
	return buckets
}

func (ds *DashboardService) computeStats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		users *models.UserList
		trips *models.TripList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = ds.store.ListUsers(gctx, storage.NewQuery())
		return err
	})
	g.Go(func() error {
		var err error
		trips, err = ds.store.ListTrips(gctx, storage.NewQuery())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return ComputeDashboardStats(users, trips, ds.now(), ds.location), nil
}

func (ds *DashboardService) GetUsersAndTripsStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := CachedQuery(ctx, ds.cache, DashboardStatsKey, ds.computeStats)
	if err != nil {
		ds.logger.Errorf(providers.TypeGet, "Failed to compute dashboard stats: %s", err)
		return nil, err
	}
	return stats, nil
}

// RefreshStats recomputes the cached stats regardless of their age.
func (ds *DashboardService) RefreshStats(ctx context.Context) error {
	ds.cache.Invalidate(DashboardStatsKey)
	_, err := CachedQuery(ctx, ds.cache, DashboardStatsKey, ds.computeStats)
	return err
}

func (ds *DashboardService) GetUserGrowthPerDay(ctx context.Context) ([]models.GrowthPoint, error) {
	users, err := ds.store.ListUsers(ctx, storage.NewQuery())
	if err != nil {
		ds.logger.Errorf(providers.TypeGet, "Failed to list users for growth: %s", err)
		return nil, err
	}
	return GrowthByDay(users.Users, userJoinedAt, ds.location), nil
}

func (ds *DashboardService) GetTripsCreatedPerDay(ctx context.Context) ([]models.GrowthPoint, error) {
	trips, err := ds.store.ListTrips(ctx, storage.NewQuery())
	if err != nil {
		ds.logger.Errorf(providers.TypeGet, "Failed to list trips for growth: %s", err)
		return nil, err
	}
	return GrowthByDay(trips.Trips, tripCreatedAt, ds.location), nil
}

func (ds *DashboardService) GetTripsByTravelStyle(ctx context.Context) ([]models.TravelStyleCount, error) {
	trips, err := ds.store.ListTrips(ctx, storage.NewQuery())
	if err != nil {
		ds.logger.Errorf(providers.TypeGet, "Failed to list trips for travel styles: %s", err)
		return nil, err
	}
	return TravelStyleHistogram(trips.Trips), nil
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func NewDashboardService(conf *structures.Config, store storage.DocumentStoreInterface, cache *QueryCache, logger providers.Logger) DashboardServiceInterface {
	return &DashboardService{
		store:    store,
		cache:    cache,
		logger:   logger,
		location: loadLocation(conf.Dashboard.Timezone),
		now:      time.Now,
	}
}

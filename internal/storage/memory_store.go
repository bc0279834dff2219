package storage

import (
	"context"
	"fmt"
	"sync"
	"tourvisto/internal/models"
)

// MemoryStore keeps both collections in process. It enforces the same
// accountId uniqueness as the mongo indexes.
type MemoryStore struct {
	mu        sync.RWMutex
	users     []*models.UserDocument
	byAccount map[string]*models.UserDocument
	trips     []*models.TripDocument
	tripsByID map[string]*models.TripDocument
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byAccount: make(map[string]*models.UserDocument),
		tripsByID: make(map[string]*models.TripDocument),
	}
}

func userField(u *models.UserDocument, field string) (any, error) {
	switch field {
	case "id", "_id":
		return u.ID, nil
	case "accountId":
		return u.AccountID, nil
	case "email":
		return u.Email, nil
	case "name":
		return u.Name, nil
	case "status":
		return u.Status, nil
	}
	return nil, fmt.Errorf("%w: users.%s", ErrUnknownField, field)
}

func tripField(t *models.TripDocument, field string) (any, error) {
	switch field {
	case "id", "_id":
		return t.ID, nil
	case "userId":
		return t.UserID, nil
	}
	return nil, fmt.Errorf("%w: trips.%s", ErrUnknownField, field)
}

func matches[T any](doc T, filters []Filter, field func(T, string) (any, error)) (bool, error) {
	for _, f := range filters {
		v, err := field(doc, f.Field)
		if err != nil {
			return false, err
		}
		if v != f.Value {
			return false, nil
		}
	}
	return true, nil
}

// page filters docs and applies offset/limit, returning the page and the match count.
func page[T any](docs []T, q Query, field func(T, string) (any, error)) ([]T, int, error) {
	matched := make([]T, 0, len(docs))
	for _, d := range docs {
		ok, err := matches(d, q.Filters, field)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, d)
		}
	}

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, q Query) (*models.UserList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, total, err := page(s.users, q, userField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserDocument, len(users))
	for i, u := range users {
		c := *u
		out[i] = &c
	}
	return &models.UserList{Users: out, Total: total}, nil
}

func (s *MemoryStore) ListTrips(_ context.Context, q Query) (*models.TripList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips, total, err := page(s.trips, q, tripField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.TripDocument, len(trips))
	for i, t := range trips {
		c := *t
		out[i] = &c
	}
	return &models.TripList{Trips: out, Total: total}, nil
}

func (s *MemoryStore) GetTrip(_ context.Context, id string) (*models.TripDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tripsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *MemoryStore) CreateTrip(_ context.Context, trip *models.TripDocument) error {
	if err := trip.Validate(); err != nil {
		return fmt.Errorf("invalid trip document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tripsByID[trip.ID]; ok {
		return fmt.Errorf("trip %s already exists", trip.ID)
	}
	c := *trip
	s.trips = append(s.trips, &c)
	s.tripsByID[c.ID] = &c
	return nil
}

func (s *MemoryStore) InsertUserIfAbsent(_ context.Context, user *models.UserDocument) (*models.UserDocument, bool, error) {
	if err := user.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid user document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byAccount[user.AccountID]; ok {
		c := *existing
		return &c, false, nil
	}
	c := *user
	s.users = append(s.users, &c)
	s.byAccount[c.AccountID] = &c
	out := c
	return &out, true, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

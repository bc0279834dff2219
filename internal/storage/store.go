package storage

import (
	"context"
	"errors"
	"tourvisto/internal/models"
)

const (
	CollectionUsers = "users"
	CollectionTrips = "trips"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnknownField = errors.New("unknown filter field")
)

type Filter struct {
	Field string
	Value any
}

// Query narrows a collection listing. Limit <= 0 means unbounded.
type Query struct {
	Filters []Filter
	Limit   int
	Offset  int
}

func NewQuery() Query {
	return Query{}
}

func (q Query) Equal(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

func (q Query) WithLimit(limit int) Query {
	q.Limit = limit
	return q
}

func (q Query) WithOffset(offset int) Query {
	q.Offset = offset
	return q
}

// DocumentStoreInterface is the document database holding the users and trips collections.
// Total on list results counts every matching document, ignoring Limit and Offset.
type DocumentStoreInterface interface {
	ListUsers(ctx context.Context, q Query) (*models.UserList, error)
	ListTrips(ctx context.Context, q Query) (*models.TripList, error)
	GetTrip(ctx context.Context, id string) (*models.TripDocument, error)
	CreateTrip(ctx context.Context, trip *models.TripDocument) error
	// InsertUserIfAbsent stores user unless a document with the same AccountID
	// exists, in which case the stored document is returned and created is false.
	InsertUserIfAbsent(ctx context.Context, user *models.UserDocument) (stored *models.UserDocument, created bool, err error)
	Ping(ctx context.Context) error
}

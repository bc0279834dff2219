package models

import (
	"errors"
	"fmt"
	"github.com/gookit/validate"
)

const MaxTripImages = 3

func errMissingTimestamp(field string) error {
	return fmt.Errorf("%s: timestamp is required", field)
}

// TripDocument is a generated trip. TripDetail holds the itinerary as a
// JSON-encoded string exactly as it is persisted.
type TripDocument struct {
	ID         string    `json:"id" bson:"_id"`
	TripDetail string    `json:"tripDetail" bson:"tripDetail" validate:"required"`
	CreatedAt  Timestamp `json:"createdAt" bson:"createdAt"`
	ImageURLs  []*string `json:"imageUrls" bson:"imageUrls"`
	UserID     string    `json:"userId" bson:"userId" validate:"required"`
}

func (t *TripDocument) Validate() error {
	v := validate.Struct(t)
	if !v.Validate() {
		return v.Errors.ErrOrNil()
	}
	if t.CreatedAt.IsZero() {
		return errMissingTimestamp("createdAt")
	}
	if len(t.ImageURLs) > MaxTripImages {
		return errors.New("imageUrls: at most 3 images are allowed")
	}
	return nil
}

type TripList struct {
	Trips []*TripDocument `json:"trips"`
	Total int             `json:"total"`
}

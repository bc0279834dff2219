package models

import (
	"github.com/gookit/validate"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserDocument is the local record of an identity-provider account.
// AccountID is unique across the users collection.
type UserDocument struct {
	ID        string    `json:"id" bson:"_id"`
	AccountID string    `json:"accountId" bson:"accountId" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"email"`
	Name      string    `json:"name" bson:"name"`
	ImageURL  *string   `json:"imageUrl" bson:"imageUrl"`
	JoinedAt  Timestamp `json:"joinedAt" bson:"joinedAt"`
	Status    string    `json:"status" bson:"status" validate:"required"`
}

func (u *UserDocument) Validate() error {
	v := validate.Struct(u)
	if !v.Validate() {
		return v.Errors.ErrOrNil()
	}
	if u.JoinedAt.IsZero() {
		return errMissingTimestamp("joinedAt")
	}
	return nil
}

type UserList struct {
	Users []*UserDocument `json:"users"`
	Total int             `json:"total"`
}

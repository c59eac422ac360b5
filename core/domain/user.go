package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRef is the denormalized owner snapshot attached to profiles and
// posts when they are returned to clients.
type UserRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

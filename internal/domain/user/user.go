package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user: not found")

// User is the display profile of an authenticated principal.
type User struct {
	ID        string
	FullName  string
	UpdatedAt time.Time
}

// Profile is the input accepted when a principal registers its display name.
type Profile struct {
	FullName string `json:"fullName" validate:"required,min=2"`
}

// Normalize trims the name.
func (p Profile) Normalize() Profile {
	p.FullName = strings.TrimSpace(p.FullName)
	return p
}

type Repository interface {
	Upsert(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
}

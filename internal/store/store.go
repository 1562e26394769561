// Package store persists user accounts. Two backends implement UserStore: a
// DynamoDB table and a Postgres database, both keyed by username.
package store

import (
	"context"
	"errors"

	"ddns53/internal/model"
)

var (
	// ErrNotFound means no user record exists for the username.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned by PutUser when the backend's conditional write
	// found the username already taken.
	ErrExists = errors.New("user already exists")
)

type UserStore interface {
	GetUser(ctx context.Context, username string) (model.User, error)
	// PutUser creates the user record. Backends use their native
	// conditional-write primitive, so a concurrent duplicate create loses
	// with ErrExists instead of silently overwriting.
	PutUser(ctx context.Context, user model.User) error
}

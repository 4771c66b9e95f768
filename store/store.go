// Package store persists users, posts and projects. Two backends are
// provided: GormStore for SQL databases and MongoStore for MongoDB.
package store

import (
	"context"
	"errors"

	"portfolio/models"
)

var (
	// ErrNotFound is returned when no document matches the given id or key.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate key value")
)

// UserStore holds credentials. Usernames are unique.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// Collection is a set of content documents of one kind. Reads populate the
// author reference when the document has one.
type Collection[T any] interface {
	// Insert assigns a new id to doc and stores it.
	Insert(ctx context.Context, doc *T) error
	// Save overwrites an existing document. Last write wins.
	Save(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	// Recent returns at most limit documents, newest createdAt first.
	Recent(ctx context.Context, limit int) ([]*T, error)
	Delete(ctx context.Context, id string) error
}

type Store interface {
	Users() UserStore
	Posts() Collection[models.Post]
	Projects() Collection[models.Project]
	// Migrate creates tables or indexes the store relies on.
	Migrate(ctx context.Context) error
	Close() error
}

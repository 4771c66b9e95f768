package models

import "time"

// Entity is implemented by the pointer types of content documents (posts and
// projects) so that stores and services can handle both generically.
type Entity interface {
	GetID() string
	SetID(id string)
	GetAuthorID() string
	SetAuthorID(id string)
	SetAuthor(u *User)
	GetMedia() string
	SetMedia(ref string)
	Stamp(now time.Time)
	Normalize()
}

// EntityPtr constrains P to be *T and an Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func authorID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

func optional(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

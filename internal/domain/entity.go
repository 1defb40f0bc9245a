package domain

import "github.com/google/uuid"

// Entity carries the identity shared by every aggregate. Two entities are the
// same when their identifiers match, regardless of the rest of their state.
type Entity struct {
	ID string
}

// NewID returns a fresh process-wide unique identifier.
func NewID() string {
	return uuid.NewString()
}

func newEntity(id string) Entity {
	if id == "" {
		id = NewID()
	}
	return Entity{ID: id}
}

// SameIdentity reports whether both entities share an identifier.
func (e Entity) SameIdentity(other Entity) bool {
	return e.ID != "" && e.ID == other.ID
}

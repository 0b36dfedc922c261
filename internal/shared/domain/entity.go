package domain

import "github.com/google/uuid"

// Entity represents a domain entity with identity.
type Entity interface {
	ID() uuid.UUID
	Equals(other Entity) bool
}

// BaseEntity provides common entity functionality.
type BaseEntity struct {
	id uuid.UUID
}

// NewID returns a time-ordered identifier. Entities created later sort after
// entities created earlier.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NewBaseEntity creates a new entity with a generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{id: NewID()}
}

// NewBaseEntityWithID creates a new entity with a specific ID.
func NewBaseEntityWithID(id uuid.UUID) BaseEntity {
	return BaseEntity{id: id}
}

func (e BaseEntity) ID() uuid.UUID { return e.id }

// Equals checks if two entities have the same identity.
func (e BaseEntity) Equals(other Entity) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a stored record with a stable identity, such as a template or a print job
type Entity interface {
	GetID() uuid.UUID
	Touch()
}

// BaseEntity holds the identity and audit stamps of a stored record.
// UpdatedAt never falls behind CreatedAt.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity mints a random ID stamped with a single instant
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// AssignID pins a derived identity, e.g. a seeded template keyed by its slug
func (e *BaseEntity) AssignID(id uuid.UUID) {
	e.ID = id
}

// Touch records a change made now
func (e *BaseEntity) Touch() {
	e.TouchAt(time.Now())
}

// TouchAt records a change made at t
func (e *BaseEntity) TouchAt(t time.Time) {
	if t.Before(e.CreatedAt) {
		t = e.CreatedAt
	}
	e.UpdatedAt = t
}

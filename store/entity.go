package store

import (
	"fmt"
	"reflect"
)

// Entity is the base interface for all storable types.
//
// Implementations are expected to be pointer types: SetID must mutate the
// receiver, and Save writes the assigned identifier back through it.
type Entity interface {
	// CollectionName returns the MongoDB collection name for this entity type.
	CollectionName() string

	// GetID returns the entity's identifier, or "" while unsaved.
	GetID() string

	// SetID sets the entity's identifier.
	SetID(id string)
}

// Base is the embeddable identity fragment shared by all entities.
// The zero value is the unsaved state.
type Base struct {
	// ID is the stored document's _id. Empty means not yet persisted;
	// omitempty keeps document copies embeddable without a blank _id.
	ID string `bson:"_id,omitempty" json:"id,omitempty"`
}

// GetID returns the entity's identifier, or "" while unsaved.
func (b *Base) GetID() string { return b.ID }

// SetID sets the entity's identifier.
func (b *Base) SetID(id string) { b.ID = id }

// IsUnsaved reports whether the entity has no identifier yet.
// Nil entities, including typed-nil pointers, count as unsaved.
func IsUnsaved(e Entity) bool {
	return isNil(e) || e.GetID() == ""
}

// isNil detects nil entities behind the interface, typed-nil pointers
// included, so guards fail with ErrUnsaved instead of a nil dereference.
func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// RequireSaved returns ErrUnsaved when the entity has no identifier.
// Every operation that depends on a stable identifier (reference creation,
// delete, relationship binding) calls this before any store I/O.
func RequireSaved(e Entity) error {
	if IsUnsaved(e) {
		return fmt.Errorf("%w (%T)", ErrUnsaved, e)
	}
	return nil
}

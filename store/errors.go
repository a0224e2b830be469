package store

import "errors"

var (
	// ErrUnsaved is returned when an operation requiring a saved entity is
	// invoked on an entity with an empty identifier.
	ErrUnsaved = errors.New("entities: entity must be saved before this operation")

	// ErrNotInitialized is returned when a Many collection is used before
	// being bound to a parent via ManyOf.
	ErrNotInitialized = errors.New("entities: reference collection not initialized")

	// ErrNotFound is returned when an entity doesn't exist (or was deleted
	// after a reference to it was created).
	ErrNotFound = errors.New("entities: entity not found")

	// ErrSerialize is returned when an entity's shape cannot round-trip
	// through the store's document form.
	ErrSerialize = errors.New("entities: entity is not serializable")

	// ErrNoDefault is returned by the convenience wrappers when no default
	// gateway has been registered via Init or SetDefault.
	ErrNoDefault = errors.New("entities: no default gateway configured")

	// ErrDefaultSet is returned when attempting to re-seat the process-wide
	// default gateway after it has been established.
	ErrDefaultSet = errors.New("entities: default gateway already configured")
)

package store

import (
	"context"
	"sync/atomic"
)

// defaultDB is the process-wide gateway seated once at startup.
var defaultDB atomic.Pointer[DB]

// Init opens a gateway with Open and seats it as the process-wide default in
// one step. Call it once at startup; a second call fails with ErrDefaultSet.
func Init(ctx context.Context, config Config) (*DB, error) {
	db, err := Open(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := SetDefault(db); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	return db, nil
}

// SetDefault seats the process-wide default gateway. The seat is
// construct-once: re-seating fails with ErrDefaultSet.
func SetDefault(db *DB) error {
	if !defaultDB.CompareAndSwap(nil, db) {
		return ErrDefaultSet
	}
	return nil
}

// Default returns the process-wide default gateway, or nil if none was
// seated.
func Default() *DB {
	return defaultDB.Load()
}

func requireDefault() (*DB, error) {
	db := defaultDB.Load()
	if db == nil {
		return nil, ErrNoDefault
	}
	return db, nil
}

// The functions below are blocking conveniences over the default gateway.
// They run with context.Background(), so they carry no cancellation or
// deadline; code that must remain responsive to cancellation should use the
// context-taking DB methods instead.

// Save saves the entity through the default gateway.
func Save(e Entity) error {
	db, err := requireDefault()
	if err != nil {
		return err
	}
	return db.Save(context.Background(), e)
}

// Delete deletes the entity through the default gateway.
func Delete(e Entity) error {
	db, err := requireDefault()
	if err != nil {
		return err
	}
	return db.Delete(context.Background(), e)
}

// DeleteAll deletes the entities concurrently through the default gateway.
func DeleteAll(entities ...Entity) error {
	db, err := requireDefault()
	if err != nil {
		return err
	}
	return db.DeleteAll(context.Background(), entities...)
}

// ToReference captures a One handle for a saved entity. It is an alias for
// NewOne kept alongside the other entity conveniences.
func ToReference[T Entity](e T) (One[T], error) {
	return NewOne(e)
}

package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// One is an unresolved reference to exactly one entity of type T. It holds
// only the target's identifier, so it serializes as plain data and survives
// storage independent of the referenced entity's lifecycle. Many handles may
// point at the same entity; none of them owns it.
type One[T Entity] struct {
	ID string `bson:"id" json:"id"`
}

// NewOne captures a reference to a saved entity.
// An unsaved entity fails with ErrUnsaved.
func NewOne[T Entity](e T) (One[T], error) {
	if err := RequireSaved(e); err != nil {
		return One[T]{}, err
	}
	return One[T]{ID: e.GetID()}, nil
}

// IsZero reports whether the handle references nothing.
func (o One[T]) IsZero() bool {
	return o.ID == ""
}

// Resolve fetches the referenced entity. A target deleted after the handle
// was created resolves to ErrNotFound; a handle never fails opaquely on a
// stale reference. The zero handle also resolves to ErrNotFound, and a nil
// gateway fails with ErrNotInitialized.
func (o One[T]) Resolve(ctx context.Context, db *DB) (T, error) {
	var zero T
	if o.ID == "" {
		return zero, ErrNotFound
	}
	if db == nil {
		return zero, ErrNotInitialized
	}

	e := newEntity[T]()
	err := db.Collection(e).FindOne(ctx, bson.M{"_id": o.ID}).Decode(e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return e, nil
}

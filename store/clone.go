package store

import (
	"fmt"
	"iter"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// Duplicate produces a structurally identical copy of the entity by
// round-tripping it through the store's document form. The copy shares no
// mutable state with the original, however deeply nested the shape is; the
// trade-off is that the entity type must be fully bson-serializable, and a
// shape that cannot round-trip fails with ErrSerialize.
func Duplicate[T Entity](e T) (T, error) {
	var zero T

	raw, err := bson.Marshal(e)
	if err != nil {
		return zero, fmt.Errorf("%w: marshal %T: %v", ErrSerialize, e, err)
	}

	t := reflect.TypeOf(e)
	if t.Kind() == reflect.Pointer {
		out := reflect.New(t.Elem())
		if err := bson.Unmarshal(raw, out.Interface()); err != nil {
			return zero, fmt.Errorf("%w: unmarshal %T: %v", ErrSerialize, e, err)
		}
		return out.Interface().(T), nil
	}

	out := reflect.New(t)
	if err := bson.Unmarshal(raw, out.Interface()); err != nil {
		return zero, fmt.Errorf("%w: unmarshal %T: %v", ErrSerialize, e, err)
	}
	return out.Elem().Interface().(T), nil
}

// ToDocument duplicates the entity and resets its identifier to the empty
// value: the result is an embeddable value with no independent lifecycle,
// not an addressable record.
func ToDocument[T Entity](e T) (T, error) {
	doc, err := Duplicate(e)
	if err != nil {
		var zero T
		return zero, err
	}
	doc.SetID("")
	return doc, nil
}

// ToDocuments applies ToDocument element-wise, preserving input order.
func ToDocuments[T Entity](entities []T) ([]T, error) {
	if entities == nil {
		return nil, nil
	}
	docs := make([]T, 0, len(entities))
	for _, e := range entities {
		doc, err := ToDocument(e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ToDocumentsSeq applies ToDocument element-wise over an unbounded sequence.
// Iteration stops at the first serialization failure.
func ToDocumentsSeq[T Entity](entities iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for e := range entities {
			doc, err := ToDocument(e)
			if !yield(doc, err) || err != nil {
				return
			}
		}
	}
}

// newEntity constructs a fresh, addressable instance of T. Entities are
// pointer types, so the zero value of T alone would be a nil pointer.
func newEntity[T Entity]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}

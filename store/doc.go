// Package store provides a MongoDB data access layer with typed entity
// references and cascading persistence.
//
// Entities are plain structs that embed [Base] and name their collection.
// Saving is upsert-by-identifier with wholesale replace; deleting cascades
// across declared one-to-many relationships by removing join records, never
// the child records themselves.
//
// # Key Features
//
//   - Identity guard: operations that need a stable identifier fail with
//     [ErrUnsaved] before any store I/O
//   - One[T]: serializable single-entity references resolved on demand
//   - Many[C]: store-backed one-to-many link collections with idempotent
//     add/remove
//   - Duplicate/ToDocument: serialization-based deep copies for embedding
//     entities as values
//   - Relationship registry driving single-level cascade delete
//   - Concurrent batch delete with settle-then-report semantics
//
// # Entities
//
// All entities implement the [Entity] interface, usually by embedding
// [Base]:
//
//	type Book struct {
//	    store.Base `bson:",inline"`
//	    Title      string `bson:"title"`
//	}
//
//	func (*Book) CollectionName() string { return "books" }
//
// # Configuration
//
// Connect with the host/port form or a pre-built driver options object;
// both produce an equivalent gateway:
//
//	db, err := store.Open(ctx, store.DefaultConfig("library"))
//	db, err := store.OpenWithOptions(ctx, clientOpts, "library", store.Config{})
//
// Declare relationships once at startup so deletes can cascade:
//
//	reg := store.NewRegistry()
//	reg.Register(store.Relationship{Parent: "authors", Child: "books"})
//	db.SetRegistry(reg)
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrUnsaved] - operation requires a saved entity
//   - [ErrNotInitialized] - Many used before binding via ManyOf
//   - [ErrNotFound] - entity doesn't exist (or was deleted after a
//     reference to it was created)
//   - [ErrSerialize] - entity shape cannot round-trip through bson
//
// Driver errors propagate unchanged; the package adds no retry policy.
package store

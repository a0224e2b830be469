package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/yilei63/MongoDB.Entities/internal/refs"
)

// DB is the persistence gateway: the single point of contact with MongoDB.
// It is stateless per operation and safe for concurrent use; the underlying
// driver owns the connection pool.
type DB struct {
	client     *mongo.Client
	database   *mongo.Database
	config     Config
	registry   *Registry
	logger     zerolog.Logger
	ownsClient bool
}

// Open connects to MongoDB using the host/port/database form of Config and
// returns a gateway bound to the configured database. The connection is
// verified with a ping before the gateway is returned.
func Open(ctx context.Context, config Config) (*DB, error) {
	config.validate()
	if config.Database == "" {
		return nil, fmt.Errorf("entities: config requires a database name")
	}

	uri := fmt.Sprintf("mongodb://%s:%d", config.Host, config.Port)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := NewWithClient(client, config.Database, config)
	db.ownsClient = true
	return db, nil
}

// OpenWithOptions connects using a pre-built driver options object
// (credentials, TLS, replica sets) plus a database name. Both Open forms
// produce an equivalent gateway.
func OpenWithOptions(ctx context.Context, opts *options.ClientOptions, database string, config Config) (*DB, error) {
	config.validate()
	if database == "" {
		return nil, fmt.Errorf("entities: a database name is required")
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	config.Database = database
	db := NewWithClient(client, database, config)
	db.ownsClient = true
	return db, nil
}

// NewWithClient creates a gateway over an already-connected client. The
// caller keeps ownership of the client; Close will not disconnect it.
func NewWithClient(client *mongo.Client, database string, config Config) *DB {
	config.validate()
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	db := &DB{
		client:   client,
		config:   config,
		registry: config.Registry,
		logger:   logger,
	}
	if client != nil {
		db.database = client.Database(database)
	}
	return db
}

// Close disconnects the underlying client if the gateway owns it (created
// via Open or OpenWithOptions). Gateways built with NewWithClient leave
// disconnection to the caller.
func (db *DB) Close(ctx context.Context) error {
	if !db.ownsClient || db.client == nil {
		return nil
	}
	return db.client.Disconnect(ctx)
}

// SetRegistry sets the relationship registry for cascade operations.
func (db *DB) SetRegistry(registry *Registry) {
	db.registry = registry
}

// Registry returns the relationship registry, or nil if not set.
func (db *DB) Registry() *Registry {
	return db.registry
}

// Database returns the underlying driver database for queries the gateway
// does not wrap.
func (db *DB) Database() *mongo.Database {
	return db.database
}

// Collection returns the backing collection for the entity's type.
func (db *DB) Collection(e Entity) *mongo.Collection {
	return db.database.Collection(e.CollectionName())
}

// CollectionNamed returns the backing collection by name.
func (db *DB) CollectionNamed(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// joins returns the collection holding one-to-many join records.
func (db *DB) joins() *mongo.Collection {
	return db.database.Collection(db.config.JoinCollection)
}

// JoinCollectionName returns the name of the join record collection.
func (db *DB) JoinCollectionName() string {
	return db.config.JoinCollection
}

// Save upserts the entity by identifier. An unsaved entity is assigned a new
// identifier (written back through SetID) and inserted; an existing record
// is wholly replaced with the current in-memory shape, not merged. Fields
// present in the stored document but absent from the entity type are lost on
// replace; callers narrowing a schema must migrate first.
func (db *DB) Save(ctx context.Context, e Entity) error {
	if isNil(e) {
		return fmt.Errorf("%w (nil entity)", ErrUnsaved)
	}
	inserted := false
	if IsUnsaved(e) {
		e.SetID(db.config.NewID())
		inserted = true
	}

	_, err := db.Collection(e).ReplaceOne(ctx,
		bson.M{"_id": e.GetID()}, e,
		options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	db.logger.Debug().
		Str("collection", e.CollectionName()).
		Str("id", e.GetID()).
		Bool("inserted", inserted).
		Msg("entity saved")
	return nil
}

// FindID fetches the record with the given id from the named collection and
// decodes it into out. Absence is reported as ErrNotFound.
func (db *DB) FindID(ctx context.Context, collection, id string, out any) error {
	err := db.CollectionNamed(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Find fetches the entity of type T with the given id.
// Absence is reported as ErrNotFound.
func Find[T Entity](ctx context.Context, db *DB, id string) (T, error) {
	e := newEntity[T]()
	if err := db.FindID(ctx, e.CollectionName(), id, e); err != nil {
		var zero T
		return zero, err
	}
	return e, nil
}

// Delete removes the entity's record and cascades across its declared
// one-to-many relationships (see DeleteID). The entity must be saved.
func (db *DB) Delete(ctx context.Context, e Entity) error {
	if err := RequireSaved(e); err != nil {
		return err
	}
	return db.DeleteID(ctx, e.CollectionName(), e.GetID())
}

// DeleteID removes the record with the given id from the named collection.
// Deleting a nonexistent id is not an error. After the record delete, join
// records are cascaded: every relationship registered with this collection
// as parent has its join records for this parent removed, and any join
// records naming this entity as the child are removed as well. Child entity
// records themselves are never deleted, and the cascade is single-level:
// grandchild joins are untouched.
func (db *DB) DeleteID(ctx context.Context, collection, id string) error {
	res, err := db.CollectionNamed(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if err := db.DeleteJoins(ctx, collection, id); err != nil {
		return err
	}

	db.logger.Info().
		Str("collection", collection).
		Str("id", id).
		Int64("deleted", res.DeletedCount).
		Msg("entity deleted")
	return nil
}

// DeleteJoins removes the join records involving the given entity: the
// parent side scoped by the registered child collections, and the child
// side unconditionally. It is idempotent and is also used by the stream
// watcher to repair joins when a delete bypassed the gateway.
func (db *DB) DeleteJoins(ctx context.Context, collection, id string) error {
	if db.registry == nil || !db.registry.Involves(collection) {
		return nil
	}
	ref := refs.EntityRef(collection, id)

	if rels := db.registry.ChildrenOf(collection); len(rels) > 0 {
		childColls := make([]string, len(rels))
		for i, rel := range rels {
			childColls[i] = rel.Child
		}
		res, err := db.joins().DeleteMany(ctx, bson.M{
			"parent_ref": ref,
			"child_coll": bson.M{"$in": childColls},
		})
		if err != nil {
			return err
		}
		if res.DeletedCount > 0 {
			db.logger.Debug().
				Str("parent", ref).
				Int64("joins", res.DeletedCount).
				Msg("cascaded join records")
		}
	}

	if len(db.registry.ParentsOf(collection)) > 0 {
		if _, err := db.joins().DeleteMany(ctx, bson.M{"child_ref": ref}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll deletes every entity concurrently and waits for all of them to
// settle. The first failure encountered is reported, but deletes that
// already completed are not rolled back; absence of one record never blocks
// the deletion of the others.
func (db *DB) DeleteAll(ctx context.Context, entities ...Entity) error {
	return fanOut(ctx, entities, db.Delete)
}

// fanOut runs op once per item concurrently and joins on all of them,
// returning the first error after every op has settled. Items are not
// cancelled when a sibling fails.
func fanOut[T any](ctx context.Context, items []T, op func(context.Context, T) error) error {
	var g errgroup.Group
	for _, item := range items {
		g.Go(func() error {
			return op(ctx, item)
		})
	}
	return g.Wait()
}

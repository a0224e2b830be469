package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yilei63/MongoDB.Entities/internal/refs"
)

// joinRecord links one parent entity to one child entity. Join records live
// in their own collection, not inside either entity's document; the record's
// _id is derived deterministically from both refs so writes are idempotent.
type joinRecord struct {
	ID         string `bson:"_id"`
	ParentRef  string `bson:"parent_ref"`
	ParentColl string `bson:"parent_coll"`
	ParentID   string `bson:"parent_id"`
	ChildRef   string `bson:"child_ref"`
	ChildColl  string `bson:"child_coll"`
	ChildID    string `bson:"child_id"`
}

// Many is a lazily bound accessor for the one-to-many relationship between
// a parent entity and child entities of type C. It is a typed view over the
// join record collection, never a cache: every query goes back to the store.
//
// The zero value is uninitialized; bind it with ManyOf. Binding is the only
// state transition — rebinding means constructing a new value.
type Many[C Entity] struct {
	db         *DB
	parentColl string
	parentID   string
	childColl  string
}

// ManyOf binds a Many accessor to a saved parent entity. An unsaved parent
// fails with ErrUnsaved.
func ManyOf[C Entity](db *DB, parent Entity) (*Many[C], error) {
	if err := RequireSaved(parent); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, ErrNotInitialized
	}
	return &Many[C]{
		db:         db,
		parentColl: parent.CollectionName(),
		parentID:   parent.GetID(),
		childColl:  newEntity[C]().CollectionName(),
	}, nil
}

// ParentID returns the bound parent's identifier.
func (m *Many[C]) ParentID() string {
	if m == nil {
		return ""
	}
	return m.parentID
}

// ready guards against use before ManyOf.
func (m *Many[C]) ready() error {
	if m == nil || m.db == nil {
		return ErrNotInitialized
	}
	return nil
}

func (m *Many[C]) parentRef() string {
	return refs.EntityRef(m.parentColl, m.parentID)
}

func (m *Many[C]) filter() bson.M {
	return bson.M{
		"parent_ref": m.parentRef(),
		"child_coll": m.childColl,
	}
}

// Add links a saved child to the parent. Adding an existing link is a no-op:
// the join record's deterministic _id makes the upsert idempotent.
func (m *Many[C]) Add(ctx context.Context, child C) error {
	if err := m.ready(); err != nil {
		return err
	}
	if err := RequireSaved(child); err != nil {
		return err
	}

	parentRef := m.parentRef()
	childRef := refs.EntityRef(m.childColl, child.GetID())
	rec := joinRecord{
		ID:         refs.JoinID(parentRef, childRef),
		ParentRef:  parentRef,
		ParentColl: m.parentColl,
		ParentID:   m.parentID,
		ChildRef:   childRef,
		ChildColl:  m.childColl,
		ChildID:    child.GetID(),
	}

	_, err := m.db.joins().ReplaceOne(ctx,
		bson.M{"_id": rec.ID}, rec,
		options.Replace().SetUpsert(true))
	return err
}

// Remove unlinks a saved child from the parent. Removing a nonexistent link
// is a no-op.
func (m *Many[C]) Remove(ctx context.Context, child C) error {
	if err := m.ready(); err != nil {
		return err
	}
	if err := RequireSaved(child); err != nil {
		return err
	}

	childRef := refs.EntityRef(m.childColl, child.GetID())
	_, err := m.db.joins().DeleteOne(ctx, bson.M{
		"_id": refs.JoinID(m.parentRef(), childRef),
	})
	return err
}

// ChildIDs returns the identifiers of the children currently linked to the
// parent. Each call re-queries the join records.
func (m *Many[C]) ChildIDs(ctx context.Context) ([]string, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}

	cursor, err := m.db.joins().Find(ctx, m.filter())
	if err != nil {
		return nil, err
	}
	var records []joinRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ChildID)
	}
	return ids, nil
}

// Children returns the child entities currently linked to the parent. Each
// call re-queries the store, so results reflect the latest persisted state
// rather than a snapshot. A child whose record was deleted out from under
// its join is simply absent from the result.
func (m *Many[C]) Children(ctx context.Context) ([]C, error) {
	ids, err := m.ChildIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := m.db.CollectionNamed(m.childColl).Find(ctx, bson.M{
		"_id": bson.M{"$in": ids},
	})
	if err != nil {
		return nil, err
	}
	var children []C
	if err := cursor.All(ctx, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// Count returns the number of join records for the parent.
func (m *Many[C]) Count(ctx context.Context) (int64, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	return m.db.joins().CountDocuments(ctx, m.filter())
}

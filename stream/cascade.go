// Package stream provides a change stream watcher that keeps join records
// consistent when entity deletes bypass the gateway.
package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yilei63/MongoDB.Entities/store"
)

// Handler processes change stream delete events and removes the join
// records the deleted entity was involved in. DB.Delete already cascades
// synchronously; the watcher covers writers that delete records directly
// through the driver or another process.
type Handler struct {
	db     *store.DB
	logger zerolog.Logger
}

// NewHandler creates a new change stream handler.
func NewHandler(db *store.DB, logger *zerolog.Logger) *Handler {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Handler{
		db:     db,
		logger: l,
	}
}

// deleteEvent is the subset of a change stream document the handler needs.
type deleteEvent struct {
	OperationType string  `bson:"operationType"`
	NS            eventNS `bson:"ns"`
	DocumentKey   bson.M  `bson:"documentKey"`
}

type eventNS struct {
	DB   string `bson:"db"`
	Coll string `bson:"coll"`
}

// Watch opens a change stream on the gateway's database and processes
// delete events until the context is cancelled or the stream fails.
// Requires a replica set or sharded deployment (change streams are not
// available on standalone servers).
func (h *Handler) Watch(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "delete"},
		}}},
	}

	cs, err := h.db.Database().Watch(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var event deleteEvent
		if err := cs.Decode(&event); err != nil {
			h.logger.Error().Err(err).Msg("failed to decode change event")
			continue
		}
		if err := h.processEvent(ctx, event); err != nil {
			h.logger.Error().
				Err(err).
				Str("collection", event.NS.Coll).
				Msg("failed to process delete event")
		}
	}
	return cs.Err()
}

// processEvent removes join records for a single delete event.
func (h *Handler) processEvent(ctx context.Context, event deleteEvent) error {
	if !h.shouldProcess(event) {
		return nil
	}

	id := stringID(event.DocumentKey["_id"])
	if id == "" {
		return nil
	}

	h.logger.Info().
		Str("collection", event.NS.Coll).
		Str("id", id).
		Msg("repairing join records for external delete")

	return h.db.DeleteJoins(ctx, event.NS.Coll, id)
}

// shouldProcess filters events down to deletes of entities that appear in a
// registered relationship. Deletes of join records themselves are skipped,
// including the ones this handler issues.
func (h *Handler) shouldProcess(event deleteEvent) bool {
	if event.OperationType != "delete" {
		return false
	}
	if event.NS.Coll == "" || event.NS.Coll == h.db.JoinCollectionName() {
		return false
	}
	registry := h.db.Registry()
	return registry != nil && registry.Involves(event.NS.Coll)
}

// stringID normalizes a documentKey _id to its string form. Entity ids are
// strings, but records written by other tooling may carry ObjectIDs.
func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

package store

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Config holds configuration for the DB gateway.
type Config struct {
	// Host is the MongoDB host used by Open.
	// Default: "127.0.0.1"
	Host string

	// Port is the MongoDB port used by Open.
	// Default: 27017
	Port int

	// Database is the database name. Required by Open and OpenWithOptions.
	Database string

	// JoinCollection is the name of the collection holding one-to-many
	// join records.
	// Default: "entities_joins"
	JoinCollection string

	// NewID produces identifiers for entities saved without one.
	// Default: ObjectIDGenerator
	NewID func() string

	// Registry declares the one-to-many relationships used by cascade
	// delete. Nil means no relationships are declared.
	Registry *Registry

	// Logger receives structured operation logs. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns sensible defaults for a local MongoDB instance.
func DefaultConfig(database string) Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           27017,
		Database:       database,
		JoinCollection: "entities_joins",
		NewID:          ObjectIDGenerator,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port <= 0 {
		c.Port = 27017
	}
	if c.JoinCollection == "" {
		c.JoinCollection = "entities_joins"
	}
	if c.NewID == nil {
		c.NewID = ObjectIDGenerator
	}
}

// ObjectIDGenerator returns a new ObjectID in hex form. This is the default
// identifier generator.
func ObjectIDGenerator() string {
	return primitive.NewObjectID().Hex()
}

// UUIDGenerator returns a random UUID string. Use via Config.NewID when
// identifiers must not encode a timestamp.
func UUIDGenerator() string {
	return uuid.NewString()
}

package stream

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yilei63/MongoDB.Entities/store"
)

func TestNewHandler(t *testing.T) {
	// Nil gateway and logger must not panic at construction time.
	h := NewHandler(nil, nil)
	if h == nil {
		t.Fatal("expected non-nil Handler")
	}
}

// --- stringID Tests ---

func TestStringID(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "abc123", "abc123"},
		{"empty string", "", ""},
		{"object id", oid, oid.Hex()},
		{"nil", nil, ""},
		{"number", int32(42), "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stringID(tt.value)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// --- shouldProcess Tests ---

func watcherOver(reg *store.Registry) *Handler {
	db := store.NewWithClient(nil, "test", store.Config{Registry: reg})
	return NewHandler(db, nil)
}

func TestShouldProcess(t *testing.T) {
	reg := store.NewRegistry()
	reg.Register(store.Relationship{Parent: "authors", Child: "books"})
	h := watcherOver(reg)

	tests := []struct {
		name     string
		event    deleteEvent
		expected bool
	}{
		{
			name: "delete of registered parent",
			event: deleteEvent{
				OperationType: "delete",
				NS:            eventNS{Coll: "authors"},
			},
			expected: true,
		},
		{
			name: "delete of registered child",
			event: deleteEvent{
				OperationType: "delete",
				NS:            eventNS{Coll: "books"},
			},
			expected: true,
		},
		{
			name: "delete of unrelated collection",
			event: deleteEvent{
				OperationType: "delete",
				NS:            eventNS{Coll: "reviews"},
			},
			expected: false,
		},
		{
			name: "non-delete operation",
			event: deleteEvent{
				OperationType: "insert",
				NS:            eventNS{Coll: "authors"},
			},
			expected: false,
		},
		{
			name: "delete of a join record",
			event: deleteEvent{
				OperationType: "delete",
				NS:            eventNS{Coll: "entities_joins"},
			},
			expected: false,
		},
		{
			name: "missing namespace",
			event: deleteEvent{
				OperationType: "delete",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.shouldProcess(tt.event); got != tt.expected {
				t.Errorf("shouldProcess = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestShouldProcess_NoRegistry(t *testing.T) {
	h := watcherOver(nil)

	event := deleteEvent{
		OperationType: "delete",
		NS:            eventNS{Coll: "authors"},
		DocumentKey:   bson.M{"_id": "a1"},
	}
	if h.shouldProcess(event) {
		t.Error("expected events to be skipped without a registry")
	}
}

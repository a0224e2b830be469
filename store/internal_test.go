package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// --- validate Tests ---

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := Config{}
	cfg.validate()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected default host, got %q", cfg.Host)
	}
	if cfg.Port != 27017 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.JoinCollection != "entities_joins" {
		t.Errorf("expected default join collection, got %q", cfg.JoinCollection)
	}
	if cfg.NewID == nil {
		t.Fatal("expected default id generator")
	}
	if id := cfg.NewID(); id == "" {
		t.Error("expected default generator to produce ids")
	}
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Host:           "db.internal",
		Port:           27018,
		JoinCollection: "links",
		NewID:          UUIDGenerator,
	}
	cfg.validate()

	if cfg.Host != "db.internal" || cfg.Port != 27018 || cfg.JoinCollection != "links" {
		t.Errorf("validate overwrote explicit values: %+v", cfg)
	}
}

func TestValidate_NegativePort(t *testing.T) {
	cfg := Config{Port: -1}
	cfg.validate()
	if cfg.Port != 27017 {
		t.Errorf("expected negative port replaced with default, got %d", cfg.Port)
	}
}

// --- fanOut Tests ---

func TestFanOut_Empty(t *testing.T) {
	err := fanOut(context.Background(), nil, func(context.Context, int) error {
		t.Error("op should not run for empty input")
		return nil
	})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestFanOut_AllSucceed(t *testing.T) {
	var ran atomic.Int32
	err := fanOut(context.Background(), []int{1, 2, 3}, func(_ context.Context, _ int) error {
		ran.Add(1)
		return nil
	})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("expected 3 ops, got %d", ran.Load())
	}
}

func TestFanOut_FailureDoesNotStopSiblings(t *testing.T) {
	boom := errors.New("store unavailable")
	var ran atomic.Int32

	err := fanOut(context.Background(), []int{1, 2, 3}, func(_ context.Context, item int) error {
		ran.Add(1)
		if item == 2 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Errorf("expected fan-out to report the failure, got %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("expected all 3 ops to settle despite the failure, got %d", ran.Load())
	}
}

// --- newEntity Tests ---

type innerEntity struct {
	Base `bson:",inline"`
	N    int `bson:"n"`
}

func (*innerEntity) CollectionName() string { return "inner" }

func TestNewEntity_AllocatesPointerTypes(t *testing.T) {
	e := newEntity[*innerEntity]()
	if e == nil {
		t.Fatal("expected allocated entity, got nil")
	}
	e.SetID("x")
	if e.GetID() != "x" {
		t.Errorf("expected usable entity, got id %q", e.GetID())
	}
	if e.CollectionName() != "inner" {
		t.Errorf("expected collection 'inner', got %q", e.CollectionName())
	}
}

func TestDuplicate_FreshAllocation(t *testing.T) {
	original := &innerEntity{Base: Base{ID: "i1"}, N: 7}
	copied, err := Duplicate(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if copied == original {
		t.Fatal("expected a distinct allocation")
	}
	if copied.N != 7 || copied.GetID() != "i1" {
		t.Errorf("expected structural copy, got %+v", copied)
	}
}

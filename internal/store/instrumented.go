package store

import (
	"context"
	"errors"

	"github.com/agentdeck/agentdeck/pkg/metrics"
)

// Instrumented counts every call of the wrapped Store in the
// agentdeck_store_operations_total metric. A missing id is not a failure.
type Instrumented struct {
	next Store
}

func NewInstrumented(next Store) *Instrumented {
	return &Instrumented{next: next}
}

func observe(collection, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.ObserveStore(collection, op, err)
}

func (s *Instrumented) Insert(ctx context.Context, collection string, fields Fields, opts ...InsertOption) (string, error) {
	id, err := s.next.Insert(ctx, collection, fields, opts...)
	observe(collection, "insert", err)
	return id, err
}

func (s *Instrumented) Query(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	recs, err := s.next.Query(ctx, collection, field, value)
	observe(collection, "query", err)
	return recs, err
}

func (s *Instrumented) GetByID(ctx context.Context, collection, id string) (Record, bool, error) {
	rec, found, err := s.next.GetByID(ctx, collection, id)
	observe(collection, "get", err)
	return rec, found, err
}

func (s *Instrumented) UpdateFields(ctx context.Context, collection, id string, fields Fields) error {
	err := s.next.UpdateFields(ctx, collection, id, fields)
	observe(collection, "update", err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, collection, id string) error {
	err := s.next.Delete(ctx, collection, id)
	observe(collection, "delete", err)
	return err
}

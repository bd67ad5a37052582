// Package store is the record store adapter: a small document-store surface
// (insert, equality query, get, field update, delete) over named collections.
// Repositories depend on the Store interface; MemoryStore backs tests and
// single-node runs, MongoStore backs deployments.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is reported by UpdateFields and Delete when no record has the id.
var ErrNotFound = errors.New("record not found")

// Fields is the set of named values persisted for one record.
type Fields map[string]interface{}

// Record is one stored document. ID is assigned by the store.
type Record struct {
	ID     string
	Fields Fields
}

// String returns the named field as a string, or "" when absent.
func (r Record) String(name string) string {
	s, _ := r.Fields[name].(string)
	return s
}

// Time returns the named field as a time, or the zero time when absent.
func (r Record) Time(name string) time.Time {
	t, _ := r.Fields[name].(time.Time)
	return t
}

// Store is implemented by MemoryStore and MongoStore.
type Store interface {
	Insert(ctx context.Context, collection string, fields Fields, opts ...InsertOption) (string, error)
	Query(ctx context.Context, collection, field string, value interface{}) ([]Record, error)
	// GetByID returns found=false (and no error) when the id does not exist.
	GetByID(ctx context.Context, collection, id string) (rec Record, found bool, err error)
	UpdateFields(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
}

type insertOptions struct {
	timestampField string
}

// InsertOption customises a single Insert call.
type InsertOption func(*insertOptions)

// WithServerTimestamp asks the store to set field to its own clock at insert time.
func WithServerTimestamp(field string) InsertOption {
	return func(o *insertOptions) { o.timestampField = field }
}

func applyInsertOptions(opts []InsertOption) insertOptions {
	var o insertOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WriteError reports a failed insert, update or delete.
type WriteError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store write %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("store write %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError reports a failed query or get.
type ReadError struct {
	Op         string
	Collection string
	Key        string
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store read %s %s (%s): %v", e.Op, e.Collection, e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

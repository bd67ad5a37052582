// Package storetest provides a record store with injectable failures for
// repository and handler tests.
package storetest

import (
	"context"
	"errors"
	"sync"

	"github.com/agentdeck/agentdeck/internal/store"
)

// ErrInjected is the default failure returned by FaultStore.
var ErrInjected = errors.New("injected store failure")

// FaultStore wraps a MemoryStore and fails selected calls.
type FaultStore struct {
	*store.MemoryStore

	mu          sync.Mutex
	failInsert  map[string]error
	failQuery   map[string]error
	failGet     map[string]error
	failUpdate  map[string]error
	failDelete  map[string]error
	deleteCalls []string
}

func NewFaultStore() *FaultStore {
	return &FaultStore{
		MemoryStore: store.NewMemoryStore(),
		failInsert:  map[string]error{},
		failQuery:   map[string]error{},
		failGet:     map[string]error{},
		failUpdate:  map[string]error{},
		failDelete:  map[string]error{},
	}
}

// FailInsert makes every Insert into collection fail.
func (f *FaultStore) FailInsert(collection string) { f.set(f.failInsert, collection, nil) }

// FailQuery makes every Query against collection fail.
func (f *FaultStore) FailQuery(collection string) { f.set(f.failQuery, collection, nil) }

// FailGet makes every GetByID against collection fail.
func (f *FaultStore) FailGet(collection string) { f.set(f.failGet, collection, nil) }

// FailUpdate makes UpdateFields of the given record id fail.
func (f *FaultStore) FailUpdate(id string) { f.set(f.failUpdate, id, nil) }

// FailDelete makes Delete of the given record id fail with err (ErrInjected when nil).
func (f *FaultStore) FailDelete(id string, err error) { f.set(f.failDelete, id, err) }

// Heal removes every injected failure.
func (f *FaultStore) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range []map[string]error{f.failInsert, f.failQuery, f.failGet, f.failUpdate, f.failDelete} {
		for k := range m {
			delete(m, k)
		}
	}
}

// DeleteCalls returns the ids passed to Delete, in call order.
func (f *FaultStore) DeleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func (f *FaultStore) set(m map[string]error, key string, err error) {
	if err == nil {
		err = ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m[key] = err
}

func (f *FaultStore) lookup(m map[string]error, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[key]
}

func (f *FaultStore) Insert(ctx context.Context, collection string, fields store.Fields, opts ...store.InsertOption) (string, error) {
	if err := f.lookup(f.failInsert, collection); err != nil {
		return "", err
	}
	return f.MemoryStore.Insert(ctx, collection, fields, opts...)
}

func (f *FaultStore) Query(ctx context.Context, collection, field string, value interface{}) ([]store.Record, error) {
	if err := f.lookup(f.failQuery, collection); err != nil {
		return nil, err
	}
	return f.MemoryStore.Query(ctx, collection, field, value)
}

func (f *FaultStore) GetByID(ctx context.Context, collection, id string) (store.Record, bool, error) {
	if err := f.lookup(f.failGet, collection); err != nil {
		return store.Record{}, false, err
	}
	return f.MemoryStore.GetByID(ctx, collection, id)
}

func (f *FaultStore) UpdateFields(ctx context.Context, collection, id string, fields store.Fields) error {
	if err := f.lookup(f.failUpdate, id); err != nil {
		return err
	}
	return f.MemoryStore.UpdateFields(ctx, collection, id, fields)
}

func (f *FaultStore) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, id)
	f.mu.Unlock()
	if err := f.lookup(f.failDelete, id); err != nil {
		return err
	}
	return f.MemoryStore.Delete(ctx, collection, id)
}

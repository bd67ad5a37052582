package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for unit tests and for running the
// service without MongoDB. Query results keep insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	now   func() time.Time
	cols  map[string]map[string]Fields
	order map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   func() time.Time { return time.Now().UTC() },
		cols:  make(map[string]map[string]Fields),
		order: make(map[string][]string),
	}
}

// SetClock replaces the clock used for server timestamps.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, fields Fields, opts ...InsertOption) (string, error) {
	o := applyInsertOptions(opts)
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	stored := copyFields(fields)
	if o.timestampField != "" {
		stored[o.timestampField] = m.now()
	}
	col, ok := m.cols[collection]
	if !ok {
		col = make(map[string]Fields)
		m.cols[collection] = col
	}
	col[id] = stored
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *MemoryStore) Query(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Record{}
	col := m.cols[collection]
	for _, id := range m.order[collection] {
		f, ok := col[id]
		if !ok {
			continue
		}
		if f[field] == value {
			out = append(out, Record{ID: id, Fields: copyFields(f)})
		}
	}
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, collection, id string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.cols[collection][id]
	if !ok {
		return Record{}, false, nil
	}
	return Record{ID: id, Fields: copyFields(f)}, true, nil
}

func (m *MemoryStore) UpdateFields(ctx context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.cols[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		f[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.cols[collection]
	if _, ok := col[id]; !ok {
		return ErrNotFound
	}
	delete(col, id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func copyFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

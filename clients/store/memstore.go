package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and local development.
// Documents are stored as JSON so that reads always see copies, matching
// the value semantics of the hosted store.
type MemStore struct {
	mu sync.RWMutex

	collections map[string]map[string]json.RawMessage
	queryErrs   map[string]error
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]json.RawMessage),
		queryErrs:   make(map[string]error),
	}
}

// FailQueries makes every Query against the collection return err. Pass nil
// to clear. Used to exercise permission-denied branches.
func (s *MemStore) FailQueries(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.queryErrs, collection)
		return
	}
	s.queryErrs[collection] = err
}

// Len reports the number of documents in a collection.
func (s *MemStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *MemStore) NewID(string) string {
	return uuid.NewString()
}

func (s *MemStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return memDoc{id: id, raw: raw}, nil
}

func (s *MemStore) Set(_ context.Context, collection, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]json.RawMessage)
	}
	s.collections[collection][id] = raw
	return nil
}

func (s *MemStore) Merge(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	for k, v := range fields {
		data[k] = v
	}
	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.collections[collection][id] = merged
	return nil
}

func (s *MemStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *MemStore) Query(_ context.Context, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.queryErrs[q.Collection]; err != nil {
		return nil, err
	}

	type row struct {
		id   string
		raw  json.RawMessage
		data map[string]any
	}
	rows := make([]row, 0)
	for id, raw := range s.collections[q.Collection] {
		data := map[string]any{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		if !matches(data, q.Filters) {
			continue
		}
		rows = append(rows, row{id: id, raw: raw, data: data})
	}

	if q.OrderBy != "" {
		sort.Slice(rows, func(i, j int) bool {
			a := fmt.Sprint(rows[i].data[q.OrderBy])
			b := fmt.Sprint(rows[j].data[q.OrderBy])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	} else {
		sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	docs := make([]Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, memDoc{id: r.id, raw: r.raw})
	}
	return docs, nil
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		field, ok := data[f.Path]
		switch f.Op {
		case "==":
			if !ok || fmt.Sprint(field) != fmt.Sprint(f.Value) {
				return false
			}
		case "in":
			if !ok || !valueIn(field, f.Value) {
				return false
			}
		case "array-contains":
			arr, isArr := field.([]any)
			if !isArr {
				return false
			}
			found := false
			for _, item := range arr {
				if fmt.Sprint(item) == fmt.Sprint(f.Value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func valueIn(field any, candidates any) bool {
	switch vs := candidates.(type) {
	case []string:
		for _, v := range vs {
			if fmt.Sprint(field) == v {
				return true
			}
		}
	case []any:
		for _, v := range vs {
			if fmt.Sprint(field) == fmt.Sprint(v) {
				return true
			}
		}
	}
	return false
}

type memDoc struct {
	id  string
	raw json.RawMessage
}

func (d memDoc) ID() string {
	return d.id
}

func (d memDoc) DataTo(v any) error {
	if err := json.Unmarshal(d.raw, v); err != nil {
		return fmt.Errorf("failed to convert doc %s: %w", d.id, err)
	}
	return nil
}

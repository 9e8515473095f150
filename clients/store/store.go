// Package store abstracts the hosted document database behind a small
// get/set/merge/delete/query surface keyed by collection and document id.
// The production implementation sits on Firestore; an in-memory
// implementation backs tests and local development.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Filter is a single field predicate. Supported operators match the subset
// of Firestore operators the services use.
type Filter struct {
	Path  string
	Op    string // "==", "in", "array-contains"
	Value any
}

type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Desc       bool
	Limit      int
}

// Document is a read-only view of one stored document.
type Document interface {
	ID() string
	DataTo(v any) error
}

type Store interface {
	// NewID reserves a fresh document id for the collection.
	NewID(collection string) string
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, v any) error
	// Merge applies a partial update; only the given top-level fields change.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, q Query) ([]Document, error)
}

package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreStore struct {
	client *firestore.Client
}

var _ Store = (*firestoreStore)(nil)

// NewFirestore wraps an initialized Firestore client.
func NewFirestore(client *firestore.Client) Store {
	return &firestoreStore{client: client}
}

func (s *firestoreStore) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return firestoreDoc{snap: snap}, nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, v any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, v)
	return mapError(err)
}

func (s *firestoreStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return mapError(err)
}

func (s *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return mapError(err)
}

func (s *firestoreStore) Query(ctx context.Context, q Query) ([]Document, error) {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Path, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	iter := fq.Documents(ctx)
	defer iter.Stop()
	docs := make([]Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		docs = append(docs, firestoreDoc{snap: snap})
	}
	return docs, nil
}

type firestoreDoc struct {
	snap *firestore.DocumentSnapshot
}

func (d firestoreDoc) ID() string {
	return d.snap.Ref.ID
}

func (d firestoreDoc) DataTo(v any) error {
	if err := d.snap.DataTo(v); err != nil {
		return fmt.Errorf("failed to convert doc %s: %w", d.snap.Ref.ID, err)
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}

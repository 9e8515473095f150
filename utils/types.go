package utils

import (
	"clubhub/clients/store"
)

func ToPointer[T any](value T) *T {
	return &value
}

// DocsTo decodes a list of store documents into typed values.
func DocsTo[T any](docs []store.Document) ([]T, error) {
	result := make([]T, len(docs))
	for i, doc := range docs {
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, err
		}
		result[i] = item
	}
	return result, nil
}

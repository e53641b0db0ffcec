// Package index derives read-only one-to-many views from a repository,
// e.g. all prescriptions of a patient.
package index

import (
	"context"
	"fmt"
	"slices"
)

// Source is the part of a repository an Index is built from.
type Source[E any] interface {
	All(ctx context.Context) ([]E, error)
}

// Index groups entities by a key, usually a foreign key.
//
// An Index is a snapshot taken by Build. Later changes to the source are not
// visible; rebuild the Index to see them. SourceSize tells the number of entities
// the Index was built from, so a caller can compare it with the current source.
type Index[K comparable, E any] struct {
	groups     map[K][]E
	keys       []K
	sourceSize int
}

// Build reads all entities of source once and groups them by key.
// Within a group the entities keep the enumeration order of source,
// keys are in the order they are first seen. Build does not change source.
func Build[K comparable, E any](ctx context.Context, source Source[E], key func(E) K) (*Index[K, E], error) {
	all, err := source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not build index: %w", err)
	}

	idx := &Index[K, E]{
		groups:     make(map[K][]E),
		keys:       []K{},
		sourceSize: len(all),
	}

	for _, e := range all {
		k := key(e)

		if _, seen := idx.groups[k]; !seen {
			idx.keys = append(idx.keys, k)
		}

		idx.groups[k] = append(idx.groups[k], e)
	}

	return idx, nil
}

// Lookup returns the entities with key. An unknown key returns an empty, non nil slice.
// The returned slice can be changed by the caller without changing the Index.
func (idx *Index[K, E]) Lookup(key K) []E {
	group, ok := idx.groups[key]
	if !ok {
		return []E{}
	}

	return slices.Clone(group)
}

// Keys returns all keys with at least one entity, in the order first seen.
func (idx *Index[K, E]) Keys() []K {
	return slices.Clone(idx.keys)
}

// Len is the number of distinct keys.
func (idx *Index[K, E]) Len() int {
	return len(idx.keys)
}

func (idx *Index[K, E]) SourceSize() int {
	return idx.sourceSize
}

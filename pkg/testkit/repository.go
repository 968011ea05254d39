package testkit

import (
	"context"
	"iter"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// InMemoryRepository keeps entities in a map keyed by an identifier derived
// from the entity itself. It never invents identifiers.
//
// By default Add overwrites an existing entity with the same identifier and
// Remove ignores unknown identifiers. WithStrictAdd and WithStrictRemove turn
// those cases into conflict and not_found errors.
type InMemoryRepository[T any] struct {
	idOf         func(T) string
	items        map[string]T
	order        []string
	strictAdd    bool
	strictRemove bool
}

var _ ports.Repository[struct{}] = (*InMemoryRepository[struct{}])(nil)

// RepositoryOption configures an InMemoryRepository.
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	strictAdd    bool
	strictRemove bool
}

// WithStrictAdd makes Add fail with a conflict error for a known identifier.
func WithStrictAdd() RepositoryOption {
	return func(o *repositoryOptions) { o.strictAdd = true }
}

// WithStrictRemove makes Remove fail with a not_found error for an unknown
// identifier.
func WithStrictRemove() RepositoryOption {
	return func(o *repositoryOptions) { o.strictRemove = true }
}

// NewRepository returns an empty repository that identifies entities with
// idOf.
func NewRepository[T any](idOf func(T) string, opts ...RepositoryOption) *InMemoryRepository[T] {
	if idOf == nil {
		panic("testkit.NewRepository: idOf is required")
	}
	var o repositoryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &InMemoryRepository[T]{
		idOf:         idOf,
		items:        make(map[string]T),
		strictAdd:    o.strictAdd,
		strictRemove: o.strictRemove,
	}
}

// Add stores entity. An overwritten entity keeps its original position in
// List.
func (r *InMemoryRepository[T]) Add(_ context.Context, entity T) error {
	id := r.idOf(entity)
	if _, exists := r.items[id]; exists {
		if r.strictAdd {
			return errors.Conflict("Repository.Add", "").WithDetail("id", id)
		}
	} else {
		r.order = append(r.order, id)
	}
	r.items[id] = entity
	return nil
}

// Get returns the entity stored under id.
func (r *InMemoryRepository[T]) Get(_ context.Context, id string) (T, error) {
	entity, ok := r.items[id]
	if !ok {
		var zero T
		return zero, errors.NotFound("Repository.Get", "").WithDetail("id", id)
	}
	return entity, nil
}

// Remove deletes the entity stored under id.
func (r *InMemoryRepository[T]) Remove(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		if r.strictRemove {
			return errors.NotFound("Repository.Remove", "").WithDetail("id", id)
		}
		return nil
	}
	delete(r.items, id)
	for i, k := range r.order {
		if k == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List yields entities in insertion order. Each range reads the current
// contents.
func (r *InMemoryRepository[T]) List(_ context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		keys := append([]string(nil), r.order...)
		for _, id := range keys {
			entity, ok := r.items[id]
			if !ok {
				continue
			}
			if !yield(entity) {
				return
			}
		}
	}
}

// Len returns the number of stored entities.
func (r *InMemoryRepository[T]) Len() int { return len(r.items) }

// Clear removes every entity.
func (r *InMemoryRepository[T]) Clear() {
	r.items = make(map[string]T)
	r.order = nil
}

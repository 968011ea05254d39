// Package ports declares the interfaces that use cases depend on. Concrete
// implementations live in pkg/adapters for production and pkg/testkit for
// tests; both are selected in the composition root.
package ports

import (
	"context"
	"iter"
	"reflect"
	"time"
)

// Clock provides time-related functionality.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// Monotonic returns a reading that never decreases, suitable for
	// measuring elapsed time.
	Monotonic() time.Duration
}

// UUIDSource produces identifier strings.
type UUIDSource interface {
	// Next returns the next identifier.
	Next() string
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// Repository stores entities of type T keyed by a string identifier.
type Repository[T any] interface {
	// Add stores the entity.
	Add(ctx context.Context, entity T) error
	// Get returns the entity with id, or a not_found error.
	Get(ctx context.Context, id string) (T, error)
	// Remove deletes the entity with id.
	Remove(ctx context.Context, id string) error
	// List returns every stored entity. The sequence may be ranged over
	// more than once and reflects the state at the time of each range.
	List(ctx context.Context) iter.Seq[T]
}

// UnitOfWork groups changes into one atomic commit.
type UnitOfWork interface {
	// Begin starts a new unit of work.
	Begin(ctx context.Context) error
	// Commit persists all changes made since Begin.
	Commit(ctx context.Context) error
	// Rollback discards all changes made since Begin.
	Rollback(ctx context.Context) error
}

// Identities of the port interfaces, used as container keys.
var (
	ClockType          = reflect.TypeFor[Clock]()
	UUIDSourceType     = reflect.TypeFor[UUIDSource]()
	LoggerType         = reflect.TypeFor[Logger]()
	EventPublisherType = reflect.TypeFor[EventPublisher]()
	UnitOfWorkType     = reflect.TypeFor[UnitOfWork]()
)

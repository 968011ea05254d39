// Package di provides the explicit composition root used to wire port
// implementations into use cases. Registrations are keyed by the
// reflect.Type of a port interface; there is no automatic constructor
// injection.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// defaultShutdownTimeout bounds Close for each registered component.
const defaultShutdownTimeout = 10 * time.Second

// Closeable represents a component that can be closed/shutdown.
type Closeable interface {
	Close() error
}

// Container maps port identities to implementations.
type Container struct {
	mu       sync.RWMutex
	bindings map[reflect.Type]any
	logger   *slog.Logger
	closed   bool

	closeables []Closeable
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for shutdown diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		bindings:   make(map[reflect.Type]any),
		logger:     slog.Default(),
		closeables: make([]Closeable, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register binds impl to the interface type key. impl must implement key.
// A later registration for the same key replaces the earlier one.
func (c *Container) Register(key reflect.Type, impl any) error {
	if err := checkBinding(key, impl); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.State("Container.Register", "container is closed")
	}
	c.bindings[key] = impl
	return nil
}

// RegisterAll binds every entry of bindings. All entries are validated
// before any is stored, so a failed call leaves the container unchanged.
func (c *Container) RegisterAll(bindings map[reflect.Type]any) error {
	for key, impl := range bindings {
		if err := checkBinding(key, impl); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.State("Container.RegisterAll", "container is closed")
	}
	for key, impl := range bindings {
		c.bindings[key] = impl
	}
	return nil
}

// Lookup returns the implementation bound to key.
func (c *Container) Lookup(key reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	impl, ok := c.bindings[key]
	return impl, ok
}

// Has reports whether key is bound.
func (c *Container) Has(key reflect.Type) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Keys returns the bound port types.
func (c *Container) Keys() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]reflect.Type, 0, len(c.bindings))
	for k := range c.bindings {
		keys = append(keys, k)
	}
	return keys
}

// Provide binds impl to the interface T.
func Provide[T any](c *Container, impl T) error {
	return c.Register(reflect.TypeFor[T](), impl)
}

// Resolve returns the implementation bound to the interface T.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	key := reflect.TypeFor[T]()
	impl, ok := c.Lookup(key)
	if !ok {
		return zero, errors.NotFound("di.Resolve", fmt.Sprintf("no implementation registered for %s", key)).
			WithDetail("port", key.String())
	}
	return impl.(T), nil
}

// MustResolve is Resolve that panics when T is not bound. It is meant for
// composition roots where a missing binding is a wiring bug.
func MustResolve[T any](c *Container) T {
	impl, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return impl
}

func checkBinding(key reflect.Type, impl any) error {
	const op = "Container.Register"
	if key == nil {
		return errors.Validation(op, "port type is required")
	}
	if key.Kind() != reflect.Interface {
		return errors.Validation(op, fmt.Sprintf("%s is not an interface type", key)).
			WithDetail("port", key.String())
	}
	if impl == nil {
		return errors.Validation(op, fmt.Sprintf("nil implementation for %s", key)).
			WithDetail("port", key.String())
	}
	if !reflect.TypeOf(impl).Implements(key) {
		return errors.Validation(op, fmt.Sprintf("%T does not implement %s", impl, key)).
			WithDetail("port", key.String())
	}
	return nil
}

// RegisterCloseable registers a component for cleanup during shutdown.
func (c *Container) RegisterCloseable(closeable Closeable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeables = append(c.closeables, closeable)
}

// Close shuts down registered closeables in reverse registration order.
// It is idempotent.
func (c *Container) Close() error {
	return c.CloseWithTimeout(defaultShutdownTimeout)
}

// CloseWithTimeout is Close with a per-container timeout.
func (c *Container) CloseWithTimeout(timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Debug("initiating container shutdown", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i := len(c.closeables) - 1; i >= 0; i-- {
		if err := c.closeWithContext(ctx, c.closeables[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		c.logger.Warn("some components failed to close cleanly", "error_count", len(errs))
		return errors.Join(errs...)
	}
	c.logger.Debug("container shutdown completed")
	return nil
}

func (c *Container) closeWithContext(ctx context.Context, closeable Closeable) error {
	done := make(chan error, 1)
	go func() {
		done <- closeable.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		c.logger.Warn("component close timed out", "error", ctx.Err())
		return ctx.Err()
	}
}

package testkit

import (
	"reflect"

	"github.com/KeSHaMI/hexaframe/pkg/di"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// Harness owns one FakeClock, one StubUUID and one CapturingLogger for the
// duration of a test. Repositories and event buses are per entity type and
// are created with NewRepository and NewEventBus.
type Harness struct {
	clock  *FakeClock
	uuid   *StubUUID
	logger *CapturingLogger
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithClock replaces the default FakeClock.
func WithClock(c *FakeClock) HarnessOption {
	return func(h *Harness) { h.clock = c }
}

// WithUUIDs sets the StubUUID sequence.
func WithUUIDs(ids ...string) HarnessOption {
	return func(h *Harness) { h.uuid.SetSequence(ids...) }
}

// WithLogger replaces the default CapturingLogger.
func WithLogger(l *CapturingLogger) HarnessOption {
	return func(h *Harness) { h.logger = l }
}

// NewHarness returns a harness with default doubles.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		clock:  NewFakeClock(),
		uuid:   NewStubUUID(),
		logger: NewCapturingLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Harness) Clock() *FakeClock        { return h.clock }
func (h *Harness) UUID() *StubUUID          { return h.uuid }
func (h *Harness) Logger() *CapturingLogger { return h.logger }

// Provide returns the port bindings of the harness. Every call returns the
// same instances, so state set through the harness is visible to code that
// resolved the ports from a container.
func (h *Harness) Provide() map[reflect.Type]any {
	return map[reflect.Type]any{
		ports.ClockType:      h.clock,
		ports.UUIDSourceType: h.uuid,
		ports.LoggerType:     h.logger,
	}
}

// Container returns a new container with Provide registered. It panics if
// registration fails, which only happens when a double stops satisfying its
// port.
func (h *Harness) Container() *di.Container {
	c := di.New()
	if err := c.RegisterAll(h.Provide()); err != nil {
		panic(err)
	}
	return c
}

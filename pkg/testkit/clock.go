package testkit

import (
	"fmt"
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// DefaultStart is the initial reading of a FakeClock.
var DefaultStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a Clock that only moves when told to.
type FakeClock struct {
	now       time.Time
	monotonic time.Duration
}

var _ ports.Clock = (*FakeClock)(nil)

// ClockOption configures a FakeClock.
type ClockOption func(*FakeClock)

// WithStart sets the initial wall-clock reading.
func WithStart(t time.Time) ClockOption {
	return func(c *FakeClock) { c.now = t }
}

// WithMonotonic sets the initial monotonic reading.
func WithMonotonic(d time.Duration) ClockOption {
	return func(c *FakeClock) { c.monotonic = d }
}

// NewFakeClock returns a clock reading DefaultStart with a zero monotonic
// baseline.
func NewFakeClock(opts ...ClockOption) *FakeClock {
	c := &FakeClock{now: DefaultStart}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time { return c.now }

// Monotonic returns the current fake monotonic reading.
func (c *FakeClock) Monotonic() time.Duration { return c.monotonic }

// Advance moves both readings forward by d. A negative d panics.
func (c *FakeClock) Advance(d time.Duration) {
	if d < 0 {
		panic(fmt.Sprintf("testkit: FakeClock.Advance(%s): clock cannot move backwards", d))
	}
	c.now = c.now.Add(d)
	c.monotonic += d
}

// Set moves the wall clock to t and the monotonic reading by the same
// amount. t before the current reading panics.
func (c *FakeClock) Set(t time.Time) {
	c.Advance(t.Sub(c.now))
}

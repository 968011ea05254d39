// Package adapters contains the production implementations of the ports.
package adapters

import (
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// SystemClock reads the system clock.
type SystemClock struct {
	start time.Time
}

var _ ports.Clock = (*SystemClock)(nil)

// NewSystemClock returns a clock whose monotonic reading starts at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the current UTC time.
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Monotonic returns the time elapsed since the clock was created.
func (c *SystemClock) Monotonic() time.Duration {
	return time.Since(c.start)
}

package adapters

import (
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// Production returns the default production bindings for the core ports,
// logging through l. A nil l uses the charm default logger.
func Production(l *log.Logger) map[reflect.Type]any {
	if l == nil {
		l = log.Default()
	}
	return map[reflect.Type]any{
		ports.ClockType:      NewSystemClock(),
		ports.UUIDSourceType: UUIDv4{},
		ports.LoggerType:     NewCharmLogger(l),
	}
}

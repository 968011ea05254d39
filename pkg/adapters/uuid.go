package adapters

import (
	"github.com/google/uuid"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// UUIDv4 generates random version 4 UUIDs.
type UUIDv4 struct{}

var _ ports.UUIDSource = UUIDv4{}

// Next returns a new random UUID string.
func (UUIDv4) Next() string {
	return uuid.NewString()
}

package testkit

import (
	"github.com/google/uuid"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// DefaultUUID is returned by a StubUUID with no configured sequence.
const DefaultUUID = "00000000-0000-4000-8000-000000000000"

// StubUUID returns identifiers from a fixed sequence, repeating the last
// one once the sequence is exhausted.
type StubUUID struct {
	sequence []string
	idx      int
}

var _ ports.UUIDSource = (*StubUUID)(nil)

// NewStubUUID returns a stub over ids, or over DefaultUUID when ids is empty.
func NewStubUUID(ids ...string) *StubUUID {
	s := &StubUUID{}
	s.SetSequence(ids...)
	return s
}

// SetSequence replaces the sequence and restarts from its first element.
// An empty call restores the default sequence.
func (s *StubUUID) SetSequence(ids ...string) {
	if len(ids) == 0 {
		ids = []string{DefaultUUID}
	}
	s.sequence = append([]string(nil), ids...)
	s.idx = 0
}

// Next returns the next identifier in the sequence. A zero StubUUID yields
// DefaultUUID.
func (s *StubUUID) Next() string {
	if len(s.sequence) == 0 {
		return DefaultUUID
	}
	if s.idx >= len(s.sequence) {
		return s.sequence[len(s.sequence)-1]
	}
	v := s.sequence[s.idx]
	s.idx++
	return v
}

// NextUUID returns Next parsed as a UUID. It panics if the configured value
// is not a valid UUID.
func (s *StubUUID) NextUUID() uuid.UUID {
	return uuid.MustParse(s.Next())
}

// FromString parses value as a UUID.
func (s *StubUUID) FromString(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// StubUUIDFromString returns a stub that always yields value.
func StubUUIDFromString(value string) *StubUUID {
	return NewStubUUID(value)
}

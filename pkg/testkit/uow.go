package testkit

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// Unit of work lifecycle states.
const (
	UnitIdle       statekit.StateID = "idle"
	UnitActive     statekit.StateID = "active"
	UnitCommitted  statekit.StateID = "committed"
	UnitRolledBack statekit.StateID = "rolled_back"
)

const (
	eventBegin    statekit.EventType = "BEGIN"
	eventCommit   statekit.EventType = "COMMIT"
	eventRollback statekit.EventType = "ROLLBACK"
)

// InMemoryUnitOfWork tracks the Begin/Commit/Rollback lifecycle and rejects
// out-of-order calls with invalid_state errors.
type InMemoryUnitOfWork struct {
	interpreter *statekit.Interpreter[struct{}]

	Begins    int
	Commits   int
	Rollbacks int

	// CommitErr, when set, is returned by the next Commit, which then
	// leaves the unit active so it can be rolled back.
	CommitErr error
}

var _ ports.UnitOfWork = (*InMemoryUnitOfWork)(nil)

// NewUnitOfWork returns a unit of work in the idle state.
func NewUnitOfWork() *InMemoryUnitOfWork {
	machine, err := statekit.NewMachine[struct{}]("unit-of-work").
		WithInitial(UnitIdle).
		State(UnitIdle).
		On(eventBegin).Target(UnitActive).
		Done().
		State(UnitActive).
		On(eventCommit).Target(UnitCommitted).
		On(eventRollback).Target(UnitRolledBack).
		Done().
		State(UnitCommitted).
		On(eventBegin).Target(UnitActive).
		Done().
		State(UnitRolledBack).
		On(eventBegin).Target(UnitActive).
		Done().
		Build()
	if err != nil {
		panic(fmt.Sprintf("testkit: build unit of work machine: %v", err))
	}
	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &InMemoryUnitOfWork{interpreter: interp}
}

// State returns the current lifecycle state.
func (u *InMemoryUnitOfWork) State() statekit.StateID {
	return u.interpreter.State().Value
}

// Begin starts a unit. It fails if a unit is already active.
func (u *InMemoryUnitOfWork) Begin(context.Context) error {
	if err := u.send("UnitOfWork.Begin", eventBegin); err != nil {
		return err
	}
	u.Begins++
	return nil
}

// Commit finishes the active unit.
func (u *InMemoryUnitOfWork) Commit(context.Context) error {
	if u.State() != UnitActive {
		return u.invalid("UnitOfWork.Commit")
	}
	if u.CommitErr != nil {
		err := u.CommitErr
		u.CommitErr = nil
		return err
	}
	if err := u.send("UnitOfWork.Commit", eventCommit); err != nil {
		return err
	}
	u.Commits++
	return nil
}

// Rollback discards the active unit.
func (u *InMemoryUnitOfWork) Rollback(context.Context) error {
	if err := u.send("UnitOfWork.Rollback", eventRollback); err != nil {
		return err
	}
	u.Rollbacks++
	return nil
}

func (u *InMemoryUnitOfWork) send(op string, ev statekit.EventType) error {
	before := u.State()
	u.interpreter.Send(statekit.Event{Type: ev})
	if u.State() == before {
		return u.invalid(op)
	}
	return nil
}

func (u *InMemoryUnitOfWork) invalid(op string) error {
	return errors.State(op, fmt.Sprintf("not allowed in state %s", u.State())).
		WithDetail("state", string(u.State()))
}

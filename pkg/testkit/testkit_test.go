package testkit

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSHaMI/hexaframe/pkg/di"
	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

func TestFakeClock_Defaults(t *testing.T) {
	c := NewFakeClock()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), c.Now())
	assert.Equal(t, time.Duration(0), c.Monotonic())
	assert.Equal(t, c.Now(), c.Now(), "reads do not advance the clock")
}

func TestFakeClock_AdvanceAccumulates(t *testing.T) {
	start := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(WithStart(start), WithMonotonic(5*time.Second))

	steps := []time.Duration{1500 * time.Millisecond, 0, time.Hour, time.Nanosecond}
	var total time.Duration
	prev := c.Now()
	for _, d := range steps {
		c.Advance(d)
		total += d
		assert.False(t, c.Now().Before(prev), "now must be non-decreasing")
		prev = c.Now()
	}
	assert.Equal(t, start.Add(total), c.Now())
	assert.Equal(t, 5*time.Second+total, c.Monotonic())
}

func TestFakeClock_NegativeAdvancePanics(t *testing.T) {
	c := NewFakeClock()
	assert.Panics(t, func() { c.Advance(-time.Second) })
	assert.Panics(t, func() { c.Set(DefaultStart.Add(-time.Minute)) })
	assert.Equal(t, DefaultStart, c.Now())
}

func TestFakeClock_Set(t *testing.T) {
	c := NewFakeClock()
	c.Set(DefaultStart.Add(90 * time.Second))
	assert.Equal(t, 90*time.Second, c.Monotonic())
}

func TestStubUUID_Sequence(t *testing.T) {
	s := NewStubUUID()
	s.SetSequence("a", "b", "c")

	got := []string{s.Next(), s.Next(), s.Next(), s.Next(), s.Next()}
	assert.Equal(t, []string{"a", "b", "c", "c", "c"}, got)

	s.SetSequence("x", "y")
	assert.Equal(t, "x", s.Next(), "SetSequence restarts the cursor")
}

func TestStubUUID_Default(t *testing.T) {
	s := NewStubUUID()
	assert.Equal(t, DefaultUUID, s.Next())
	assert.Equal(t, DefaultUUID, s.Next())

	s.SetSequence()
	assert.Equal(t, DefaultUUID, s.Next())
}

func TestStubUUID_ZeroValue(t *testing.T) {
	var s StubUUID
	assert.Equal(t, DefaultUUID, s.Next())
	assert.Equal(t, DefaultUUID, s.Next())

	s.SetSequence("a")
	assert.Equal(t, "a", s.Next())
}

func TestStubUUIDFromString(t *testing.T) {
	s := StubUUIDFromString("x")
	assert.Equal(t, "x", s.Next())
	assert.Equal(t, "x", s.Next())
}

func TestStubUUID_Parsing(t *testing.T) {
	s := NewStubUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", s.NextUUID().String())

	_, err := s.FromString("not-a-uuid")
	assert.Error(t, err)

	bad := NewStubUUID("nope")
	assert.Panics(t, func() { bad.NextUUID() })
}

func TestCapturingLogger(t *testing.T) {
	l := NewCapturingLogger()
	l.Info("hello", "foo", "bar")
	ports.Warn(l, "careful")
	fields := map[string]any{"k": 1}
	l.Log(ports.LevelError, "failed", fields)
	fields["k"] = 2

	records := l.Records()
	require.Len(t, records, 3)
	assert.Equal(t, Record{Level: ports.LevelInfo, Message: "hello", Fields: map[string]any{"foo": "bar"}}, records[0])
	assert.Equal(t, ports.LevelWarn, records[1].Level)
	assert.Nil(t, records[1].Fields)
	assert.Equal(t, 1, records[2].Fields["k"], "fields are copied on capture")
	assert.Equal(t, []string{"hello", "careful", "failed"}, l.Messages())

	last, ok := l.Last()
	assert.True(t, ok)
	assert.Equal(t, "failed", last.Message)

	records[0].Message = "mutated"
	assert.Equal(t, "hello", l.Records()[0].Message, "Records returns a copy")

	l.Clear()
	assert.Empty(t, l.Records())
	_, ok = l.Last()
	assert.False(t, ok)
}

type account struct {
	ID      string
	Balance int
}

func accountID(a account) string { return a.ID }

func collect[T any](t *testing.T, repo ports.Repository[T]) []T {
	t.Helper()
	return slices.Collect(repo.List(context.Background()))
}

func TestRepository_AddGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(accountID)

	require.NoError(t, repo.Add(ctx, account{ID: "a1", Balance: 10}))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, account{ID: "a1", Balance: 10}, got)

	_, err = repo.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "missing", e.Details["id"])
}

func TestRepository_AddUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(accountID)
	require.NoError(t, repo.Add(ctx, account{ID: "a1", Balance: 1}))
	require.NoError(t, repo.Add(ctx, account{ID: "a2", Balance: 2}))
	require.NoError(t, repo.Add(ctx, account{ID: "a1", Balance: 3}))

	assert.Equal(t, []account{{ID: "a1", Balance: 3}, {ID: "a2", Balance: 2}}, collect[account](t, repo))
	assert.Equal(t, 2, repo.Len())
}

func TestRepository_StrictAdd(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(accountID, WithStrictAdd())
	require.NoError(t, repo.Add(ctx, account{ID: "a1", Balance: 1}))

	err := repo.Add(ctx, account{ID: "a1", Balance: 2})
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	got, _ := repo.Get(ctx, "a1")
	assert.Equal(t, 1, got.Balance, "rejected add leaves the stored entity untouched")
}

func TestRepository_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id is a no-op by default", func(t *testing.T) {
		repo := NewRepository(accountID)
		require.NoError(t, repo.Add(ctx, account{ID: "a1"}))
		assert.NoError(t, repo.Remove(ctx, "nope"))
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("missing id fails when strict", func(t *testing.T) {
		repo := NewRepository(accountID, WithStrictRemove())
		err := repo.Remove(ctx, "nope")
		assert.True(t, errors.IsKind(err, errors.KindNotFound))
	})

	t.Run("present id is deleted", func(t *testing.T) {
		repo := NewRepository(accountID, WithStrictRemove())
		require.NoError(t, repo.Add(ctx, account{ID: "a1"}))
		require.NoError(t, repo.Add(ctx, account{ID: "a2"}))
		require.NoError(t, repo.Remove(ctx, "a1"))

		_, err := repo.Get(ctx, "a1")
		assert.Error(t, err)
		assert.Equal(t, []account{{ID: "a2"}}, collect[account](t, repo))
	})
}

func TestRepository_ListIsRestartable(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(accountID)
	require.NoError(t, repo.Add(ctx, account{ID: "a1"}))

	seq := repo.List(ctx)
	assert.Len(t, slices.Collect(seq), 1)
	assert.Len(t, slices.Collect(seq), 1, "second range yields again")

	require.NoError(t, repo.Add(ctx, account{ID: "a2"}))
	assert.Len(t, slices.Collect(seq), 2, "each range reflects current state")

	for a := range seq {
		assert.Equal(t, "a1", a.ID)
		break
	}

	repo.Clear()
	assert.Empty(t, slices.Collect(seq))
}

func TestEventBus(t *testing.T) {
	type userCreated struct{ ID string }
	type userDeleted struct{ ID string }

	ctx := context.Background()
	bus := NewEventBus()
	require.NoError(t, bus.Publish(ctx, userCreated{ID: "1"}))
	require.NoError(t, bus.Publish(ctx, userDeleted{ID: "1"}))
	require.NoError(t, bus.Publish(ctx, userCreated{ID: "2"}))

	assert.Equal(t, []any{userCreated{ID: "1"}, userDeleted{ID: "1"}, userCreated{ID: "2"}}, bus.Events())
	assert.Equal(t, []userCreated{{ID: "1"}, {ID: "2"}}, EventsOf[userCreated](bus))

	events := bus.Events()
	events[0] = nil
	assert.Equal(t, userCreated{ID: "1"}, bus.Events()[0])

	bus.Clear()
	assert.Empty(t, bus.Events())
}

func TestUnitOfWork_Lifecycle(t *testing.T) {
	ctx := context.Background()
	u := NewUnitOfWork()
	assert.Equal(t, UnitIdle, u.State())

	assert.True(t, errors.IsKind(u.Commit(ctx), errors.KindState), "commit before begin")
	assert.True(t, errors.IsKind(u.Rollback(ctx), errors.KindState), "rollback before begin")

	require.NoError(t, u.Begin(ctx))
	assert.Equal(t, UnitActive, u.State())
	assert.True(t, errors.IsKind(u.Begin(ctx), errors.KindState), "nested begin")

	require.NoError(t, u.Commit(ctx))
	assert.Equal(t, UnitCommitted, u.State())

	require.NoError(t, u.Begin(ctx))
	require.NoError(t, u.Rollback(ctx))
	assert.Equal(t, UnitRolledBack, u.State())

	assert.Equal(t, 2, u.Begins)
	assert.Equal(t, 1, u.Commits)
	assert.Equal(t, 1, u.Rollbacks)
}

func TestUnitOfWork_CommitErr(t *testing.T) {
	ctx := context.Background()
	u := NewUnitOfWork()
	u.CommitErr = errors.Infra("Commit", "", "write failed")

	require.NoError(t, u.Begin(ctx))
	assert.Error(t, u.Commit(ctx))
	assert.Equal(t, UnitActive, u.State())
	require.NoError(t, u.Rollback(ctx))
}

func TestHarness_ProvideReturnsSameInstances(t *testing.T) {
	h := NewHarness()

	first := h.Provide()
	second := h.Provide()

	assert.Same(t, first[ports.ClockType], second[ports.ClockType])
	assert.Same(t, first[ports.UUIDSourceType], second[ports.UUIDSourceType])
	assert.Same(t, first[ports.LoggerType], second[ports.LoggerType])
	assert.Same(t, h.Clock(), first[ports.ClockType])
}

func TestHarness_Container(t *testing.T) {
	h := NewHarness(WithUUIDs("id-1", "id-2"))
	require.NotPanics(t, func() { h.Container() }, "harness doubles always satisfy their ports")
	c := h.Container()

	clock := di.MustResolve[ports.Clock](c)
	ids := di.MustResolve[ports.UUIDSource](c)
	logger := di.MustResolve[ports.Logger](c)

	h.Clock().Advance(time.Minute)
	assert.Equal(t, DefaultStart.Add(time.Minute), clock.Now(), "resolved clock is the harness clock")
	assert.Equal(t, "id-1", ids.Next())
	assert.Equal(t, "id-2", h.UUID().Next())

	ports.Info(logger, "resolved")
	assert.Equal(t, []string{"resolved"}, h.Logger().Messages())
}

func TestHarness_Options(t *testing.T) {
	clock := NewFakeClock(WithStart(time.Unix(0, 0).UTC()))
	logger := NewCapturingLogger()
	h := NewHarness(WithClock(clock), WithLogger(logger))

	assert.Same(t, clock, h.Clock())
	assert.Same(t, logger, h.Logger())
}

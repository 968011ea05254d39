package uow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/result"
	"github.com/KeSHaMI/hexaframe/pkg/testkit"
)

func TestRun_Commits(t *testing.T) {
	u := testkit.NewUnitOfWork()
	ran := false

	err := Run(context.Background(), u, func(context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, testkit.UnitCommitted, u.State())
	assert.Equal(t, 0, u.Rollbacks)
}

func TestRun_RollsBackOnError(t *testing.T) {
	u := testkit.NewUnitOfWork()
	boom := fmt.Errorf("boom")

	err := Run(context.Background(), u, func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, testkit.UnitRolledBack, u.State())
	assert.Equal(t, 0, u.Commits)
}

func TestRun_RollsBackOnPanic(t *testing.T) {
	u := testkit.NewUnitOfWork()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = Run(context.Background(), u, func(context.Context) error { panic("kaboom") })
	})
	assert.Equal(t, testkit.UnitRolledBack, u.State())
}

func TestRun_CommitFailureRollsBack(t *testing.T) {
	u := testkit.NewUnitOfWork()
	u.CommitErr = errors.Infra("Commit", "", "disk full")

	err := Run(context.Background(), u, func(context.Context) error { return nil })

	assert.True(t, errors.IsKind(err, errors.KindInfra))
	assert.Equal(t, testkit.UnitRolledBack, u.State())
}

func TestRun_BeginFailure(t *testing.T) {
	u := testkit.NewUnitOfWork()
	require.NoError(t, u.Begin(context.Background()))

	called := false
	err := Run(context.Background(), u, func(context.Context) error {
		called = true
		return nil
	})

	assert.True(t, errors.IsKind(err, errors.KindState))
	assert.False(t, called)
}

func TestRunResult(t *testing.T) {
	ctx := context.Background()

	u := testkit.NewUnitOfWork()
	ok := RunResult(ctx, u, func(context.Context) result.Result[int, *errors.Error] {
		return result.Ok[int, *errors.Error](7)
	})
	assert.Equal(t, 7, ok.Unwrap())
	assert.Equal(t, testkit.UnitCommitted, u.State())

	u = testkit.NewUnitOfWork()
	conflict := errors.Conflict("Transfer", "")
	bad := RunResult(ctx, u, func(context.Context) result.Result[int, *errors.Error] {
		return result.Err[int](conflict)
	})
	assert.Same(t, conflict, bad.UnwrapErr())
	assert.Equal(t, testkit.UnitRolledBack, u.State())
}

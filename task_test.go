package v8ref

import (
	"context"
	"errors"
	"testing"
	"time"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ionos-cloud/v8ref/internal/enginemock"
)

// TestRunThreePhaseTaskIgnoredSwallowsErrors exercises the "ignored" row of
// spec §4.3's table: Phase2 errors are logged, never surfaced, and the call
// returns immediately.
func TestRunThreePhaseTaskIgnoredSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	iso := enginemock.NewMockIsolate(ctrl)

	var captured func(ExecContext)
	iso.EXPECT().Submit(gomock.Any()).DoAndReturn(func(fn func(ExecContext)) error {
		captured = fn
		return nil
	})

	spec := taskSpec{
		target: iso,
		phase2: func(ExecContext) (Transferable, error) {
			return nil, errors.New("boom")
		},
	}
	v, err := runThreePhaseTask(context.Background(), spec, ModeIgnored)
	require.NoError(t, err)
	require.Nil(t, v)

	// The task was only enqueued, not yet run: invoking it directly
	// simulates the dispatcher draining the isolate's queue later.
	require.NotNil(t, captured)
	captured(nil)
}

// TestRunThreePhaseTaskAsyncSettlesPendingResult exercises the "async" row:
// Submit enqueues a task that settles a PendingResult once it runs.
func TestRunThreePhaseTaskAsyncSettlesPendingResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	iso := enginemock.NewMockIsolate(ctrl)

	var captured func(ExecContext)
	iso.EXPECT().Submit(gomock.Any()).DoAndReturn(func(fn func(ExecContext)) error {
		captured = fn
		return nil
	})

	spec := taskSpec{
		target: iso,
		phase2: func(ExecContext) (Transferable, error) {
			return copyTransferable{data: 9}, nil
		},
	}
	v, err := runThreePhaseTask(context.Background(), spec, ModeAsync)
	require.NoError(t, err)
	pr, ok := v.(*PendingResult)
	require.True(t, ok)

	captured(nil)

	got, err := pr.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9, got)
}

// TestRunThreePhaseTaskAsyncSubmitFailure exercises Phase1-adjacent
// failure in async mode: if the isolate rejects Submit outright (e.g.
// disposed), the error surfaces synchronously without a PendingResult.
func TestRunThreePhaseTaskAsyncSubmitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	iso := enginemock.NewMockIsolate(ctrl)
	iso.EXPECT().Submit(gomock.Any()).Return(errors.New("disposed"))

	spec := taskSpec{target: iso}
	v, err := runThreePhaseTask(context.Background(), spec, ModeAsync)
	require.Error(t, err)
	require.Nil(t, v)
}

// TestPendingResultClaimRace exercises the did_finish discipline (spec
// §4.7, §9): whichever of timeout or settle reaches the shared slot first
// wins, and the other becomes a silent no-op.
func TestPendingResultClaimRace(t *testing.T) {
	pr := newPendingResult()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := pr.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// A late settle arriving after the timeout claimed the slot must be a
	// silent no-op: Wait already returned, and a second Wait would block
	// forever if settle reopened the slot (it must not).
	pr.settle("late", nil)
	require.Nil(t, pr.val, "a late settle must not overwrite the claimed slot")
}

func TestPendingResultSettleWinsRace(t *testing.T) {
	pr := newPendingResult()
	pr.settle("value", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	v, err := pr.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "value", v)
}

package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_ImmediateFetchThenInterval(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 20*time.Millisecond, nil, func(_ context.Context) error {
		calls.Add(1)
		return nil
	})

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond,
		"first fetch happens immediately on start")
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond,
		"subsequent fetches follow the interval")
}

func TestPoller_GuardSuspendsRefresh(t *testing.T) {
	var editing atomic.Bool
	editing.Store(true)

	var calls atomic.Int32
	p := New("test", 10*time.Millisecond, editing.Load, func(_ context.Context) error {
		calls.Add(1)
		return nil
	})

	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load(), "no fetches while the editing guard is up")

	editing.Store(false)
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond,
		"refreshing resumes once the guard clears")
}

func TestPoller_StopCancelsContext(t *testing.T) {
	fetchCtx := make(chan context.Context, 1)
	p := New("test", 10*time.Millisecond, nil, func(ctx context.Context) error {
		select {
		case fetchCtx <- ctx:
		default:
		}
		return nil
	})

	p.Start(context.Background())

	var ctx context.Context
	select {
	case ctx = <-fetchCtx:
	case <-time.After(time.Second):
		t.Fatal("fetch never ran")
	}

	p.Stop()
	assert.Error(t, ctx.Err(), "a late result must see a cancelled context")

	// Stop is idempotent.
	p.Stop()
}

func TestPoller_StartTwiceIsNoOp(t *testing.T) {
	var calls atomic.Int32
	p := New("test", time.Hour, nil, func(_ context.Context) error {
		calls.Add(1)
		return nil
	})

	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

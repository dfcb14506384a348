package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(16, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestPost_RunsInOrder(t *testing.T) {
	l := startLoop(t)

	results := make(chan int, 3)
	for i := 0; i < 3; i++ {
		i := i
		l.Post(func() { results <- i })
	}

	for i := 0; i < 3; i++ {
		select {
		case got := <-results:
			assert.Equal(t, i, got)
		case <-time.After(time.Second):
			t.Fatal("callback did not run")
		}
	}
}

func TestDebounce_ReplacesPendingTask(t *testing.T) {
	l := startLoop(t)

	var first, second atomic.Int32
	l.Debounce("sync", 50*time.Millisecond, func() { first.Add(1) })
	l.Debounce("sync", 50*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
	assert.False(t, l.Pending("sync"))
}

func TestDebounce_KeysAreIndependent(t *testing.T) {
	l := startLoop(t)

	var a, b atomic.Int32
	l.Debounce("a", 10*time.Millisecond, func() { a.Add(1) })
	l.Debounce("b", 10*time.Millisecond, func() { b.Add(1) })

	require.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestCancel(t *testing.T) {
	l := startLoop(t)

	var ran atomic.Bool
	l.Debounce("x", 20*time.Millisecond, func() { ran.Store(true) })
	assert.True(t, l.Pending("x"))
	l.Cancel("x")
	assert.False(t, l.Pending("x"))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestStop_Idempotent(t *testing.T) {
	l := New(1, nil)
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	l.Debounce("x", time.Hour, func() {})
	l.Stop()
	l.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.False(t, l.Pending("x"))

	// no-ops once stopped
	l.Post(func() {})
	l.Debounce("y", time.Millisecond, func() {})
	assert.False(t, l.Pending("y"))
}

func TestRun_RecoversFromPanic(t *testing.T) {
	l := startLoop(t)

	ran := make(chan struct{})
	l.Post(func() { panic("boom") })
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("loop did not survive panic")
	}
}

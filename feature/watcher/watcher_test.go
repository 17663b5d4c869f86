package watcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestWatcher builds a watcher with a short debounce and starts its worker
// without a filesystem watch, so tests drive it through Notify.
func newTestWatcher(t *testing.T, debounce time.Duration, run func() error) *Watcher {
	t.Helper()
	w := New(&Config{Enabled: true, DebounceSeconds: 1}, run, zap.NewNop())
	w.debounce = debounce
	go w.worker()
	return w
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWatcher_DebounceCoalescesEvents(t *testing.T) {
	var runs atomic.Int32
	w := newTestWatcher(t, 30*time.Millisecond, func() error {
		runs.Add(1)
		return nil
	})
	defer w.Stop()

	w.Notify()
	w.Notify()
	w.Notify()

	waitFor(t, time.Second, func() bool { return runs.Load() == 1 })

	// No further events, no further runs.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, StateIdle, w.State())
}

func TestWatcher_EventDuringRunSchedulesFollowUp(t *testing.T) {
	var runs atomic.Int32
	var w *Watcher
	w = newTestWatcher(t, 20*time.Millisecond, func() error {
		if runs.Add(1) == 1 {
			w.Notify()
		}
		return nil
	})
	defer w.Stop()

	w.Notify()

	waitFor(t, time.Second, func() bool { return runs.Load() == 2 })
	waitFor(t, time.Second, func() bool { return w.State() == StateIdle })
}

func TestWatcher_RunFailureStaysRetryable(t *testing.T) {
	var runs atomic.Int32
	w := newTestWatcher(t, 20*time.Millisecond, func() error {
		runs.Add(1)
		return assert.AnError
	})
	defer w.Stop()

	w.Notify()
	waitFor(t, time.Second, func() bool { return runs.Load() == 1 })
	waitFor(t, time.Second, func() bool { return w.State() == StateIdle })

	w.Notify()
	waitFor(t, time.Second, func() bool { return runs.Load() == 2 })
}

func TestWatcher_StopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	w := newTestWatcher(t, 10*time.Millisecond, func() error {
		close(started)
		<-release
		close(finished)
		return nil
	})

	w.Notify()
	<-started

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	close(release)
	<-stopped

	select {
	case <-finished:
	default:
		t.Fatal("stop returned before the in-flight run finished")
	}
	assert.Equal(t, StateStopped, w.State())
}

func TestWatcher_ScheduledAfterNotify(t *testing.T) {
	w := newTestWatcher(t, time.Hour, func() error { return nil })
	defer w.Stop()

	require.Equal(t, StateIdle, w.State())
	w.Notify()
	waitFor(t, time.Second, func() bool { return w.State() == StateScheduled })
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "scheduled", StateScheduled.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}

package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config controls the snapshot watcher.
type Config struct {
	// Enabled turns automatic reconciliation on new count snapshots on.
	Enabled bool `mapstructure:"enabled" default:"true"`

	// DebounceSeconds is how long the watcher waits after the last filesystem
	// event before triggering a reconciliation, so a burst of uploads is
	// coalesced into one run.
	DebounceSeconds int `mapstructure:"debounce_seconds" default:"2"`
}

// State is the watcher lifecycle state.
type State int32

const (
	// StateIdle means no reconciliation is pending or running.
	StateIdle State = iota
	// StateScheduled means events arrived and a run fires after the debounce.
	StateScheduled
	// StateRunning means a reconciliation is in flight.
	StateRunning
	// StateStopped is terminal.
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Watcher observes the count-snapshot directory and triggers a reconciliation
// after a quiet period. A single worker goroutine owns the state machine, so
// at most one reconciliation is ever triggered at a time.
type Watcher struct {
	debounce time.Duration
	run      func() error
	logger   *zap.Logger

	fsw *fsnotify.Watcher

	// dirty carries "something changed" to the worker. Capacity 1: any burst
	// of events collapses into a single pending signal.
	dirty chan struct{}
	stop  chan struct{}
	done  chan struct{}

	mu    sync.Mutex
	state State
}

// New creates a watcher that calls run after the debounce interval elapses
// with no further events.
func New(cfg *Config, run func() error, logger *zap.Logger) *Watcher {
	return &Watcher{
		debounce: time.Duration(cfg.DebounceSeconds) * time.Second,
		run:      run,
		logger:   logger,
		dirty:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		state:    StateIdle,
	}
}

// Start begins watching dir and launches the worker.
func (w *Watcher) Start(dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.fsw = fsw

	go w.pump()
	go w.worker()

	w.logger.Info("Snapshot watcher started",
		zap.String("dir", dir),
		zap.Duration("debounce", w.debounce),
	)
	return nil
}

// Notify marks the watched data as changed. It never blocks; a signal already
// pending absorbs the new one.
func (w *Watcher) Notify() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Stop shuts the watcher down. An in-flight reconciliation finishes first.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.setState(StateStopped)
	w.logger.Info("Snapshot watcher stopped")
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// pump forwards filesystem events into the dirty channel. New snapshots are
// published by rename, so create and rename events both count.
func (w *Watcher) pump() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.Notify()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Filesystem watch error", zap.Error(err))
		}
	}
}

// worker owns the Idle/Scheduled/Running state machine.
func (w *Watcher) worker() {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	stopTimer(timer)
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			return

		case <-w.dirty:
			// Further events keep pushing the run out.
			w.setState(StateScheduled)
			stopTimer(timer)
			timer.Reset(w.debounce)

		case <-timer.C:
			w.setState(StateRunning)
			if err := w.run(); err != nil {
				// Stay retryable: the next event schedules another run.
				w.logger.Error("Automatic reconciliation failed", zap.Error(err))
			}

			// Events that arrived mid-run schedule a follow-up run.
			select {
			case <-w.dirty:
				w.setState(StateScheduled)
				stopTimer(timer)
				timer.Reset(w.debounce)
			default:
				w.setState(StateIdle)
			}
		}
	}
}

// stopTimer halts a timer and drains its channel if it already fired.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

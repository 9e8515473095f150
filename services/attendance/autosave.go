package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DebounceInterval is how long the autosaver waits after the last change
// before persisting.
const DebounceInterval = 2 * time.Second

// SaveFunc persists the current session state.
type SaveFunc func(ctx context.Context) error

// Autosaver persists a session a fixed interval after the most recent change.
// Consecutive changes inside the interval collapse into a single save.
type Autosaver struct {
	save     SaveFunc
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	suppress bool
	closed   bool
	lastErr  error
}

func NewAutosaver(save SaveFunc) *Autosaver {
	return &Autosaver{save: save, interval: DebounceInterval}
}

// SuppressNext drops the next Touch. Used right after loading a session so
// that populating the form does not count as an edit.
func (a *Autosaver) SuppressNext() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suppress = true
}

// Touch registers a change and (re)starts the debounce timer.
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.suppress {
		a.suppress = false
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.interval, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()
	a.runSave()
}

// Flush saves immediately, cancelling any pending debounce.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.runSave()
}

// Close cancels any pending save without running it.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Err returns the most recent save failure, if any. Autosave failures are
// not retried; the next change schedules a fresh attempt.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Autosaver) runSave() error {
	err := a.save(context.Background())
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("autosave failed")
	}
	return err
}

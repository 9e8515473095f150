package attendance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAutosaver(save SaveFunc) *Autosaver {
	a := NewAutosaver(save)
	a.interval = 20 * time.Millisecond
	return a
}

func waitForSaves(t *testing.T, saves *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if saves.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d saves, got %d", want, saves.Load())
}

func TestAutosaverDebouncesBursts(t *testing.T) {
	var saves atomic.Int32
	a := newTestAutosaver(func(context.Context) error {
		saves.Add(1)
		return nil
	})
	defer a.Close()

	for i := 0; i < 5; i++ {
		a.Touch()
		time.Sleep(2 * time.Millisecond)
	}
	waitForSaves(t, &saves, 1)

	// settled; a fresh change schedules another save
	a.Touch()
	waitForSaves(t, &saves, 2)
}

func TestAutosaverSuppressNext(t *testing.T) {
	var saves atomic.Int32
	a := newTestAutosaver(func(context.Context) error {
		saves.Add(1)
		return nil
	})
	defer a.Close()

	a.SuppressNext()
	a.Touch()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())

	a.Touch()
	waitForSaves(t, &saves, 1)
}

func TestAutosaverFlushCancelsPending(t *testing.T) {
	var saves atomic.Int32
	a := newTestAutosaver(func(context.Context) error {
		saves.Add(1)
		return nil
	})
	defer a.Close()

	a.Touch()
	require.NoError(t, a.Flush())
	assert.Equal(t, int32(1), saves.Load())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), saves.Load())
}

func TestAutosaverCloseDropsPending(t *testing.T) {
	var saves atomic.Int32
	a := newTestAutosaver(func(context.Context) error {
		saves.Add(1)
		return nil
	})

	a.Touch()
	a.Close()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())

	a.Touch()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), saves.Load())
}

func TestAutosaverRecordsLastError(t *testing.T) {
	failure := errors.New("write failed")
	var fail atomic.Bool
	fail.Store(true)
	a := newTestAutosaver(func(context.Context) error {
		if fail.Load() {
			return failure
		}
		return nil
	})
	defer a.Close()

	a.Touch()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && a.Err() == nil {
		time.Sleep(5 * time.Millisecond)
	}
	assert.ErrorIs(t, a.Err(), failure)

	fail.Store(false)
	require.NoError(t, a.Flush())
	assert.NoError(t, a.Err())
}

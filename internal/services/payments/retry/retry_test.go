package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyErr struct{ temporary bool }

func (e flakyErr) Error() string   { return "vendor unavailable" }
func (e flakyErr) Temporary() bool { return e.temporary }

func TestDoSucceedsFirstTime(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttemptsOnPersistentTransientFailure(t *testing.T) {
	want := flakyErr{temporary: true}
	calls := 0

	err := Do(context.Background(), Policy{Attempts: 4, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return want
	})

	assert.Equal(t, 4, calls)
	assert.Equal(t, want, err)
}

func TestDoRecoversAfterTransientFailure(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 2 {
			return flakyErr{temporary: true}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnPermanentFailure(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return flakyErr{temporary: false}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursContextDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, Policy{Attempts: 5, Delay: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return flakyErr{temporary: true}
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(flakyErr{temporary: true}))
	assert.True(t, IsTransient(&timeoutErr{}))
}

type timeoutErr struct{}

func (*timeoutErr) Error() string   { return "i/o timeout" }
func (*timeoutErr) Timeout() bool   { return true }
func (*timeoutErr) Temporary() bool { return true }

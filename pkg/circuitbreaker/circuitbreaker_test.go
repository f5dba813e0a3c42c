package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("dependency down")

func failing() error { return errDown }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "test", FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Execute(failing), errDown)
	}
	assert.Equal(t, StateOpen, b.State())

	// Calls are shed without reaching the dependency while open.
	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New(Config{Name: "test", FailureThreshold: 2, Cooldown: time.Minute})

	require.Error(t, b.Execute(failing))
	require.NoError(t, b.Execute(func() error { return nil }))
	require.Error(t, b.Execute(failing))

	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenTrialClosesOnSuccess(t *testing.T) {
	b := New(Config{Name: "test", FailureThreshold: 1, Cooldown: time.Millisecond})

	require.Error(t, b.Execute(failing))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(5 * time.Millisecond)

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenTrialReopensOnFailure(t *testing.T) {
	b := New(Config{Name: "test", FailureThreshold: 1, Cooldown: time.Millisecond})

	require.Error(t, b.Execute(failing))
	time.Sleep(5 * time.Millisecond)

	assert.ErrorIs(t, b.Execute(failing), errDown)
	assert.Equal(t, StateOpen, b.State())
}

package pwngo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveVariants(t *testing.T) {
	require.Equal(t, 5*time.Second, After(5*time.Second).Resolve())
	require.True(t, ForeverTimeout().Resolve() > time.Hour*24*365)

	Access(func(s *Settings) {
		s.Timeout = After(250 * time.Millisecond)
	})
	require.Equal(t, 250*time.Millisecond, DefaultTimeout().Resolve())

	Access(func(s *Settings) {
		s.Timeout = DefaultTimeout()
	})
	require.Equal(t, defaultTimeoutDuration, DefaultTimeout().Resolve())
}

func TestRunBoundedCompletesBeforeDeadline(t *testing.T) {
	v, err := RunBounded(func() (int, error) {
		return 42, nil
	}, time.Second)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestRunBoundedTimesOut(t *testing.T) {
	_, err := RunBounded(func() (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	}, 20*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestRunBoundedDisconnectsOnPanic(t *testing.T) {
	_, err := RunBounded(func() (int, error) {
		panic("worker vanished")
	}, time.Second)
	require.ErrorIs(t, err, ErrDisconnect)
}

func TestCountdownFlipsAfterDuration(t *testing.T) {
	flag := Countdown(20 * time.Millisecond)
	require.True(t, flag.Load())
	time.Sleep(60 * time.Millisecond)
	require.False(t, flag.Load())
}

package pwngo

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTransport is a minimal Transport used to exercise the Tube core
// without spawning a process or opening a socket.
type fakeTransport struct {
	mu      sync.Mutex
	pending [][]byte
	sent    [][]byte
}

func (f *fakeTransport) feed(chunks ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, chunks...)
}

func (f *fakeTransport) RecvRaw(_ int, deadline time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, nil // no data within deadline is not an error
	}
	next := f.pending[0]
	f.pending = f.pending[1:]
	return next, nil
}

func (f *fakeTransport) SendRaw(data []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func TestTubeRecvPrefersBufferedData(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("hello world"))
	tube := NewTube(ft)

	got, err := tube.Recv(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))

	got, err = tube.Recv(100)
	require.NoError(t, err)
	require.Equal(t, " world", string(got))
}

func TestTubeRecvUntilIncludesNeedleAndUngetsRest(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("testing!testing2!\n"))
	tube := NewTube(ft)

	got, err := tube.RecvUntil([]byte("!"))
	require.NoError(t, err)
	require.Equal(t, "testing!", string(got))

	rest, err := tube.Recv(100)
	require.NoError(t, err)
	require.Equal(t, "testing2!\n", string(rest))
}

func TestTubeRecvUntilTimesOutNonDestructively(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("partial-data-no-needle-here"))
	tube := NewTube(ft)

	_, err := tube.RecvUntilTimeout([]byte("NEVER"), After(30*time.Millisecond))
	require.ErrorIs(t, err, ErrTimeout)

	// the already-received bytes must still be available afterwards
	got, err := tube.Recv(100)
	require.NoError(t, err)
	require.Equal(t, "partial-data-no-needle-here", string(got))
}

func TestTubeRecvLineStripsTrailingNewline(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("testing2!\n"))
	tube := NewTube(ft)

	got, err := tube.RecvLine()
	require.NoError(t, err)
	require.Equal(t, "testing2!", string(got))
}

func TestTubeSendLineAppendsNewline(t *testing.T) {
	ft := &fakeTransport{}
	tube := NewTube(ft)
	require.NoError(t, tube.SendLine([]byte("testing!")))
	require.Len(t, ft.sent, 1)
	require.Equal(t, "testing!\n", string(ft.sent[0]))
}

func TestTubeSendAfterWaitsForNeedle(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("prompt> "))
	tube := NewTube(ft)

	require.NoError(t, tube.SendAfter([]byte("> "), []byte("payload")))
	require.Len(t, ft.sent, 1)
	require.Equal(t, "payload", string(ft.sent[0]))
}

func TestTubeCloneHasIndependentBuffer(t *testing.T) {
	ft := &fakeTransport{}
	ft.feed([]byte("shared-transport-data"))
	tube := NewTube(ft)

	got, err := tube.Recv(6)
	require.NoError(t, err)
	require.Equal(t, "shared", string(got))

	clone := tube.Clone()
	require.True(t, clone.Buffer().Empty())
	require.False(t, tube.Buffer().Empty())
}

package pwngo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecvBufferTakeAfterAdds(t *testing.T) {
	a := []byte("hello ")
	c := []byte("world")
	want := append(append([]byte{}, a...), c...)

	for n := 0; n <= len(want); n++ {
		buf := NewRecvBuffer()
		buf.Add(append([]byte{}, a...))
		buf.Add(append([]byte{}, c...))
		got := buf.Take(n)
		rest := buf.Take(buf.Len())
		require.Equal(t, want[:n], got)
		require.Equal(t, string(want[n:]), string(rest))
	}
}

func TestRecvBufferTakeMoreThanAvailable(t *testing.T) {
	b := NewRecvBuffer()
	b.Add([]byte("abc"))
	got := b.Take(100)
	require.Equal(t, []byte("abc"), got)
	require.True(t, b.Empty())
	require.Equal(t, 0, b.Len())
}

func TestRecvBufferUngetThenTakeRoundTrips(t *testing.T) {
	b := NewRecvBuffer()
	x := []byte("prefix")
	b.Unget(x)
	require.Equal(t, x, b.Take(len(x)))
}

func TestRecvBufferUngetPreservesOrder(t *testing.T) {
	b := NewRecvBuffer()
	b.Add([]byte("tail"))
	b.Unget([]byte("head-"))
	require.Equal(t, []byte("head-tail"), b.Take(b.Len()))
}

func TestRecvBufferFillSize(t *testing.T) {
	b := NewRecvBuffer()
	require.Equal(t, defaultFillSize, b.FillSize(nil))

	b.SetFillSize(128)
	require.Equal(t, 128, b.FillSize(nil))

	override := 7
	require.Equal(t, 7, b.FillSize(&override))
}

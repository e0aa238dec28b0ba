package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaysec/pwngo"
)

func TestEchoRecv(t *testing.T) {
	p, err := New([]string{"/bin/echo", "testing"}, DefaultConfig())
	require.NoError(t, err)

	out, err := p.Recv(4)
	require.NoError(t, err)
	require.Equal(t, "test", string(out))

	out, err = p.Recv(4)
	require.NoError(t, err)
	require.Equal(t, "ing\n", string(out))

	// echo has exited and its stdout is drained, so the refill reports the
	// peer as gone rather than timing out.
	out, err = p.RecvTimeout(1, pwngo.After(500*time.Millisecond))
	var recvErr *pwngo.RecvError
	require.ErrorAs(t, err, &recvErr)
	require.Empty(t, out)
}

func TestCatSendRecv(t *testing.T) {
	p, err := New([]string{"/bin/cat"}, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, p.SendLine([]byte("testing!")))
	out, err := p.Recv(9)
	require.NoError(t, err)
	require.Equal(t, "testing!\n", string(out))
}

func TestCatRecvUntil(t *testing.T) {
	p, err := New([]string{"/bin/cat"}, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, p.SendLine([]byte("testing!")))
	require.NoError(t, p.SendLine([]byte("testing2!")))

	out, err := p.RecvUntil([]byte("!"))
	require.NoError(t, err)
	require.Equal(t, "testing!", string(out))

	_, err = p.Recv(1) // skip pending newline
	require.NoError(t, err)

	out, err = p.RecvLine()
	require.NoError(t, err)
	require.Equal(t, "testing2!", string(out))
}

func TestNewRejectsEmptyArgs(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	require.ErrorIs(t, err, ErrEmptyArgs)
}

func TestStderrTubeIsIndependent(t *testing.T) {
	p, err := New([]string{"/bin/sh", "-c", "echo err-output >&2"}, DefaultConfig())
	require.NoError(t, err)

	out, err := p.StderrTube.RecvTimeout(64, pwngo.After(time.Second))
	require.NoError(t, err)
	require.Equal(t, "err-output\n", string(out))
}

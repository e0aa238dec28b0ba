package pwngo

import "github.com/pkg/errors"

// Sentinel errors returned by the Tube core. Transport packages (process,
// remote) define their own sentinels for construction-time failures and wrap
// I/O errors with these via errors.Wrap.
var (
	// ErrTimeout is returned by RecvUntil-family operations when the
	// deadline elapses before the needle is found. Recv-family operations
	// never return this: a plain recv timeout yields an empty slice.
	ErrTimeout = errors.New("timeout")

	// ErrDisconnect is returned by RunBounded when the worker goroutine
	// vanishes without reporting a result.
	ErrDisconnect = errors.New("disconnect")

	// ErrUnpackSize is wrapped with the expected length by the checked
	// codec functions.
	ErrUnpackSize = errors.New("unpack error")

	// ErrClosed is the sentinel for a tube operation issued after the
	// transport has been torn down. No transport in this module returns it:
	// a Remote used after Close reports its connection's wrapped error.
	ErrClosed = errors.New("tube closed")
)

// RecvError reports that the peer has gone away -- process exited, or the
// remote connection closed -- with no more data left to deliver.
type RecvError struct {
	Status string
}

func (e *RecvError) Error() string {
	if e.Status == "" {
		return "peer had already exited"
	}
	return "peer had already exited: " + e.Status
}

// NewRecvError builds a RecvError, mirroring the distilled spec's
// `RecvError("...process had already exited...")`. Transport packages call
// this once they have detected the peer is gone and no buffered data
// remains.
func NewRecvError(status string) error {
	return &RecvError{Status: status}
}

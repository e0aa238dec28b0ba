package pwngo

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"sync/atomic"
	"time"
)

// Transport is the two-primitive contract a concrete tube (process, remote)
// must satisfy; every other Tube operation is derived from these.
type Transport interface {
	// RecvRaw blocks up to deadline and returns whatever bytes are
	// currently available -- possibly fewer than maxHint, possibly empty
	// on timeout, but timeout itself is never an error. Implementations
	// return *RecvError once the peer has gone away with nothing left to
	// deliver, and wrap any other I/O failure.
	RecvRaw(maxHint int, deadline time.Duration) ([]byte, error)

	// SendRaw writes all of data within deadline.
	SendRaw(data []byte, deadline time.Duration) error
}

// Tube is a duplex, buffered, timeout-bounded byte channel over a Transport.
// It is not safe for concurrent Recv-family calls from multiple goroutines
// (the receive buffer is unsynchronised), but Interactive's two goroutines
// are safe together because only one of them ever touches the buffer.
type Tube struct {
	transport Transport
	buf       *RecvBuffer
}

// NewTube wraps t in a Tube with a fresh, empty receive buffer.
func NewTube(t Transport) *Tube {
	return &Tube{transport: t, buf: NewRecvBuffer()}
}

// Clone returns a new Tube sharing this one's Transport but with its own,
// independent receive buffer -- buffered bytes are never shared across
// clones.
func (t *Tube) Clone() *Tube {
	return &Tube{transport: t.transport, buf: NewRecvBuffer()}
}

// Buffer exposes the underlying receive buffer, mainly for tests and for
// transports that want to tune its fill size.
func (t *Tube) Buffer() *RecvBuffer { return t.buf }

func (t *Tube) fillBuffer(timeout Timeout) error {
	data, err := t.transport.RecvRaw(0, timeout.Resolve())
	if err != nil {
		return err
	}
	t.buf.Add(data)
	return nil
}

// recv is the shared engine behind Recv/RecvTimeout/RecvUntil's inner loop:
// want bytes if numb is set, else the buffer's configured fill size: prefer
// buffered data, refill from the transport at most once otherwise.
func (t *Tube) recv(numb *int, timeout Timeout) ([]byte, error) {
	want := t.buf.FillSize(numb)
	if want > t.buf.Len() {
		if err := t.fillBuffer(timeout); err != nil {
			return nil, err
		}
	}
	return t.buf.Take(want), nil
}

// RecvTimeout returns up to n bytes, preferring buffered data and refilling
// from the transport at most once if short, bounded by timeout.
func (t *Tube) RecvTimeout(n int, timeout Timeout) ([]byte, error) {
	return t.recv(&n, timeout)
}

// Recv is RecvTimeout using DefaultTimeout.
func (t *Tube) Recv(n int) ([]byte, error) {
	return t.RecvTimeout(n, DefaultTimeout())
}

// RecvUntilTimeout accumulates bytes until needle appears, returning them
// including the needle. Bytes received past the needle are pushed back with
// Unget. Fails with ErrTimeout once the deadline elapses with no match,
// leaving every already-received byte ungot (non-destructive).
func (t *Tube) RecvUntilTimeout(needle []byte, timeout Timeout) ([]byte, error) {
	data := t.buf.Take(t.buf.Len())
	flag := Countdown(timeout.Resolve())

	for {
		if !flag.Load() {
			t.buf.Unget(data)
			return nil, ErrTimeout
		}

		if idx := bytes.Index(data, needle); idx >= 0 {
			end := idx + len(needle)
			matched := append([]byte(nil), data[:end]...)
			rest := append([]byte(nil), data[end:]...)
			t.buf.Unget(rest)
			return matched, nil
		}

		more, err := t.recv(nil, timeout)
		if err != nil {
			t.buf.Unget(data)
			return nil, err
		}
		data = append(data, more...)
	}
}

// RecvUntil is RecvUntilTimeout using DefaultTimeout.
func (t *Tube) RecvUntil(needle []byte) ([]byte, error) {
	return t.RecvUntilTimeout(needle, DefaultTimeout())
}

// RecvLineTimeout is RecvUntilTimeout(`\n`, timeout) with the trailing
// newline stripped.
func (t *Tube) RecvLineTimeout(timeout Timeout) ([]byte, error) {
	line, err := t.RecvUntilTimeout([]byte("\n"), timeout)
	if err != nil {
		return nil, err
	}
	return line[:len(line)-1], nil
}

// RecvLine is RecvLineTimeout using DefaultTimeout.
func (t *Tube) RecvLine() ([]byte, error) {
	return t.RecvLineTimeout(DefaultTimeout())
}

// SendTimeout forwards data to the transport, bounded by timeout.
func (t *Tube) SendTimeout(data []byte, timeout Timeout) error {
	return t.transport.SendRaw(data, timeout.Resolve())
}

// Send is SendTimeout using DefaultTimeout.
func (t *Tube) Send(data []byte) error {
	return t.SendTimeout(data, DefaultTimeout())
}

// SendLineTimeout appends a single '\n' to data and sends it.
func (t *Tube) SendLineTimeout(data []byte, timeout Timeout) error {
	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')
	return t.SendTimeout(line, timeout)
}

// SendLine is SendLineTimeout using DefaultTimeout.
func (t *Tube) SendLine(data []byte) error {
	return t.SendLineTimeout(data, DefaultTimeout())
}

// SendAfterTimeout waits for needle then sends data; worst-case elapsed time
// is 2x timeout since each sub-operation gets the full bound independently.
func (t *Tube) SendAfterTimeout(needle, data []byte, timeout Timeout) error {
	if _, err := t.RecvUntilTimeout(needle, timeout); err != nil {
		return err
	}
	return t.SendTimeout(data, timeout)
}

// SendAfter is SendAfterTimeout using DefaultTimeout.
func (t *Tube) SendAfter(needle, data []byte) error {
	return t.SendAfterTimeout(needle, data, DefaultTimeout())
}

// SendLineAfterTimeout is SendAfterTimeout using SendLineTimeout for the
// send half.
func (t *Tube) SendLineAfterTimeout(needle, data []byte, timeout Timeout) error {
	if _, err := t.RecvUntilTimeout(needle, timeout); err != nil {
		return err
	}
	return t.SendLineTimeout(data, timeout)
}

// SendLineAfter is SendLineAfterTimeout using DefaultTimeout.
func (t *Tube) SendLineAfter(needle, data []byte) error {
	return t.SendLineAfterTimeout(needle, data, DefaultTimeout())
}

// interactivePollInterval is the background output pump's recv timeout.
const interactivePollInterval = 50 * time.Millisecond

// Interactive enters a REPL: a background goroutine polls Recv with a short
// timeout and writes whatever arrives to stdout, while the foreground reads
// lines from stdin and SendLines each. It returns when stdin hits EOF/error
// or a send fails; the background goroutine is signalled to stop and
// awaited, and the first error between the two wins.
func (t *Tube) Interactive() error {
	cont := &atomic.Bool{}
	cont.Store(true)
	done := make(chan error, 1)
	var first atomic.Pointer[error]
	record := func(err error) {
		if err != nil {
			first.CompareAndSwap(nil, &err)
		}
	}

	go func() {
		for cont.Load() {
			data, err := t.recv(nil, After(interactivePollInterval))
			if err != nil {
				var recvErr *RecvError
				if errors.As(err, &recvErr) {
					cont.Store(false)
					record(err)
					done <- err
					return
				}
				// Any other recv-side error (including a plain I/O
				// error) is not terminal for the background loop.
				continue
			}
			if len(data) > 0 {
				os.Stdout.Write(data)
			}
		}
		done <- nil
	}()

	scanner := bufio.NewScanner(os.Stdin)
	var sendErr error
	for scanner.Scan() {
		if err := t.SendLine(scanner.Bytes()); err != nil {
			sendErr = err
			break
		}
	}
	if sendErr == nil {
		sendErr = scanner.Err()
	}
	record(sendErr)

	cont.Store(false)
	<-done

	if errp := first.Load(); errp != nil {
		return *errp
	}
	return nil
}

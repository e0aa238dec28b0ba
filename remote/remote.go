// Package remote is the Tube transport that drives a TCP connection to a
// remote service.
package remote

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/relaysec/pwngo"
	"github.com/relaysec/pwngo/logging"
)

// ErrConnection wraps the dial failure reported by New.
var ErrConnection = errors.New("remote: connection failed")

// Remote is a Tube transport over a single TCP connection.
type Remote struct {
	*pwngo.Tube

	conn net.Conn
	mu   sync.Mutex
}

// New resolves addr and dials it over TCP.
func New(addr string) (*Remote, error) {
	logging.Info(fmt.Sprintf("Establishing remote connection to '%s'", addr))

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s: %v", addr, err)
	}

	r := &Remote{conn: conn}
	r.Tube = pwngo.NewTube(r)
	return r, nil
}

// Close tears down the underlying TCP connection.
func (r *Remote) Close() error { return r.conn.Close() }

// RecvRaw satisfies pwngo.Transport by reading whatever is available within
// deadline. A read deadline expiring is "no data within deadline", never an
// error, matching the distilled spec's recv_raw contract.
func (r *Remote) RecvRaw(maxHint int, deadline time.Duration) ([]byte, error) {
	size := maxHint
	if size <= 0 {
		size = 4096
	}
	buf := make([]byte, size)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
		return nil, errors.Wrap(err, "remote: set read deadline")
	}

	n, err := r.conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, pwngo.NewRecvError("connection closed")
		}
		return nil, errors.Wrap(err, "remote: recv")
	}
	return buf[:n], nil
}

// SendRaw satisfies pwngo.Transport by writing all of data within deadline.
// A deadline elapsing mid-write surfaces as an error rather than being
// swallowed -- see SPEC_FULL.md §9's resolved open question.
func (r *Remote) SendRaw(data []byte, deadline time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conn.SetWriteDeadline(time.Now().Add(deadline)); err != nil {
		return errors.Wrap(err, "remote: set write deadline")
	}

	n, err := pwngo.WriteVectorised(r.conn, data)
	if err != nil {
		return errors.Wrap(err, "remote: send")
	}
	if n != len(data) {
		return errors.Wrap(io.ErrShortWrite, "remote: send")
	}
	return nil
}

package pwngo

// defaultFillSize is used by FillSize when neither an explicit size nor a
// configured fill size is available.
const defaultFillSize = 4096

// RecvBuffer is an ordered FIFO of bytes with front-take and front-push
// ("unget"). It is owned exclusively by one Tube instance -- Tube.Clone
// never shares a RecvBuffer between clones.
type RecvBuffer struct {
	data     []byte
	fillSize *int
}

// NewRecvBuffer returns an empty buffer using the package default fill size.
func NewRecvBuffer() *RecvBuffer {
	return &RecvBuffer{}
}

// Len reports the number of bytes currently buffered.
func (b *RecvBuffer) Len() int { return len(b.data) }

// Empty reports whether the buffer holds no bytes.
func (b *RecvBuffer) Empty() bool { return len(b.data) == 0 }

// Add appends data to the back of the buffer.
func (b *RecvBuffer) Add(data []byte) {
	b.data = append(b.data, data...)
}

// Unget prepends data to the front of the buffer, preserving its relative
// order -- used to push back bytes read past a needle or bytes received
// after a timed-out search.
func (b *RecvBuffer) Unget(data []byte) {
	if len(data) == 0 {
		return
	}
	merged := make([]byte, 0, len(data)+len(b.data))
	merged = append(merged, data...)
	merged = append(merged, b.data...)
	b.data = merged
}

// Take drains up to n bytes from the front of the buffer. If n >= Len, it
// returns every buffered byte and leaves the buffer empty; otherwise it
// returns exactly n bytes.
func (b *RecvBuffer) Take(n int) []byte {
	if n >= len(b.data) {
		out := b.data
		b.data = nil
		return out
	}
	out := b.data[:n]
	b.data = b.data[n:]
	return out
}

// SetFillSize configures the size FillSize falls back to when called with a
// nil override.
func (b *RecvBuffer) SetFillSize(n int) {
	b.fillSize = &n
}

// FillSize returns opt if non-nil, else the buffer's configured fill size,
// else the package default (4096).
func (b *RecvBuffer) FillSize(opt *int) int {
	if opt != nil {
		return *opt
	}
	if b.fillSize != nil {
		return *b.fillSize
	}
	return defaultFillSize
}

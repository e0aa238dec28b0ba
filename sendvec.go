package pwngo

import (
	"io"

	"github.com/sagernet/sing/common/bufio"
)

// WriteVectorised writes data to w, using sing's vectorised writer when the
// underlying writer supports scatter-gather I/O (as session.go's sendLoop
// does for smux frames) and falling back to a plain Write otherwise. Process
// and remote tubes share this helper for their SendRaw implementation.
func WriteVectorised(w io.Writer, data []byte) (int, error) {
	if bw, ok := bufio.CreateVectorisedWriter(w); ok {
		return bufio.WriteVectorised(bw, [][]byte{data})
	}
	return w.Write(data)
}

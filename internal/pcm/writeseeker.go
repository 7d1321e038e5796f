package pcm

import (
	"fmt"
	"io"
)

// writeSeeker is an in-memory io.WriteSeeker. The WAV encoder seeks back
// over the header to patch chunk sizes after the sample data is written, so
// a plain bytes.Buffer is not enough.
type writeSeeker struct {
	data []byte
	pos  int
}

func newWriteSeeker() *writeSeeker {
	return &writeSeeker{data: make([]byte, 0, 1024)}
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	if need := ws.pos + len(p); need > len(ws.data) {
		grown := make([]byte, need)
		copy(grown, ws.data)
		ws.data = grown
	}
	copy(ws.data[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = ws.pos + int(offset)
	case io.SeekEnd:
		next = len(ws.data) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position %d", next)
	}
	ws.pos = next
	return int64(next), nil
}

func (ws *writeSeeker) Bytes() []byte {
	return ws.data
}

package codec

import (
	"bufio"
	"bytes"
	"os"

	"github.com/pcgeo/pctree/internal/utils"
)

// FileWriter is an append-only, file-backed serialization sink, in the
// spirit of the library's sequential end-of-file allocation strategy:
// there is no random-access rewrite, only appends, so no block tracking
// is needed beyond a running byte count.
type FileWriter struct {
	file *os.File
	buf  *bufio.Writer
	size uint64
}

// CreateFile opens path for writing, truncating any existing content.
func CreateFile(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, utils.Wrap(utils.KindIOError, "create file", err)
	}
	return &FileWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Write appends p to the file and implements io.Writer.
func (w *FileWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.size += uint64(n)
	if err != nil {
		return n, utils.Wrap(utils.KindIOError, "append write", err)
	}
	return n, nil
}

// Size reports the number of bytes written (including buffered, not yet
// flushed, data).
func (w *FileWriter) Size() uint64 {
	return w.size
}

// Flush commits any buffered writes and syncs the file.
func (w *FileWriter) Flush() error {
	if w.file == nil {
		return utils.New(utils.KindIOError, "writer is closed")
	}
	if err := w.buf.Flush(); err != nil {
		return utils.Wrap(utils.KindIOError, "flush", err)
	}
	if err := w.file.Sync(); err != nil {
		return utils.Wrap(utils.KindIOError, "sync", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Safe to call multiple
// times.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}
	flushErr := w.Flush()
	err := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return flushErr
	}
	if err != nil {
		return utils.Wrap(utils.KindIOError, "close", err)
	}
	return nil
}

// MemWriter is a growable in-memory serialization sink.
type MemWriter struct {
	buf bytes.Buffer
}

// NewMemWriter returns an empty MemWriter.
func NewMemWriter() *MemWriter {
	return &MemWriter{}
}

// Write appends p to the buffer and implements io.Writer.
func (w *MemWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Size reports the number of bytes written so far.
func (w *MemWriter) Size() uint64 {
	return uint64(w.buf.Len())
}

// Bytes returns a copy of the accumulated bytes, safe to retain after
// further writes to w.
func (w *MemWriter) Bytes() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	return out
}

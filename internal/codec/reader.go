package codec

import (
	"io"
	"os"

	"github.com/pcgeo/pctree/internal/utils"
)

// FileReader is a file-backed io.ReaderAt with a known total size, used
// both for random access (ReadAt) and to detect trailing under-read
// bytes after decoding.
type FileReader struct {
	file *os.File
	size int64
}

// OpenFile opens path for reading.
func OpenFile(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.Wrap(utils.KindIOError, "open file", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.Wrap(utils.KindIOError, "stat file", err)
	}
	return &FileReader{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (r *FileReader) ReadAt(p []byte, off int64) (int, error) {
	n, err := r.file.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, utils.Wrap(utils.KindIOError, "read at", err)
	}
	return n, err
}

// Size returns the total file size in bytes.
func (r *FileReader) Size() int64 {
	return r.size
}

// Close closes the underlying file. Safe to call multiple times.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return utils.Wrap(utils.KindIOError, "close", err)
	}
	return nil
}

// MemReader is a memory-slice-backed io.ReaderAt.
type MemReader struct {
	data []byte
}

// NewMemReader wraps data for random access. The slice is not copied;
// callers must not mutate it while the reader is in use.
func NewMemReader(data []byte) *MemReader {
	return &MemReader{data: data}
}

// ReadAt implements io.ReaderAt.
func (r *MemReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(r.data)) {
		return 0, utils.New(utils.KindIOError, "read offset out of range")
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the total length of the wrapped slice.
func (r *MemReader) Size() int64 {
	return int64(len(r.data))
}

// cursor tracks a read position over a ReaderAt, so the tree decoder can
// consume the stream sequentially without passing an offset through
// every call.
type cursor struct {
	r    utils.ReaderAt
	pos  int64
	size int64
}

func newCursor(r utils.ReaderAt) *cursor {
	return &cursor{r: r}
}

// remaining returns the number of bytes left between the cursor's
// current position and the stream's declared size.
func (c *cursor) remaining() int64 {
	if c.pos >= c.size {
		return 0
	}
	return c.size - c.pos
}

func (c *cursor) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := c.r.ReadAt(buf, c.pos)
	if err != nil && err != io.EOF {
		return nil, utils.Wrap(utils.KindIOError, "read", err)
	}
	if read < n {
		return nil, utils.New(utils.KindMalformed, "unexpected end of stream")
	}
	c.pos += int64(n)
	return buf, nil
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

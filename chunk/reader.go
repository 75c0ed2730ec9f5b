package chunk

import (
	"errors"
	"fmt"
	"io"
)

var ErrShortRead = errors.New("short read")

// Descriptor is the byte range [Start, End) of the input file.
type Descriptor struct {
	Start int64
	End   int64
}

func (d Descriptor) Len() int64 {
	return d.End - d.Start
}

func (d Descriptor) String() string {
	return fmt.Sprintf("[%d, %d)", d.Start, d.End)
}

type ShortReadError struct {
	Chunk Descriptor
	Read  int
	Err   error
}

func (e *ShortReadError) Error() string {
	msg := fmt.Sprintf("%v: chunk %v returned %d of %d bytes", ErrShortRead, e.Chunk, e.Read, e.Chunk.Len())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShortReadError) Is(target error) bool {
	return target == ErrShortRead
}

func (e *ShortReadError) Unwrap() error {
	return e.Err
}

// Reader loads chunks with positioned reads into a buffer it reuses, so the
// bytes returned by Read are only valid until the next call.
type Reader struct {
	src io.ReaderAt
	buf []byte
}

func NewReader(src io.ReaderAt) *Reader {
	return &Reader{src: src}
}

func (r *Reader) Read(d Descriptor) ([]byte, error) {
	n := int(d.Len())
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	buf := r.buf[:n]
	if _, err := readFull(r.src, buf, d.Start); err != nil {
		return nil, err
	}
	return buf, nil
}

// readFull is a single ReadAt that must fill buf; io.EOF alongside a full
// read is fine.
func readFull(src io.ReaderAt, buf []byte, off int64) (int, error) {
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return n, nil
	}
	if err == io.EOF {
		err = nil
	}
	return n, &ShortReadError{
		Chunk: Descriptor{Start: off, End: off + int64(len(buf))},
		Read:  n,
		Err:   err,
	}
}

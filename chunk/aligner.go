package chunk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var ErrAlignment = errors.New("chunk alignment failure")

// AlignmentError means no line terminator was found in the lookback window
// ending at Offset, i.e. a record is longer than the window.
type AlignmentError struct {
	Offset   int64
	Lookback int64
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%v: no line terminator in the %d bytes before offset %d",
		ErrAlignment, e.Lookback, e.Offset)
}

func (e *AlignmentError) Unwrap() error {
	return ErrAlignment
}

// Align splits [0, size) into descriptors that each end right after a line
// terminator, except the last one which ends at size. Split points are
// requested every chunkSize bytes and pulled back to the last '\n' within
// the lookback bytes before them.
func Align(r io.ReaderAt, size, chunkSize, lookback int64) ([]Descriptor, error) {
	if chunkSize <= 0 || lookback <= 0 {
		return nil, fmt.Errorf("invalid alignment parameters: chunk size %d, lookback %d",
			chunkSize, lookback)
	}
	if size <= 0 {
		return nil, nil
	}

	window := make([]byte, lookback)
	boundaries := []int64{0}
	for pos := chunkSize; pos < size; pos += chunkSize {
		from := max(pos-lookback, 0)
		buf := window[:pos-from]
		if _, err := readFull(r, buf, from); err != nil {
			return nil, err
		}

		i := bytes.LastIndexByte(buf, '\n')
		if i < 0 {
			if pos < lookback {
				// clamped at the start of the file; the first record has
				// not ended yet
				continue
			}
			return nil, &AlignmentError{Offset: pos, Lookback: lookback}
		}

		if boundary := from + int64(i) + 1; boundary > boundaries[len(boundaries)-1] {
			boundaries = append(boundaries, boundary)
		}
	}
	if boundaries[len(boundaries)-1] < size {
		boundaries = append(boundaries, size)
	}

	descriptors := make([]Descriptor, len(boundaries)-1)
	for i := range descriptors {
		descriptors[i] = Descriptor{Start: boundaries[i], End: boundaries[i+1]}
	}
	return descriptors, nil
}

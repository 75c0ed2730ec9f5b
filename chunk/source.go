package chunk

import (
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// Source is a read-only, random-access view of the input file.
type Source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}

type mmapSource struct {
	*mmap.ReaderAt
}

func (m mmapSource) Size() int64 {
	return int64(m.Len())
}

// Open returns a Source for path. With useMmap the file is mapped into
// memory; otherwise chunks are loaded with positioned reads.
func Open(path string, useMmap bool) (Source, error) {
	if useMmap {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return mmapSource{r}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSource{File: f, size: info.Size()}, nil
}

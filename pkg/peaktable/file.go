package peaktable

import (
	"bytes"
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a peak table held in memory, either mapped or read.
type File struct {
	Data    []byte
	mmapped bool
}

// Open maps the file at path read-only. If mmap is unavailable, it falls
// back to reading the whole file. The returned file must be closed to release
// any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, errors.New("peak table too large to address")
	}
	size := int(size64)
	if size == 0 {
		// mmap rejects zero-length mappings.
		return &File{Data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &File{Data: data, mmapped: true}, nil
	}

	return OpenReaderAt(f, size64)
}

// OpenReaderAt loads a peak table from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, errors.New("invalid peak table size")
	}
	data := make([]byte, size)
	var off int64
	for off < size {
		n, err := r.ReadAt(data[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == size {
			break
		}
		return nil, err
	}
	return &File{Data: data}, nil
}

// Size returns the total length of the file in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Layout runs size analysis over the file length.
func (f *File) Layout() (Layout, error) {
	return Analyze(f.Size())
}

// Table decodes the records in the file. Each call rescans from the start.
func (f *File) Table() (*Table, error) {
	return Parse(bytes.NewReader(f.Data))
}

// Close releases any mapping. It is safe to call more than once.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.mmapped = false
	return err
}

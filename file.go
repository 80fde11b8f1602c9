package tydos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/tydos/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
)

// volumeFs provides all methods needed from a volume for File.
type volumeFs interface {
	readExtent(entry Entry, offset int64, size int64) ([]byte, error)
	Entries() ([]Entry, error)
}

var _ afero.File = (*File)(nil)

// File is either the root directory or one file of a volume. It is always read only.
type File struct {
	fs   volumeFs
	path string

	isDirectory bool

	entry  Entry
	stat   os.FileInfo
	offset int64
}

func (f *File) Close() error {
	*f = File{}
	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if f.isDirectory {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.stat.Size() <= f.offset {
		return 0, io.EOF
	}

	data, err := f.fs.readExtent(f.entry, f.offset, int64(len(p)))
	copy(p, data)
	f.offset += int64(len(data))

	return len(data), checkpoint.Wrap(err, ErrReadFile)
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if f.isDirectory {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	if f.stat.Size() <= off {
		return 0, io.EOF
	}

	data, err := f.fs.readExtent(f.entry, off, int64(len(p)))
	copy(p, data)

	if err != nil {
		return len(data), checkpoint.Wrap(err, ErrReadFile)
	}

	if len(data) < len(p) {
		return len(data), io.EOF
	}
	return len(data), nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.stat.Size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.path, Err: syscall.EROFS}
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.path, Err: syscall.EROFS}
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return &os.PathError{Op: "truncate", Path: f.path, Err: syscall.EROFS}
}

// Sync does nothing as nothing is ever written.
func (f *File) Sync() error {
	return nil
}

func (f *File) Name() string {
	return f.stat.Name()
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.stat, nil
}

// Readdir reads the contents of the root directory.
// If count > 0, at most count entries are returned and io.EOF marks the end of the directory.
// Otherwise all remaining entries are returned at once.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if !f.isDirectory {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDirectory)
	}

	entries, err := f.fs.Entries()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDirectory)
	}

	start := int(f.offset)
	if start > len(entries) {
		start = len(entries)
	}
	entries = entries[start:]

	if count > 0 {
		if len(entries) == 0 {
			return nil, io.EOF
		}
		if len(entries) > count {
			entries = entries[:count]
		}
	}

	f.offset += int64(len(entries))

	result := make([]os.FileInfo, len(entries))
	for i := range entries {
		result[i] = entries[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

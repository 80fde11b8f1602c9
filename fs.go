package tydos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/aligator/tydos/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing the volume.
var (
	ErrReadHeader    = errors.New("could not read the header")
	ErrReadDirectory = errors.New("could not read the directory")
	ErrReadExtent    = errors.New("could not read the file extent")
)

var _ afero.Fs = (*Fs)(nil)

// Option changes how a volume is read.
type Option func(fs *Fs)

// TruncateSectorCount makes the directory read use integer division for the sector count,
// like the original kernel did. A directory which does not fill its last sector
// completely then loses the entries located in that sector.
// Only use it to reproduce the behavior of old tools.
func TruncateSectorCount(truncate bool) Option {
	return func(fs *Fs) {
		fs.truncate = truncate
	}
}

// Fs reads a TyDOS volume from a BlockDevice.
// Nothing is cached: every operation reads the header and the directory again.
type Fs struct {
	dev      BlockDevice
	drive    uint8
	truncate bool
}

// New mounts the volume on the given drive. It fails if the volume has no valid signature.
func New(dev BlockDevice, drive uint8, opts ...Option) (*Fs, error) {
	fs := newFs(dev, drive, opts)

	header, err := fs.Header()
	if err != nil {
		return nil, err
	}

	if !header.Valid() {
		return nil, checkpoint.Wrap(ErrInvalidSignature, fmt.Errorf("signature: % x", header.Signature))
	}

	return fs, nil
}

// NewSkipChecks mounts the volume just like New but it does not read or check the header.
// Use with caution!
func NewSkipChecks(dev BlockDevice, drive uint8, opts ...Option) *Fs {
	return newFs(dev, drive, opts)
}

func newFs(dev BlockDevice, drive uint8, opts []Option) *Fs {
	fs := &Fs{
		dev:   dev,
		drive: drive,
	}

	for _, opt := range opts {
		opt(fs)
	}

	return fs
}

// read issues one read of count sectors starting at the 1-based sector.
func (fs *Fs) read(sector, count uint32) ([]byte, error) {
	buffer := make([]byte, int(count)*SectorSize)
	err := fs.dev.ReadSectors(ReadRequest{
		Drive:  fs.drive,
		Sector: sector,
		Count:  count,
	}, buffer)

	return buffer, err
}

// Header reads the header from the first sector of the volume.
func (fs *Fs) Header() (Header, error) {
	sector, err := fs.read(1, 1)
	if err != nil {
		return Header{}, checkpoint.Wrap(err, ErrReadHeader)
	}

	header, err := ParseHeader(sector)
	if err != nil {
		return Header{}, checkpoint.Wrap(err, ErrReadHeader)
	}

	return header, nil
}

// ReadDirectory reads the whole directory region using exactly one read.
// The result always has the size of the directory region and is zero-filled,
// so slots which were not read are treated as free.
// If the read fails, the error is returned together with whatever the device delivered.
func (fs *Fs) ReadDirectory() ([]byte, Header, Geometry, error) {
	header, err := fs.Header()
	if err != nil {
		return nil, Header{}, Geometry{}, err
	}

	geometry := header.Geometry(fs.truncate)
	directory := make([]byte, geometry.DirectorySize)

	if geometry.SectorCount == 0 {
		return directory, header, geometry, nil
	}

	data, err := fs.read(geometry.FirstSector, geometry.SectorCount)
	copy(directory, data)

	return directory, header, geometry, checkpoint.Wrap(err, ErrReadDirectory)
}

// Entries returns all populated directory slots in slot order.
func (fs *Fs) Entries() ([]Entry, error) {
	directory, header, geometry, err := fs.ReadDirectory()
	if directory == nil {
		return nil, err
	}

	return parseEntries(directory, header, geometry), err
}

// ListFiles writes the name of each populated slot followed by a newline to w.
// Even if the directory could not be read completely, the names which were found are written
// before the error is returned.
func (fs *Fs) ListFiles(w io.Writer) error {
	entries, readErr := fs.Entries()

	for _, entry := range entries {
		if _, err := io.WriteString(w, entry.Name+"\n"); err != nil {
			return checkpoint.From(err)
		}
	}

	return readErr
}

// readExtent reads up to size bytes of the extent of entry starting at offset.
func (fs *Fs) readExtent(entry Entry, offset int64, size int64) ([]byte, error) {
	if offset >= entry.Size {
		return nil, io.EOF
	}

	var err error
	if offset+size > entry.Size {
		size = entry.Size - offset
		err = io.EOF
	}

	if size <= 0 {
		return nil, err
	}

	first := offset / SectorSize
	last := (offset + size - 1) / SectorSize

	data, readErr := fs.read(entry.FirstSector+uint32(first), uint32(last-first+1))
	if readErr != nil {
		return nil, checkpoint.Wrap(readErr, fmt.Errorf("%w, file: %v, offset: %v", ErrReadExtent, entry.Name, offset))
	}

	start := offset - first*SectorSize
	return data[start : start+size], err
}

// find looks up a populated entry by its exact name.
func (fs *Fs) find(name string) (Entry, error) {
	entries, err := fs.Entries()
	if err != nil {
		return Entry{}, err
	}

	for _, entry := range entries {
		if entry.Name == name {
			return entry, nil
		}
	}

	return Entry{}, checkpoint.Wrap(os.ErrNotExist, fmt.Errorf("file: %v", name))
}

// isRoot reports whether name points to the root directory.
// As the volume has only one directory, all names are relative to it.
func isRoot(name string) bool {
	return cleanName(name) == ""
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

func (fs *Fs) Open(name string) (afero.File, error) {
	if isRoot(name) {
		header, err := fs.Header()
		if err != nil {
			return nil, err
		}

		return &File{
			fs:          fs,
			isDirectory: true,
			stat:        rootFileInfo{header},
		}, nil
	}

	entry, err := fs.find(cleanName(name))
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	return &File{
		fs:    fs,
		path:  entry.Name,
		entry: entry,
		stat:  entry.FileInfo(),
	}, nil
}

// OpenFile only supports opening files read only.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EROFS}
	}

	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Stat()
}

func (fs *Fs) Name() string {
	return "TyDOS"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: syscall.EROFS}
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EROFS}
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: syscall.EROFS}
}

func (fs *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: syscall.EROFS}
}

func (fs *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "remove", Path: path, Err: syscall.EROFS}
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EROFS}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: syscall.EROFS}
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: syscall.EROFS}
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: syscall.EROFS}
}

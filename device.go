package tydos

import (
	"errors"
	"fmt"
	"io"

	"github.com/aligator/tydos/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while reading sectors from a device.
var (
	ErrReadSectors    = errors.New("could not read the sectors completely")
	ErrInvalidSector  = errors.New("sector numbers start at 1")
	ErrUnsupportedCHS = errors.New("only head 0 and cylinder 0 are supported")
	ErrUnknownDrive   = errors.New("no such drive")
	ErrBufferTooSmall = errors.New("buffer is too small for the requested sectors")
)

// ReadRequest contains the parameters of the BIOS read sectors call (int 0x13, ah=0x02).
// Sector is 1-based while Head and Cylinder are 0-based.
// Sector and Count are not limited to the 6 and 8 bits BIOS supports.
type ReadRequest struct {
	Drive    uint8
	Head     uint16
	Cylinder uint16
	Sector   uint32
	Count    uint32
}

func (r ReadRequest) String() string {
	return fmt.Sprintf("drive: %#x, head: %v, cylinder: %v, sector: %v, count: %v", r.Drive, r.Head, r.Cylinder, r.Sector, r.Count)
}

// BlockDevice reads whole sectors into dst with one synchronous, contiguous read and without any retry.
// Generated mock using mockgen:
//  mockgen -source=device.go -destination=device_mock.go -package tydos
type BlockDevice interface {
	ReadSectors(req ReadRequest, dst []byte) error
}

// ImageDevice is a BlockDevice backed by a raw disk image.
type ImageDevice struct {
	image io.ReaderAt
	drive uint8
}

// NewImageDevice serves the given image as drive.
func NewImageDevice(image io.ReaderAt, drive uint8) *ImageDevice {
	return &ImageDevice{
		image: image,
		drive: drive,
	}
}

// OpenImage opens the image at path inside of fs and serves it as drive.
// The returned device has to be closed by the caller.
func OpenImage(fs afero.Fs, path string, drive uint8) (*ImageDevice, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	return NewImageDevice(file, drive), nil
}

// ReadSectors reads req.Count sectors starting at the 1-based sector req.Sector into dst.
// As an image has no real geometry, only head 0 and cylinder 0 are addressable
// and the sector number is used as a linear block address + 1.
func (d *ImageDevice) ReadSectors(req ReadRequest, dst []byte) error {
	if req.Drive != d.drive {
		return checkpoint.Wrap(ErrUnknownDrive, fmt.Errorf("%w, %v", ErrReadSectors, req))
	}

	if req.Head != 0 || req.Cylinder != 0 {
		return checkpoint.Wrap(ErrUnsupportedCHS, fmt.Errorf("%w, %v", ErrReadSectors, req))
	}

	if req.Sector == 0 {
		return checkpoint.Wrap(ErrInvalidSector, fmt.Errorf("%w, %v", ErrReadSectors, req))
	}

	size := int(req.Count) * SectorSize
	if len(dst) < size {
		return checkpoint.Wrap(ErrBufferTooSmall, fmt.Errorf("%w, %v, buffer: %v", ErrReadSectors, req, len(dst)))
	}

	n, err := d.image.ReadAt(dst[:size], int64(req.Sector-1)*SectorSize)
	if n < size {
		// A short read is always an error, even if the reader did not report it.
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return checkpoint.Wrap(err, fmt.Errorf("%w, %v, got %v bytes", ErrReadSectors, req, n))
	}

	return nil
}

// Close closes the underlying image if it can be closed.
func (d *ImageDevice) Close() error {
	if closer, ok := d.image.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

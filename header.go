package tydos

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/aligator/tydos/checkpoint"
)

// These errors may occur while interpreting the header.
var (
	ErrShortHeader      = errors.New("header is shorter than 16 bytes")
	ErrInvalidSignature = errors.New("no valid TyDOS signature at the beginning")
)

// ParseHeader reads the header from the given bytes which have to start at byte 0 of the volume.
// Only the first HeaderSize bytes are used.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, checkpoint.From(ErrShortHeader)
	}

	header := Header{}
	err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &header)
	if err != nil {
		return Header{}, checkpoint.From(err)
	}

	return header, nil
}

// Valid reports whether the header carries the TyDOS signature.
// A volume without it could not have been booted at all.
func (h Header) Valid() bool {
	return h.Signature == Signature
}

// Geometry derives where the directory region is located and how many sectors have to be read for it.
// If truncate is true, the sector count is computed by plain integer division which drops a final
// partial sector. That is a known defect kept only for compatibility with old volumes and tools.
func (h Header) Geometry(truncate bool) Geometry {
	size := int(h.FileEntries) * DirEntrySize
	first := 1 + uint32(h.BootSectors)

	return Geometry{
		DirectorySize: size,
		FirstSector:   first,
		SectorCount:   SectorCount(size, truncate),
		// The data region always starts after the complete directory, even in truncate mode.
		DataSector: first + SectorCount(size, false),
	}
}

// SectorCount returns how many sectors are needed for size bytes.
func SectorCount(size int, truncate bool) uint32 {
	if size <= 0 {
		return 0
	}

	if truncate {
		return uint32(size / SectorSize)
	}

	return uint32((size + SectorSize - 1) / SectorSize)
}

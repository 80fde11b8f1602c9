// File model contains the structs which match the direct structures of the TyDOS volume.

package tydos

const (
	// SectorSize is the size of one disk block. The read primitive only transfers whole sectors.
	SectorSize = 512

	// DirEntrySize is the width of one directory slot.
	DirEntrySize = 32

	// HeaderSize is the packed size of Header on disk.
	HeaderSize = 16

	// SignatureSize is the length of Header.Signature.
	SignatureSize = 4
)

// Signature marks a TyDOS volume. It starts with the instruction 'jmp 0xe' which leaps over
// the rest of the header, followed by the marker 'ty'. That way BIOS can execute the first
// sector as boot code although it starts with the header.
var Signature = [SignatureSize]byte{0xeb, 0x0e, 't', 'y'}

// Header is located at byte 0 of the first sector.
// It is stored little endian and without any padding.
type Header struct {
	Signature    [SignatureSize]byte
	TotalSectors uint16 // Number of 512 byte disk blocks.
	BootSectors  uint16 // Sectors reserved for boot code.
	FileEntries  uint16 // Maximum number of files on the disk.
	MaxFileSize  uint16 // Maximum size of a file in blocks.
	UnusedSpace  uint32 // Remaining space less than MaxFileSize.
}

// Geometry contains the values derived from a Header which are needed to find the directory region.
type Geometry struct {
	// DirectorySize is the size of the directory region in bytes.
	DirectorySize int

	// FirstSector is the 1-based sector the directory region starts at.
	FirstSector uint32

	// SectorCount is the number of sectors requested from the device to read the directory.
	SectorCount uint32

	// DataSector is the 1-based sector the first file extent starts at.
	DataSector uint32
}

package tydos

import "bytes"

// Entry is one populated directory slot.
type Entry struct {
	// Slot is the position of the entry inside of the directory region.
	Slot int

	// Name contains the bytes of the slot up to the first NUL.
	// A name filling the whole slot has no terminator and is used completely.
	Name string

	// FirstSector is the 1-based sector the reserved extent of the file starts at.
	FirstSector uint32

	// Size is the size of the reserved extent in bytes.
	Size int64
}

// IsFree reports whether the given slot is unused which is marked by a leading zero byte.
func IsFree(slot []byte) bool {
	return len(slot) == 0 || slot[0] == 0
}

// slotName reads a name until the first NUL or the end of the slot, whichever comes first.
func slotName(slot []byte) string {
	if end := bytes.IndexByte(slot, 0); end >= 0 {
		return string(slot[:end])
	}
	return string(slot)
}

// parseEntries scans the directory region in DirEntrySize strides and returns all populated slots in slot order.
// A trailing partial slot is ignored.
func parseEntries(directory []byte, header Header, geometry Geometry) []Entry {
	var entries []Entry
	for pos, slot := 0, 0; pos+DirEntrySize <= len(directory); pos, slot = pos+DirEntrySize, slot+1 {
		data := directory[pos : pos+DirEntrySize]
		if IsFree(data) {
			continue
		}

		entries = append(entries, Entry{
			Slot:        slot,
			Name:        slotName(data),
			FirstSector: geometry.DataSector + uint32(slot)*uint32(header.MaxFileSize),
			Size:        int64(header.MaxFileSize) * SectorSize,
		})
	}

	return entries
}

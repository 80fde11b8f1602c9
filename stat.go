package tydos

import (
	"os"
	"time"
)

// FileInfo returns the entry as os.FileInfo.
func (e Entry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry Entry
}

func (e entryFileInfo) Name() string {
	return e.entry.Name
}

// Size returns the size of the whole reserved extent as the volume does not store the real file size.
func (e entryFileInfo) Size() int64 {
	return e.entry.Size
}

func (e entryFileInfo) Mode() os.FileMode {
	return 0444
}

// ModTime always returns time.Time{} as the volume stores no timestamps.
func (e entryFileInfo) ModTime() time.Time {
	return time.Time{}
}

func (e entryFileInfo) IsDir() bool {
	return false
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}

// rootFileInfo describes the only directory of a volume.
type rootFileInfo struct {
	header Header
}

func (r rootFileInfo) Name() string {
	return "/"
}

func (r rootFileInfo) Size() int64 {
	return int64(r.header.FileEntries) * DirEntrySize
}

func (r rootFileInfo) Mode() os.FileMode {
	return os.ModeDir | 0555
}

func (r rootFileInfo) ModTime() time.Time {
	return time.Time{}
}

func (r rootFileInfo) IsDir() bool {
	return true
}

func (r rootFileInfo) Sys() interface{} {
	return r.header
}

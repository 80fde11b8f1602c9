package tydos

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
)

// testImageName is the path of the image inside of the in-memory filesystem.
const testImageName = "disk.img"

// testDrive is the drive number used for all test volumes.
const testDrive uint8 = 0x80

// testHeader returns a valid header with the given amount of boot sectors and file entries.
func testHeader(bootSectors, fileEntries, maxFileSize uint16) Header {
	return Header{
		Signature:    Signature,
		TotalSectors: 0,
		BootSectors:  bootSectors,
		FileEntries:  fileEntries,
		MaxFileSize:  maxFileSize,
	}
}

// headerBytes encodes the header like it is stored on disk.
func headerBytes(t *testing.T, header Header) []byte {
	t.Helper()
	buffer := bytes.Buffer{}
	if err := binary.Write(&buffer, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	return buffer.Bytes()
}

// slot creates a directory slot containing name.
func slot(name string) []byte {
	data := make([]byte, DirEntrySize)
	copy(data, name)
	return data
}

// buildImage creates a complete disk image. slots are placed at the beginning of the directory region
// and contents[i] at the beginning of the extent of slot i.
func buildImage(t *testing.T, header Header, slots [][]byte, contents ...[]byte) []byte {
	t.Helper()

	geometry := header.Geometry(false)
	extents := int(header.FileEntries) * int(header.MaxFileSize) * SectorSize
	image := make([]byte, int(geometry.DataSector-1)*SectorSize+extents)

	copy(image, headerBytes(t, header))

	directory := image[int(geometry.FirstSector-1)*SectorSize:]
	for i, data := range slots {
		copy(directory[i*DirEntrySize:(i+1)*DirEntrySize], data)
	}

	for i, content := range contents {
		start := (int(geometry.DataSector-1) + i*int(header.MaxFileSize)) * SectorSize
		copy(image[start:], content)
	}

	return image
}

// testingOpen serves the image from an in-memory filesystem.
func testingOpen(t *testing.T, image []byte) *ImageDevice {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, testImageName, image, 0644); err != nil {
		t.Fatal(err)
	}

	dev, err := OpenImage(fs, testImageName, testDrive)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		dev.Close()
	})

	return dev
}

// testingNew mounts the image and fails the test if that is not possible.
func testingNew(t *testing.T, image []byte, opts ...Option) *Fs {
	t.Helper()

	fs, err := New(testingOpen(t, image), testDrive, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return fs
}

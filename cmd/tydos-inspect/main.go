// Command tydos-inspect prints the header, the geometry and the file names of a TyDOS image.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aligator/tydos"
	"github.com/aligator/tydos/internal/config"
	"github.com/aligator/tydos/internal/logging"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.LookupEnv, os.Stdout, os.Stderr))
}

func run(args []string, fs afero.Fs, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	cfg, err := config.Load("tydos-inspect", args, config.DefaultEnvFile, lookup, true)
	if err != nil {
		fmt.Fprintln(stderr, "Please provide a filename.", err)
		return 2
	}

	log := logging.New(stderr, cfg.LogLevel)

	dev, err := tydos.OpenImage(fs, cfg.Image, cfg.Drive)
	if err != nil {
		log.Error("could not open the image", "image", cfg.Image, "error", err)
		return 1
	}
	defer dev.Close()

	volume := tydos.NewSkipChecks(dev, cfg.Drive, tydos.TruncateSectorCount(cfg.TruncateSectors))
	if err := inspect(stdout, volume); err != nil {
		log.Error("could not inspect the image", "image", cfg.Image, "error", err)
		return 1
	}

	return 0
}

func inspect(w io.Writer, volume *tydos.Fs) error {
	directory, header, geometry, err := volume.ReadDirectory()
	if directory == nil {
		return err
	}

	// Report a failed directory read, but still show what is known.
	readErr := err

	fmt.Fprintf(w, "Signature:       % x (valid: %v)\n", header.Signature, header.Valid())
	fmt.Fprintf(w, "Total sectors:   %v (%v)\n", header.TotalSectors, humanize.IBytes(uint64(header.TotalSectors)*tydos.SectorSize))
	fmt.Fprintf(w, "Boot sectors:    %v\n", header.BootSectors)
	fmt.Fprintf(w, "File entries:    %v\n", header.FileEntries)
	fmt.Fprintf(w, "Max file size:   %v sectors (%v)\n", header.MaxFileSize, humanize.IBytes(uint64(header.MaxFileSize)*tydos.SectorSize))
	fmt.Fprintf(w, "Unused space:    %v\n", header.UnusedSpace)
	fmt.Fprintf(w, "Directory:       sector %v, %v sectors, %v\n", geometry.FirstSector, geometry.SectorCount, humanize.IBytes(uint64(geometry.DirectorySize)))
	fmt.Fprintf(w, "Data region:     sector %v\n", geometry.DataSector)
	fmt.Fprintf(w, "Directory BLAKE3: %x\n", blake3.Sum256(directory))

	fmt.Fprintln(w, "\nFiles:")
	if err := volume.ListFiles(w); err != nil {
		return err
	}

	return readErr
}

// Command tydos boots the TyDOS kernel shell on a disk image.
//
// Usage:
//
//	tydos [-drive n] [-truncate-sectors] [-skip-checks] [-log-level level] -image disk.img
//
// The settings may also be given as TYDOS_* environment variables or in a .env file.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aligator/tydos"
	"github.com/aligator/tydos/internal/config"
	"github.com/aligator/tydos/internal/logging"
	"github.com/aligator/tydos/shell"
	"github.com/spf13/afero"
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.LookupEnv, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, fs afero.Fs, lookup config.LookupFunc, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load("tydos", args, config.DefaultEnvFile, lookup, true)
	if err != nil {
		logging.New(stderr, slog.LevelInfo).Error("invalid configuration", "error", err)
		return 2
	}

	log := logging.New(stderr, cfg.LogLevel)

	dev, err := tydos.OpenImage(fs, cfg.Image, cfg.Drive)
	if err != nil {
		log.Error("could not open the image", "image", cfg.Image, "error", err)
		return 1
	}
	defer dev.Close()

	volume, err := mount(dev, cfg)
	if err != nil {
		log.Error("could not mount the image", "image", cfg.Image, "error", err)
		return 1
	}

	console := shell.NewTTY(stdin, stdout)
	kernel, err := shell.NewKernelShell(console, volume, exampleProgram(console), shell.WithLogger(log))
	if err != nil {
		log.Error("could not create the shell", "error", err)
		return 1
	}

	err = kernel.Run()
	if errors.Is(err, io.EOF) {
		log.Info("console closed")
	} else if err != nil {
		log.Error("shell failed", "error", err)
		return 1
	}

	log.Debug("halted")
	return 0
}

func mount(dev tydos.BlockDevice, cfg config.Config) (*tydos.Fs, error) {
	opts := []tydos.Option{tydos.TruncateSectorCount(cfg.TruncateSectors)}
	if cfg.SkipChecks {
		return tydos.NewSkipChecks(dev, cfg.Drive, opts...), nil
	}
	return tydos.New(dev, cfg.Drive, opts...)
}

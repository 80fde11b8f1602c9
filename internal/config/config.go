// Package config collects the settings of the TyDOS commands from a .env file,
// the environment and the command line, each overriding the one before.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvImage           = "TYDOS_IMAGE"
	EnvDrive           = "TYDOS_DRIVE"
	EnvTruncateSectors = "TYDOS_TRUNCATE_SECTORS"
	EnvSkipChecks      = "TYDOS_SKIP_CHECKS"
	EnvLogLevel        = "TYDOS_LOG_LEVEL"
)

// DefaultEnvFile is read if it exists.
const DefaultEnvFile = ".env"

var ErrNoImage = errors.New("no image given")

type Config struct {
	// Image is the path of the disk image.
	Image string

	// Drive is the BIOS drive number the image is served as.
	Drive uint8

	// TruncateSectors reproduces the old sector count computation which drops a partial last directory sector.
	TruncateSectors bool

	// SkipChecks mounts images without a valid signature.
	SkipChecks bool

	LogLevel slog.Level
}

// LookupFunc returns the value of an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration for the command name.
// Values from envFile (which may be missing) are overridden by lookup and those by args.
// If requireImage is set, a missing image is an error.
func Load(name string, args []string, envFile string, lookup LookupFunc, requireImage bool) (Config, error) {
	values, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("(config-godotenv) %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}

	for _, key := range []string{EnvImage, EnvDrive, EnvTruncateSectors, EnvSkipChecks, EnvLogLevel} {
		if value, ok := lookup(key); ok {
			values[key] = value
		}
	}

	cfg := Config{}
	if err := cfg.apply(values); err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.Image, "image", cfg.Image, "path of the disk image")
	drive := flags.Uint("drive", uint(cfg.Drive), "BIOS drive number of the image")
	flags.BoolVar(&cfg.TruncateSectors, "truncate-sectors", cfg.TruncateSectors, "drop a partial last directory sector like old kernels")
	flags.BoolVar(&cfg.SkipChecks, "skip-checks", cfg.SkipChecks, "accept images without a valid signature")
	flags.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("(config-flags) %w", err)
	}

	if *drive > 0xff {
		return Config{}, fmt.Errorf("(config-flags) drive %#x is out of range", *drive)
	}
	cfg.Drive = uint8(*drive)

	// A single positional argument may name the image as well.
	if flags.NArg() > 0 {
		cfg.Image = flags.Arg(0)
	}

	if requireImage && cfg.Image == "" {
		return Config{}, ErrNoImage
	}

	return cfg, nil
}

func (c *Config) apply(values map[string]string) error {
	if value, ok := values[EnvImage]; ok {
		c.Image = value
	}

	if value, ok := values[EnvDrive]; ok {
		drive, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return fmt.Errorf("(config-env) %s: %w", EnvDrive, err)
		}
		c.Drive = uint8(drive)
	}

	if value, ok := values[EnvTruncateSectors]; ok {
		truncate, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("(config-env) %s: %w", EnvTruncateSectors, err)
		}
		c.TruncateSectors = truncate
	}

	if value, ok := values[EnvSkipChecks]; ok {
		skip, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("(config-env) %s: %w", EnvSkipChecks, err)
		}
		c.SkipChecks = skip
	}

	if value, ok := values[EnvLogLevel]; ok {
		if err := c.LogLevel.UnmarshalText([]byte(value)); err != nil {
			return fmt.Errorf("(config-env) %s: %w", EnvLogLevel, err)
		}
	}

	return nil
}

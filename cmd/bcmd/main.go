// Command bcmd runs the boot command interpreter which knows a single command: copy.
// It reads commands until its input ends.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aligator/tydos/internal/config"
	"github.com/aligator/tydos/internal/logging"
	"github.com/aligator/tydos/shell"
)

func main() {
	os.Exit(run(os.Args[1:], os.LookupEnv, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, lookup config.LookupFunc, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load("bcmd", args, config.DefaultEnvFile, lookup, false)
	if err != nil {
		logging.New(stderr, slog.LevelInfo).Error("invalid configuration", "error", err)
		return 2
	}

	log := logging.New(stderr, cfg.LogLevel)

	boot, err := shell.NewBootShell(shell.NewTTY(stdin, stdout), shell.WithLogger(log))
	if err != nil {
		log.Error("could not create the shell", "error", err)
		return 1
	}

	if err := boot.Run(); err != nil && !errors.Is(err, io.EOF) {
		log.Error("shell failed", "error", err)
		return 1
	}

	return 0
}

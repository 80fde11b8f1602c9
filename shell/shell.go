// Package shell implements the command line interpreters of TyDOS.
//
// A Shell reads single word commands from a Console and dispatches them through an ordered
// Registry to a fixed set of built-in actions. The kernel shell and the boot command interpreter
// are both a Shell, they only differ in their registry and messages.
package shell

import (
	"io"
	"log/slog"

	"github.com/aligator/tydos/checkpoint"
)

// Lister writes the names of all files of a volume, one per line.
// It is implemented by *tydos.Fs.
type Lister interface {
	ListFiles(w io.Writer) error
}

const (
	KernelBanner   = "TigerOS 1.7\n Welcome!\n"
	KernelPrompt   = "> "
	KernelNotFound = "Command not found\n"
	KernelHelp     = "...me, Obi-Wan, you're my only hope!\n\n" +
		"   But we can try also some commands:\n" +
		"      exec    (to execute an user program example\n" +
		"      ls      (to list files names\n" +
		"      quit    (to exit TyDOS)\n"
	KernelFarewell = "Program halted. Bye."

	// KernelBufferSize is the capacity of the command line buffer including the terminating byte.
	KernelBufferSize = 1024

	BootBanner   = "Boot Command 1.0\n"
	BootPrompt   = "$ "
	BootNotFound = "Unkown command.\n"

	// BootBufferSize is the capacity of the read buffer of the boot command interpreter including the terminating byte.
	BootBufferSize = 20
)

// Shell is a command line interpreter. It is not safe for concurrent use.
type Shell struct {
	console  Console
	registry Registry
	volume   Lister
	program  Program
	log      *slog.Logger

	banner   string
	prompt   string
	notFound string
	help     string
	farewell string

	bufferSize int
	copySize   int
}

// Option configures a Shell.
type Option func(s *Shell)

// WithRegistry replaces the command table.
func WithRegistry(registry Registry) Option {
	return func(s *Shell) {
		s.registry = registry
	}
}

// WithVolume sets the volume listed by the list action.
func WithVolume(volume Lister) Option {
	return func(s *Shell) {
		s.volume = volume
	}
}

// WithProgram sets the program run by the exec action.
func WithProgram(program Program) Option {
	return func(s *Shell) {
		s.program = program
	}
}

func WithBanner(banner string) Option {
	return func(s *Shell) {
		s.banner = banner
	}
}

func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithNotFound sets the message written for unknown commands.
func WithNotFound(message string) Option {
	return func(s *Shell) {
		s.notFound = message
	}
}

// WithBufferSize sets the capacity of the command line buffer.
// One byte is reserved for the terminator, so lines are truncated to size-1 bytes.
func WithBufferSize(size int) Option {
	return func(s *Shell) {
		s.bufferSize = size
	}
}

// WithLogger sets the logger for diagnostics which are not meant for the console.
func WithLogger(log *slog.Logger) Option {
	return func(s *Shell) {
		s.log = log
	}
}

// New creates a Shell using the kernel commands and messages unless changed by the options.
func New(console Console, opts ...Option) (*Shell, error) {
	s := &Shell{
		console:    console,
		registry:   KernelCommands(),
		log:        slog.Default(),
		banner:     KernelBanner,
		prompt:     KernelPrompt,
		notFound:   KernelNotFound,
		help:       KernelHelp,
		farewell:   KernelFarewell,
		bufferSize: KernelBufferSize,
		copySize:   BootBufferSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.bufferSize < 2 {
		s.bufferSize = 2
	}

	if err := s.registry.Validate(); err != nil {
		return nil, checkpoint.From(err)
	}

	return s, nil
}

// NewKernelShell creates the TyDOS kernel shell which lists the files of volume and runs program on exec.
func NewKernelShell(console Console, volume Lister, program Program, opts ...Option) (*Shell, error) {
	return New(console, append([]Option{
		WithVolume(volume),
		WithProgram(program),
	}, opts...)...)
}

// NewBootShell creates the boot command interpreter which only knows the copy command.
// As it has no quit command, it runs until the console has no more input.
func NewBootShell(console Console, opts ...Option) (*Shell, error) {
	return New(console, append([]Option{
		WithRegistry(BootCommands()),
		WithBanner(BootBanner),
		WithPrompt(BootPrompt),
		WithNotFound(BootNotFound),
		WithBufferSize(BootBufferSize),
	}, opts...)...)
}

// Run clears the console, prints the banner and then executes commands until the quit action runs.
// It returns nil after quit. If the console fails or has no more input, that error is returned
// (io.EOF is returned unwrapped).
func (s *Shell) Run() error {
	if err := s.console.Clear(); err != nil {
		return checkpoint.From(err)
	}

	if err := s.write(s.banner); err != nil {
		return err
	}

	buffer := make([]byte, s.bufferSize)
	for goOn := true; goOn; {
		line, err := s.readCommand(buffer)
		if err != nil {
			return err
		}

		entry := s.registry.Lookup(line)
		if entry.Action == ActionNone {
			s.log.Debug("command not found", "command", line)
			if err := s.write(s.notFound); err != nil {
				return err
			}
			continue
		}

		s.log.Debug("dispatching command", "command", entry.Name, "action", entry.Action)
		goOn, err = s.dispatch(entry.Action)
		if err != nil {
			return err
		}
	}

	return nil
}

// readCommand prompts until a non-empty line was read.
func (s *Shell) readCommand(buffer []byte) (string, error) {
	for {
		if err := s.write(s.prompt); err != nil {
			return "", err
		}

		n, err := s.readLine(buffer)
		if err != nil {
			return "", err
		}

		if n > 0 {
			return string(buffer[:n]), nil
		}
	}
}

// readLine reads a line into buffer while keeping the last byte for the terminator.
func (s *Shell) readLine(buffer []byte) (int, error) {
	n, err := s.console.ReadLine(buffer[:len(buffer)-1])
	if err != nil {
		return 0, checkpoint.From(err)
	}

	buffer[n] = 0
	return n, nil
}

func (s *Shell) write(message string) error {
	_, err := s.console.WriteString(message)
	return checkpoint.From(err)
}

// dispatch runs the action and reports whether the shell should go on.
func (s *Shell) dispatch(action Action) (bool, error) {
	switch action {
	case ActionHelp:
		return true, s.write(s.help)
	case ActionQuit:
		return false, s.write(s.farewell)
	case ActionList:
		return true, s.list()
	case ActionExec:
		s.exec()
		return true, nil
	case ActionCopy:
		return true, s.copy()
	}

	s.log.Warn("unknown action", "action", action)
	return true, nil
}

// list writes the file names of the volume.
// A failing device is only logged, the names read so far are still shown.
func (s *Shell) list() error {
	if s.volume == nil {
		s.log.Warn("no volume to list")
		return nil
	}

	writer := consoleWriter{s.console}
	if err := s.volume.ListFiles(writer); err != nil {
		s.log.Warn("could not list all files", "error", err)
	}

	return nil
}

// exec transfers control to the program and returns when it returns.
func (s *Shell) exec() {
	if s.program == nil {
		s.log.Warn("no program to execute")
		return
	}

	s.program.Main()
}

// copy reads one more line and echoes it.
func (s *Shell) copy() error {
	buffer := make([]byte, s.copySize)
	n, err := s.readLine(buffer)
	if err != nil {
		return err
	}

	return s.write(string(buffer[:n]) + "\n")
}

package shell

import (
	"errors"
	"fmt"
	"strings"
)

// Action is one of the built-in commands a registry entry can run.
type Action int

const (
	// ActionNone marks the sentinel which ends a Registry.
	ActionNone Action = iota
	ActionHelp
	ActionQuit
	ActionList
	ActionExec
	ActionCopy
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionHelp:
		return "help"
	case ActionQuit:
		return "quit"
	case ActionList:
		return "list"
	case ActionExec:
		return "exec"
	case ActionCopy:
		return "copy"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Entry maps a command name to its action.
type Entry struct {
	Name   string
	Action Action
}

// Registry is an ordered command table. It ends at the first entry with ActionNone or at its end.
// Earlier entries win, but names are expected to be unique anyway.
type Registry []Entry

// ErrInvalidRegistry is returned for a registry with malformed entries.
var ErrInvalidRegistry = errors.New("invalid command registry")

// KernelCommands returns the command table of the kernel shell.
func KernelCommands() Registry {
	return Registry{
		{Name: "help", Action: ActionHelp}, // Print a help message.
		{Name: "quit", Action: ActionQuit}, // Exit the shell.
		{Name: "ls", Action: ActionList},   // List file names.
		{Name: "exec", Action: ActionExec}, // Execute the example program.
		{},
	}
}

// BootCommands returns the command table of the boot command interpreter.
func BootCommands() Registry {
	return Registry{
		{Name: "copy", Action: ActionCopy},
		{},
	}
}

// Lookup scans the registry for an entry named exactly like name.
// If there is none, the sentinel is returned which has ActionNone.
func (r Registry) Lookup(name string) Entry {
	for _, entry := range r {
		if entry.Action == ActionNone || entry.Name == name {
			return entry
		}
	}
	return Entry{}
}

// Validate checks that every entry before the sentinel has a unique name without blanks.
func (r Registry) Validate() error {
	seen := make(map[string]struct{}, len(r))
	for _, entry := range r {
		if entry.Action == ActionNone {
			if entry.Name != "" {
				return fmt.Errorf("%w: sentinel has the name %q", ErrInvalidRegistry, entry.Name)
			}
			return nil
		}

		if entry.Name == "" {
			return fmt.Errorf("%w: %v has no name", ErrInvalidRegistry, entry.Action)
		}
		if strings.ContainsAny(entry.Name, " \t\r\n") {
			return fmt.Errorf("%w: %q contains blanks", ErrInvalidRegistry, entry.Name)
		}
		if _, ok := seen[entry.Name]; ok {
			return fmt.Errorf("%w: duplicate command %q", ErrInvalidRegistry, entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}
	return nil
}

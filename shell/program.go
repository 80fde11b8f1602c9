package shell

// Program is the entry point run by the exec command.
//
// Main runs synchronously on the shell's goroutine and shares everything with it.
// There is no isolation: a panic or a hang inside of Main takes the whole shell down.
// Wrap the Program to run it in a sandbox if that is needed.
// Generated mock using mockgen:
//  mockgen -source=program.go -destination=program_mock.go -package shell
type Program interface {
	Main()
}

// ProgramFunc allows to use an ordinary function as Program.
type ProgramFunc func()

func (f ProgramFunc) Main() {
	f()
}

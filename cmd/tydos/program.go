package main

import "github.com/aligator/tydos/shell"

// exampleProgram is the user program linked into the kernel. It writes directly to the
// console of the kernel as nothing separates the two.
func exampleProgram(console shell.Console) shell.Program {
	return shell.ProgramFunc(func() {
		_, _ = console.WriteString("Hello World!\n")
	})
}

package command

import (
	"github.com/kballard/go-shellquote"
)

// Command is a single tool invocation in argv form.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the child. Empty means the current one.
	Dir string
}

// New builds a Command from an executable name and its arguments.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a shell-quoted command line.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Invocation is what an Executor spawns: an executable, its arguments and
// the environment additions required by the execution context.
type Invocation struct {
	Path string
	Args []string
	Dir  string
	// Env holds KEY=VALUE entries appended to the parent's environment.
	Env []string
}

// String renders the invocation as a shell-quoted command line.
func (i Invocation) String() string {
	return shellquote.Join(append([]string{i.Path}, i.Args...)...)
}

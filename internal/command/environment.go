package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// Mode selects how an Environment is entered.
type Mode string

const (
	// ModeCondaRun executes the tool through `conda run -n <env>`.
	ModeCondaRun Mode = "conda-run"
	// ModeSource wraps the tool in `source activate <env> && ... && source deactivate`
	// executed by an explicit shell.
	ModeSource Mode = "source"
	// ModePath runs <prefix>/bin/<tool> with <prefix>/bin first on PATH.
	ModePath Mode = "path"
)

const (
	DefaultConda = "conda"
	DefaultShell = "/bin/bash"
)

var (
	ErrEnvironmentName   = errors.New("environment name must be set")
	ErrEnvironmentPrefix = errors.New("environment prefix must be set in path mode")
)

// ParseMode validates a mode string. Empty selects ModeCondaRun.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeCondaRun, nil
	case ModeCondaRun, ModeSource, ModePath:
		return m, nil
	default:
		return "", fmt.Errorf("invalid activation mode %q: must be '%s', '%s' or '%s'", s, ModeCondaRun, ModeSource, ModePath)
	}
}

// Environment is a named, pre-configured execution context.
type Environment struct {
	Name string
	Mode Mode
	// Conda is the conda executable used by ModeCondaRun.
	Conda string
	// Shell is the interpreter used by ModeSource. The activation scripts
	// rely on bash sourcing semantics, so the system shell is not used.
	Shell string
	// Prefix is the installation prefix of the environment for ModePath.
	Prefix string
}

// Wrap returns the invocation that runs cmd inside e. A nil environment
// runs cmd directly.
func (e *Environment) Wrap(cmd Command) (Invocation, error) {
	if e == nil {
		return Invocation{Path: cmd.Name, Args: cmd.Args, Dir: cmd.Dir}, nil
	}
	if e.Name == "" {
		return Invocation{}, ErrEnvironmentName
	}

	switch e.Mode {
	case ModeCondaRun, "":
		conda := e.Conda
		if conda == "" {
			conda = DefaultConda
		}
		args := append([]string{"run", "--no-capture-output", "-n", e.Name}, cmd.Argv()...)
		return Invocation{Path: conda, Args: args, Dir: cmd.Dir}, nil

	case ModeSource:
		shell := e.Shell
		if shell == "" {
			shell = DefaultShell
		}
		script := fmt.Sprintf("source activate %s && %s && source deactivate", shellquote.Join(e.Name), cmd.String())
		return Invocation{Path: shell, Args: []string{"-c", script}, Dir: cmd.Dir}, nil

	case ModePath:
		if e.Prefix == "" {
			return Invocation{}, errors.Wrapf(ErrEnvironmentPrefix, "environment %s", e.Name)
		}
		bin := filepath.Join(e.Prefix, "bin")
		return Invocation{
			Path: filepath.Join(bin, cmd.Name),
			Args: cmd.Args,
			Dir:  cmd.Dir,
			Env: []string{
				"PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH"),
				"CONDA_PREFIX=" + e.Prefix,
			},
		}, nil
	}

	return Invocation{}, fmt.Errorf("environment %s: unsupported activation mode %q", e.Name, e.Mode)
}

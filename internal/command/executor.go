package command

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Executor spawns an invocation and blocks until it exits. Output of the
// child is written to stdout and stderr as complete lines.
type Executor interface {
	Execute(ctx context.Context, inv Invocation, stdout, stderr io.Writer) error
}

// ExecExecutor is the os/exec backed Executor.
type ExecExecutor struct{}

// NewExecExecutor creates an Executor that spawns real processes.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements Executor. A non-zero exit is returned as the
// underlying *exec.ExitError so the exit status stays inspectable.
func (e *ExecExecutor) Execute(ctx context.Context, inv Invocation, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "attach stdout")
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "attach stderr")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", inv.Path)
	}

	// Both pipes must be drained before Wait.
	var g errgroup.Group
	g.Go(func() error { return forwardLines(outPipe, stdout) })
	g.Go(func() error { return forwardLines(errPipe, stderr) })
	copyErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return err
	}
	return errors.Wrap(copyErr, "read command output")
}

func forwardLines(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if line[len(line)-1] != '\n' {
				line = append(line, '\n')
			}
			if _, werr := w.Write(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

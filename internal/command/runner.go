package command

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vk/gdmcv/internal/ctxlog"
)

// CommandError reports an external tool that could not be run or exited
// with a non-zero status.
type CommandError struct {
	Command string
	// ExitCode is the child's exit status, or -1 when it never ran to completion.
	ExitCode int
	Err      error
}

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying execution error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

type exitCoder interface {
	ExitCode() int
}

// Runner composes and executes commands one at a time.
type Runner struct {
	executor Executor
}

// NewRunner creates a Runner spawning processes through executor.
func NewRunner(executor Executor) *Runner {
	return &Runner{executor: executor}
}

// Run executes cmd inside env (nil for none) and waits for it to finish.
func (r *Runner) Run(ctx context.Context, cmd Command, env *Environment) error {
	logger := ctxlog.FromContext(ctx)

	inv, err := env.Wrap(cmd)
	if err != nil {
		return errors.Wrapf(err, "compose %s", cmd.Name)
	}
	line := inv.String()

	logger.Info("Running command.", "command", line)
	start := time.Now()

	stdout := newLineLogger(logger, "stdout")
	stderr := newLineLogger(logger, "stderr")
	err = r.executor.Execute(ctx, inv, stdout, stderr)
	stdout.Flush()
	stderr.Flush()

	if err != nil {
		code := -1
		var ec exitCoder
		if errors.As(err, &ec) {
			code = ec.ExitCode()
		}
		logger.Error("Command failed.", "command", line, "exit_code", code, "error", err)
		return &CommandError{Command: line, ExitCode: code, Err: err}
	}

	logger.Info("Command completed.", "command", line, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// lineLogger is an io.Writer that logs every complete line it receives.
type lineLogger struct {
	mu     sync.Mutex
	logger *slog.Logger
	stream string
	buf    []byte
}

func newLineLogger(logger *slog.Logger, stream string) *lineLogger {
	return &lineLogger{logger: logger, stream: stream}
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that was not newline terminated.
func (w *lineLogger) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineLogger) emit(b []byte) {
	line := strings.TrimRight(string(b), "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	w.logger.Info("Tool output.", "stream", w.stream, "line", line)
}

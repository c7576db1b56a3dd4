// Package process runs external commands and reports what they did.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.trai.ch/zerr"
)

// maxCapture bounds how much of each output stream a Result keeps.
const maxCapture = 1 << 20

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is the complete child environment; nil inherits the process environment.
	Env []string
	// Stdout and Stderr receive the live output in addition to the capture.
	// They may be the same writer; writes to it are then serialized.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is what a process left behind once it exited.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// StderrTail returns at most the last n lines of the captured stderr.
func (r Result) StderrTail(n int) string {
	s := strings.TrimRight(string(r.Stderr), "\r\n")
	if s == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// Runner executes commands.
//
// A returned error means the process could not be started at all
// (executable missing, not executable, context cancelled). A process that
// ran and exited non-zero is reported through Result.ExitCode with a nil error.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	log zerolog.Logger
}

// NewExecRunner creates an ExecRunner that logs each invocation to log.
func NewExecRunner(log zerolog.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

// Run starts c and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	var stdout, stderr tailBuffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	liveOut, liveErr := c.Stdout, c.Stderr
	if liveOut != nil && sameWriter(liveOut, liveErr) {
		w := &syncWriter{w: liveOut}
		liveOut, liveErr = w, w
	}
	cmd.Stdout = tee(&stdout, liveOut)
	cmd.Stderr = tee(&stderr, liveErr)

	r.log.Debug().Str("dir", c.Dir).Msg("exec " + c.String())

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, zerr.Wrap(ctxErr, "command interrupted")
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.log.Debug().Int("exit_code", res.ExitCode).Msg(c.Name + " exited")
		return res, nil
	}
	res.ExitCode = -1
	return res, zerr.With(zerr.Wrap(err, "failed to start command"), "command", c.Name)
}

func tee(capture io.Writer, live io.Writer) io.Writer {
	if live == nil {
		return capture
	}
	return io.MultiWriter(capture, live)
}

// sameWriter reports whether a and b are the same writer. Writers of
// uncomparable types are never the same.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// syncWriter serializes writes from the stdout and stderr copiers when
// both streams go to one writer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// tailBuffer keeps the last maxCapture bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n, _ := b.buf.Write(p)
	if over := b.buf.Len() - maxCapture; over > 0 {
		b.buf.Next(over)
	}
	return n, nil
}

func (b *tailBuffer) Bytes() []byte {
	if b.buf.Len() == 0 {
		return nil
	}
	return bytes.Clone(b.buf.Bytes())
}

// Package toolexec runs the external build tools recipes wrap.
package toolexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/goplus/cppkg/internal/env"
	"github.com/goplus/cppkg/recipe"
	"golang.org/x/sys/execabs"
)

// Exec runs commands as child processes. Tools are resolved against PATH
// with execabs, so a tool in the current directory is never picked up
// implicitly.
type Exec struct {
	Logger *slog.Logger
}

// New returns an Exec that logs through logger.
func New(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{Logger: logger}
}

// Run implements recipe.ToolRunner. A non-zero exit is returned as a
// *recipe.ToolInvocationError carrying the exit status verbatim.
func (e *Exec) Run(ctx context.Context, c recipe.Command) error {
	cmd := execabs.CommandContext(ctx, c.Tool, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if len(c.Env) > 0 {
		cmd.Env = env.Merge(os.Environ(), c.Env)
	}
	e.Logger.Info("exec", "cmd", Format(c), "dir", c.Dir)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	terr := &recipe.ToolInvocationError{Tool: c.Tool, Args: c.Args, Dir: c.Dir, ExitCode: -1, Err: err}
	var exitErr *execabs.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		terr.ExitCode = exitErr.ExitCode()
	}
	return terr
}

// Format renders cmd as a shell-like command line.
func Format(c recipe.Command) string {
	parts := make([]string, 0, 1+len(c.Args))
	parts = append(parts, quote(c.Tool))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'$`\\;&|<>()*?") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

// -----------------------------------------------------------------------------

// Recorder is a runner that records commands instead of running them. It
// backs "cppkg build --dry-run" and tests.
type Recorder struct {
	// Out receives one formatted line per command when set.
	Out io.Writer
	// Fail maps a tool name to the exit status it reports.
	Fail map[string]int
	// Hook, when set, runs for every command before it is recorded and may
	// fake the tool's side effects.
	Hook func(c recipe.Command) error

	mu   sync.Mutex
	cmds []recipe.Command
}

// Run implements recipe.ToolRunner.
func (r *Recorder) Run(ctx context.Context, c recipe.Command) error {
	if err := ctx.Err(); err != nil {
		return &recipe.ToolInvocationError{Tool: c.Tool, Args: c.Args, Dir: c.Dir, ExitCode: -1, Err: err}
	}
	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()
	if r.Out != nil {
		fmt.Fprintf(r.Out, "+ %s\n", Format(c))
	}
	if r.Hook != nil {
		if err := r.Hook(c); err != nil {
			return err
		}
	}
	if code, ok := r.Fail[c.Tool]; ok {
		return &recipe.ToolInvocationError{
			Tool: c.Tool, Args: c.Args, Dir: c.Dir, ExitCode: code,
			Err: fmt.Errorf("exit status %d", code),
		}
	}
	return nil
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []recipe.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recipe.Command(nil), r.cmds...)
}

// Lines returns the recorded commands formatted with Format.
func (r *Recorder) Lines() []string {
	cmds := r.Commands()
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = Format(c)
	}
	return lines
}

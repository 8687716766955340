package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrToolFailed           = errors.New("tool invocation failed")
	ErrArtifactMissing      = errors.New("artifact missing")
)

// ConfigurationError reports an unsupported combination of settings,
// options or dependency options. It is raised by validate (or earlier while
// options are resolved) and is never retried.
type ConfigurationError struct {
	Ref    string
	Reason string
}

// Invalidf returns a ConfigurationError with a formatted reason.
func Invalidf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Ref == "" {
		return "invalid configuration: " + e.Reason
	}
	return e.Ref + ": invalid configuration: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ToolInvocationError reports an external build tool that could not be
// started or exited non-zero. ExitCode carries the tool's status verbatim,
// or -1 when the process never ran.
type ToolInvocationError struct {
	Tool     string
	Args     []string
	Dir      string
	ExitCode int
	Err      error
}

func (e *ToolInvocationError) Error() string {
	cmdline := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to run %s: %v", cmdline, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", cmdline, e.ExitCode)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

func (e *ToolInvocationError) Is(target error) bool {
	return target == ErrToolFailed
}

// ArtifactMissingError reports an expected output that is absent after the
// build or package step.
type ArtifactMissingError struct {
	Path string
	What string
}

func (e *ArtifactMissingError) Error() string {
	if e.What == "" {
		return "missing artifact: " + e.Path
	}
	return fmt.Sprintf("missing %s: %s", e.What, e.Path)
}

func (e *ArtifactMissingError) Is(target error) bool {
	return target == ErrArtifactMissing
}

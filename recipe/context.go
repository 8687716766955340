package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"path/filepath"
)

// Folders are the working directories of one invocation.
type Folders struct {
	Recipe     string `json:"recipe,omitempty"`
	Source     string `json:"source"`
	Build      string `json:"build"`
	Generators string `json:"generators"`
	Package    string `json:"package"`
}

// DependencyInfo is what a consumer sees of one of its dependencies.
// Link and PackageFolder are nil/empty until the dependency has been built.
type DependencyInfo struct {
	Ref           Reference
	Visibility    Visibility
	Options       map[string]Value
	Settings      map[string]string
	Link          *LinkDescriptor
	PackageFolder string
}

// Built reports whether the dependency package is available.
func (d *DependencyInfo) Built() bool {
	return d.PackageFolder != ""
}

// Option returns an option value of the dependency.
func (d *DependencyInfo) Option(name string) Optional[Value] {
	if v, ok := d.Options[name]; ok {
		return Some(v)
	}
	return None[Value]()
}

// Command is one external process to run.
type Command struct {
	Tool   string
	Args   []string
	Dir    string
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ToolRunner runs external processes. A non-zero exit must be reported as
// a *ToolInvocationError carrying the exit status.
type ToolRunner interface {
	Run(ctx context.Context, cmd Command) error
}

// Context carries everything a lifecycle hook may look at. A fresh Context
// is created per invocation; Settings and Options are private copies.
type Context struct {
	Ref      Reference
	Settings *Settings
	Options  *Options
	Folders  Folders
	Data     *Data
	Logger   *slog.Logger
	Stdout   io.Writer
	Stderr   io.Writer
	Runner   ToolRunner
	Client   *http.Client

	// Env is added to every command run through the context.
	Env map[string]string

	deps map[string]*DependencyInfo
	ctx  context.Context
	errs []error
}

// NewContext returns a Context for ref with copies of settings and opts.
func NewContext(ctx context.Context, ref Reference, settings Settings, opts *Options) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = NewOptions(nil, nil)
	}
	return &Context{
		Ref:      ref,
		Settings: &settings,
		Options:  opts.Clone(),
		Logger:   slog.Default().With("ref", ref.String()),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Client:   http.DefaultClient,
		Env:      make(map[string]string),
		deps:     make(map[string]*DependencyInfo),
		ctx:      ctx,
	}
}

// Ctx returns the context.Context of the invocation.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// AddErr records an error raised by a hook that has no error result,
// typically one written as a classfile.
func (c *Context) AddErr(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// Invalidf records a ConfigurationError, the way hooks without an error
// result reject a configuration.
func (c *Context) Invalidf(format string, args ...any) {
	c.AddErr(Invalidf(format, args...))
}

// TakeErr returns the recorded errors joined and clears them.
func (c *Context) TakeErr() error {
	err := errors.Join(c.errs...)
	c.errs = nil
	return err
}

// Warnf logs an advisory message. Warnings never change control flow.
func (c *Context) Warnf(format string, args ...any) {
	c.Logger.Warn(fmt.Sprintf(format, args...))
}

// Infof logs a progress message.
func (c *Context) Infof(format string, args ...any) {
	c.Logger.Info(fmt.Sprintf(format, args...))
}

// IsWindows reports whether the target OS is Windows.
func (c *Context) IsWindows() bool {
	return c.Settings.OS == Windows
}

// Shared reports whether the package is built as a shared library.
func (c *Context) Shared() bool {
	return c.Options.BoolOr("shared", false)
}

// CheckCompiler rejects compilers older than the table and, when cppstd is
// set in the settings, standards older than min. An unknown compiler or
// version passes with a warning.
func (c *Context) CheckCompiler(min string, table MinimumVersions) error {
	if err := CheckMinCppStd(c.Settings, min); err != nil {
		return err
	}
	ok, known := table.Check(c.Settings.Compiler)
	if !known {
		c.Warnf("%s recipe lacks information about the %s compiler support, assuming C++%s support",
			c.Ref.Name, c.Settings.Compiler.Name, min)
		return nil
	}
	if !ok {
		v := c.Settings.Compiler.Version.OrElse("")
		return Invalidf("%s requires C++%s, which %s %s does not support", c.Ref.Name, min, c.Settings.Compiler.Name, v)
	}
	return nil
}

// SetDependency makes a dependency visible to the hooks.
func (c *Context) SetDependency(info *DependencyInfo) {
	c.deps[info.Ref.Name] = info
}

// Dependency returns a built dependency. A dependency that is declared but
// not built yet is a ConfigurationError.
func (c *Context) Dependency(name string) (*DependencyInfo, error) {
	info, ok := c.deps[name]
	if !ok {
		return nil, Invalidf("%s does not depend on %s", c.Ref.Name, name)
	}
	if !info.Built() {
		return nil, Invalidf("missing dependency package %s; build it first with: cppkg build %s", info.Ref, info.Ref)
	}
	return info, nil
}

// DependencyOption returns an option of a declared dependency: the built
// value when the package exists, the requested value otherwise.
func (c *Context) DependencyOption(dep, name string) Optional[Value] {
	info, ok := c.deps[dep]
	if !ok {
		return None[Value]()
	}
	return info.Option(name)
}

// Dependencies returns the declared dependencies sorted by name.
func (c *Context) Dependencies() []*DependencyInfo {
	names := sortedKeys(c.deps)
	out := make([]*DependencyInfo, len(names))
	for i, name := range names {
		out[i] = c.deps[name]
	}
	return out
}

// SourceEntry returns the sources.yml entry of the version being built.
func (c *Context) SourceEntry() (SourceEntry, error) {
	if c.Data == nil {
		return SourceEntry{}, Invalidf("%s has no source data", c.Ref.Name)
	}
	src, ok := c.Data.Source(c.Ref.Version)
	if !ok {
		return SourceEntry{}, Invalidf("%s: unknown version %q, known versions: %v", c.Ref.Name, c.Ref.Version, c.Data.Versions())
	}
	return src, nil
}

// Patches returns the patches of the version being built.
func (c *Context) Patches() []PatchEntry {
	if c.Data == nil {
		return nil
	}
	return c.Data.PatchesFor(c.Ref.Version)
}

// UsePlan applies the plan environment to subsequent commands.
func (c *Context) UsePlan(plan *BuildPlan) {
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	maps.Copy(c.Env, plan.env())
}

// Run runs tool in the build folder.
func (c *Context) Run(tool string, args ...string) error {
	return c.Exec(Command{Tool: tool, Args: args, Dir: c.Folders.Build})
}

// RunIn runs tool in dir.
func (c *Context) RunIn(dir, tool string, args ...string) error {
	return c.Exec(Command{Tool: tool, Args: args, Dir: dir})
}

// Exec runs cmd through the tool runner, filling in the context's output
// streams and environment.
func (c *Context) Exec(cmd Command) error {
	if c.Runner == nil {
		return &ToolInvocationError{Tool: cmd.Tool, Args: cmd.Args, Dir: cmd.Dir, ExitCode: -1, Err: errors.New("no tool runner")}
	}
	env := maps.Clone(c.Env)
	if env == nil {
		env = make(map[string]string)
	}
	maps.Copy(env, cmd.Env)
	cmd.Env = env
	if cmd.Stdout == nil {
		cmd.Stdout = c.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = c.Stderr
	}
	if cmd.Dir != "" {
		if err := os.MkdirAll(cmd.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", cmd.Dir, err)
		}
	}
	c.Logger.Debug("run", "tool", cmd.Tool, "args", cmd.Args, "dir", cmd.Dir)
	return c.Runner.Run(c.Ctx(), cmd)
}

// SourcePath joins elem onto the source folder.
func (c *Context) SourcePath(elem ...string) string {
	return filepath.Join(append([]string{c.Folders.Source}, elem...)...)
}

// BuildPath joins elem onto the build folder.
func (c *Context) BuildPath(elem ...string) string {
	return filepath.Join(append([]string{c.Folders.Build}, elem...)...)
}

// PackagePath joins elem onto the package folder.
func (c *Context) PackagePath(elem ...string) string {
	return filepath.Join(append([]string{c.Folders.Package}, elem...)...)
}

// GeneratorsPath joins elem onto the generators folder.
func (c *Context) GeneratorsPath(elem ...string) string {
	return filepath.Join(append([]string{c.Folders.Generators}, elem...)...)
}

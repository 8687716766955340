// Package meson wraps meson setup/compile/install and writes the native
// file describing the host toolchain.
package meson

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goplus/cppkg/recipe"
)

// Meson drives Meson-based builds. Projects are configured with prefix "/"
// and installed into the package folder through --destdir.
type Meson struct {
	sourceDir  string
	buildDir   string
	installDir string
	nativeFile string
	options    map[string]string
	args       []string
	jobs       int
}

var _ recipe.BuildSystem = (*Meson)(nil)

// New returns a Meson building ctx's source folder into its build folder.
func New(ctx *recipe.Context) *Meson {
	return &Meson{
		sourceDir:  ctx.Folders.Source,
		buildDir:   ctx.Folders.Build,
		installDir: ctx.Folders.Package,
		options:    make(map[string]string),
	}
}

func (m *Meson) Name() string { return "meson" }

// Source overrides the source directory.
func (m *Meson) Source(dir string) { m.sourceDir = dir }

// NativeFile sets the --native-file passed to meson setup.
func (m *Meson) NativeFile(path string) { m.nativeFile = path }

// Option adds a -D<key>=<value> project or built-in option.
func (m *Meson) Option(key, value string) { m.options[key] = value }

// Args appends raw arguments to meson setup.
func (m *Meson) Args(args ...string) { m.args = append(m.args, args...) }

// Jobs sets the compile parallelism. Zero lets ninja decide.
func (m *Meson) Jobs(n int) { m.jobs = n }

// Configure runs meson setup, or meson setup --reconfigure when the build
// directory was set up before.
func (m *Meson) Configure(ctx *recipe.Context) error {
	return ctx.RunIn(m.buildDir, "meson", m.SetupArgs()...)
}

// SetupArgs returns the arguments Configure passes to meson.
func (m *Meson) SetupArgs() []string {
	args := []string{"setup"}
	if _, err := os.Stat(filepath.Join(m.buildDir, "meson-private")); err == nil {
		args = append(args, "--reconfigure")
	}
	if m.nativeFile != "" {
		args = append(args, "--native-file", m.nativeFile)
	}
	keys := make([]string, 0, len(m.options))
	for k := range m.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+m.options[k])
	}
	args = append(args, m.args...)
	return append(args, m.buildDir, m.sourceDir)
}

// Build runs meson compile, limited to targets when given.
func (m *Meson) Build(ctx *recipe.Context, targets ...string) error {
	args := []string{"compile", "-C", m.buildDir}
	if m.jobs > 0 {
		args = append(args, "-j", strconv.Itoa(m.jobs))
	}
	args = append(args, targets...)
	return ctx.RunIn(m.buildDir, "meson", args...)
}

// Install runs meson install into the package folder.
func (m *Meson) Install(ctx *recipe.Context) error {
	return ctx.RunIn(m.buildDir, "meson", "install", "-C", m.buildDir, "--destdir", m.installDir)
}

// Test runs the project's test suite.
func (m *Meson) Test(ctx *recipe.Context) error {
	return ctx.RunIn(m.buildDir, "meson", "test", "-C", m.buildDir)
}

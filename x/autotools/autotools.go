// Package autotools wraps the classic configure/make/make-install workflow.
package autotools

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/goplus/cppkg/recipe"
)

// Autotools drives Autotools-style builds.
type Autotools struct {
	sourceDir  string
	buildDir   string
	installDir string
	prefix     string
	args       []string
	autoreconf bool
	jobs       int
}

var _ recipe.BuildSystem = (*Autotools)(nil)

// New returns an Autotools configuring with --prefix=/ and installing into
// the package folder through DESTDIR.
func New(ctx *recipe.Context) *Autotools {
	return &Autotools{
		sourceDir:  ctx.Folders.Source,
		buildDir:   ctx.Folders.Build,
		installDir: ctx.Folders.Package,
		prefix:     "/",
		jobs:       runtime.NumCPU(),
	}
}

func (a *Autotools) Name() string { return "autotools" }

// Source overrides the source directory.
func (a *Autotools) Source(dir string) { a.sourceDir = dir }

// InSource builds inside the source directory, for configure scripts that
// do not support separate build trees.
func (a *Autotools) InSource() { a.buildDir = a.sourceDir }

// Prefix configures with --prefix=dir and installs without DESTDIR. Use it
// for hand-written configure scripts that ignore DESTDIR.
func (a *Autotools) Prefix(dir string) { a.prefix = dir }

// Autoreconf regenerates the configure script before configuring.
func (a *Autotools) Autoreconf() { a.autoreconf = true }

// Jobs sets the make parallelism.
func (a *Autotools) Jobs(n int) { a.jobs = n }

// Args appends configure arguments.
func (a *Autotools) Args(args ...string) { a.args = append(a.args, args...) }

// Configure runs <sourceDir>/configure inside the build directory.
func (a *Autotools) Configure(ctx *recipe.Context) error {
	if a.autoreconf {
		if err := ctx.RunIn(a.sourceDir, "autoreconf", "--force", "--install"); err != nil {
			return err
		}
	}
	return ctx.RunIn(a.buildDir, filepath.Join(a.sourceDir, "configure"), a.ConfigureArgs()...)
}

// ConfigureArgs returns the arguments Configure passes to configure.
func (a *Autotools) ConfigureArgs() []string {
	return append([]string{"--prefix=" + a.prefix}, a.args...)
}

// Build runs make, limited to targets when given.
func (a *Autotools) Build(ctx *recipe.Context, targets ...string) error {
	return a.Make(ctx, "", targets...)
}

// Install runs "make install".
func (a *Autotools) Install(ctx *recipe.Context) error {
	return a.Make(ctx, "", "install")
}

// Make runs make with targets in subdir of the build directory. Install
// targets get DESTDIR when the prefix is the default.
func (a *Autotools) Make(ctx *recipe.Context, subdir string, targets ...string) error {
	var args []string
	if a.jobs > 1 {
		args = append(args, "-j"+strconv.Itoa(a.jobs))
	}
	if a.prefix == "/" && hasInstallTarget(targets) {
		args = append(args, "DESTDIR="+a.installDir)
	}
	args = append(args, targets...)
	return ctx.RunIn(filepath.Join(a.buildDir, subdir), "make", args...)
}

// OutputDir returns installDir if set, otherwise buildDir.
func (a *Autotools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}

func hasInstallTarget(targets []string) bool {
	for _, t := range targets {
		if strings.HasPrefix(t, "install") {
			return true
		}
	}
	return false
}

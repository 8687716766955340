package autotools

import (
	"sort"
	"strconv"

	"github.com/goplus/cppkg/recipe"
)

// MakeFile drives projects that ship a plain Makefile and no configure
// script. Variables are passed on the make command line.
type MakeFile struct {
	dir        string
	installDir string
	vars       map[string]string
	jobs       int
}

var _ recipe.BuildSystem = (*MakeFile)(nil)

// NewMakeFile returns a MakeFile running make in the source folder.
func NewMakeFile(ctx *recipe.Context) *MakeFile {
	return &MakeFile{
		dir:        ctx.Folders.Source,
		installDir: ctx.Folders.Package,
		vars:       make(map[string]string),
	}
}

func (m *MakeFile) Name() string { return "make" }

// Var sets a make variable, e.g. USE_SSL=1.
func (m *MakeFile) Var(key, value string) { m.vars[key] = value }

// Jobs sets the make parallelism.
func (m *MakeFile) Jobs(n int) { m.jobs = n }

// Configure does nothing; there is no configure step.
func (m *MakeFile) Configure(ctx *recipe.Context) error { return nil }

// Build runs make with the variables and targets.
func (m *MakeFile) Build(ctx *recipe.Context, targets ...string) error {
	args := m.varArgs(nil)
	if m.jobs > 1 {
		args = append([]string{"-j" + strconv.Itoa(m.jobs)}, args...)
	}
	return ctx.RunIn(m.dir, "make", append(args, targets...)...)
}

// Install runs "make install" with DESTDIR set to the package folder and an
// empty PREFIX.
func (m *MakeFile) Install(ctx *recipe.Context) error {
	args := m.varArgs(map[string]string{"DESTDIR": m.installDir, "PREFIX": ""})
	return ctx.RunIn(m.dir, "make", append(args, "install")...)
}

func (m *MakeFile) varArgs(extra map[string]string) []string {
	all := make(map[string]string, len(m.vars)+len(extra))
	for k, v := range m.vars {
		all[k] = v
	}
	for k, v := range extra {
		all[k] = v
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, len(keys))
	for i, k := range keys {
		args[i] = k + "=" + all[k]
	}
	return args
}

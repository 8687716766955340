package autotools

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/cppkg/internal/env"
	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// ToolchainFile is the environment script written to the generators folder.
const ToolchainFile = "cppkg_autotoolstoolchain.sh"

var buildTypeFlags = map[recipe.BuildType]string{
	recipe.Debug:          "-g -O0",
	recipe.Release:        "-O3 -DNDEBUG",
	recipe.RelWithDebInfo: "-O2 -g -DNDEBUG",
	recipe.MinSizeRel:     "-Os -DNDEBUG",
}

// Toolchain holds the configure arguments and the compiler environment of
// an Autotools build.
type Toolchain struct {
	ConfigureArgs []string
	Vars          map[string]string
}

// NewToolchain derives configure arguments from the shared and fPIC options
// and compiler flags from the settings and the built dependencies.
func NewToolchain(ctx *recipe.Context) *Toolchain {
	t := &Toolchain{Vars: make(map[string]string)}
	if shared, ok := ctx.Options.Get("shared").Get(); ok {
		if shared.Truthy() {
			t.ConfigureArgs = append(t.ConfigureArgs, "--enable-shared", "--disable-static")
		} else {
			t.ConfigureArgs = append(t.ConfigureArgs, "--disable-shared", "--enable-static")
		}
	}
	if ctx.Options.Bool("fPIC") {
		t.ConfigureArgs = append(t.ConfigureArgs, "--with-pic")
	}

	s := ctx.Settings
	if flags, ok := buildTypeFlags[s.BuildTypeOr(recipe.Release)]; ok {
		env.AppendFlag(t.Vars, "CFLAGS", flags)
		env.AppendFlag(t.Vars, "CXXFLAGS", flags)
	}
	if std, ok := s.Compiler.CppStd.Get(); ok {
		if num, gnu := strings.CutPrefix(std, "gnu"); gnu {
			env.AppendFlag(t.Vars, "CXXFLAGS", "-std=gnu++"+num)
		} else {
			env.AppendFlag(t.Vars, "CXXFLAGS", "-std=c++"+num)
		}
	}
	if libcxx, ok := s.Compiler.LibCxx.Get(); ok && libcxx == "libc++" {
		env.AppendFlag(t.Vars, "CXXFLAGS", "-stdlib=libc++")
	}
	if s.Compiler.Name == recipe.AppleClang {
		switch s.Arch {
		case recipe.ARMv7:
			env.AppendFlag(t.Vars, "LDFLAGS", "-arch armv7")
		case recipe.ARMv8:
			env.AppendFlag(t.Vars, "LDFLAGS", "-arch arm64")
		}
	}
	for _, dep := range ctx.Dependencies() {
		if !dep.Built() || dep.Link == nil || dep.Visibility != recipe.Link {
			continue
		}
		for _, dir := range dep.Link.IncludeDirs {
			env.AppendFlag(t.Vars, "CPPFLAGS", "-I"+filepath.Join(dep.PackageFolder, dir))
		}
		for _, def := range dep.Link.Defines {
			env.AppendFlag(t.Vars, "CPPFLAGS", "-D"+def)
		}
		for _, dir := range dep.Link.LibDirs {
			env.AppendFlag(t.Vars, "LDFLAGS", "-L"+filepath.Join(dep.PackageFolder, dir))
		}
	}
	t.Vars["PKG_CONFIG_PATH"] = ctx.Folders.Generators
	return t
}

// Render returns the environment script.
func (t *Toolchain) Render() string {
	keys := make([]string, 0, len(t.Vars))
	for k := range t.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("# Generated by cppkg. Do not edit.\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s='%s'\n", k, strings.ReplaceAll(t.Vars[k], "'", `'\''`))
	}
	return b.String()
}

// Generate writes the environment script and adds the variables to the
// plan's environment.
func (t *Toolchain) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if err := files.Save(ctx.GeneratorsPath(ToolchainFile), t.Render()); err != nil {
		return fmt.Errorf("failed to write %s: %w", ToolchainFile, err)
	}
	plan.AddFile(ToolchainFile)
	for k, v := range t.Vars {
		plan.SetEnv(k, v)
	}
	return nil
}

// Apply passes the configure arguments to a.
func (t *Toolchain) Apply(a *Autotools) {
	a.Args(t.ConfigureArgs...)
}

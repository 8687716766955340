// Package msbuild drives Visual Studio solutions with msbuild and writes
// the property sheet injecting settings and dependencies into them.
package msbuild

import (
	"path/filepath"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

var platforms = map[recipe.Arch]string{
	recipe.X86:    "Win32",
	recipe.X86_64: "x64",
	recipe.ARMv7:  "ARM",
	recipe.ARMv8:  "ARM64",
}

// Platform returns the msbuild platform name of arch, "x64" when unknown.
func Platform(arch recipe.Arch) string {
	if p, ok := platforms[arch]; ok {
		return p
	}
	return "x64"
}

// Configuration maps a build type to the two configurations upstream
// solutions usually ship.
func Configuration(bt recipe.BuildType) string {
	if bt == recipe.Debug {
		return "Debug"
	}
	return "Release"
}

// MSBuild builds a solution in place. Install copies the produced import
// libraries and DLLs into the package folder; headers are the recipe's job.
type MSBuild struct {
	sourceDir     string
	installDir    string
	solution      string
	configuration string
	platform      string
	properties    map[string]string
}

var _ recipe.BuildSystem = (*MSBuild)(nil)

// New returns an MSBuild building solution, relative to the source folder.
func New(ctx *recipe.Context, solution string) *MSBuild {
	return &MSBuild{
		sourceDir:     ctx.Folders.Source,
		installDir:    ctx.Folders.Package,
		solution:      solution,
		configuration: Configuration(ctx.Settings.BuildTypeOr(recipe.Release)),
		platform:      Platform(ctx.Settings.Arch),
		properties:    make(map[string]string),
	}
}

func (m *MSBuild) Name() string { return "msbuild" }

// Configuration overrides the solution configuration.
func (m *MSBuild) Configuration(name string) { m.configuration = name }

// Platform overrides the solution platform.
func (m *MSBuild) Platform(name string) { m.platform = name }

// Property adds a /p:<key>=<value> argument.
func (m *MSBuild) Property(key, value string) { m.properties[key] = value }

// Configure does nothing; solutions are configured by the property sheet.
func (m *MSBuild) Configure(ctx *recipe.Context) error { return nil }

// Build runs msbuild on the solution, limited to targets when given.
func (m *MSBuild) Build(ctx *recipe.Context, targets ...string) error {
	return ctx.RunIn(m.sourceDir, "msbuild", m.BuildArgs(targets...)...)
}

// BuildArgs returns the arguments Build passes to msbuild.
func (m *MSBuild) BuildArgs(targets ...string) []string {
	args := []string{
		m.solution,
		"/p:Configuration=" + m.configuration,
		"/p:Platform=" + m.platform,
	}
	for _, k := range sortedKeys(m.properties) {
		args = append(args, "/p:"+k+"="+m.properties[k])
	}
	if len(targets) > 0 {
		args = append(args, "/t:"+strings.Join(targets, ";"))
	}
	return append(args, "/m")
}

// Install copies *.lib into lib and *.dll into bin of the package folder.
func (m *MSBuild) Install(ctx *recipe.Context) error {
	if _, err := files.Copy("*.lib", m.sourceDir, filepath.Join(m.installDir, "lib"), files.Flat()); err != nil {
		return err
	}
	_, err := files.Copy("*.dll", m.sourceDir, filepath.Join(m.installDir, "bin"), files.Flat())
	return err
}

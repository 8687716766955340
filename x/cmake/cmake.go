// Package cmake wraps the cmake configure/build/install workflow and
// generates the toolchain and package config files a CMake build consumes.
package cmake

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/goplus/cppkg/internal/env"
	"github.com/goplus/cppkg/recipe"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake drives CMake-based builds.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	defines    map[string]defineValue
	args       []string
}

var _ recipe.BuildSystem = (*CMake)(nil)

// New returns a CMake building ctx's source folder into its build folder
// and installing into its package folder.
func New(ctx *recipe.Context) *CMake {
	return &CMake{
		sourceDir:  ctx.Folders.Source,
		buildDir:   ctx.Folders.Build,
		installDir: ctx.Folders.Package,
		buildType:  string(ctx.Settings.BuildTypeOr(recipe.Release)),
		defines:    make(map[string]defineValue),
	}
}

func (c *CMake) Name() string { return "cmake" }

// Source overrides the source directory, e.g. a subdirectory holding the
// top-level CMakeLists.txt.
func (c *CMake) Source(dir string) { c.sourceDir = dir }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	c.defines[key] = defineValue{value: onOff(value), typeName: "BOOL"}
}

// Args appends raw arguments to the configure command line.
func (c *CMake) Args(args ...string) { c.args = append(c.args, args...) }

// Use adds the search paths of a dependency installed at root to the
// plan's environment, for find_path/find_library calls that do not go
// through the generated config files.
func (c *CMake) Use(plan *recipe.BuildPlan, root string) {
	if plan.Env == nil {
		plan.Env = make(map[string]string)
	}
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if exists(pkgconfigDir) {
		env.PrependPath(plan.Env, "PKG_CONFIG_PATH", pkgconfigDir)
	}
	env.PrependPath(plan.Env, "CMAKE_PREFIX_PATH", root)
	if exists(includeDir) {
		env.PrependPath(plan.Env, "CMAKE_INCLUDE_PATH", includeDir)
	}
	if exists(libDir) {
		env.PrependPath(plan.Env, "CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if exists(includeDir) {
			env.PrependPath(plan.Env, "INCLUDE", includeDir)
		}
		if exists(libDir) {
			env.PrependPath(plan.Env, "LIB", libDir)
		}
	} else {
		if exists(includeDir) {
			env.AppendFlag(plan.Env, "CPPFLAGS", "-I"+includeDir)
		}
		if exists(libDir) {
			env.AppendFlag(plan.Env, "LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
func (c *CMake) Configure(ctx *recipe.Context) error {
	return ctx.RunIn(c.buildDir, "cmake", c.ConfigureArgs()...)
}

// ConfigureArgs returns the arguments Configure passes to cmake.
func (c *CMake) ConfigureArgs() []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	args = append(args, c.definesArgs()...)
	return append(args, c.args...)
}

// Build runs "cmake --build <build>", limited to targets when given.
func (c *CMake) Build(ctx *recipe.Context, targets ...string) error {
	args := []string{"--build", c.buildDir}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	for _, t := range targets {
		args = append(args, "--target", t)
	}
	return ctx.RunIn(c.buildDir, "cmake", args...)
}

// Install runs "cmake --install <build>".
func (c *CMake) Install(ctx *recipe.Context) error {
	args := []string{"--install", c.buildDir}
	if c.installDir != "" {
		args = append(args, "--prefix", c.installDir)
	}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return ctx.RunIn(c.buildDir, "cmake", args...)
}

// OutputDir returns installDir if set, otherwise buildDir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

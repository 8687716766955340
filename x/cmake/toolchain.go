package cmake

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// ToolchainFile is the name of the generated toolchain, relative to the
// generators folder.
const ToolchainFile = "cppkg_toolchain.cmake"

// Toolchain collects what the generated toolchain file sets. Variables end
// up as set() calls in the file, CacheVariables as -D arguments on the
// configure command line.
type Toolchain struct {
	Generator               string
	Variables               map[string]string
	CacheVariables          map[string]string
	PreprocessorDefinitions map[string]string
	PrefixPath              []string
}

// NewToolchain derives the toolchain from ctx: build type, shared/fPIC
// options, C++ standard, MSVC runtime and the dependency package folders.
func NewToolchain(ctx *recipe.Context) *Toolchain {
	t := &Toolchain{
		Variables:               make(map[string]string),
		CacheVariables:          make(map[string]string),
		PreprocessorDefinitions: make(map[string]string),
	}
	s := ctx.Settings
	t.CacheVariables["CMAKE_BUILD_TYPE"] = string(s.BuildTypeOr(recipe.Release))
	if shared, ok := ctx.Options.Get("shared").Get(); ok {
		t.Variables["BUILD_SHARED_LIBS"] = onOff(shared.Truthy())
	}
	if fpic, ok := ctx.Options.Get("fPIC").Get(); ok {
		t.Variables["CMAKE_POSITION_INDEPENDENT_CODE"] = onOff(fpic.Truthy())
	}
	if std, ok := s.Compiler.CppStd.Get(); ok {
		num, gnu := strings.CutPrefix(std, "gnu")
		t.Variables["CMAKE_CXX_STANDARD"] = num
		t.Variables["CMAKE_CXX_EXTENSIONS"] = onOff(gnu)
		t.Variables["CMAKE_CXX_STANDARD_REQUIRED"] = "ON"
	}
	if rt, ok := s.Compiler.Runtime.Get(); ok && s.Compiler.Name == recipe.MSVC {
		lib := "MultiThreaded$<$<CONFIG:Debug>:Debug>"
		if rt == "dynamic" {
			lib += "DLL"
		}
		t.Variables["CMAKE_MSVC_RUNTIME_LIBRARY"] = lib
	}
	if libcxx, ok := s.Compiler.LibCxx.Get(); ok && s.Compiler.Name == recipe.Clang && libcxx == "libc++" {
		t.Variables["CMAKE_CXX_FLAGS_INIT"] = "-stdlib=libc++"
	}
	if s.OS.IsApple() && s.Arch == recipe.ARMv8 {
		t.Variables["CMAKE_OSX_ARCHITECTURES"] = "arm64"
	}
	if s.OS == recipe.Windows && s.Compiler.Name != recipe.MSVC {
		t.Generator = "MinGW Makefiles"
	}
	t.PrefixPath = append(t.PrefixPath, ctx.Folders.Generators)
	for _, dep := range ctx.Dependencies() {
		if dep.Built() {
			t.PrefixPath = append(t.PrefixPath, dep.PackageFolder)
		}
	}
	return t
}

// Render returns the toolchain file content. Entries are sorted, so the same
// inputs always render the same file.
func (t *Toolchain) Render() string {
	var b strings.Builder
	b.WriteString("# Generated by cppkg. Do not edit.\n")
	b.WriteString("cmake_minimum_required(VERSION 3.15)\n\n")
	for _, k := range sortedKeys(t.Variables) {
		fmt.Fprintf(&b, "set(%s %s)\n", k, quote(t.Variables[k]))
	}
	if len(t.PrefixPath) > 0 {
		paths := make([]string, len(t.PrefixPath))
		for i, p := range t.PrefixPath {
			paths[i] = quote(filepath.ToSlash(p))
		}
		fmt.Fprintf(&b, "list(PREPEND CMAKE_PREFIX_PATH %s)\n", strings.Join(paths, " "))
		fmt.Fprintf(&b, "list(PREPEND CMAKE_MODULE_PATH %s)\n", paths[0])
	}
	if len(t.PreprocessorDefinitions) > 0 {
		b.WriteString("add_compile_definitions(")
		for i, k := range sortedKeys(t.PreprocessorDefinitions) {
			if i > 0 {
				b.WriteByte(' ')
			}
			if v := t.PreprocessorDefinitions[k]; v != "" {
				b.WriteString(quote(k + "=" + v))
			} else {
				b.WriteString(k)
			}
		}
		b.WriteString(")\n")
	}
	return b.String()
}

// Generate writes the toolchain into the generators folder and records it
// in plan.
func (t *Toolchain) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if err := files.Save(ctx.GeneratorsPath(ToolchainFile), t.Render()); err != nil {
		return fmt.Errorf("failed to write %s: %w", ToolchainFile, err)
	}
	plan.AddFile(ToolchainFile)
	return nil
}

// Apply points c at the generated toolchain and passes the cache variables.
func (t *Toolchain) Apply(ctx *recipe.Context, c *CMake) {
	c.Toolchain(ctx.GeneratorsPath(ToolchainFile))
	if t.Generator != "" {
		c.Generator(t.Generator)
	}
	for k, v := range t.CacheVariables {
		if k == "CMAKE_BUILD_TYPE" {
			c.BuildType(v)
			continue
		}
		c.Define(k, v)
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package meson

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// ToolchainFile is the generated native file, relative to the generators
// folder.
const ToolchainFile = "cppkg_meson_native.ini"

var buildTypes = map[recipe.BuildType]string{
	recipe.Debug:          "debug",
	recipe.Release:        "release",
	recipe.RelWithDebInfo: "debugoptimized",
	recipe.MinSizeRel:     "minsize",
}

// Toolchain is the content of a Meson native file. Values are written
// quoted unless they are true or false.
type Toolchain struct {
	Binaries       map[string]string
	Properties     map[string]string
	BuiltinOptions map[string]string
	ProjectOptions map[string]string
}

// NewToolchain derives the built-in options from ctx: build type, shared
// and fPIC options, C++ standard and MSVC runtime.
func NewToolchain(ctx *recipe.Context) *Toolchain {
	t := &Toolchain{
		Binaries:   make(map[string]string),
		Properties: make(map[string]string),
		BuiltinOptions: map[string]string{
			"prefix":     "/",
			"bindir":     "bin",
			"libdir":     "lib",
			"includedir": "include",
			"datadir":    "res",
		},
		ProjectOptions: make(map[string]string),
	}
	s := ctx.Settings
	t.BuiltinOptions["buildtype"] = buildTypes[s.BuildTypeOr(recipe.Release)]
	if shared, ok := ctx.Options.Get("shared").Get(); ok {
		if shared.Truthy() {
			t.BuiltinOptions["default_library"] = "shared"
		} else {
			t.BuiltinOptions["default_library"] = "static"
		}
	}
	if fpic, ok := ctx.Options.Get("fPIC").Get(); ok {
		t.BuiltinOptions["b_staticpic"] = boolString(fpic.Truthy())
	}
	if std, ok := s.Compiler.CppStd.Get(); ok {
		if num, gnu := strings.CutPrefix(std, "gnu"); gnu {
			t.BuiltinOptions["cpp_std"] = "gnu++" + num
		} else {
			t.BuiltinOptions["cpp_std"] = "c++" + num
		}
	}
	if rt, ok := s.Compiler.Runtime.Get(); ok && s.Compiler.Name == recipe.MSVC {
		crt := "mt"
		if rt == "dynamic" {
			crt = "md"
		}
		if s.BuildTypeOr(recipe.Release) == recipe.Debug {
			crt += "d"
		}
		t.BuiltinOptions["b_vscrt"] = crt
	}
	if libcxx, ok := s.Compiler.LibCxx.Get(); ok && libcxx == "libc++" {
		t.BuiltinOptions["cpp_args"] = "-stdlib=libc++"
		t.BuiltinOptions["cpp_link_args"] = "-stdlib=libc++"
	}
	t.BuiltinOptions["pkg_config_path"] = ctx.Folders.Generators
	return t
}

// Render returns the native file content with sections and keys sorted.
func (t *Toolchain) Render() string {
	var b strings.Builder
	b.WriteString("# Generated by cppkg. Do not edit.\n")
	writeSection(&b, "binaries", t.Binaries)
	writeSection(&b, "properties", t.Properties)
	writeSection(&b, "built-in options", t.BuiltinOptions)
	writeSection(&b, "project options", t.ProjectOptions)
	return b.String()
}

// Generate writes the native file and records it in plan.
func (t *Toolchain) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if err := files.Save(ctx.GeneratorsPath(ToolchainFile), t.Render()); err != nil {
		return fmt.Errorf("failed to write %s: %w", ToolchainFile, err)
	}
	plan.AddFile(ToolchainFile)
	plan.SetEnv("PKG_CONFIG_PATH", ctx.Folders.Generators)
	return nil
}

// Apply points m at the generated native file.
func (t *Toolchain) Apply(ctx *recipe.Context, m *Meson) {
	m.NativeFile(ctx.GeneratorsPath(ToolchainFile))
}

func writeSection(b *strings.Builder, name string, kv map[string]string) {
	if len(kv) == 0 {
		return
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "\n[%s]\n", name)
	for _, k := range keys {
		fmt.Fprintf(b, "%s = %s\n", k, literal(kv[k]))
	}
}

func literal(v string) string {
	if v == "true" || v == "false" {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

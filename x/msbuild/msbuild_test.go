package msbuild

import (
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"
)

func newContext(t *testing.T, settings map[string]string) *recipe.Context {
	t.Helper()
	s, err := recipe.ParseSettings(settings)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	ctx := recipe.NewContext(context.Background(), recipe.Reference{Name: "package", Version: "1.0"}, s, nil)
	ctx.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	root := t.TempDir()
	ctx.Folders = recipe.Folders{
		Source:     filepath.Join(root, "src"),
		Build:      filepath.Join(root, "build"),
		Generators: filepath.Join(root, "build", "generators"),
		Package:    filepath.Join(root, "p"),
	}
	return ctx
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		settings map[string]string
		targets  []string
		want     []string
	}{
		{
			settings: map[string]string{"arch": "x86", "build_type": "RelWithDebInfo"},
			want:     []string{"project.sln", "/p:Configuration=Release", "/p:Platform=Win32", "/m"},
		},
		{
			settings: map[string]string{"arch": "armv8", "build_type": "Debug"},
			targets:  []string{"lib", "tool"},
			want:     []string{"project.sln", "/p:Configuration=Debug", "/p:Platform=ARM64", "/t:lib;tool", "/m"},
		},
		{
			want: []string{"project.sln", "/p:Configuration=Release", "/p:Platform=x64", "/m"},
		},
	}
	for _, tt := range tests {
		m := New(newContext(t, tt.settings), "project.sln")
		if got := m.BuildArgs(tt.targets...); !slices.Equal(got, tt.want) {
			t.Errorf("BuildArgs(%v) = %v, want %v", tt.settings, got, tt.want)
		}
	}
}

func TestBuildAndInstall(t *testing.T) {
	ctx := newContext(t, nil)
	rec := &toolexec.Recorder{}
	ctx.Runner = rec

	m := New(ctx, "project.sln")
	m.Property("WholeProgramOptimization", "false")
	m.Configuration("ReleaseDLL")
	if err := m.Build(ctx); err != nil {
		t.Fatal(err)
	}
	want := "msbuild project.sln /p:Configuration=ReleaseDLL /p:Platform=x64 /p:WholeProgramOptimization=false /m"
	if got := rec.Lines(); len(got) != 1 || got[0] != want {
		t.Errorf("commands = %v, want %q", got, want)
	}
	if dir := rec.Commands()[0].Dir; dir != ctx.Folders.Source {
		t.Errorf("msbuild ran in %q, want the source folder", dir)
	}

	out := filepath.Join(ctx.Folders.Source, "x64", "Release")
	for _, name := range []string{"package.lib", "package.dll", "package.pdb"} {
		if err := os.MkdirAll(out, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(out, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}
	for _, rel := range []string{"lib/package.lib", "bin/package.dll"} {
		if _, err := os.Stat(filepath.Join(ctx.Folders.Package, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s", rel)
		}
	}
	if _, err := os.Stat(filepath.Join(ctx.Folders.Package, "lib", "package.pdb")); err == nil {
		t.Errorf("package.pdb should not be installed")
	}
}

func TestNewToolchain(t *testing.T) {
	ctx := newContext(t, map[string]string{
		"os":               "Windows",
		"compiler":         "msvc",
		"compiler.version": "193",
		"compiler.runtime": "dynamic",
		"compiler.cppstd":  "17",
		"build_type":       "Debug",
	})
	ctx.SetDependency(&recipe.DependencyInfo{
		Ref:           recipe.Reference{Name: "zlib", Version: "1.3.1"},
		PackageFolder: `C:\p\zlib`,
		Link: &recipe.LinkDescriptor{
			Libs:        []string{"zlib"},
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
			Defines:     []string{"ZLIB_WINAPI"},
			SystemLibs:  []string{"ws2_32"},
		},
	})

	tc := NewToolchain(ctx)
	if tc.Toolset != "v143" {
		t.Errorf("Toolset = %q, want v143", tc.Toolset)
	}
	if tc.RuntimeLib != "MultiThreadedDebugDLL" {
		t.Errorf("RuntimeLib = %q, want MultiThreadedDebugDLL", tc.RuntimeLib)
	}
	if tc.CppStd != "stdcpp17" {
		t.Errorf("CppStd = %q, want stdcpp17", tc.CppStd)
	}
	if !slices.Equal(tc.Libs, []string{"zlib.lib", "ws2_32.lib"}) {
		t.Errorf("Libs = %v", tc.Libs)
	}
	if tc.Configuration != "Debug" {
		t.Errorf("Configuration = %q, want Debug", tc.Configuration)
	}
}

func TestRender(t *testing.T) {
	tc := &Toolchain{
		Toolset:       "v142",
		RuntimeLib:    "MultiThreaded",
		CppStd:        "stdcpp20",
		Defines:       []string{"FOO=1"},
		IncludeDirs:   []string{"/deps/include"},
		Libs:          []string{"foo.lib"},
		Configuration: "Release",
	}
	out, err := tc.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("Render lacks the XML header:\n%s", out)
	}
	for _, want := range []string{
		`<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">`,
		"<PreprocessorDefinitions>FOO=1;%(PreprocessorDefinitions)</PreprocessorDefinitions>",
		"<AdditionalIncludeDirectories>/deps/include;%(AdditionalIncludeDirectories)</AdditionalIncludeDirectories>",
		"<RuntimeLibrary>MultiThreaded</RuntimeLibrary>",
		"<LanguageStandard>stdcpp20</LanguageStandard>",
		"<AdditionalDependencies>foo.lib;%(AdditionalDependencies)</AdditionalDependencies>",
		"<PlatformToolset>v142</PlatformToolset>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "AdditionalLibraryDirectories") {
		t.Errorf("empty lib dirs should be omitted:\n%s", out)
	}

	var back project
	if err := xml.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("property sheet is not valid XML: %v", err)
	}
	if back.ItemDefs.Condition != "'$(Configuration)' == 'Release'" {
		t.Errorf("Condition = %q", back.ItemDefs.Condition)
	}
}

func TestInject(t *testing.T) {
	ctx := newContext(t, nil)
	vcxproj := filepath.Join(t.TempDir(), "lib.vcxproj")
	content := `<Project>
  <PropertyGroup Label="Configuration">
    <PlatformToolset>v141</PlatformToolset>
  </PropertyGroup>
  ` + cppTargets + `
</Project>
`
	if err := os.WriteFile(vcxproj, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tc := &Toolchain{Toolset: "v143"}
	if err := tc.Inject(ctx, vcxproj); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	data, err := os.ReadFile(vcxproj)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, `<Import Project="`+ctx.GeneratorsPath(ToolchainFile)+`" />`+cppTargets) {
		t.Errorf("property sheet not imported:\n%s", got)
	}
	if !strings.Contains(got, "<PlatformToolset>v143</PlatformToolset>") || strings.Contains(got, "v141") {
		t.Errorf("toolset not replaced:\n%s", got)
	}

	if err := tc.Inject(ctx, filepath.Join(t.TempDir(), "missing.vcxproj")); err == nil {
		t.Errorf("Inject on a missing project should fail")
	}
}

func TestGenerate(t *testing.T) {
	ctx := newContext(t, map[string]string{"compiler": "msvc", "compiler.version": "192"})
	plan := recipe.NewPlan(nil)
	if err := NewToolchain(ctx).Generate(ctx, plan); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(ctx.GeneratorsPath(ToolchainFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<PlatformToolset>v142</PlatformToolset>") {
		t.Errorf("props =\n%s", data)
	}
	if !slices.Equal(plan.Files, []string{ToolchainFile}) {
		t.Errorf("plan.Files = %v", plan.Files)
	}
}

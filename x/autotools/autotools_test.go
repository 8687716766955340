package autotools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"
)

func newContext(t *testing.T, settings map[string]string, opts *recipe.Options) *recipe.Context {
	t.Helper()
	s, err := recipe.ParseSettings(settings)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	ctx := recipe.NewContext(context.Background(), recipe.Reference{Name: "librhash", Version: "1.4.4"}, s, opts)
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

func libOptions(t *testing.T, shared bool) *recipe.Options {
	t.Helper()
	d := &recipe.Descriptor{Name: "librhash"}
	d.LibraryOptions()
	opts := d.NewOptions()
	if err := opts.Set("shared", recipe.Bool(shared)); err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestOutputDir(t *testing.T) {
	ctx := newContext(t, nil, nil)
	a := New(ctx)
	if got := a.OutputDir(); got != ctx.Folders.Package {
		t.Errorf("OutputDir = %q, want %q", got, ctx.Folders.Package)
	}
	a.installDir = ""
	if got := a.OutputDir(); got != ctx.Folders.Build {
		t.Errorf("OutputDir = %q, want %q", got, ctx.Folders.Build)
	}
}

func TestCommands(t *testing.T) {
	ctx := newContext(t, nil, nil)
	rec := &toolexec.Recorder{}
	ctx.Runner = rec

	a := New(ctx)
	a.Jobs(4)
	a.Autoreconf()
	a.Args("--disable-gettext")

	if err := a.Configure(ctx); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Build(ctx); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := a.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := a.Make(ctx, "librhash", "install-so-link"); err != nil {
		t.Fatalf("Make: %v", err)
	}

	f := ctx.Folders
	want := []string{
		"autoreconf --force --install",
		filepath.Join(f.Source, "configure") + " --prefix=/ --disable-gettext",
		"make -j4",
		"make -j4 DESTDIR=" + f.Package + " install",
		"make -j4 DESTDIR=" + f.Package + " install-so-link",
	}
	if got := rec.Lines(); !slices.Equal(got, want) {
		t.Errorf("commands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	dirs := []string{f.Source, f.Build, f.Build, f.Build, filepath.Join(f.Build, "librhash")}
	for i, cmd := range rec.Commands() {
		if cmd.Dir != dirs[i] {
			t.Errorf("command %d ran in %q, want %q", i, cmd.Dir, dirs[i])
		}
	}
}

func TestInSourceWithPrefix(t *testing.T) {
	ctx := newContext(t, nil, nil)
	rec := &toolexec.Recorder{}
	ctx.Runner = rec

	a := New(ctx)
	a.Jobs(1)
	a.InSource()
	a.Prefix(ctx.Folders.Package)
	if err := a.Configure(ctx); err != nil {
		t.Fatal(err)
	}
	if err := a.Install(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(ctx.Folders.Source, "configure") + " --prefix=" + ctx.Folders.Package,
		"make install",
	}
	if got := rec.Lines(); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
	for _, cmd := range rec.Commands() {
		if cmd.Dir != ctx.Folders.Source {
			t.Errorf("%s ran in %q, want the source folder", cmd.Tool, cmd.Dir)
		}
	}
}

func TestMakeFile(t *testing.T) {
	ctx := newContext(t, nil, nil)
	rec := &toolexec.Recorder{}
	ctx.Runner = rec

	m := NewMakeFile(ctx)
	m.Var("USE_SSL", "1")
	m.Jobs(2)
	if err := m.Configure(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Build(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Install(ctx); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"make -j2 USE_SSL=1",
		"make DESTDIR=" + ctx.Folders.Package + " PREFIX= USE_SSL=1 install",
	}
	if got := rec.Lines(); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestNewToolchain(t *testing.T) {
	ctx := newContext(t, map[string]string{
		"compiler":        "apple-clang",
		"arch":            "armv8",
		"build_type":      "Debug",
		"compiler.cppstd": "gnu17",
	}, libOptions(t, false))
	ctx.SetDependency(&recipe.DependencyInfo{
		Ref:           recipe.Reference{Name: "openssl", Version: "3.2.1"},
		PackageFolder: "/p/openssl",
		Link: &recipe.LinkDescriptor{
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
			Defines:     []string{"OPENSSL_API_COMPAT=0x10100000L"},
		},
	})

	tc := NewToolchain(ctx)
	wantArgs := []string{"--disable-shared", "--enable-static", "--with-pic"}
	if !slices.Equal(tc.ConfigureArgs, wantArgs) {
		t.Errorf("ConfigureArgs = %v, want %v", tc.ConfigureArgs, wantArgs)
	}
	for key, want := range map[string]string{
		"CFLAGS":          "-g -O0",
		"CXXFLAGS":        "-g -O0 -std=gnu++17",
		"CPPFLAGS":        "-I" + filepath.Join("/p/openssl", "include") + " -DOPENSSL_API_COMPAT=0x10100000L",
		"LDFLAGS":         "-arch arm64 -L" + filepath.Join("/p/openssl", "lib"),
		"PKG_CONFIG_PATH": ctx.Folders.Generators,
	} {
		if got := tc.Vars[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestToolchainShared(t *testing.T) {
	opts := libOptions(t, true)
	opts.RmSafe("fPIC")
	tc := NewToolchain(newContext(t, nil, opts))
	want := []string{"--enable-shared", "--disable-static"}
	if !slices.Equal(tc.ConfigureArgs, want) {
		t.Errorf("ConfigureArgs = %v, want %v", tc.ConfigureArgs, want)
	}
}

func TestToolchainGenerate(t *testing.T) {
	ctx := newContext(t, nil, nil)
	tc := NewToolchain(ctx)
	tc.Vars["CC"] = "it's-cc"
	plan := recipe.NewPlan(nil)
	if err := tc.Generate(ctx, plan); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(ctx.Folders.Generators, ToolchainFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `export CC='it'\''s-cc'`) {
		t.Errorf("script does not quote CC:\n%s", data)
	}
	if plan.Env["CFLAGS"] != "-O3 -DNDEBUG" {
		t.Errorf("plan CFLAGS = %q", plan.Env["CFLAGS"])
	}

	a := New(ctx)
	tc.ConfigureArgs = []string{"--enable-openssl"}
	tc.Apply(a)
	if got := a.ConfigureArgs(); !slices.Equal(got, []string{"--prefix=/", "--enable-openssl"}) {
		t.Errorf("ConfigureArgs = %v", got)
	}
}

func TestConfigureBuildInstallE2E(t *testing.T) {
	for _, bin := range []string{"make", "cc", "ar", "sh"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH", bin)
		}
	}

	absSource, err := filepath.Abs(filepath.Join("testdata", "project"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := newContext(t, nil, nil)
	ctx.Runner = toolexec.New(ctx.Logger)
	ctx.Stdout, ctx.Stderr = io.Discard, io.Discard
	ctx.Env["CUSTOM"] = "VAL"

	a := New(ctx)
	a.Source(absSource)
	a.Args("--enable-foo")

	if err := a.Configure(ctx); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Build(ctx); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := a.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(ctx.Folders.Build, "config.log"))
	if err != nil {
		t.Fatalf("read config.log: %v", err)
	}
	log := string(data)
	for _, want := range []string{"CUSTOM=VAL", "PREFIX=/", "--enable-foo"} {
		if !strings.Contains(log, want) {
			t.Errorf("config.log missing %q", want)
		}
	}

	for _, path := range []string{
		filepath.Join(ctx.Folders.Package, "lib", "libdummy.a"),
		filepath.Join(ctx.Folders.Package, "include", "dummy.h"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s", path)
		}
	}
}

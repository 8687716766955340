package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cppkg/internal/cache"
	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"
)

// fooRecipe records the hooks it runs.
type fooRecipe struct {
	calls *[]string
}

func newFoo() (fooRecipe, *[]string) {
	var calls []string
	return fooRecipe{calls: &calls}, &calls
}

func (r fooRecipe) called(step string) { *r.calls = append(*r.calls, step) }

func (fooRecipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{Name: "foo", License: "MIT"}
	return d.LibraryOptions().BoolOption("with_openssl", true)
}

func (fooRecipe) Data() (*recipe.Data, error) {
	return recipe.ParseData([]byte(`sources:
  "1.0":
    url: https://example.invalid/foo-1.0.tar.gz
  "1.1":
    url: https://example.invalid/foo-1.1.tar.gz
`))
}

func (r fooRecipe) ConfigOptions(ctx *recipe.Context) {
	r.called(StepConfigOptions)
	if ctx.IsWindows() {
		ctx.Options.RmSafe("fPIC")
	}
}

func (r fooRecipe) Configure(ctx *recipe.Context) {
	r.called(StepConfigure)
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
}

func (r fooRecipe) Requirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	r.called(StepRequirements)
	if ctx.Options.Bool("with_openssl") {
		reqs.Requires("openssl/3.0.0")
	}
}

func (r fooRecipe) BuildRequirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	r.called(StepBuildRequirements)
	reqs.ToolRequires("pkgconf/2.1.0")
}

func (r fooRecipe) Validate(ctx *recipe.Context) error {
	r.called(StepValidate)
	if ctx.Settings.Arch == recipe.Wasm {
		return recipe.Invalidf("foo does not support wasm")
	}
	return nil
}

func (r fooRecipe) Source(ctx *recipe.Context) error {
	r.called(StepSource)
	if err := os.MkdirAll(ctx.Folders.Source, 0755); err != nil {
		return err
	}
	return os.WriteFile(ctx.SourcePath("foo.c"), []byte("int foo;\n"), 0644)
}

func (r fooRecipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	r.called(StepGenerate)
	plan := recipe.NewPlan(fakeSystem{})
	plan.SetEnv("FOO_GENERATED", "1")
	return plan, nil
}

func (r fooRecipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	r.called(StepPackageInfo)
	info.Libs = []string{"foo"}
}

// fakeSystem drives make through the context and installs a static
// library and a license.
type fakeSystem struct{}

func (fakeSystem) Name() string { return "fake" }

func (fakeSystem) Configure(ctx *recipe.Context) error {
	return ctx.Run("sh", "configure")
}

func (fakeSystem) Build(ctx *recipe.Context, targets ...string) error {
	return ctx.Run("make", targets...)
}

func (fakeSystem) Install(ctx *recipe.Context) error {
	if err := ctx.Run("make", "install"); err != nil {
		return err
	}
	for name, data := range map[string]string{"lib/libfoo.a": "!<arch>\n", "licenses/LICENSE": "MIT\n"} {
		path := ctx.PackagePath(name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			return err
		}
	}
	return nil
}

var linux = map[string]string{
	"os":               "Linux",
	"arch":             "x86_64",
	"compiler":         "gcc",
	"compiler.version": "13",
	"build_type":       "Release",
}

func newRunner(t *testing.T) (*Runner, *toolexec.Recorder, *bytes.Buffer) {
	t.Helper()
	c := cache.New(t.TempDir())
	rec := &toolexec.Recorder{}
	var logs bytes.Buffer
	return &Runner{
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
		Tools:    rec,
		Resolver: &CacheResolver{Cache: c},
		Cache:    c,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}, rec, &logs
}

func noOpenSSL() map[string]recipe.Value {
	return map[string]recipe.Value{"with_openssl": recipe.False}
}

func TestRunOrder(t *testing.T) {
	r, rec, _ := newRunner(t)
	foo, calls := newFoo()

	res, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux, Options: noOpenSSL()})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	want := []string{
		StepConfigOptions, StepConfigure, StepRequirements, StepBuildRequirements,
		StepValidate, StepSource, StepGenerate, StepPackageInfo,
	}
	if !slices.Equal(*calls, want) {
		t.Errorf("hooks = %v, want %v", *calls, want)
	}
	if got := res.Ref().String(); got != "foo/1.1" {
		t.Errorf("Ref() = %q, want %q", got, "foo/1.1")
	}
	if res.System != "fake" {
		t.Errorf("System = %q, want %q", res.System, "fake")
	}
	if res.Cached {
		t.Error("first run reported Cached")
	}
	wantCmds := []string{"sh configure", "make", "make install"}
	if got := rec.Lines(); !slices.Equal(got, wantCmds) {
		t.Errorf("commands = %v, want %v", got, wantCmds)
	}
	for _, c := range rec.Commands() {
		if c.Env["FOO_GENERATED"] != "1" {
			t.Errorf("%s ran without the plan environment", c.Tool)
		}
		if c.Dir != res.Folders.Build {
			t.Errorf("%s ran in %s, want %s", c.Tool, c.Dir, res.Folders.Build)
		}
	}
	if !slices.Equal(res.Link.LibDirs, []string{"lib"}) {
		t.Errorf("LibDirs = %v, want [lib]", res.Link.LibDirs)
	}
	if _, ok := res.Durations[StepBuild]; !ok {
		t.Error("no duration recorded for build")
	}

	*calls = nil
	res, err = r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux, Options: noOpenSSL()})
	if err != nil {
		t.Fatalf("second Run() returned error: %v", err)
	}
	if !res.Cached {
		t.Error("second run was not served from the cache")
	}
	if slices.Contains(*calls, StepSource) {
		t.Errorf("cached run called source: %v", *calls)
	}
	if len(rec.Commands()) != 3 {
		t.Errorf("cached run ran tools: %v", rec.Lines())
	}
}

func TestRunForce(t *testing.T) {
	r, rec, _ := newRunner(t)
	foo, _ := newFoo()
	inv := Invocation{Recipe: foo, Version: "1.0", Settings: linux, Options: noOpenSSL()}
	if _, err := r.Run(context.Background(), inv); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	inv.Force = true
	res, err := r.Run(context.Background(), inv)
	if err != nil {
		t.Fatalf("forced Run() returned error: %v", err)
	}
	if res.Cached {
		t.Error("forced run was served from the cache")
	}
	if n := len(rec.Commands()); n != 6 {
		t.Errorf("ran %d commands, want 6", n)
	}
}

func TestOverrides(t *testing.T) {
	r, _, logs := newRunner(t)
	foo, _ := newFoo()

	_, err := r.Configure(context.Background(), Invocation{
		Recipe: foo, Settings: linux,
		Options: map[string]recipe.Value{"nope": recipe.True},
	})
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Configure() error = %v, want a configuration error", err)
	}
	if want := `option "nope" does not exist in foo`; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err, want)
	}

	_, err = r.Configure(context.Background(), Invocation{
		Recipe: foo, Settings: linux,
		Options: map[string]recipe.Value{"shared": "maybe"},
	})
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Configure() error = %v, want a configuration error", err)
	}

	windows := map[string]string{"os": "Windows", "arch": "x86_64", "compiler": "msvc", "compiler.version": "193"}
	c, err := r.Configure(context.Background(), Invocation{
		Recipe: foo, Settings: windows,
		Options: map[string]recipe.Value{"fPIC": recipe.True},
	})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c.Context.Options.Has("fPIC") {
		t.Error("fPIC survived on Windows")
	}
	if !strings.Contains(logs.String(), `option \"fPIC\" was removed`) {
		t.Errorf("no warning about the ignored override in:\n%s", logs)
	}
}

func TestSharedRemovesFPIC(t *testing.T) {
	r, _, _ := newRunner(t)
	foo, _ := newFoo()
	c, err := r.Configure(context.Background(), Invocation{
		Recipe: foo, Settings: linux,
		Options: map[string]recipe.Value{"shared": recipe.True},
	})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c.Context.Options.Has("fPIC") {
		t.Error("fPIC survived a shared build")
	}
	if got := c.Context.Options.Canonical(); strings.Contains(got, "fPIC") {
		t.Errorf("Canonical() = %q, want no fPIC", got)
	}
}

func TestRequirements(t *testing.T) {
	r, _, logs := newRunner(t)
	foo, _ := newFoo()

	c, err := r.Configure(context.Background(), Invocation{Recipe: foo, Settings: linux})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	want := []string{"openssl/3.0.0", "pkgconf/2.1.0"}
	if got := c.Requirements.Refs(); !slices.Equal(got, want) {
		t.Errorf("Refs() = %v, want %v", got, want)
	}
	if !strings.Contains(logs.String(), "using the tool from PATH") {
		t.Errorf("no warning about the unbuilt tool in:\n%s", logs)
	}

	c2, err := r.Configure(context.Background(), Invocation{Recipe: foo, Settings: linux})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c.PackageID != c2.PackageID {
		t.Errorf("PackageID changed between identical runs: %s, %s", c.PackageID, c2.PackageID)
	}
	if c.InvocationID == c2.InvocationID {
		t.Error("InvocationID reused")
	}

	c3, err := r.Configure(context.Background(), Invocation{Recipe: foo, Settings: linux, Options: noOpenSSL()})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c3.Requirements.Has("openssl") {
		t.Error("with_openssl=False still requires openssl")
	}
	if c3.PackageID == c.PackageID {
		t.Error("different options produced the same PackageID")
	}
}

func TestValidateBeforeSource(t *testing.T) {
	r, rec, _ := newRunner(t)
	foo, calls := newFoo()
	settings := map[string]string{"os": "Emscripten", "arch": "wasm", "compiler": "clang"}

	_, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: settings, Options: noOpenSSL()})
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Run() error = %v, want a configuration error", err)
	}
	var serr *StepError
	if !errors.As(err, &serr) || serr.Step != StepValidate {
		t.Errorf("error = %v, want a validate StepError", err)
	}
	if slices.Contains(*calls, StepSource) {
		t.Errorf("source ran after a failed validate: %v", *calls)
	}
	if len(rec.Commands()) != 0 {
		t.Errorf("tools ran after a failed validate: %v", rec.Lines())
	}
}

func TestUnknownVersion(t *testing.T) {
	r, _, _ := newRunner(t)
	foo, _ := newFoo()
	_, err := r.Configure(context.Background(), Invocation{Recipe: foo, Version: "9.9", Settings: linux})
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Configure() error = %v, want a configuration error", err)
	}
	if !strings.Contains(err.Error(), "known versions: [1.1 1.0]") {
		t.Errorf("error = %q, want the known versions", err)
	}
}

func TestMissingDependency(t *testing.T) {
	r, _, _ := newRunner(t)
	foo, calls := newFoo()

	_, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux})
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Run() error = %v, want a configuration error", err)
	}
	if want := "missing dependency package openssl/3.0.0"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err, want)
	}
	if slices.Contains(*calls, StepSource) {
		t.Errorf("source ran with a missing dependency: %v", *calls)
	}
}

func TestDependencyFromCache(t *testing.T) {
	r, _, _ := newRunner(t)
	ssl := recipe.Reference{Name: "openssl", Version: "3.0.0"}
	if err := os.MkdirAll(r.Cache.Folders(ssl, "abc").Package, 0755); err != nil {
		t.Fatal(err)
	}
	err := r.Cache.Put("openssl", &cache.Entry{
		Version:   "3.0.0",
		PackageID: "abc",
		Settings:  map[string]string{"os": "Linux", "arch": "x86_64", "build_type": "Release"},
		Options:   map[string]string{"shared": "False"},
		Link:      &recipe.LinkDescriptor{Libs: []string{"ssl", "crypto"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	foo, _ := newFoo()

	res, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	dep, err := res.Context.Dependency("openssl")
	if err != nil {
		t.Fatalf("Dependency() returned error: %v", err)
	}
	if got := dep.Option("shared").OrElse(""); got != recipe.False {
		t.Errorf("openssl shared = %q, want False", got)
	}
	if !slices.Equal(dep.Link.Libs, []string{"ssl", "crypto"}) {
		t.Errorf("openssl libs = %v", dep.Link.Libs)
	}
}

func TestToolFailure(t *testing.T) {
	r, rec, _ := newRunner(t)
	rec.Fail = map[string]int{"make": 2}
	foo, calls := newFoo()

	_, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux, Options: noOpenSSL()})
	var terr *recipe.ToolInvocationError
	if !errors.As(err, &terr) {
		t.Fatalf("Run() error = %v, want *ToolInvocationError", err)
	}
	if terr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", terr.ExitCode)
	}
	var serr *StepError
	if !errors.As(err, &serr) || serr.Step != StepBuild {
		t.Errorf("error = %v, want a build StepError", err)
	}
	if slices.Contains(*calls, StepPackageInfo) {
		t.Error("package_info ran after a failed build")
	}
	entries, err := r.Cache.Entries("foo")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed build was cached: %v", entries)
	}
}

func TestDryRun(t *testing.T) {
	r, rec, _ := newRunner(t)
	r.DryRun = true
	foo, calls := newFoo()

	res, err := r.Run(context.Background(), Invocation{Recipe: foo, Settings: linux, Options: noOpenSSL()})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if slices.Contains(*calls, StepSource) {
		t.Error("dry run called source")
	}
	if len(rec.Commands()) != 3 {
		t.Errorf("commands = %v, want 3", rec.Lines())
	}
	if res.Cached {
		t.Error("dry run reported Cached")
	}
	entries, err := r.Cache.Entries("foo")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Error("dry run wrote the cache")
	}
}

func TestCheckPackage(t *testing.T) {
	root := t.TempDir()
	info := &recipe.LinkDescriptor{Libs: []string{"foo"}}
	err := CheckPackage(root, info)
	var aerr *recipe.ArtifactMissingError
	if !errors.As(err, &aerr) || aerr.What != "library" {
		t.Fatalf("CheckPackage() error = %v, want a missing library", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "libfoo.so.1"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	err = CheckPackage(root, &recipe.LinkDescriptor{Libs: []string{"foo"}})
	if !errors.As(err, &aerr) || aerr.What != "license" {
		t.Fatalf("CheckPackage() error = %v, want a missing license", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "licenses"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "licenses", "COPYING"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	info = &recipe.LinkDescriptor{Libs: []string{"foo"}}
	if err := CheckPackage(root, info); err != nil {
		t.Fatalf("CheckPackage() returned error: %v", err)
	}
	if !slices.Equal(info.LibDirs, []string{"lib"}) || len(info.IncludeDirs) != 0 {
		t.Errorf("defaults = lib %v include %v", info.LibDirs, info.IncludeDirs)
	}
}

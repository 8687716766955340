package librhash

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cppkg/internal/lifecycle"
	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/recipes/internal/recipetest"
)

var noOpenSSL = map[string]recipe.Value{"with_openssl": recipe.False}

func TestRequirements(t *testing.T) {
	h := recipetest.New(t)
	c, err := h.Configure(New(), recipetest.Linux, nil)
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if got := c.Requirements.Refs(); !slices.Equal(got, []string{"openssl/1.1.1q"}) {
		t.Errorf("requirements = %v", got)
	}

	c, err = h.Configure(New(), recipetest.Linux, noOpenSSL)
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c.Requirements.Has("openssl") {
		t.Error("with_openssl=False still requires openssl")
	}
}

func TestMSVCUnsupported(t *testing.T) {
	h := recipetest.New(t)
	_, err := h.Configure(New(), recipetest.Windows, noOpenSSL)
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("Configure() error = %v, want an invalid configuration", err)
	}
}

func TestMinGW(t *testing.T) {
	h := recipetest.New(t)
	mingw := recipetest.With(recipetest.Windows, "compiler", "gcc", "compiler.version", "13")
	c, err := h.Configure(New(), mingw, noOpenSSL)
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if c.Context.Options.Has("fPIC") {
		t.Error("fPIC exists on Windows")
	}
	if !c.Requirements.Has("msys2") {
		t.Errorf("requirements = %v, want msys2", c.Requirements.Refs())
	}
}

func TestBuild(t *testing.T) {
	h := recipetest.New(t)
	h.Sources["configure"] = "#!/bin/sh\n"
	h.Sources["COPYING"] = "MIT\n"
	opts := map[string]recipe.Value{"with_openssl": recipe.False, "shared": recipe.True}
	pkg := h.PackageFolder(New(), recipetest.Linux, opts)
	install := recipetest.InstallOn(pkg, "make", "install",
		"lib/librhash.so.1", "bin/rhash", "etc/rhashrc", "share/man/rhash.1")
	headers := recipetest.InstallOn(pkg, "make", "install-lib-headers", "include/rhash.h")
	h.Tools.Hook = func(c recipe.Command) error {
		if err := install(c); err != nil {
			return err
		}
		return headers(c)
	}

	res, err := h.Run(New(), recipetest.Linux, opts)
	if err != nil {
		t.Fatalf("Run() returned error: %v\n%s", err, h.Logs)
	}
	cmds := h.Tools.Commands()
	if len(cmds) != 5 {
		t.Fatalf("commands = %q, want configure, make and three install targets", h.Tools.Lines())
	}
	configure := cmds[0]
	if configure.Tool != filepath.Join(res.Folders.Source, "configure") || configure.Dir != res.Folders.Source {
		t.Errorf("configure = %+v, want an in-source run", configure)
	}
	for _, want := range []string{"--prefix=" + pkg, "--disable-openssl", "--disable-gettext", "--libdir=" + filepath.Join(pkg, "lib")} {
		if !slices.Contains(configure.Args, want) {
			t.Errorf("configure args %q lack %s", configure.Args, want)
		}
	}
	soLink := cmds[4]
	if soLink.Dir != filepath.Join(res.Folders.Source, "librhash") || !slices.Contains(soLink.Args, "install-so-link") {
		t.Errorf("last command = %+v, want install-so-link in librhash", soLink)
	}
	for _, c := range cmds {
		if slices.ContainsFunc(c.Args, func(a string) bool { return strings.HasPrefix(a, "DESTDIR=") }) {
			t.Errorf("%s passes DESTDIR to a prefix install", strings.Join(c.Args, " "))
		}
	}
	for _, dir := range []string{"bin", "etc", "share"} {
		if _, err := os.Stat(filepath.Join(pkg, dir)); err == nil {
			t.Errorf("%s was not removed", dir)
		}
	}
	if !slices.Equal(res.Link.Libs, []string{"rhash"}) {
		t.Errorf("Libs = %v", res.Link.Libs)
	}
}

// configureOutput mimics the in-source configure script: it fails on a tree
// configured before and leaves config.mak behind.
func configureOutput(c recipe.Command) error {
	if filepath.Base(c.Tool) != "configure" {
		return nil
	}
	mak := filepath.Join(c.Dir, "config.mak")
	if _, err := os.Stat(mak); err == nil {
		return errors.New("source tree already configured")
	}
	return os.WriteFile(mak, []byte(strings.Join(c.Args, " ")), 0644)
}

func TestBuildStaticThenShared(t *testing.T) {
	h := recipetest.New(t)
	h.Sources["configure"] = "#!/bin/sh\n"
	h.Sources["COPYING"] = "MIT\n"
	run := func(opts map[string]recipe.Value, lib string) *lifecycle.Result {
		t.Helper()
		pkg := h.PackageFolder(New(), recipetest.Linux, opts)
		install := recipetest.InstallOn(pkg, "make", "install", lib)
		headers := recipetest.InstallOn(pkg, "make", "install-lib-headers", "include/rhash.h")
		h.Tools.Hook = func(c recipe.Command) error {
			return errors.Join(configureOutput(c), install(c), headers(c))
		}
		res, err := h.Run(New(), recipetest.Linux, opts)
		if err != nil {
			t.Fatalf("Run(%v) returned error: %v\n%s", opts, err, h.Logs)
		}
		return res
	}

	first := run(noOpenSSL, "lib/librhash.a")
	second := run(map[string]recipe.Value{"with_openssl": recipe.False, "shared": recipe.True}, "lib/librhash.so.1")
	if first.Folders.Source == second.Folders.Source {
		t.Fatalf("static and shared builds share %s", first.Folders.Source)
	}
	mak, err := os.ReadFile(filepath.Join(second.Folders.Source, "config.mak"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mak), "--prefix="+second.Folders.Package) {
		t.Errorf("shared tree configured for %s", mak)
	}
}

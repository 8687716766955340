// Package librhash is the recipe of LibRHash, the hashing library behind
// the RHash utility. Its configure script is hand-written: it builds in the
// source tree and takes the install directories on the command line.
package librhash

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/autotools"
	"github.com/goplus/cppkg/x/files"
)

//go:embed sources.yml
var sources []byte

// Recipe builds LibRHash.
type Recipe struct{}

// New returns the librhash recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{
		Name:        "librhash",
		Description: "Great utility for computing hash sums",
		License:     "MIT",
		Homepage:    "http://rhash.sourceforge.net/",
		Topics:      []string{"rhash", "hash", "checksum"},
		PackageType: recipe.Library,
	}
	return d.LibraryOptions().BoolOption("with_openssl", true)
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

func (Recipe) ConfigOptions(ctx *recipe.Context) {
	if ctx.IsWindows() {
		ctx.Options.RmSafe("fPIC")
	}
}

func (Recipe) Configure(ctx *recipe.Context) {
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
	ctx.Settings.RmSafe(recipe.KeyCppStd)
	ctx.Settings.RmSafe(recipe.KeyLibCxx)
}

func (Recipe) Requirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	if ctx.Options.Bool("with_openssl") {
		reqs.Requires("openssl/1.1.1q")
	}
}

func (Recipe) BuildRequirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	if ctx.IsWindows() {
		reqs.ToolRequires("msys2/cci.latest")
	}
}

func (Recipe) Validate(ctx *recipe.Context) error {
	if ctx.Settings.Compiler.Name == recipe.MSVC {
		return recipe.Invalidf("%s cannot be built with msvc", ctx.Ref.Name)
	}
	return nil
}

// ConfigureArgs returns the arguments of the custom configure script. It
// reads neither CPPFLAGS nor --bindir=${prefix}/bin style arguments, so
// everything is passed explicitly.
func ConfigureArgs(ctx *recipe.Context, vars map[string]string) []string {
	openssl := "--disable-openssl"
	if ctx.Options.Bool("with_openssl") {
		openssl = "--enable-openssl"
	}
	cflags := strings.TrimSpace(vars["CFLAGS"] + " " + vars["CPPFLAGS"])
	return []string{
		openssl,
		"--disable-gettext",
		"--bindir=" + ctx.PackagePath("bin"),
		"--libdir=" + ctx.PackagePath("lib"),
		"--extra-cflags=" + cflags,
		"--extra-ldflags=" + vars["LDFLAGS"],
	}
}

func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	tc := autotools.NewToolchain(ctx)
	a := autotools.New(ctx)
	a.InSource()
	a.Prefix(ctx.Folders.Package)
	a.Args(ConfigureArgs(ctx, tc.Vars)...)

	plan := recipe.NewPlan(a)
	if err := tc.Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	a, ok := plan.System.(*autotools.Autotools)
	if !ok {
		return fmt.Errorf("unexpected build system %s", plan.SystemName())
	}
	if _, err := files.Copy("COPYING", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	if err := a.Install(ctx); err != nil {
		return err
	}
	if err := a.Make(ctx, "", "install-lib-headers"); err != nil {
		return err
	}
	if ctx.Shared() {
		if err := a.Make(ctx, "librhash", "install-so-link"); err != nil {
			return err
		}
	}
	for _, dir := range []string{"bin", "etc", "share"} {
		if err := files.Rmdir(ctx.PackagePath(dir)); err != nil {
			return err
		}
	}
	return nil
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.SetProperty(recipe.PropCMakeFileName, "LibRHash")
	info.SetProperty(recipe.PropCMakeTargetName, "LibRHash::LibRHash")
	info.SetProperty(recipe.PropPkgConfigName, "librhash")
	info.Libs = []string{"rhash"}
}

// Package hiredis is the recipe of hiredis, a minimalistic C client library
// for Redis. It builds with the project's own Makefile.
package hiredis

import (
	_ "embed"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/autotools"
	"github.com/goplus/cppkg/x/files"
)

//go:embed sources.yml
var sources []byte

// Recipe builds hiredis.
type Recipe struct{}

// New returns the hiredis recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{
		Name:        "hiredis",
		Description: "Hiredis is a minimalistic C client library for the Redis database.",
		License:     "BSD-3-Clause",
		Homepage:    "https://github.com/redis/hiredis",
		Topics:      []string{"redis", "client", "database"},
		PackageType: recipe.Library,
	}
	return d.LibraryOptions()
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

func (Recipe) Configure(ctx *recipe.Context) {
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
	ctx.Settings.RmSafe(recipe.KeyCppStd)
	ctx.Settings.RmSafe(recipe.KeyLibCxx)
}

func (Recipe) Validate(ctx *recipe.Context) error {
	if ctx.IsWindows() {
		return recipe.Invalidf("hiredis %s is not supported on Windows", ctx.Ref.Version)
	}
	return nil
}

func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	plan := recipe.NewPlan(autotools.NewMakeFile(ctx))
	if err := autotools.NewToolchain(ctx).Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (Recipe) Build(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if !ctx.Shared() {
		// the Makefile forces -fPIC on the static library too
		if err := files.ReplaceInFile(ctx.SourcePath("Makefile"), "-fPIC ", "", true); err != nil {
			return err
		}
	}
	return plan.System.Build(ctx)
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if _, err := files.Copy("COPYING", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	if err := plan.System.Install(ctx); err != nil {
		return err
	}
	lib := ctx.PackagePath("lib")
	if ctx.Shared() {
		if err := files.Rm("*.a", lib, false); err != nil {
			return err
		}
	} else {
		for _, pattern := range []string{"*.so*", "*.dylib"} {
			if err := files.Rm(pattern, lib, false); err != nil {
				return err
			}
		}
	}
	return files.Rmdir(ctx.PackagePath("lib", "pkgconfig"))
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.SetProperty(recipe.PropPkgConfigName, "hiredis")
	info.Libs = []string{"hiredis"}
}

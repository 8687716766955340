// Package atspi2core is the recipe of at-spi2-core, the GNOME Assistive
// Technology Service Provider Interface, built with Meson.
package atspi2core

import (
	_ "embed"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
	"github.com/goplus/cppkg/x/meson"
	"github.com/goplus/cppkg/x/pkgconfig"
	"github.com/goplus/cppkg/x/ver"
)

//go:embed sources.yml
var sources []byte

// Recipe builds at-spi2-core.
type Recipe struct{}

// New returns the at-spi2-core recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{
		Name: "at-spi2-core",
		Description: "It provides a Service Provider Interface for the Assistive Technologies available on the GNOME" +
			" platform and a library against which applications can be linked",
		License:     "LGPL-2.1-or-later",
		Homepage:    "https://gitlab.gnome.org/GNOME/at-spi2-core/",
		Topics:      []string{"atk", "accessibility"},
		PackageType: recipe.Library,
		Deprecated:  "Consumers should migrate to at-spi2-core/[>=2.45.1], which includes atk and at-spi2-atk",
	}
	return d.LibraryOptions().BoolOption("with_x11", false)
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

func (Recipe) Configure(ctx *recipe.Context) {
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
	ctx.Settings.RmSafe(recipe.KeyLibCxx)
	ctx.Settings.RmSafe(recipe.KeyCppStd)
}

func (Recipe) Requirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	reqs.Requires("glib/2.77.0")
	if ctx.Options.Bool("with_x11") {
		reqs.Requires("xorg/system")
	}
	reqs.Requires("dbus/1.15.6")
}

func (Recipe) BuildRequirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	reqs.ToolRequires("meson/1.2.0")
	reqs.ToolRequires("pkgconf/1.9.5")
}

func (Recipe) Validate(ctx *recipe.Context) error {
	if ctx.Shared() && !ctx.DependencyOption("glib", "shared").OrElse(recipe.False).Truthy() {
		return recipe.Invalidf("linking a shared library against static glib can cause unexpected behaviour")
	}
	if !ctx.Settings.OS.IsUnixLike() {
		return recipe.Invalidf("only Linux and FreeBSD are supported by %s", ctx.Ref.Name)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Generate writes the native file and the .pc files of the dependencies
// and returns a plan carrying the single Meson object that build and
// package share.
func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	tc := meson.NewToolchain(ctx)
	tc.BuiltinOptions["localedir"] = "res"
	tc.ProjectOptions["introspection"] = "no"
	tc.ProjectOptions["docs"] = "false"
	tc.ProjectOptions["x11"] = yesNo(ctx.Options.Bool("with_x11"))

	m := meson.New(ctx)
	m.Args("--wrap-mode=nofallback")
	plan := recipe.NewPlan(m)
	if err := tc.Generate(ctx, plan); err != nil {
		return nil, err
	}
	tc.Apply(ctx, m)

	deps, err := pkgconfig.NewDeps(ctx)
	if err != nil {
		return nil, err
	}
	if err := deps.Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (Recipe) Build(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if ver.AtLeast(ctx.Ref.Version, "2.42.0") {
		err := files.ReplaceInFile(ctx.SourcePath("bus", "meson.build"),
			"if x11_dep.found()", "if x11_option == 'yes'", true)
		if err != nil {
			return err
		}
	}
	return recipe.DefaultBuild(ctx, plan)
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if _, err := files.Copy("COPYING", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	if err := plan.System.Install(ctx); err != nil {
		return err
	}
	for _, dir := range []string{ctx.PackagePath("lib", "pkgconfig"), ctx.PackagePath("etc")} {
		if err := files.Rmdir(dir); err != nil {
			return err
		}
	}
	return nil
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.Libs = []string{"atspi"}
	info.IncludeDirs = []string{"include/at-spi-2.0"}
	info.SetProperty(recipe.PropPkgConfigName, "atspi-2")
}

// Package libsass is the recipe of libsass, a C/C++ Sass compiler. It builds
// the bundled Visual Studio solution with msvc and autotools elsewhere.
package libsass

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/autotools"
	"github.com/goplus/cppkg/x/files"
	"github.com/goplus/cppkg/x/msbuild"
)

//go:embed sources.yml
var sources []byte

// Solution and Project are the Visual Studio files of the source tree.
var (
	Solution = filepath.Join("win", "libsass.sln")
	Project  = filepath.Join("win", "libsass.vcxproj")
)

// Recipe builds libsass.
type Recipe struct{}

// New returns the libsass recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{
		Name:        "libsass",
		Description: "A C/C++ implementation of a Sass compiler",
		License:     "MIT",
		Homepage:    "https://sass-lang.com/libsass",
		Topics:      []string{"sass", "compiler"},
		PackageType: recipe.Library,
	}
	return d.LibraryOptions()
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

func isMSVC(ctx *recipe.Context) bool {
	return ctx.Settings.Compiler.Name == recipe.MSVC
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
}

func (Recipe) BuildRequirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	if !ctx.IsWindows() {
		reqs.ToolRequires("libtool/2.4.7")
	}
}

func (Recipe) Validate(ctx *recipe.Context) error {
	if ctx.IsWindows() && !isMSVC(ctx) {
		return recipe.Invalidf("%s on Windows builds with msvc only, not %s", ctx.Ref, ctx.Settings.Compiler.Name)
	}
	return nil
}

// platform maps the arch to the platforms of libsass.sln, which names
// x86_64 Win64.
func platform(arch recipe.Arch) string {
	if arch == recipe.X86_64 {
		return "Win64"
	}
	return msbuild.Platform(arch)
}

func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	if isMSVC(ctx) {
		m := msbuild.New(ctx, Solution)
		m.Platform(platform(ctx.Settings.Arch))
		static := "true"
		if ctx.Shared() {
			static = ""
		}
		m.Property("LIBSASS_STATIC_LIB", static)
		m.Property("WholeProgramOptimization", "false")
		plan := recipe.NewPlan(m)
		if err := msbuild.NewToolchain(ctx).Generate(ctx, plan); err != nil {
			return nil, err
		}
		return plan, nil
	}

	tc := autotools.NewToolchain(ctx)
	a := autotools.New(ctx)
	a.InSource()
	a.Autoreconf()
	if ctx.Shared() {
		a.Args("--disable-tests", "--enable-shared", "--disable-static")
	} else {
		a.Args("--disable-tests", "--enable-static", "--disable-shared")
	}
	plan := recipe.NewPlan(a)
	if err := tc.Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (Recipe) Build(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if isMSVC(ctx) {
		if err := msbuild.NewToolchain(ctx).Inject(ctx, ctx.SourcePath(Project)); err != nil {
			return err
		}
		return plan.System.Build(ctx)
	}
	// configure.ac reads the version from this file outside a git checkout
	if err := files.Save(ctx.SourcePath("VERSION"), ctx.Ref.Version); err != nil {
		return err
	}
	return recipe.DefaultBuild(ctx, plan)
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if _, err := files.Copy("LICENSE", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	if isMSVC(ctx) {
		if _, err := files.Copy("*.h", ctx.SourcePath("include"), ctx.PackagePath("include")); err != nil {
			return err
		}
		return plan.System.Install(ctx)
	}
	if err := plan.System.Install(ctx); err != nil {
		return err
	}
	if err := files.Rmdir(ctx.PackagePath("lib", "pkgconfig")); err != nil {
		return err
	}
	return files.Rm("*.la", ctx.Folders.Package, true)
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.SetProperty(recipe.PropPkgConfigName, "libsass")
	if isMSVC(ctx) {
		info.Libs = []string{"libsass"}
		return
	}
	info.Libs = []string{"sass"}
	if ctx.Settings.OS == recipe.Linux || ctx.Settings.OS == recipe.FreeBSD {
		info.SystemLibs = append(info.SystemLibs, "dl", "m")
	}
	if lib := stdCppLibrary(ctx); lib != "" && !ctx.Shared() {
		info.SystemLibs = append(info.SystemLibs, lib)
	}
}

// stdCppLibrary returns the C++ runtime a static libsass must pull in.
func stdCppLibrary(ctx *recipe.Context) string {
	libcxx := ctx.Settings.Compiler.LibCxx.OrElse("")
	switch {
	case strings.HasPrefix(libcxx, "libstdc++"):
		return "stdc++"
	case libcxx == "libc++":
		return "c++"
	}
	return ""
}

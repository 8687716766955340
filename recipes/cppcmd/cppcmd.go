// Package cppcmd is the recipe of cppcmd, a header-only C++17 command
// interpreter.
package cppcmd

import (
	_ "embed"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/cmake"
	"github.com/goplus/cppkg/x/files"
)

//go:embed sources.yml
var sources []byte

const minCppStd = "17"

// minimumCompilers are the first compiler versions with usable C++17.
var minimumCompilers = recipe.MinimumVersions{
	recipe.MSVC:       "191",
	recipe.GCC:        "8",
	recipe.Clang:      "7",
	recipe.AppleClang: "10.2",
}

// Recipe packages cppcmd.
type Recipe struct{}

// New returns the cppcmd recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	return &recipe.Descriptor{
		Name:        "cppcmd",
		Description: "Simple cpp command interpreter header-only library",
		License:     "MIT",
		Homepage:    "https://github.com/remysalim/cppcmd",
		Topics:      []string{"header-only", "interpreter", "cpp"},
		PackageType: recipe.HeaderLibrary,
	}
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

func (Recipe) Validate(ctx *recipe.Context) error {
	return ctx.CheckCompiler(minCppStd, minimumCompilers)
}

func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	tc := cmake.NewToolchain(ctx)
	tc.Variables["BUILD_TESTS"] = "OFF"
	c := cmake.New(ctx)
	plan := recipe.NewPlan(c)
	if err := tc.Generate(ctx, plan); err != nil {
		return nil, err
	}
	tc.Apply(ctx, c)
	return plan, nil
}

// Build only configures: there is nothing to compile.
func (Recipe) Build(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	return plan.System.Configure(ctx)
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if _, err := files.Copy("LICENSE", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	return plan.System.Install(ctx)
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.BinDirs = []string{}
	info.LibDirs = []string{}
}

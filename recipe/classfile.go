package recipe

import (
	"github.com/qiniu/x/gsh"
)

const GopPackage = true

// -----------------------------------------------------------------------------

// RecipeF is the classfile form of a recipe, written as <Name>_recipe.gox.
// Metadata is declared at the top level of the file and hooks are
// registered with the On* methods. Hooks without an error result report
// failures through ctx.AddErr.
type RecipeF struct {
	gsh.App

	desc   Descriptor
	data   Data
	folder string

	fOnConfigOptions     func(ctx *Context)
	fOnConfigure         func(ctx *Context)
	fOnRequirements      func(ctx *Context, reqs *Requirements)
	fOnBuildRequirements func(ctx *Context, reqs *Requirements)
	fOnValidate          func(ctx *Context)
	fOnSource            func(ctx *Context)
	fOnGenerate          func(ctx *Context, plan *BuildPlan)
	fOnBuild             func(ctx *Context, plan *BuildPlan)
	fOnPackage           func(ctx *Context, plan *BuildPlan)
	fOnPackageInfo       func(ctx *Context, info *LinkDescriptor)
}

func (p *RecipeF) app() *gsh.App {
	return &p.App
}

// Name sets the package name.
func (p *RecipeF) Name(name string) {
	p.desc.Name = name
}

func (p *RecipeF) Description(s string) {
	p.desc.Description = s
}

func (p *RecipeF) License(s string) {
	p.desc.License = s
}

func (p *RecipeF) Homepage(s string) {
	p.desc.Homepage = s
}

func (p *RecipeF) Topics(topics ...string) {
	p.desc.Topics = append(p.desc.Topics, topics...)
}

func (p *RecipeF) PackageType(t string) {
	p.desc.PackageType = PackageType(t)
}

// Option declares an option. Values are written as strings, "True" and
// "False" for switches.
func (p *RecipeF) Option(name, def string, allowed ...string) {
	vals := make([]Value, len(allowed))
	for i, a := range allowed {
		vals[i] = Value(a)
	}
	p.desc.Option(name, Value(def), vals...)
}

// BoolOption declares a True/False option.
func (p *RecipeF) BoolOption(name string, def bool) {
	p.desc.BoolOption(name, def)
}

// LibraryOptions declares shared and fPIC.
func (p *RecipeF) LibraryOptions() {
	p.desc.LibraryOptions()
}

// Source declares where version can be downloaded from.
func (p *RecipeF) Source(version, url, sha256 string) {
	if p.data.Sources == nil {
		p.data.Sources = make(map[string]SourceEntry)
	}
	p.data.Sources[version] = SourceEntry{URL: URLs{url}, SHA256: sha256, StripRoot: true}
}

// Patch declares a patch file, relative to the recipe folder, for version.
func (p *RecipeF) Patch(version, file, description string) {
	if p.data.Patches == nil {
		p.data.Patches = make(map[string][]PatchEntry)
	}
	p.data.Patches[version] = append(p.data.Patches[version], PatchEntry{File: file, Description: description})
}

// -----------------------------------------------------------------------------

func (p *RecipeF) OnConfigOptions(f func(ctx *Context)) {
	p.fOnConfigOptions = f
}

func (p *RecipeF) OnConfigure(f func(ctx *Context)) {
	p.fOnConfigure = f
}

// OnRequirements event declares the link dependencies of the package.
func (p *RecipeF) OnRequirements(f func(ctx *Context, reqs *Requirements)) {
	p.fOnRequirements = f
}

// OnBuildRequirements event declares the tools the build needs.
func (p *RecipeF) OnBuildRequirements(f func(ctx *Context, reqs *Requirements)) {
	p.fOnBuildRequirements = f
}

// OnValidate event rejects unsupported configurations with ctx.AddErr.
func (p *RecipeF) OnValidate(f func(ctx *Context)) {
	p.fOnValidate = f
}

func (p *RecipeF) OnSource(f func(ctx *Context)) {
	p.fOnSource = f
}

// OnGenerate event fills the build plan, usually by setting plan.System.
func (p *RecipeF) OnGenerate(f func(ctx *Context, plan *BuildPlan)) {
	p.fOnGenerate = f
}

func (p *RecipeF) OnBuild(f func(ctx *Context, plan *BuildPlan)) {
	p.fOnBuild = f
}

func (p *RecipeF) OnPackage(f func(ctx *Context, plan *BuildPlan)) {
	p.fOnPackage = f
}

// OnPackageInfo event describes how consumers link against the package.
func (p *RecipeF) OnPackageInfo(f func(ctx *Context, info *LinkDescriptor)) {
	p.fOnPackageInfo = f
}

// SetFolder records the folder the classfile was loaded from.
func (p *RecipeF) SetFolder(dir string) {
	p.folder = dir
}

// Recipe returns the recipe the classfile declared. Call it after the
// classfile's Main has run.
func (p *RecipeF) Recipe() Recipe {
	return &classRecipe{f: p}
}

// -----------------------------------------------------------------------------

// classRecipe adapts RecipeF to the hook interfaces.
type classRecipe struct {
	f *RecipeF
}

func (r *classRecipe) Descriptor() *Descriptor {
	return &r.f.desc
}

func (r *classRecipe) Data() (*Data, error) {
	return &r.f.data, nil
}

func (r *classRecipe) Folder() string {
	return r.f.folder
}

func (r *classRecipe) HasHook(step string) bool {
	switch step {
	case "source":
		return r.f.fOnSource != nil
	case "build":
		return r.f.fOnBuild != nil
	case "package":
		return r.f.fOnPackage != nil
	}
	return true
}

func (r *classRecipe) ConfigOptions(ctx *Context) {
	if r.f.fOnConfigOptions != nil {
		r.f.fOnConfigOptions(ctx)
	}
}

func (r *classRecipe) Configure(ctx *Context) {
	if r.f.fOnConfigure != nil {
		r.f.fOnConfigure(ctx)
	}
}

func (r *classRecipe) Requirements(ctx *Context, reqs *Requirements) {
	if r.f.fOnRequirements != nil {
		r.f.fOnRequirements(ctx, reqs)
	}
}

func (r *classRecipe) BuildRequirements(ctx *Context, reqs *Requirements) {
	if r.f.fOnBuildRequirements != nil {
		r.f.fOnBuildRequirements(ctx, reqs)
	}
}

func (r *classRecipe) Validate(ctx *Context) error {
	if r.f.fOnValidate != nil {
		r.f.fOnValidate(ctx)
	}
	return ctx.TakeErr()
}

func (r *classRecipe) Source(ctx *Context) error {
	if r.f.fOnSource != nil {
		r.f.fOnSource(ctx)
	}
	return ctx.TakeErr()
}

func (r *classRecipe) Generate(ctx *Context) (*BuildPlan, error) {
	plan := NewPlan(nil)
	if r.f.fOnGenerate != nil {
		r.f.fOnGenerate(ctx, plan)
	}
	return plan, ctx.TakeErr()
}

func (r *classRecipe) Build(ctx *Context, plan *BuildPlan) error {
	if r.f.fOnBuild == nil {
		return DefaultBuild(ctx, plan)
	}
	r.f.fOnBuild(ctx, plan)
	return ctx.TakeErr()
}

func (r *classRecipe) Package(ctx *Context, plan *BuildPlan) error {
	if r.f.fOnPackage == nil {
		return DefaultPackage(ctx, plan)
	}
	r.f.fOnPackage(ctx, plan)
	return ctx.TakeErr()
}

func (r *classRecipe) PackageInfo(ctx *Context, info *LinkDescriptor) {
	if r.f.fOnPackageInfo != nil {
		r.f.fOnPackageInfo(ctx, info)
	}
}

// -----------------------------------------------------------------------------

// Gopt_RecipeF_Main is main entry of this classfile.
func Gopt_RecipeF_Main(this interface {
	app() *gsh.App
	MainEntry()
}) {
	this.MainEntry()
	gsh.InitApp(this.app())
}

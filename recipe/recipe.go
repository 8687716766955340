// Package recipe defines C/C++ package recipes: a descriptor plus optional
// lifecycle hooks that a runner calls in a fixed order:
//
//	config_options, configure, requirements, build_requirements, validate,
//	source, generate, build, package, package_info
//
// A recipe implements only the hooks it needs; every hook is its own
// interface.
package recipe

// Recipe is the minimum a recipe provides.
type Recipe interface {
	Descriptor() *Descriptor
}

// OptionsConfigurer removes options that do not apply to the settings,
// e.g. fPIC on Windows.
type OptionsConfigurer interface {
	ConfigOptions(ctx *Context)
}

// Configurer resolves option interdependencies after user overrides, e.g.
// dropping fPIC when shared is set.
type Configurer interface {
	Configure(ctx *Context)
}

// Requirer declares link dependencies. The result must depend only on
// options and settings.
type Requirer interface {
	Requirements(ctx *Context, reqs *Requirements)
}

// BuildRequirer declares tools needed at build time.
type BuildRequirer interface {
	BuildRequirements(ctx *Context, reqs *Requirements)
}

// Validator rejects unsupported configurations with a *ConfigurationError.
// It must not perform I/O.
type Validator interface {
	Validate(ctx *Context) error
}

// Sourcer fetches and stages the upstream sources. It must be idempotent.
type Sourcer interface {
	Source(ctx *Context) error
}

// Generator writes build-tool configuration and returns the plan that
// build and package consume.
type Generator interface {
	Generate(ctx *Context) (*BuildPlan, error)
}

// Builder runs the build. Without one, the runner configures and builds the
// plan's build system.
type Builder interface {
	Build(ctx *Context, plan *BuildPlan) error
}

// Packager populates the package folder. Without one, the runner installs
// the plan's build system.
type Packager interface {
	Package(ctx *Context, plan *BuildPlan) error
}

// PackageInfoer describes how consumers link against the package.
type PackageInfoer interface {
	PackageInfo(ctx *Context, info *LinkDescriptor)
}

// DataProvider supplies the recipe's source table.
type DataProvider interface {
	Data() (*Data, error)
}

// HookSet is implemented by recipes whose hooks are registered at run time,
// such as classfile recipes. The runner falls back to the default behavior
// of a step whose hook is not set.
type HookSet interface {
	HasHook(step string) bool
}

// Locator is implemented by recipes loaded from a folder on disk. Patch
// files are resolved against that folder.
type Locator interface {
	Folder() string
}

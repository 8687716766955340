// Package lifecycle runs recipes. A run calls the hooks of one recipe in a
// fixed order, each at most once:
//
//	config_options → option overrides → configure → requirements →
//	build_requirements → dependency lookup → validate → source → generate →
//	build → package → package_info
//
// Configure stops after validate and performs no filesystem or network I/O
// besides reading the package cache. Every error aborts the remaining steps.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/goplus/cppkg/internal/cache"
	"github.com/goplus/cppkg/internal/metrics"
	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// Step names, as used in logs and metrics.
const (
	StepConfigOptions     = "config_options"
	StepConfigure         = "configure"
	StepRequirements      = "requirements"
	StepBuildRequirements = "build_requirements"
	StepValidate          = "validate"
	StepSource            = "source"
	StepGenerate          = "generate"
	StepBuild             = "build"
	StepPackage           = "package"
	StepPackageInfo       = "package_info"
)

// Invocation is one request to configure or build a recipe.
type Invocation struct {
	Recipe recipe.Recipe
	// Version to build; the newest version of the recipe's sources when
	// empty.
	Version string
	// Settings as flat key/value pairs, e.g. from a profile.
	Settings map[string]string
	// Options overrides the recipe's defaults.
	Options map[string]recipe.Value
	// Folders is used when the runner has no cache.
	Folders recipe.Folders
	// Force rebuilds even when the package is cached.
	Force bool
}

// Configured is the outcome of Runner.Configure.
type Configured struct {
	InvocationID string
	Descriptor   *recipe.Descriptor
	Context      *recipe.Context
	Requirements *recipe.Requirements
	// PackageID identifies the binary package of this configuration.
	PackageID string
	recipe    recipe.Recipe
	// idSettings are the settings that took part in PackageID.
	idSettings map[string]string
}

// Ref returns the reference being built.
func (c *Configured) Ref() recipe.Reference {
	return c.Context.Ref
}

// Missing returns the link dependencies that are not built yet.
func (c *Configured) Missing() []recipe.Reference {
	var out []recipe.Reference
	for _, dep := range c.Context.Dependencies() {
		if dep.Visibility == recipe.Link && !dep.Built() {
			out = append(out, dep.Ref)
		}
	}
	return out
}

// Result is the outcome of Runner.Run.
type Result struct {
	*Configured
	Folders recipe.Folders
	// System names the build system of the plan, "none" without one.
	System string
	Link   *recipe.LinkDescriptor
	// Cached is set when the package came from the cache and no step past
	// validate ran.
	Cached    bool
	Durations map[string]time.Duration
}

// Resolver looks up dependency packages. A dependency that is not built
// yet is returned with an empty PackageFolder.
type Resolver interface {
	Resolve(ctx context.Context, dep recipe.Dependency, settings map[string]string) (*recipe.DependencyInfo, error)
}

// Runner runs recipes.
type Runner struct {
	Logger   *slog.Logger
	Tools    recipe.ToolRunner
	Client   *http.Client
	Resolver Resolver
	// Cache stores built packages. Without one, Invocation.Folders is used
	// and nothing is cached.
	Cache  *cache.Cache
	Stdout io.Writer
	Stderr io.Writer
	// DryRun skips source and the package checks and does not write the
	// cache. Combine it with a recording ToolRunner.
	DryRun bool
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Configure resolves the options, settings and dependencies of inv and
// validates the result.
func (r *Runner) Configure(ctx context.Context, inv Invocation) (*Configured, error) {
	if inv.Recipe == nil {
		return nil, errors.New("no recipe to run")
	}
	desc := inv.Recipe.Descriptor().Clone()
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", desc.Name, err)
	}

	var data *recipe.Data
	if dp, ok := inv.Recipe.(recipe.DataProvider); ok {
		d, err := dp.Data()
		if err != nil {
			return nil, fmt.Errorf("failed to load sources of %s: %w", desc.Name, err)
		}
		data = d
	}
	version := inv.Version
	if version == "" && data != nil {
		version = data.Latest()
	}
	if version == "" {
		return nil, recipe.Invalidf("no version given for %s", desc.Name)
	}
	if data != nil && len(data.Sources) > 0 {
		if _, ok := data.Source(version); !ok {
			return nil, recipe.Invalidf("%s: unknown version %q, known versions: %v", desc.Name, version, data.Versions())
		}
	}
	desc.Version = version
	ref := recipe.Reference{Name: desc.Name, Version: version}

	settings, err := recipe.ParseSettings(inv.Settings)
	if err != nil {
		return nil, recipe.Invalidf("%v", err)
	}

	id := uuid.NewString()
	logger := r.logger().With("ref", ref.String(), "invocation", id)
	rctx := recipe.NewContext(ctx, ref, settings, desc.NewOptions())
	rctx.Data = data
	rctx.Logger = logger
	rctx.Runner = r.Tools
	if r.Client != nil {
		rctx.Client = r.Client
	}
	if r.Stdout != nil {
		rctx.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		rctx.Stderr = r.Stderr
	}
	if desc.Deprecated != "" {
		logger.Warn("recipe is deprecated", "note", desc.Deprecated)
	}

	c := &Configured{
		InvocationID: id,
		Descriptor:   desc,
		Context:      rctx,
		Requirements: &recipe.Requirements{},
		recipe:       inv.Recipe,
	}
	rec := inv.Recipe

	if h, ok := rec.(recipe.OptionsConfigurer); ok {
		err := r.step(rctx, StepConfigOptions, nil, func() error {
			h.ConfigOptions(rctx)
			return rctx.TakeErr()
		})
		if err != nil {
			return nil, err
		}
	}
	if err := r.applyOverrides(rctx, desc, inv.Options); err != nil {
		return nil, withRef(err, ref)
	}
	if h, ok := rec.(recipe.Configurer); ok {
		err := r.step(rctx, StepConfigure, nil, func() error {
			h.Configure(rctx)
			return rctx.TakeErr()
		})
		if err != nil {
			return nil, err
		}
	}
	if h, ok := rec.(recipe.Requirer); ok {
		err := r.step(rctx, StepRequirements, nil, func() error {
			h.Requirements(rctx, c.Requirements)
			return rctx.TakeErr()
		})
		if err != nil {
			return nil, err
		}
	}
	if h, ok := rec.(recipe.BuildRequirer); ok {
		err := r.step(rctx, StepBuildRequirements, nil, func() error {
			h.BuildRequirements(rctx, c.Requirements)
			return rctx.TakeErr()
		})
		if err != nil {
			return nil, err
		}
	}
	if errs := c.Requirements.Errs(); len(errs) > 0 {
		return nil, withRef(recipe.Invalidf("%v", errors.Join(errs...)), ref)
	}
	if err := r.resolve(rctx, c.Requirements); err != nil {
		return nil, err
	}
	if h, ok := rec.(recipe.Validator); ok {
		if err := r.step(rctx, StepValidate, nil, func() error { return h.Validate(rctx) }); err != nil {
			return nil, err
		}
	}

	var linkRefs []string
	for _, dep := range c.Requirements.List() {
		if dep.Visibility == recipe.Link {
			linkRefs = append(linkRefs, dep.Ref.String())
		}
	}
	c.idSettings = rctx.Settings.Values()
	if desc.PackageType == recipe.HeaderLibrary {
		// one package serves every platform
		c.idSettings = map[string]string{}
	}
	c.PackageID = cache.PackageID(c.idSettings, rctx.Options.Values(), linkRefs)
	return c, nil
}

// applyOverrides sets user option values. Unknown options and values
// outside the allowed set are configuration errors; overrides of options
// that config_options removed are ignored with a warning.
func (r *Runner) applyOverrides(ctx *recipe.Context, desc *recipe.Descriptor, overrides map[string]recipe.Value) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, declared := desc.Options[name]; !declared {
			return recipe.Invalidf("option %q does not exist in %s", name, desc.Name)
		}
		if !ctx.Options.Has(name) {
			ctx.Warnf("option %q was removed for this configuration; ignoring %s=%s", name, name, overrides[name])
			continue
		}
		if err := ctx.Options.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) resolve(ctx *recipe.Context, reqs *recipe.Requirements) error {
	// Link dependencies are set last so they win over a tool of the same name.
	deps := reqs.List()
	slices.SortStableFunc(deps, func(a, b recipe.Dependency) int {
		return int(b.Visibility) - int(a.Visibility)
	})
	for _, dep := range deps {
		info := &recipe.DependencyInfo{Ref: dep.Ref, Visibility: dep.Visibility, Options: dep.Options}
		if r.Resolver != nil {
			found, err := r.Resolver.Resolve(ctx.Ctx(), dep, ctx.Settings.Values())
			if err != nil {
				return fmt.Errorf("failed to look up %s: %w", dep.Ref, err)
			}
			if found != nil {
				info = found
			}
		}
		if dep.Visibility == recipe.Build && !info.Built() {
			ctx.Logger.Warn("tool requirement not built; using the tool from PATH", "tool", dep.Ref.String())
		}
		ctx.SetDependency(info)
	}
	return nil
}

// Run configures inv and, unless the package is cached, sources, builds
// and packages it.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	c, err := r.Configure(ctx, inv)
	if err != nil {
		return nil, err
	}
	rctx := c.Context
	ref := c.Ref()
	if missing := c.Missing(); len(missing) > 0 {
		errs := make([]error, len(missing))
		for i, dep := range missing {
			_, err := rctx.Dependency(dep.Name)
			errs[i] = withRef(err, ref)
		}
		return nil, errors.Join(errs...)
	}

	rec := c.recipe
	res := &Result{Configured: c, Folders: inv.Folders, Durations: make(map[string]time.Duration)}
	if r.Cache != nil {
		res.Folders = r.Cache.Folders(ref, c.PackageID)
		if !inv.Force && !r.DryRun {
			entry, ok, err := r.Cache.Get(ref, c.PackageID)
			if err != nil {
				return nil, err
			}
			if ok {
				metrics.CacheHit()
				rctx.Logger.Info("package cached", "package_id", c.PackageID)
				res.Cached = true
				res.Link = entry.Link
				res.System = "none"
				return res, nil
			}
		}
		metrics.CacheMiss()
	}
	if res.Folders.Build == "" || res.Folders.Package == "" {
		return nil, errors.New("no build or package folder to run in")
	}
	res.Folders.Recipe = inv.Folders.Recipe
	if l, ok := rec.(recipe.Locator); ok && res.Folders.Recipe == "" {
		res.Folders.Recipe = l.Folder()
	}
	if res.Folders.Source == "" {
		res.Folders.Source = filepath.Join(res.Folders.Build, "src")
	}
	if res.Folders.Generators == "" {
		res.Folders.Generators = res.Folders.Build
	}
	rctx.Folders = res.Folders
	if inv.Force {
		if err := os.RemoveAll(res.Folders.Build); err != nil {
			return nil, err
		}
	}

	if r.DryRun {
		rctx.Logger.Info("dry run: skipping source")
	} else {
		err := r.step(rctx, StepSource, res.Durations, func() error {
			if h, ok := rec.(recipe.Sourcer); ok && hasHook(rec, StepSource) {
				if err := h.Source(rctx); err != nil {
					return err
				}
				return rctx.TakeErr()
			}
			if rctx.Data == nil {
				return nil
			}
			if err := files.Get(rctx); err != nil {
				return err
			}
			return files.ApplyPatches(rctx)
		})
		if err != nil {
			return nil, err
		}
	}

	plan := recipe.NewPlan(nil)
	if h, ok := rec.(recipe.Generator); ok {
		err := r.step(rctx, StepGenerate, res.Durations, func() error {
			p, err := h.Generate(rctx)
			if err != nil {
				return err
			}
			if p != nil {
				plan = p
			}
			return rctx.TakeErr()
		})
		if err != nil {
			return nil, err
		}
	}
	res.System = plan.SystemName()
	rctx.UsePlan(plan)

	err = r.step(rctx, StepBuild, res.Durations, func() error {
		if h, ok := rec.(recipe.Builder); ok {
			return errors.Join(h.Build(rctx, plan), rctx.TakeErr())
		}
		return recipe.DefaultBuild(rctx, plan)
	})
	if err != nil {
		return nil, err
	}

	err = r.step(rctx, StepPackage, res.Durations, func() error {
		if !r.DryRun {
			if err := os.RemoveAll(res.Folders.Package); err != nil {
				return err
			}
			if err := files.Mkdir(res.Folders.Package); err != nil {
				return err
			}
		}
		if h, ok := rec.(recipe.Packager); ok {
			return errors.Join(h.Package(rctx, plan), rctx.TakeErr())
		}
		return recipe.DefaultPackage(rctx, plan)
	})
	if err != nil {
		return nil, err
	}

	info := &recipe.LinkDescriptor{}
	err = r.step(rctx, StepPackageInfo, res.Durations, func() error {
		if h, ok := rec.(recipe.PackageInfoer); ok {
			h.PackageInfo(rctx, info)
			if err := rctx.TakeErr(); err != nil {
				return err
			}
		}
		if r.DryRun {
			return nil
		}
		return CheckPackage(res.Folders.Package, info)
	})
	if err != nil {
		return nil, err
	}
	res.Link = info

	if r.Cache != nil && !r.DryRun {
		err := r.Cache.Put(ref.Name, &cache.Entry{
			Version:   ref.Version,
			PackageID: c.PackageID,
			Settings:  c.idSettings,
			Options:   optionStrings(rctx.Options.Values()),
			Requires:  c.Requirements.Refs(),
			Link:      info,
			BuildTime: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record %s in the cache: %w", ref, err)
		}
	}
	rctx.Logger.Info("package ready", "package_id", c.PackageID, "folder", res.Folders.Package)
	return res, nil
}

// step runs fn as the named step, timing it and attributing its error.
func (r *Runner) step(ctx *recipe.Context, name string, durations map[string]time.Duration, fn func() error) error {
	ctx.Logger.Debug("step", "step", name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.ObserveStep(name, d)
	if durations != nil {
		durations[name] = d
	}
	if err != nil {
		metrics.StepFailed(name, err)
		ctx.Logger.Debug("step failed", "step", name, "error", err)
		return &StepError{Ref: ctx.Ref, Step: name, Err: err}
	}
	return nil
}

// StepError attributes an error to the lifecycle step that raised it.
type StepError struct {
	Ref  recipe.Reference
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("failed to run %s of %s: %v", e.Step, e.Ref, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func hasHook(rec recipe.Recipe, step string) bool {
	if hs, ok := rec.(recipe.HookSet); ok {
		return hs.HasHook(step)
	}
	return true
}

func withRef(err error, ref recipe.Reference) error {
	var cerr *recipe.ConfigurationError
	if errors.As(err, &cerr) && cerr.Ref == "" {
		cerr.Ref = ref.String()
	}
	return err
}

func optionStrings(vals map[string]recipe.Value) map[string]string {
	out := make(map[string]string, len(vals))
	for k, v := range vals {
		out[k] = string(v)
	}
	return out
}

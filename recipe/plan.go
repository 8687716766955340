package recipe

import (
	"maps"
	"slices"
)

// BuildSystem is the build-tool object a recipe constructs once in generate
// and drives from build and package. Implementations live in x/cmake,
// x/autotools, x/meson and x/msbuild.
type BuildSystem interface {
	Name() string
	Configure(ctx *Context) error
	Build(ctx *Context, targets ...string) error
	Install(ctx *Context) error
}

// BuildPlan is the output of generate. It lives for one invocation only.
type BuildPlan struct {
	System BuildSystem
	// Files lists the generated files, relative to the generators folder.
	Files []string
	// Env is added to the environment of every tool run after generate.
	Env map[string]string
}

// NewPlan returns a plan driven by sys.
func NewPlan(sys BuildSystem) *BuildPlan {
	return &BuildPlan{System: sys, Env: make(map[string]string)}
}

// AddFile records a generated file.
func (p *BuildPlan) AddFile(name string) {
	if !slices.Contains(p.Files, name) {
		p.Files = append(p.Files, name)
	}
}

// SetEnv records an environment variable for the build.
func (p *BuildPlan) SetEnv(key, value string) {
	if p.Env == nil {
		p.Env = make(map[string]string)
	}
	p.Env[key] = value
}

// Merge folds the files and environment of other into p. Variables already
// set in p win.
func (p *BuildPlan) Merge(other *BuildPlan) {
	if other == nil {
		return
	}
	for _, f := range other.Files {
		p.AddFile(f)
	}
	for k, v := range other.Env {
		if _, ok := p.Env[k]; !ok {
			p.SetEnv(k, v)
		}
	}
	if p.System == nil {
		p.System = other.System
	}
}

// SystemName returns the name of the plan's build system, or "none".
func (p *BuildPlan) SystemName() string {
	if p == nil || p.System == nil {
		return "none"
	}
	return p.System.Name()
}

func (p *BuildPlan) env() map[string]string {
	if p == nil {
		return nil
	}
	return maps.Clone(p.Env)
}

// DefaultBuild configures and builds the plan's build system. It is what
// the runner does for recipes without a build hook.
func DefaultBuild(ctx *Context, plan *BuildPlan) error {
	if plan == nil || plan.System == nil {
		return nil
	}
	if err := plan.System.Configure(ctx); err != nil {
		return err
	}
	return plan.System.Build(ctx)
}

// DefaultPackage installs the plan's build system into the package folder.
func DefaultPackage(ctx *Context, plan *BuildPlan) error {
	if plan == nil || plan.System == nil {
		return nil
	}
	return plan.System.Install(ctx)
}

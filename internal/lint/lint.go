// Package lint checks recipes for properties every recipe must keep across
// a matrix of settings and options: a consistent option schema, idempotent
// config hooks, deterministic requirements and no fPIC where it cannot
// apply.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/goplus/cppkg/internal/lifecycle"
	"github.com/goplus/cppkg/recipe"
)

// Finding is one violated property.
type Finding struct {
	Combination string
	Message     string
}

func (f Finding) String() string {
	if f.Combination == "" {
		return f.Message
	}
	return "[" + f.Combination + "] " + f.Message
}

// Report is the outcome of checking one recipe.
type Report struct {
	Recipe string
	// Checked counts the combinations that configured successfully.
	Checked int
	// Rejected counts the combinations the recipe rejects as invalid.
	Rejected int
	Findings []Finding
}

// OK reports whether no property was violated.
func (r *Report) OK() bool { return len(r.Findings) == 0 }

func (r *Report) addf(combo, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Combination: combo, Message: fmt.Sprintf(format, args...)})
}

var defaultCompilers = map[string]map[string]string{
	string(recipe.Linux):   {recipe.KeyCompiler: "gcc", recipe.KeyCompilerVersion: "13", recipe.KeyLibCxx: "libstdc++11"},
	string(recipe.Macos):   {recipe.KeyCompiler: "apple-clang", recipe.KeyCompilerVersion: "15", recipe.KeyLibCxx: "libc++"},
	string(recipe.Windows): {recipe.KeyCompiler: "msvc", recipe.KeyCompilerVersion: "193", recipe.KeyRuntime: "dynamic"},
}

// DefaultMatrix spans Linux, Macos and Windows in Release and Debug, and
// both values of every True/False option of desc.
func DefaultMatrix(desc *recipe.Descriptor) Matrix {
	m := Matrix{
		Settings: map[string][]string{
			recipe.KeyOS:        {string(recipe.Linux), string(recipe.Macos), string(recipe.Windows)},
			recipe.KeyBuildType: {string(recipe.Release), string(recipe.Debug)},
		},
		Options: make(map[string][]string),
	}
	for name, allowed := range desc.Options {
		if len(allowed) == 2 && slices.Contains(allowed, recipe.True) && slices.Contains(allowed, recipe.False) {
			m.Options[name] = []string{string(recipe.True), string(recipe.False)}
		}
	}
	return m
}

// Check runs the properties over every combination of m. Compiler
// settings are filled in per os when the combination has none.
func Check(ctx context.Context, r recipe.Recipe, m Matrix) *Report {
	desc := r.Descriptor()
	rep := &Report{Recipe: desc.Name}
	if err := desc.Validate(); err != nil {
		rep.addf("", "schema: %v", err)
		return rep
	}
	runner := &lifecycle.Runner{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	// Recipes without a source table are checked at a placeholder version.
	var version string
	if _, ok := r.(recipe.DataProvider); !ok {
		version = "0.0.0"
	}

	for _, combo := range m.Combinations() {
		if ctx.Err() != nil {
			rep.addf("", "interrupted: %v", ctx.Err())
			return rep
		}
		name := combo.String()
		settings := maps.Clone(combo.Settings)
		if _, ok := settings[recipe.KeyCompiler]; !ok {
			for k, v := range defaultCompilers[settings[recipe.KeyOS]] {
				settings[k] = v
			}
		}
		opts := make(map[string]recipe.Value, len(combo.Options))
		for k, v := range combo.Options {
			opts[k] = recipe.ParseValue(v)
		}
		inv := lifecycle.Invocation{Recipe: r, Version: version, Settings: settings, Options: opts}

		first, err := runner.Configure(ctx, inv)
		if err != nil {
			if errors.Is(err, recipe.ErrInvalidConfiguration) {
				rep.Rejected++
			} else {
				rep.addf(name, "configure: %v", err)
			}
			continue
		}
		rep.Checked++

		second, err := runner.Configure(ctx, inv)
		if err != nil {
			rep.addf(name, "second configure failed: %v", err)
			continue
		}
		if a, b := first.Requirements.Refs(), second.Requirements.Refs(); !slices.Equal(a, b) {
			rep.addf(name, "requirements are not deterministic: %v then %v", a, b)
		}
		if first.PackageID != second.PackageID {
			rep.addf(name, "package id is not deterministic")
		}

		rctx := first.Context
		before := rctx.Options.Canonical()
		if h, ok := r.(recipe.OptionsConfigurer); ok {
			h.ConfigOptions(rctx)
		}
		if h, ok := r.(recipe.Configurer); ok {
			h.Configure(rctx)
		}
		if err := rctx.TakeErr(); err != nil {
			rep.addf(name, "config hooks fail when repeated: %v", err)
		} else if after := rctx.Options.Canonical(); after != before {
			rep.addf(name, "config hooks are not idempotent: %s then %s", before, after)
		}

		if rctx.Options.Has("fPIC") {
			if rctx.IsWindows() {
				rep.addf(name, "fPIC must be removed on Windows")
			}
			if rctx.Shared() {
				rep.addf(name, "fPIC must be removed for shared builds")
			}
		}
	}
	return rep
}

// CheckAll checks recipes in parallel, at most jobs at a time, and returns
// the reports in the order of recipes.
func CheckAll(ctx context.Context, recipes []recipe.Recipe, jobs int) ([]*Report, error) {
	reports := make([]*Report, len(recipes))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, r := range recipes {
		g.Go(func() error {
			reports[i] = Check(gctx, r, DefaultMatrix(r.Descriptor()))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return reports, fmt.Errorf("lint interrupted: %w", err)
	}
	return reports, nil
}

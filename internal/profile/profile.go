// Package profile loads the settings and option overrides of a build from
// YAML profiles and command-line flags.
package profile

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goplus/cppkg/recipe"
)

// Profile is a set of settings plus option overrides. Option keys are
// "name" for the package being built and "pkg:name" for a dependency.
type Profile struct {
	Settings map[string]string `yaml:"settings"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// Load reads and validates a YAML profile.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if _, err := recipe.ParseSettings(p.Settings); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

var goosNames = map[string]recipe.OS{
	"linux":   recipe.Linux,
	"darwin":  recipe.Macos,
	"windows": recipe.Windows,
	"freebsd": recipe.FreeBSD,
	"android": recipe.Android,
	"ios":     recipe.IOS,
}

var goarchNames = map[string]recipe.Arch{
	"386":   recipe.X86,
	"amd64": recipe.X86_64,
	"arm":   recipe.ARMv7,
	"arm64": recipe.ARMv8,
	"wasm":  recipe.Wasm,
}

var defaultCompilers = map[recipe.OS]string{
	recipe.Linux:   "gcc",
	recipe.FreeBSD: "clang",
	recipe.Macos:   "apple-clang",
	recipe.Windows: "msvc",
}

// Detect returns the profile of the host running goos/goarch: os, arch,
// the platform's usual compiler and a Release build type.
func Detect(goos, goarch string) *Profile {
	p := &Profile{Settings: map[string]string{recipe.KeyBuildType: string(recipe.Release)}}
	if o, ok := goosNames[goos]; ok {
		p.Settings[recipe.KeyOS] = string(o)
		if cc, ok := defaultCompilers[o]; ok {
			p.Settings[recipe.KeyCompiler] = cc
		}
	}
	if arch, ok := goarchNames[goarch]; ok {
		p.Settings[recipe.KeyArch] = string(arch)
	}
	return p
}

// Host returns the profile of the running host.
func Host() *Profile {
	return Detect(runtime.GOOS, runtime.GOARCH)
}

// Apply merges -s key=value and -o [pkg:]key=value flags into p. Later
// values win.
func (p *Profile) Apply(settings, options []string) error {
	if p.Settings == nil {
		p.Settings = make(map[string]string)
	}
	if p.Options == nil {
		p.Options = make(map[string]string)
	}
	for _, kv := range settings {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid setting %q: want key=value", kv)
		}
		p.Settings[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	for _, kv := range options {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || strings.HasSuffix(k, ":") {
			return fmt.Errorf("invalid option %q: want [pkg:]key=value", kv)
		}
		p.Options[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	_, err := recipe.ParseSettings(p.Settings)
	return err
}

// Merge returns a copy of p with the settings and options of other laid
// over it.
func (p *Profile) Merge(other *Profile) *Profile {
	out := &Profile{
		Settings: maps.Clone(p.Settings),
		Options:  maps.Clone(p.Options),
	}
	if out.Settings == nil {
		out.Settings = make(map[string]string)
	}
	if out.Options == nil {
		out.Options = make(map[string]string)
	}
	if other != nil {
		maps.Copy(out.Settings, other.Settings)
		maps.Copy(out.Options, other.Options)
	}
	return out
}

// RecipeSettings returns the typed settings of p.
func (p *Profile) RecipeSettings() (recipe.Settings, error) {
	return recipe.ParseSettings(p.Settings)
}

// OptionsFor returns the overrides addressed to pkg. Unqualified keys apply
// only when pkg is the package being built.
func (p *Profile) OptionsFor(pkg string, root bool) map[string]recipe.Value {
	out := make(map[string]recipe.Value)
	for k, v := range p.Options {
		name, opt, qualified := strings.Cut(k, ":")
		switch {
		case qualified && name == pkg:
			out[opt] = recipe.ParseValue(v)
		case !qualified && root:
			if _, set := out[k]; !set {
				out[k] = recipe.ParseValue(v)
			}
		}
	}
	return out
}

// Marshal renders p as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

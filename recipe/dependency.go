package recipe

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Reference names a package at a version, written "name/version".
type Reference struct {
	Name    string
	Version string
}

// ParseReference parses "name/version". A bare "name" yields an empty
// version.
func ParseReference(s string) (Reference, error) {
	name, version, _ := strings.Cut(strings.TrimSpace(s), "/")
	if name == "" || strings.Contains(version, "/") {
		return Reference{}, fmt.Errorf("invalid reference %q: want name/version", s)
	}
	if !namePattern.MatchString(name) {
		return Reference{}, fmt.Errorf("invalid reference %q: bad package name", s)
	}
	return Reference{Name: name, Version: version}, nil
}

func (r Reference) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "/" + r.Version
}

// Visibility tells when a dependency is needed.
type Visibility int

const (
	// Link dependencies are linked into the package and propagate to consumers.
	Link Visibility = iota
	// Build dependencies are tools run during the build only.
	Build
	// Test dependencies are needed to build and run the package's tests.
	Test
)

func (v Visibility) String() string {
	switch v {
	case Build:
		return "build"
	case Test:
		return "test"
	}
	return "link"
}

// Dependency is one declared requirement.
type Dependency struct {
	Ref        Reference
	Visibility Visibility
	// Options requested for the dependency, e.g. {"shared": True}.
	Options map[string]Value
}

func (d Dependency) String() string {
	return d.Ref.String() + " (" + d.Visibility.String() + ")"
}

// Requirements collects dependencies in declaration order. The order is part
// of the contract: the same options and settings must produce the same list.
type Requirements struct {
	deps []Dependency
	errs []error
}

// Requires declares a link-time dependency such as "zlib/1.3.1".
func (r *Requirements) Requires(ref string, opts ...DepOption) {
	r.add(ref, Link, opts)
}

// ToolRequires declares a build-time tool such as "pkgconf/2.1.0".
func (r *Requirements) ToolRequires(ref string, opts ...DepOption) {
	r.add(ref, Build, opts)
}

// TestRequires declares a test-only dependency.
func (r *Requirements) TestRequires(ref string, opts ...DepOption) {
	r.add(ref, Test, opts)
}

func (r *Requirements) add(ref string, vis Visibility, opts []DepOption) {
	parsed, err := ParseReference(ref)
	if err == nil && parsed.Version == "" {
		err = fmt.Errorf("invalid reference %q: missing version", ref)
	}
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	dep := Dependency{Ref: parsed, Visibility: vis}
	for _, opt := range opts {
		opt(&dep)
	}
	r.deps = append(r.deps, dep)
}

// List returns the declared dependencies.
func (r *Requirements) List() []Dependency {
	out := make([]Dependency, len(r.deps))
	for i, d := range r.deps {
		d.Options = maps.Clone(d.Options)
		out[i] = d
	}
	return out
}

// Refs returns the references of all declared dependencies.
func (r *Requirements) Refs() []string {
	refs := make([]string, len(r.deps))
	for i, d := range r.deps {
		refs[i] = d.Ref.String()
	}
	return refs
}

// Has reports whether a dependency on the named package was declared.
func (r *Requirements) Has(name string) bool {
	return slices.ContainsFunc(r.deps, func(d Dependency) bool { return d.Ref.Name == name })
}

// Errs returns malformed references passed to Requires and friends.
func (r *Requirements) Errs() []error {
	return r.errs
}

// DepOption customizes a declared dependency.
type DepOption func(*Dependency)

// WithOption requests an option value on the dependency.
func WithOption(name string, v Value) DepOption {
	return func(d *Dependency) {
		if d.Options == nil {
			d.Options = make(map[string]Value)
		}
		d.Options[name] = v
	}
}

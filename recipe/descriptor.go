package recipe

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
)

// PackageType describes what a package produces.
type PackageType string

const (
	Library       PackageType = "library"
	StaticLibrary PackageType = "static-library"
	SharedLibrary PackageType = "shared-library"
	HeaderLibrary PackageType = "header-library"
	Application   PackageType = "application"
)

// Descriptor is the metadata block of a recipe.
type Descriptor struct {
	Name           string             `yaml:"name" json:"name"`
	Version        string             `yaml:"version,omitempty" json:"version,omitempty"`
	Description    string             `yaml:"description,omitempty" json:"description,omitempty"`
	License        string             `yaml:"license,omitempty" json:"license,omitempty"`
	Homepage       string             `yaml:"homepage,omitempty" json:"homepage,omitempty"`
	URL            string             `yaml:"url,omitempty" json:"url,omitempty"`
	Topics         []string           `yaml:"topics,omitempty" json:"topics,omitempty"`
	PackageType    PackageType        `yaml:"package_type,omitempty" json:"package_type,omitempty"`
	Options        map[string][]Value `yaml:"options,omitempty" json:"options,omitempty"`
	DefaultOptions map[string]Value   `yaml:"default_options,omitempty" json:"default_options,omitempty"`
	Deprecated     string             `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

var namePattern = regexp.MustCompile(`^[a-z0-9_][a-z0-9_+.-]{1,100}$`)

// Validate checks the descriptor's schema: a valid name, and every default
// option naming a declared option with one of its allowed values.
func (d *Descriptor) Validate() error {
	var errs []error
	if !namePattern.MatchString(d.Name) {
		errs = append(errs, fmt.Errorf("invalid package name %q", d.Name))
	}
	for _, name := range sortedKeys(d.DefaultOptions) {
		allowed, ok := d.Options[name]
		if !ok {
			errs = append(errs, fmt.Errorf("default option %q is not declared in options", name))
			continue
		}
		def := d.DefaultOptions[name]
		if !slices.Contains(allowed, Any) && !slices.Contains(allowed, def) {
			errs = append(errs, fmt.Errorf("default %q of option %q is not an allowed value", def, name))
		}
	}
	for _, name := range sortedKeys(d.Options) {
		if len(d.Options[name]) == 0 {
			errs = append(errs, fmt.Errorf("option %q declares no allowed values", name))
		}
	}
	return errors.Join(errs...)
}

// NewOptions returns a fresh option set seeded with the defaults.
func (d *Descriptor) NewOptions() *Options {
	return NewOptions(d.Options, d.DefaultOptions)
}

// Clone returns a deep copy.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Topics = slices.Clone(d.Topics)
	c.Options = make(map[string][]Value, len(d.Options))
	for k, v := range d.Options {
		c.Options[k] = slices.Clone(v)
	}
	c.DefaultOptions = maps.Clone(d.DefaultOptions)
	return &c
}

// Option declares an option with its default and allowed values.
func (d *Descriptor) Option(name string, def Value, allowed ...Value) *Descriptor {
	if d.Options == nil {
		d.Options = make(map[string][]Value)
	}
	if d.DefaultOptions == nil {
		d.DefaultOptions = make(map[string]Value)
	}
	d.Options[name] = allowed
	d.DefaultOptions[name] = def
	return d
}

// BoolOption declares a True/False option.
func (d *Descriptor) BoolOption(name string, def bool) *Descriptor {
	return d.Option(name, Bool(def), True, False)
}

// LibraryOptions declares the shared and fPIC options every compiled library
// carries, defaulting to a static, position independent build.
func (d *Descriptor) LibraryOptions() *Descriptor {
	return d.BoolOption("shared", false).BoolOption("fPIC", true)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

package recipe

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Value is an option value. Booleans and None use their canonical spellings
// so that "shared=True" on the command line and Bool(true) in code agree.
type Value string

const (
	True      Value = "True"
	False     Value = "False"
	NoneValue Value = "None"
	Any       Value = "ANY"
)

// Bool returns True or False.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// ParseValue canonicalizes spellings such as "true", "on" or "none".
func ParseValue(s string) Value {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes":
		return True
	case "false", "off", "no":
		return False
	case "none", "null", "~":
		return NoneValue
	}
	return Value(s)
}

// Truthy mirrors how recipes test options in conditionals: False, None and
// the empty value are false, everything else is true.
func (v Value) Truthy() bool {
	return v != False && v != NoneValue && v != ""
}

func (v Value) String() string { return string(v) }

// Options is the live option set of one recipe invocation: the allowed
// values of every option plus its current value. Removing an option deletes
// it from both, after which the option does not exist at all.
type Options struct {
	allowed map[string][]Value
	values  map[string]Value
}

// NewOptions builds an option set from a descriptor's schema and defaults.
// Options without a default start as None.
func NewOptions(allowed map[string][]Value, defaults map[string]Value) *Options {
	o := &Options{
		allowed: make(map[string][]Value, len(allowed)),
		values:  make(map[string]Value, len(allowed)),
	}
	for name, vals := range allowed {
		o.allowed[name] = slices.Clone(vals)
		if def, ok := defaults[name]; ok {
			o.values[name] = def
		} else {
			o.values[name] = NoneValue
		}
	}
	return o
}

// Has reports whether the option exists.
func (o *Options) Has(name string) bool {
	_, ok := o.allowed[name]
	return ok
}

// Get returns the current value of name, None when the option does not exist.
func (o *Options) Get(name string) Optional[Value] {
	if v, ok := o.values[name]; ok && o.Has(name) {
		return Some(v)
	}
	return None[Value]()
}

// Bool reports whether the option exists and is truthy.
func (o *Options) Bool(name string) bool {
	return o.BoolOr(name, false)
}

// BoolOr is Bool with a fallback for options that were removed.
func (o *Options) BoolOr(name string, def bool) bool {
	v, ok := o.Get(name).Get()
	if !ok {
		return def
	}
	return v.Truthy()
}

// String returns the option's value, or "" when it does not exist.
func (o *Options) String(name string) string {
	v, _ := o.Get(name).Get()
	return string(v)
}

// Is reports whether the option exists and equals v.
func (o *Options) Is(name string, v Value) bool {
	cur, ok := o.Get(name).Get()
	return ok && cur == v
}

// Allowed returns the allowed values of name.
func (o *Options) Allowed(name string) []Value {
	return slices.Clone(o.allowed[name])
}

// Set assigns v to an existing option after checking it against the allowed
// values.
func (o *Options) Set(name string, v Value) error {
	allowed, ok := o.allowed[name]
	if !ok {
		return Invalidf("option %q does not exist", name)
	}
	if !slices.Contains(allowed, Any) && !slices.Contains(allowed, v) {
		return Invalidf("%q is not a valid value for option %q (allowed: %s)", v, name, joinValues(allowed))
	}
	o.values[name] = v
	return nil
}

// Remove deletes an option that must exist, like "del self.options.fPIC".
func (o *Options) Remove(name string) error {
	if !o.Has(name) {
		return fmt.Errorf("option %q does not exist", name)
	}
	o.RmSafe(name)
	return nil
}

// RmSafe deletes an option if present.
func (o *Options) RmSafe(name string) {
	delete(o.allowed, name)
	delete(o.values, name)
}

// Names returns the existing option names sorted.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.allowed))
	for name := range o.allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the current values.
func (o *Options) Values() map[string]Value {
	return maps.Clone(o.values)
}

// Clone returns an independent copy.
func (o *Options) Clone() *Options {
	c := &Options{
		allowed: make(map[string][]Value, len(o.allowed)),
		values:  maps.Clone(o.values),
	}
	for name, vals := range o.allowed {
		c.allowed[name] = slices.Clone(vals)
	}
	return c
}

// Equal reports whether both sets hold the same options with the same
// allowed and current values.
func (o *Options) Equal(other *Options) bool {
	if !maps.Equal(o.values, other.values) || len(o.allowed) != len(other.allowed) {
		return false
	}
	for name, vals := range o.allowed {
		if !slices.Equal(vals, other.allowed[name]) {
			return false
		}
	}
	return true
}

// Canonical renders the option values as sorted "name=value" lines.
func (o *Options) Canonical() string {
	var b strings.Builder
	for _, name := range o.Names() {
		fmt.Fprintf(&b, "%s=%s\n", name, o.values[name])
	}
	return b.String()
}

func joinValues(vals []Value) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = string(v)
	}
	return strings.Join(strs, ", ")
}

package lint

import (
	"sort"
	"strings"
)

// Matrix lists the values of each settings and options axis to check.
type Matrix struct {
	Settings map[string][]string
	Options  map[string][]string
}

// Combination is one point of a Matrix.
type Combination struct {
	Settings map[string]string
	Options  map[string]string
}

// String joins the settings values with "-", then the option values with
// "|", keys in alphabetical order.
func (c Combination) String() string {
	s := joinValues(c.Settings)
	o := joinValues(c.Options)
	switch {
	case s == "":
		return o
	case o == "":
		return s
	}
	return s + "|" + o
}

func joinValues(kv map[string]string) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = kv[k]
	}
	return strings.Join(vals, "-")
}

// Combinations returns the cartesian product of the matrix. Keys are
// sorted alphabetically and combined layer by layer, settings before
// options.
func (m *Matrix) Combinations() []Combination {
	settings := cartesian(m.Settings)
	options := cartesian(m.Options)
	if len(settings) == 0 && len(options) == 0 {
		return nil
	}
	if len(settings) == 0 {
		settings = []map[string]string{{}}
	}
	if len(options) == 0 {
		options = []map[string]string{{}}
	}
	out := make([]Combination, 0, len(settings)*len(options))
	for _, s := range settings {
		for _, o := range options {
			out = append(out, Combination{Settings: s, Options: o})
		}
	}
	return out
}

// CombinationCount returns len(m.Combinations()) without building them.
func (m *Matrix) CombinationCount() int {
	count := func(kvs map[string][]string) int {
		if len(kvs) == 0 {
			return 0
		}
		n := 1
		for _, v := range kvs {
			n *= len(v)
		}
		return n
	}
	s, o := count(m.Settings), count(m.Options)
	switch {
	case s == 0:
		return o
	case o == 0:
		return s
	}
	return s * o
}

func cartesian(kvs map[string][]string) []map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []map[string]string{{}}
	for _, k := range keys {
		next := make([]map[string]string, 0, len(result)*len(kvs[k]))
		for _, prev := range result {
			for _, v := range kvs[k] {
				m := make(map[string]string, len(prev)+1)
				for pk, pv := range prev {
					m[pk] = pv
				}
				m[k] = v
				next = append(next, m)
			}
		}
		result = next
	}
	return result
}

// Package ver orders version strings as they appear in package references
// and compiler settings ("1.2.11", "cci.20211112", "193", "10.2").
package ver

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

const GopPackage = true

// Ordering is the result of comparing two versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	}
	return "equal"
}

// Compare orders a and b.
//
// Semantic versions (an optional leading "v" is accepted, as are the "1"
// and "1.2" shorthands) are first rewritten to their full form with the
// prerelease behind a '~', so "v1.2.0-rc1" reads as "1.2.0~rc1". Everything is
// then ordered the way GNU sort -V does: digit runs are compared
// numerically, other characters by byte value, and '~' sorts before
// everything including the end of string. Prereleases thus sort before
// their release, and the order stays transitive over mixed sets such as
// "1.0.0-rc1", "1.0.0" and "1.0.0a".
func Compare(a, b string) Ordering {
	return sign(strverscmp(sortKey(a), sortKey(b)))
}

// AtLeast reports whether v >= min.
func AtLeast(v, min string) bool {
	return Compare(v, min) != Less
}

// Before reports whether v < other.
func Before(v, other string) bool {
	return Compare(v, other) == Less
}

// Max returns the greatest of vs, or "" when vs is empty.
func Max(vs ...string) string {
	if len(vs) == 0 {
		return ""
	}
	return slices.MaxFunc(vs, func(a, b string) int { return int(Compare(a, b)) })
}

// Sort orders vs ascending in place.
func Sort(vs []string) {
	slices.SortStableFunc(vs, func(a, b string) int { return int(Compare(a, b)) })
}

// sortKey returns v unchanged unless it is a semantic version.
func sortKey(v string) string {
	if v == "" {
		return v
	}
	c := v
	if !strings.HasPrefix(c, "v") {
		c = "v" + c
	}
	c = semver.Canonical(c)
	if c == "" {
		return v
	}
	pre := semver.Prerelease(c)
	key := strings.TrimSuffix(c, pre)[1:]
	if pre != "" {
		key += "~" + pre[1:]
	}
	return key
}

func sign(n int) Ordering {
	switch {
	case n < 0:
		return Less
	case n > 0:
		return Greater
	}
	return Equal
}

// strverscmp walks both strings alternating between non-digit and digit
// runs. Non-digit runs compare by weight, digit runs compare by value after
// dropping leading zeros.
func strverscmp(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			wa, wb := weight(at(a, i)), weight(at(b, j))
			if wa != wb {
				return wa - wb
			}
			i++
			j++
		}
		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}
		diff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if diff == 0 {
				diff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if diff != 0 {
			return diff
		}
	}
	return 0
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func weight(c byte) int {
	switch {
	case c == 0, isDigit(c):
		return 0
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	}
	return int(c) + 256
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

package recipe

import (
	"strconv"
	"strings"

	"github.com/goplus/cppkg/x/ver"
)

// Compiler identifies a compiler family.
type Compiler int

const (
	Unknown Compiler = iota
	GCC
	Clang
	AppleClang
	MSVC
	Intel
)

var compilerNames = map[Compiler]string{
	GCC:        "gcc",
	Clang:      "clang",
	AppleClang: "apple-clang",
	MSVC:       "msvc",
	Intel:      "intel-cc",
}

// ParseCompiler maps a settings value to a Compiler. "Visual Studio" is
// accepted as a legacy spelling of msvc.
func ParseCompiler(name string) Compiler {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gcc":
		return GCC
	case "clang":
		return Clang
	case "apple-clang":
		return AppleClang
	case "msvc", "visual studio":
		return MSVC
	case "intel-cc", "intel":
		return Intel
	}
	return Unknown
}

func (c Compiler) String() string {
	if name, ok := compilerNames[c]; ok {
		return name
	}
	return "unknown"
}

// MinimumVersions maps compilers to the first version that supports what a
// recipe needs, usually a C++ standard.
type MinimumVersions map[Compiler]string

// Check reports whether c satisfies the table. known is false when the table
// has no entry for the compiler or the compiler version is not set; callers
// then assume support and emit an advisory warning.
func (m MinimumVersions) Check(c CompilerSettings) (ok, known bool) {
	min, found := m[c.Name]
	if !found {
		return true, false
	}
	v, present := c.Version.Get()
	if !present {
		return true, false
	}
	return ver.AtLeast(v, min), true
}

// CheckMinCppStd fails when compiler.cppstd is set and older than min.
// An unset cppstd passes; the compiler minimum table covers that case.
func CheckMinCppStd(s *Settings, min string) error {
	cur, ok := s.Compiler.CppStd.Get()
	if !ok {
		return nil
	}
	if cppStdYear(cur) < cppStdYear(min) {
		return Invalidf("requires at least C++%s, current cppstd is %s", min, cur)
	}
	return nil
}

// ValidMinCppStd is CheckMinCppStd as a predicate.
func ValidMinCppStd(s *Settings, min string) bool {
	return CheckMinCppStd(s, min) == nil
}

// CheckMinVS fails when the compiler is msvc with a version below min
// (191 for VS 2017, 192 for VS 2019, 193 for VS 2022). Other compilers pass.
func CheckMinVS(s *Settings, min int) error {
	if s.Compiler.Name != MSVC {
		return nil
	}
	v, ok := s.Compiler.Version.Get()
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return Invalidf("unrecognized msvc version %q", v)
	}
	if n < min {
		return Invalidf("requires msvc >= %d, got %d", min, n)
	}
	return nil
}

// cppStdYear turns "14", "gnu17", "20" into a sortable year.
func cppStdYear(std string) int {
	std = strings.TrimPrefix(strings.ToLower(std), "gnu")
	n, err := strconv.Atoi(std)
	if err != nil {
		return 0
	}
	if n < 100 {
		if n >= 98 {
			return 1900 + n
		}
		return 2000 + n
	}
	return n
}

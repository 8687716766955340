package recipe

import (
	"fmt"
	"slices"
	"sort"
)

// OS is the target operating system setting.
type OS string

const (
	Linux      OS = "Linux"
	Windows    OS = "Windows"
	Macos      OS = "Macos"
	FreeBSD    OS = "FreeBSD"
	Android    OS = "Android"
	IOS        OS = "iOS"
	Emscripten OS = "Emscripten"
)

// IsApple reports whether o is one of Apple's operating systems.
func (o OS) IsApple() bool {
	return o == Macos || o == IOS || o == "watchOS" || o == "tvOS"
}

// IsUnixLike reports whether the system libraries m, pthread and dl are
// expected to exist as separate libraries.
func (o OS) IsUnixLike() bool {
	return o == Linux || o == FreeBSD
}

// Arch is the target architecture setting.
type Arch string

const (
	X86    Arch = "x86"
	X86_64 Arch = "x86_64"
	ARMv7  Arch = "armv7"
	ARMv8  Arch = "armv8"
	Wasm   Arch = "wasm"
)

// BuildType is the build configuration setting.
type BuildType string

const (
	Release        BuildType = "Release"
	Debug          BuildType = "Debug"
	RelWithDebInfo BuildType = "RelWithDebInfo"
	MinSizeRel     BuildType = "MinSizeRel"
)

// CompilerSettings describes the compiler used for a build.
type CompilerSettings struct {
	Name    Compiler
	Version Optional[string]
	CppStd  Optional[string]
	LibCxx  Optional[string]
	Runtime Optional[string]
}

// Settings is the platform and toolchain context supplied by the caller of
// a recipe. Recipes read it; the only permitted mutation is RmSafe on the
// private copy each invocation receives.
type Settings struct {
	OS        OS
	Arch      Arch
	Compiler  CompilerSettings
	BuildType Optional[BuildType]
}

// Setting keys understood by Get, RmSafe and ParseSettings.
const (
	KeyOS              = "os"
	KeyArch            = "arch"
	KeyCompiler        = "compiler"
	KeyCompilerVersion = "compiler.version"
	KeyCppStd          = "compiler.cppstd"
	KeyLibCxx          = "compiler.libcxx"
	KeyRuntime         = "compiler.runtime"
	KeyBuildType       = "build_type"
)

var settingKeys = []string{
	KeyOS, KeyArch, KeyCompiler, KeyCompilerVersion,
	KeyCppStd, KeyLibCxx, KeyRuntime, KeyBuildType,
}

// ParseSettings builds Settings from flat key/value pairs such as those of a
// profile or of repeated -s flags. Unknown keys are rejected.
func ParseSettings(kvs map[string]string) (Settings, error) {
	var s Settings
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := kvs[k]
		if v == "" {
			continue
		}
		switch k {
		case KeyOS:
			s.OS = OS(v)
		case KeyArch:
			s.Arch = Arch(v)
		case KeyCompiler:
			s.Compiler.Name = ParseCompiler(v)
		case KeyCompilerVersion:
			s.Compiler.Version = Some(v)
		case KeyCppStd:
			s.Compiler.CppStd = Some(v)
		case KeyLibCxx:
			s.Compiler.LibCxx = Some(v)
		case KeyRuntime:
			s.Compiler.Runtime = Some(v)
		case KeyBuildType:
			s.BuildType = Some(BuildType(v))
		default:
			return Settings{}, fmt.Errorf("unknown setting %q", k)
		}
	}
	return s, nil
}

// Get returns the value of the setting named key.
func (s *Settings) Get(key string) Optional[string] {
	switch key {
	case KeyOS:
		if s.OS != "" {
			return Some(string(s.OS))
		}
	case KeyArch:
		if s.Arch != "" {
			return Some(string(s.Arch))
		}
	case KeyCompiler:
		if s.Compiler.Name != Unknown {
			return Some(s.Compiler.Name.String())
		}
	case KeyCompilerVersion:
		return s.Compiler.Version
	case KeyCppStd:
		return s.Compiler.CppStd
	case KeyLibCxx:
		return s.Compiler.LibCxx
	case KeyRuntime:
		return s.Compiler.Runtime
	case KeyBuildType:
		if bt, ok := s.BuildType.Get(); ok {
			return Some(string(bt))
		}
	}
	return None[string]()
}

// RmSafe drops a sub-setting so that it no longer takes part in the package
// identity. Pure C libraries drop compiler.cppstd and compiler.libcxx this
// way. Removing a setting that is absent is a no-op.
func (s *Settings) RmSafe(key string) {
	switch key {
	case KeyCompilerVersion:
		s.Compiler.Version = None[string]()
	case KeyCppStd:
		s.Compiler.CppStd = None[string]()
	case KeyLibCxx:
		s.Compiler.LibCxx = None[string]()
	case KeyRuntime:
		s.Compiler.Runtime = None[string]()
	case KeyBuildType:
		s.BuildType = None[BuildType]()
	}
}

// Values returns every present setting as key/value pairs.
func (s *Settings) Values() map[string]string {
	out := make(map[string]string, len(settingKeys))
	for _, k := range settingKeys {
		if v, ok := s.Get(k).Get(); ok {
			out[k] = v
		}
	}
	return out
}

// Keys returns the keys of the present settings in canonical order.
func (s *Settings) Keys() []string {
	vals := s.Values()
	return slices.DeleteFunc(slices.Clone(settingKeys), func(k string) bool {
		_, ok := vals[k]
		return !ok
	})
}

// BuildTypeOr returns the build type, or def when unset.
func (s *Settings) BuildTypeOr(def BuildType) BuildType {
	return s.BuildType.OrElse(def)
}

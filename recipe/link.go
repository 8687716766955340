package recipe

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// LinkDescriptor tells consumers how to compile and link against a package.
// Directories are relative to the package folder.
//
// A nil directory list means "the default, if the package has it": include,
// lib, bin and res are filled in by ResolveDefaults only when they exist. An
// empty non-nil list means the package deliberately has none.
type LinkDescriptor struct {
	Libs            []string              `yaml:"libs,omitempty" json:"libs,omitempty"`
	IncludeDirs     []string              `yaml:"includedirs,omitempty" json:"includedirs,omitempty"`
	LibDirs         []string              `yaml:"libdirs,omitempty" json:"libdirs,omitempty"`
	BinDirs         []string              `yaml:"bindirs,omitempty" json:"bindirs,omitempty"`
	ResDirs         []string              `yaml:"resdirs,omitempty" json:"resdirs,omitempty"`
	Defines         []string              `yaml:"defines,omitempty" json:"defines,omitempty"`
	SystemLibs      []string              `yaml:"system_libs,omitempty" json:"system_libs,omitempty"`
	Frameworks      []string              `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	CFlags          []string              `yaml:"cflags,omitempty" json:"cflags,omitempty"`
	CxxFlags        []string              `yaml:"cxxflags,omitempty" json:"cxxflags,omitempty"`
	SharedLinkFlags []string              `yaml:"sharedlinkflags,omitempty" json:"sharedlinkflags,omitempty"`
	ExeLinkFlags    []string              `yaml:"exelinkflags,omitempty" json:"exelinkflags,omitempty"`
	Properties      map[string]string     `yaml:"properties,omitempty" json:"properties,omitempty"`
	Components      map[string]*Component `yaml:"components,omitempty" json:"components,omitempty"`
}

// Component is a named sub-library of a package, e.g. OpenSSL::Crypto.
type Component struct {
	Libs        []string          `yaml:"libs,omitempty" json:"libs,omitempty"`
	IncludeDirs []string          `yaml:"includedirs,omitempty" json:"includedirs,omitempty"`
	LibDirs     []string          `yaml:"libdirs,omitempty" json:"libdirs,omitempty"`
	Defines     []string          `yaml:"defines,omitempty" json:"defines,omitempty"`
	SystemLibs  []string          `yaml:"system_libs,omitempty" json:"system_libs,omitempty"`
	Frameworks  []string          `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Requires    []string          `yaml:"requires,omitempty" json:"requires,omitempty"`
	Properties  map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Well-known property names read by the generators in x/.
const (
	PropCMakeFileName   = "cmake_file_name"
	PropCMakeTargetName = "cmake_target_name"
	PropPkgConfigName   = "pkg_config_name"
)

// SetProperty records a generator property.
func (l *LinkDescriptor) SetProperty(key, value string) {
	if l.Properties == nil {
		l.Properties = make(map[string]string)
	}
	l.Properties[key] = value
}

// Property returns a generator property, or def when unset.
func (l *LinkDescriptor) Property(key, def string) string {
	if v, ok := l.Properties[key]; ok {
		return v
	}
	return def
}

// Component returns the named component, creating it on first use.
func (l *LinkDescriptor) Component(name string) *Component {
	if l.Components == nil {
		l.Components = make(map[string]*Component)
	}
	c, ok := l.Components[name]
	if !ok {
		c = &Component{}
		l.Components[name] = c
	}
	return c
}

// AllLibs returns the package libs followed by every component's libs in
// component name order.
func (l *LinkDescriptor) AllLibs() []string {
	libs := slices.Clone(l.Libs)
	for _, name := range sortedKeys(l.Components) {
		libs = append(libs, l.Components[name].Libs...)
	}
	return libs
}

// Clone returns a deep copy.
func (l *LinkDescriptor) Clone() *LinkDescriptor {
	c := *l
	for _, p := range []*[]string{
		&c.Libs, &c.IncludeDirs, &c.LibDirs, &c.BinDirs, &c.ResDirs, &c.Defines,
		&c.SystemLibs, &c.Frameworks, &c.CFlags, &c.CxxFlags, &c.SharedLinkFlags, &c.ExeLinkFlags,
	} {
		*p = slices.Clone(*p)
	}
	c.Properties = maps.Clone(l.Properties)
	if l.Components != nil {
		c.Components = make(map[string]*Component, len(l.Components))
		for name, comp := range l.Components {
			cc := *comp
			cc.Libs = slices.Clone(comp.Libs)
			cc.IncludeDirs = slices.Clone(comp.IncludeDirs)
			cc.LibDirs = slices.Clone(comp.LibDirs)
			cc.Defines = slices.Clone(comp.Defines)
			cc.SystemLibs = slices.Clone(comp.SystemLibs)
			cc.Frameworks = slices.Clone(comp.Frameworks)
			cc.Requires = slices.Clone(comp.Requires)
			cc.Properties = maps.Clone(comp.Properties)
			c.Components[name] = &cc
		}
	}
	return &c
}

// ResolveDefaults fills unset directory lists with the conventional folders
// that exist under root.
func (l *LinkDescriptor) ResolveDefaults(root string) {
	fill := func(dirs *[]string, def string) {
		if *dirs != nil {
			return
		}
		*dirs = []string{}
		if isDir(filepath.Join(root, def)) {
			*dirs = append(*dirs, def)
		}
	}
	fill(&l.IncludeDirs, "include")
	fill(&l.LibDirs, "lib")
	fill(&l.BinDirs, "bin")
	fill(&l.ResDirs, "res")
}

// Check verifies that every directory and library the descriptor mentions
// exists under root.
func (l *LinkDescriptor) Check(root string) error {
	dirs := [][]string{l.IncludeDirs, l.LibDirs, l.BinDirs, l.ResDirs}
	for _, name := range sortedKeys(l.Components) {
		comp := l.Components[name]
		dirs = append(dirs, comp.IncludeDirs, comp.LibDirs)
	}
	for _, list := range dirs {
		for _, dir := range list {
			if !isDir(filepath.Join(root, dir)) {
				return &ArtifactMissingError{Path: filepath.Join(root, dir), What: "directory"}
			}
		}
	}
	libDirs := slices.Clone(l.LibDirs)
	for _, name := range sortedKeys(l.Components) {
		libDirs = append(libDirs, l.Components[name].LibDirs...)
	}
	for _, lib := range l.AllLibs() {
		if !hasLibrary(root, libDirs, lib) {
			return &ArtifactMissingError{Path: filepath.Join(root, "lib", lib), What: "library"}
		}
	}
	return nil
}

// LibraryPatterns returns the file name globs that provide lib on any
// platform.
func LibraryPatterns(lib string) []string {
	return []string{
		"lib" + lib + ".a",
		"lib" + lib + ".so",
		"lib" + lib + ".so.*",
		"lib" + lib + ".dylib",
		"lib" + lib + ".*.dylib",
		"lib" + lib + ".dll.a",
		lib + ".lib",
		"lib" + lib + ".lib",
	}
}

func hasLibrary(root string, libDirs []string, lib string) bool {
	for _, dir := range libDirs {
		for _, pattern := range LibraryPatterns(lib) {
			if matches, _ := filepath.Glob(filepath.Join(root, dir, pattern)); len(matches) > 0 {
				return true
			}
		}
	}
	return false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

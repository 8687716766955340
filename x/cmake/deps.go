package cmake

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// Deps writes a <name>-config.cmake file per link dependency so that
// find_package(<name> CONFIG) resolves to imported targets built from the
// dependency's LinkDescriptor.
type Deps struct {
	deps []*recipe.DependencyInfo
}

// NewDeps collects the link dependencies of ctx. Every one of them must be
// built already.
func NewDeps(ctx *recipe.Context) (*Deps, error) {
	d := &Deps{}
	for _, dep := range ctx.Dependencies() {
		if dep.Visibility != recipe.Link {
			continue
		}
		info, err := ctx.Dependency(dep.Ref.Name)
		if err != nil {
			return nil, err
		}
		d.deps = append(d.deps, info)
	}
	return d, nil
}

// Generate writes the config files into the generators folder.
func (d *Deps) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	for _, dep := range d.deps {
		fileName := dep.Link.Property(recipe.PropCMakeFileName, dep.Ref.Name)
		config := fileName + "-config.cmake"
		if err := files.Save(ctx.GeneratorsPath(config), Config(dep)); err != nil {
			return fmt.Errorf("failed to write %s: %w", config, err)
		}
		plan.AddFile(config)

		version := fileName + "-config-version.cmake"
		if err := files.Save(ctx.GeneratorsPath(version), ConfigVersion(dep.Ref.Version)); err != nil {
			return fmt.Errorf("failed to write %s: %w", version, err)
		}
		plan.AddFile(version)
	}
	return nil
}

// Config renders the config file of dep.
func Config(dep *recipe.DependencyInfo) string {
	link := dep.Link
	fileName := link.Property(recipe.PropCMakeFileName, dep.Ref.Name)
	target := link.Property(recipe.PropCMakeTargetName, dep.Ref.Name+"::"+dep.Ref.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by cppkg for %s. Do not edit.\n", dep.Ref)
	fmt.Fprintf(&b, "if(TARGET %s)\n  return()\nendif()\n\n", target)

	var compTargets []string
	for _, name := range slices.Sorted(maps.Keys(link.Components)) {
		comp := link.Components[name]
		compTarget := dep.Ref.Name + "::" + name
		compTargets = append(compTargets, compTarget)
		writeTarget(&b, compTarget, dep.PackageFolder, targetProps{
			includeDirs: comp.IncludeDirs,
			libDirs:     comp.LibDirs,
			defines:     comp.Defines,
			libs:        append(append(slices.Clone(comp.Libs), comp.SystemLibs...), frameworks(comp.Frameworks)...),
			requires:    componentRequires(dep.Ref.Name, comp.Requires),
		})
	}
	writeTarget(&b, target, dep.PackageFolder, targetProps{
		includeDirs: link.IncludeDirs,
		libDirs:     link.LibDirs,
		defines:     link.Defines,
		libs:        append(append(slices.Clone(link.Libs), link.SystemLibs...), frameworks(link.Frameworks)...),
		requires:    compTargets,
		compile:     append(slices.Clone(link.CFlags), link.CxxFlags...),
	})

	fmt.Fprintf(&b, "set(%s_FOUND TRUE)\n", fileName)
	fmt.Fprintf(&b, "set(%s_VERSION %s)\n", fileName, quote(dep.Ref.Version))
	fmt.Fprintf(&b, "set(%s_INCLUDE_DIRS %s)\n", fileName, quote(joinDirs(dep.PackageFolder, link.IncludeDirs)))
	fmt.Fprintf(&b, "set(%s_LIBRARIES %s)\n", fileName, target)
	return b.String()
}

// ConfigVersion renders a version file accepting any requested version not
// newer than version.
func ConfigVersion(version string) string {
	return fmt.Sprintf(`set(PACKAGE_VERSION %s)
if(PACKAGE_VERSION VERSION_LESS PACKAGE_FIND_VERSION)
  set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
  set(PACKAGE_VERSION_COMPATIBLE TRUE)
  if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
    set(PACKAGE_VERSION_EXACT TRUE)
  endif()
endif()
`, quote(version))
}

type targetProps struct {
	includeDirs []string
	libDirs     []string
	defines     []string
	libs        []string
	requires    []string
	compile     []string
}

func writeTarget(b *strings.Builder, target, root string, p targetProps) {
	fmt.Fprintf(b, "add_library(%s INTERFACE IMPORTED)\n", target)
	fmt.Fprintf(b, "set_target_properties(%s PROPERTIES\n", target)
	if len(p.includeDirs) > 0 {
		fmt.Fprintf(b, "  INTERFACE_INCLUDE_DIRECTORIES %s\n", quote(joinDirs(root, p.includeDirs)))
	}
	if len(p.libDirs) > 0 {
		fmt.Fprintf(b, "  INTERFACE_LINK_DIRECTORIES %s\n", quote(joinDirs(root, p.libDirs)))
	}
	if len(p.defines) > 0 {
		fmt.Fprintf(b, "  INTERFACE_COMPILE_DEFINITIONS %s\n", quote(strings.Join(p.defines, ";")))
	}
	if len(p.compile) > 0 {
		fmt.Fprintf(b, "  INTERFACE_COMPILE_OPTIONS %s\n", quote(strings.Join(p.compile, ";")))
	}
	if libs := append(slices.Clone(p.libs), p.requires...); len(libs) > 0 {
		fmt.Fprintf(b, "  INTERFACE_LINK_LIBRARIES %s\n", quote(strings.Join(libs, ";")))
	}
	b.WriteString(")\n\n")
}

func joinDirs(root string, dirs []string) string {
	abs := make([]string, len(dirs))
	for i, d := range dirs {
		abs[i] = filepath.ToSlash(filepath.Join(root, d))
	}
	return strings.Join(abs, ";")
}

func frameworks(names []string) []string {
	out := make([]string, len(names))
	for i, f := range names {
		out[i] = "-framework " + f
	}
	return out
}

// componentRequires turns "comp" and "dep::comp" requirements into targets.
func componentRequires(pkg string, reqs []string) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		if strings.Contains(r, "::") {
			out[i] = r
		} else {
			out[i] = pkg + "::" + r
		}
	}
	return out
}

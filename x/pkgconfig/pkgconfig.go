// Package pkgconfig writes .pc files for the dependencies of a build and
// reads .pc files back into link descriptors.
package pkgconfig

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// Deps writes one .pc file per link dependency, plus one per component.
// The package file requires the component files.
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

// Generate writes the .pc files into the generators folder, which is where
// the toolchains point PKG_CONFIG_PATH.
func (d *Deps) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	for _, dep := range d.deps {
		for name, content := range Files(dep) {
			if err := files.Save(ctx.GeneratorsPath(name), content); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			plan.AddFile(name)
		}
	}
	return nil
}

// Files renders the .pc files of dep keyed by file name.
func Files(dep *recipe.DependencyInfo) map[string]string {
	link := dep.Link
	pcName := link.Property(recipe.PropPkgConfigName, dep.Ref.Name)
	out := make(map[string]string)

	compNames := make(map[string]string, len(link.Components))
	for name, comp := range link.Components {
		compNames[name] = comp.Properties[recipe.PropPkgConfigName]
		if compNames[name] == "" {
			compNames[name] = pcName + "-" + name
		}
	}

	var requires []string
	for _, name := range slices.Sorted(maps.Keys(link.Components)) {
		comp := link.Components[name]
		compName := compNames[name]
		requires = append(requires, compName)
		var compReqs []string
		for _, r := range comp.Requires {
			if pkg, c, ok := strings.Cut(r, "::"); ok {
				compReqs = append(compReqs, pkg+"-"+c)
			} else if n, ok := compNames[r]; ok {
				compReqs = append(compReqs, n)
			} else {
				compReqs = append(compReqs, pcName+"-"+r)
			}
		}
		out[compName+".pc"] = render(pcEntry{
			name:        compName,
			description: fmt.Sprintf("%s component of %s", name, dep.Ref.Name),
			version:     dep.Ref.Version,
			prefix:      dep.PackageFolder,
			includeDirs: comp.IncludeDirs,
			libDirs:     comp.LibDirs,
			libs:        comp.Libs,
			systemLibs:  comp.SystemLibs,
			frameworks:  comp.Frameworks,
			defines:     comp.Defines,
			requires:    compReqs,
		})
	}
	out[pcName+".pc"] = render(pcEntry{
		name:        pcName,
		description: fmt.Sprintf("cppkg package %s", dep.Ref),
		version:     dep.Ref.Version,
		prefix:      dep.PackageFolder,
		includeDirs: link.IncludeDirs,
		libDirs:     link.LibDirs,
		libs:        link.Libs,
		systemLibs:  link.SystemLibs,
		frameworks:  link.Frameworks,
		defines:     link.Defines,
		cflags:      append(slices.Clone(link.CFlags), link.CxxFlags...),
		requires:    requires,
	})
	return out
}

type pcEntry struct {
	name        string
	description string
	version     string
	prefix      string
	includeDirs []string
	libDirs     []string
	libs        []string
	systemLibs  []string
	frameworks  []string
	defines     []string
	cflags      []string
	requires    []string
}

func render(e pcEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "prefix=%s\n", e.prefix)
	var libFlags, cflags []string
	for i, dir := range e.libDirs {
		v := fmt.Sprintf("libdir%d", i+1)
		fmt.Fprintf(&b, "%s=${prefix}/%s\n", v, dir)
		libFlags = append(libFlags, "-L${"+v+"}")
	}
	for i, dir := range e.includeDirs {
		v := fmt.Sprintf("includedir%d", i+1)
		fmt.Fprintf(&b, "%s=${prefix}/%s\n", v, dir)
		cflags = append(cflags, "-I${"+v+"}")
	}
	for _, lib := range e.libs {
		libFlags = append(libFlags, "-l"+lib)
	}
	for _, lib := range e.systemLibs {
		libFlags = append(libFlags, "-l"+lib)
	}
	for _, f := range e.frameworks {
		libFlags = append(libFlags, "-framework", f)
	}
	for _, d := range e.defines {
		cflags = append(cflags, "-D"+d)
	}
	cflags = append(cflags, e.cflags...)

	fmt.Fprintf(&b, "\nName: %s\n", e.name)
	fmt.Fprintf(&b, "Description: %s\n", e.description)
	fmt.Fprintf(&b, "Version: %s\n", e.version)
	fmt.Fprintf(&b, "Libs: %s\n", strings.Join(libFlags, " "))
	fmt.Fprintf(&b, "Cflags: %s\n", strings.Join(cflags, " "))
	if len(e.requires) > 0 {
		fmt.Fprintf(&b, "Requires: %s\n", strings.Join(e.requires, " "))
	}
	return b.String()
}

package pkgconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/cppkg/recipe"
)

func glibDep() *recipe.DependencyInfo {
	link := &recipe.LinkDescriptor{
		IncludeDirs: []string{"include/glib-2.0", "lib/glib-2.0/include"},
		LibDirs:     []string{"lib"},
		Libs:        []string{"glib-2.0"},
		SystemLibs:  []string{"pthread"},
		Defines:     []string{"G_DISABLE_CAST_CHECKS"},
	}
	link.Component("gobject").Libs = []string{"gobject-2.0"}
	link.Component("gobject").Requires = []string{"glib"}
	link.Component("glib").Libs = []string{"glib-2.0"}
	link.Component("glib").Properties = map[string]string{recipe.PropPkgConfigName: "glib-2.0"}
	return &recipe.DependencyInfo{
		Ref:           recipe.Reference{Name: "glib", Version: "2.77.0"},
		PackageFolder: "/p/glib",
		Link:          link,
	}
}

func TestFiles(t *testing.T) {
	got := Files(glibDep())
	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	slices.Sort(names)
	if want := []string{"glib-2.0.pc", "glib-gobject.pc", "glib.pc"}; !slices.Equal(names, want) {
		t.Fatalf("files = %v, want %v", names, want)
	}

	main := got["glib.pc"]
	for _, want := range []string{
		"prefix=/p/glib\n",
		"libdir1=${prefix}/lib\n",
		"includedir1=${prefix}/include/glib-2.0\n",
		"includedir2=${prefix}/lib/glib-2.0/include\n",
		"Name: glib\n",
		"Version: 2.77.0\n",
		"Libs: -L${libdir1} -lglib-2.0 -lpthread\n",
		"Cflags: -I${includedir1} -I${includedir2} -DG_DISABLE_CAST_CHECKS\n",
		"Requires: glib-2.0 glib-gobject\n",
	} {
		if !strings.Contains(main, want) {
			t.Errorf("glib.pc missing %q:\n%s", want, main)
		}
	}
	if comp := got["glib-gobject.pc"]; !strings.Contains(comp, "Requires: glib-2.0\n") {
		t.Errorf("glib-gobject.pc =\n%s", comp)
	}
}

func TestPkgConfigName(t *testing.T) {
	dep := &recipe.DependencyInfo{
		Ref:           recipe.Reference{Name: "at-spi2-core", Version: "2.50.0"},
		PackageFolder: "/p/at-spi2-core",
		Link:          &recipe.LinkDescriptor{Libs: []string{"atspi"}, Frameworks: []string{"CoreFoundation"}},
	}
	dep.Link.SetProperty(recipe.PropPkgConfigName, "atspi-2")
	got := Files(dep)
	pc, ok := got["atspi-2.pc"]
	if !ok || len(got) != 1 {
		t.Fatalf("files = %v, want only atspi-2.pc", got)
	}
	if !strings.Contains(pc, "Libs: -latspi -framework CoreFoundation\n") {
		t.Errorf("atspi-2.pc =\n%s", pc)
	}
	if strings.Contains(pc, "Requires:") {
		t.Errorf("no Requires expected:\n%s", pc)
	}
}

func TestGenerate(t *testing.T) {
	ctx := recipe.NewContext(context.Background(), recipe.Reference{Name: "at-spi2-core", Version: "2.50.0"}, recipe.Settings{}, nil)
	ctx.Folders.Generators = t.TempDir()
	ctx.SetDependency(glibDep())
	ctx.SetDependency(&recipe.DependencyInfo{
		Ref:        recipe.Reference{Name: "meson", Version: "1.2.0"},
		Visibility: recipe.Build,
	})

	deps, err := NewDeps(ctx)
	if err != nil {
		t.Fatalf("NewDeps: %v", err)
	}
	plan := recipe.NewPlan(nil)
	if err := deps.Generate(ctx, plan); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(plan.Files) != 3 {
		t.Errorf("plan.Files = %v, want 3 files", plan.Files)
	}
	if _, err := os.Stat(filepath.Join(ctx.Folders.Generators, "glib.pc")); err != nil {
		t.Errorf("glib.pc not written: %v", err)
	}
}

func TestNewDepsMissing(t *testing.T) {
	ctx := recipe.NewContext(context.Background(), recipe.Reference{Name: "at-spi2-core", Version: "2.50.0"}, recipe.Settings{}, nil)
	ctx.SetDependency(&recipe.DependencyInfo{Ref: recipe.Reference{Name: "dbus", Version: "1.15.6"}})
	_, err := NewDeps(ctx)
	if !errors.Is(err, recipe.ErrInvalidConfiguration) {
		t.Fatalf("NewDeps error = %v, want a configuration error", err)
	}
	if !strings.Contains(err.Error(), "cppkg build dbus/1.15.6") {
		t.Errorf("error %q should tell how to build the dependency", err)
	}
}

// Package ixgo registers the recipe classfile and the packages recipes may
// import with the ixgo interpreter. Import it for its side effects.
package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/recipe"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/autotools"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/cmake"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/files"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/meson"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/msbuild"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/pkgconfig"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/goplus/cppkg/x/ver"
	_ "github.com/goplus/cppkg/internal/ixgo/pkg/github.com/qiniu/x/gsh"
)

// Ext is the file name suffix of recipe classfiles.
const Ext = "_recipe.gox"

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   Ext,
		Class: "RecipeF",
		PkgPaths: []string{
			"github.com/goplus/cppkg/recipe",
		},
		Import: []*modfile.Import{
			{Name: "ver", Path: "github.com/goplus/cppkg/x/ver"},
			{Name: "files", Path: "github.com/goplus/cppkg/x/files"},
			{Name: "cmake", Path: "github.com/goplus/cppkg/x/cmake"},
			{Name: "autotools", Path: "github.com/goplus/cppkg/x/autotools"},
			{Name: "meson", Path: "github.com/goplus/cppkg/x/meson"},
			{Name: "msbuild", Path: "github.com/goplus/cppkg/x/msbuild"},
			{Name: "pkgconfig", Path: "github.com/goplus/cppkg/x/pkgconfig"},
		},
	})
}

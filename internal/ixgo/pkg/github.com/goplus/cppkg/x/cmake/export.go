// export by github.com/goplus/ixgo/cmd/qexp

package cmake

import (
	q "github.com/goplus/cppkg/x/cmake"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "cmake",
		Path: "github.com/goplus/cppkg/x/cmake",
		Deps: map[string]string{
			"context":                              "context",
			"errors":                               "errors",
			"fmt":                                  "fmt",
			"github.com/goplus/cppkg/internal/env": "env",
			"github.com/goplus/cppkg/recipe":       "recipe",
			"github.com/goplus/cppkg/x/files":      "files",
			"maps":                                 "maps",
			"os":                                   "os",
			"path/filepath":                        "filepath",
			"runtime":                              "runtime",
			"slices":                               "slices",
			"sort":                                 "sort",
			"strings":                              "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"CMake":     reflect.TypeOf((*q.CMake)(nil)).Elem(),
			"Deps":      reflect.TypeOf((*q.Deps)(nil)).Elem(),
			"Toolchain": reflect.TypeOf((*q.Toolchain)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"Config":        reflect.ValueOf(q.Config),
			"ConfigVersion": reflect.ValueOf(q.ConfigVersion),
			"New":           reflect.ValueOf(q.New),
			"NewDeps":       reflect.ValueOf(q.NewDeps),
			"NewToolchain":  reflect.ValueOf(q.NewToolchain),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"ToolchainFile": {"untyped string", constant.MakeString(string(q.ToolchainFile))},
		},
	})
}

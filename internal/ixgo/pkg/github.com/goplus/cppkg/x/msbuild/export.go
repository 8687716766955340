// export by github.com/goplus/ixgo/cmd/qexp

package msbuild

import (
	q "github.com/goplus/cppkg/x/msbuild"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "msbuild",
		Path: "github.com/goplus/cppkg/x/msbuild",
		Deps: map[string]string{
			"encoding/xml":                    "xml",
			"fmt":                             "fmt",
			"github.com/goplus/cppkg/recipe":  "recipe",
			"github.com/goplus/cppkg/x/files": "files",
			"os":                              "os",
			"path/filepath":                   "filepath",
			"regexp":                          "regexp",
			"slices":                          "slices",
			"sort":                            "sort",
			"strings":                         "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"MSBuild":   reflect.TypeOf((*q.MSBuild)(nil)).Elem(),
			"Toolchain": reflect.TypeOf((*q.Toolchain)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"Configuration": reflect.ValueOf(q.Configuration),
			"New":           reflect.ValueOf(q.New),
			"NewToolchain":  reflect.ValueOf(q.NewToolchain),
			"Platform":      reflect.ValueOf(q.Platform),
			"Toolset":       reflect.ValueOf(q.Toolset),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"ToolchainFile": {"untyped string", constant.MakeString(string(q.ToolchainFile))},
		},
	})
}

// export by github.com/goplus/ixgo/cmd/qexp

package meson

import (
	q "github.com/goplus/cppkg/x/meson"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "meson",
		Path: "github.com/goplus/cppkg/x/meson",
		Deps: map[string]string{
			"fmt":                             "fmt",
			"github.com/goplus/cppkg/recipe":  "recipe",
			"github.com/goplus/cppkg/x/files": "files",
			"os":                              "os",
			"path/filepath":                   "filepath",
			"slices":                          "slices",
			"sort":                            "sort",
			"strconv":                         "strconv",
			"strings":                         "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"Meson":     reflect.TypeOf((*q.Meson)(nil)).Elem(),
			"Toolchain": reflect.TypeOf((*q.Toolchain)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"New":          reflect.ValueOf(q.New),
			"NewToolchain": reflect.ValueOf(q.NewToolchain),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"ToolchainFile": {"untyped string", constant.MakeString(string(q.ToolchainFile))},
		},
	})
}

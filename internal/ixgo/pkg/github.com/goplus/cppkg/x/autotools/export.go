// export by github.com/goplus/ixgo/cmd/qexp

package autotools

import (
	q "github.com/goplus/cppkg/x/autotools"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "autotools",
		Path: "github.com/goplus/cppkg/x/autotools",
		Deps: map[string]string{
			"fmt":                                  "fmt",
			"github.com/goplus/cppkg/internal/env": "env",
			"github.com/goplus/cppkg/recipe":       "recipe",
			"github.com/goplus/cppkg/x/files":      "files",
			"os":                                   "os",
			"path/filepath":                        "filepath",
			"runtime":                              "runtime",
			"slices":                               "slices",
			"sort":                                 "sort",
			"strconv":                              "strconv",
			"strings":                              "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"Autotools": reflect.TypeOf((*q.Autotools)(nil)).Elem(),
			"MakeFile":  reflect.TypeOf((*q.MakeFile)(nil)).Elem(),
			"Toolchain": reflect.TypeOf((*q.Toolchain)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"New":          reflect.ValueOf(q.New),
			"NewMakeFile":  reflect.ValueOf(q.NewMakeFile),
			"NewToolchain": reflect.ValueOf(q.NewToolchain),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"ToolchainFile": {"untyped string", constant.MakeString(string(q.ToolchainFile))},
		},
	})
}

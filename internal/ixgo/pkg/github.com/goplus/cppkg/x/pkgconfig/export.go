// export by github.com/goplus/ixgo/cmd/qexp

package pkgconfig

import (
	q "github.com/goplus/cppkg/x/pkgconfig"

	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "pkgconfig",
		Path: "github.com/goplus/cppkg/x/pkgconfig",
		Deps: map[string]string{
			"errors":                          "errors",
			"fmt":                             "fmt",
			"github.com/goplus/cppkg/recipe":  "recipe",
			"github.com/goplus/cppkg/x/files": "files",
			"maps":                            "maps",
			"os":                              "os",
			"path/filepath":                   "filepath",
			"slices":                          "slices",
			"strings":                         "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"Deps": reflect.TypeOf((*q.Deps)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"Files":   reflect.ValueOf(q.Files),
			"NewDeps": reflect.ValueOf(q.NewDeps),
		},
		TypedConsts:   map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{},
	})
}

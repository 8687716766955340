// export by github.com/goplus/ixgo/cmd/qexp

package ver

import (
	q "github.com/goplus/cppkg/x/ver"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "ver",
		Path: "github.com/goplus/cppkg/x/ver",
		Deps: map[string]string{
			"golang.org/x/mod/semver": "semver",
			"slices":                  "slices",
			"strings":                 "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"Ordering": reflect.TypeOf((*q.Ordering)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"AtLeast": reflect.ValueOf(q.AtLeast),
			"Before":  reflect.ValueOf(q.Before),
			"Compare": reflect.ValueOf(q.Compare),
			"Max":     reflect.ValueOf(q.Max),
			"Sort":    reflect.ValueOf(q.Sort),
		},
		TypedConsts: map[string]ixgo.TypedConst{
			"Equal":   {reflect.TypeOf(q.Equal), constant.MakeInt64(int64(q.Equal))},
			"Greater": {reflect.TypeOf(q.Greater), constant.MakeInt64(int64(q.Greater))},
			"Less":    {reflect.TypeOf(q.Less), constant.MakeInt64(int64(q.Less))},
		},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"GopPackage": {"untyped bool", constant.MakeBool(bool(q.GopPackage))},
		},
	})
}

// export by github.com/goplus/ixgo/cmd/qexp

package files

import (
	q "github.com/goplus/cppkg/x/files"

	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "files",
		Path: "github.com/goplus/cppkg/x/files",
		Deps: map[string]string{
			"archive/tar":                    "tar",
			"archive/zip":                    "zip",
			"compress/bzip2":                 "bzip2",
			"compress/gzip":                  "gzip",
			"crypto/sha256":                  "sha256",
			"encoding/hex":                   "hex",
			"errors":                         "errors",
			"fmt":                            "fmt",
			"github.com/goplus/cppkg/recipe": "recipe",
			"github.com/ulikunitz/xz":        "xz",
			"io":                             "io",
			"io/fs":                          "fs",
			"net/http":                       "http",
			"net/url":                        "url",
			"os":                             "os",
			"path":                           "path",
			"path/filepath":                  "filepath",
			"slices":                         "slices",
			"sort":                           "sort",
			"strings":                        "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"CopyOption": reflect.TypeOf((*q.CopyOption)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"ApplyPatches":  reflect.ValueOf(q.ApplyPatches),
			"CollectLibs":   reflect.ValueOf(q.CollectLibs),
			"Copy":          reflect.ValueOf(q.Copy),
			"Download":      reflect.ValueOf(q.Download),
			"Exclude":       reflect.ValueOf(q.Exclude),
			"Flat":          reflect.ValueOf(q.Flat),
			"Get":           reflect.ValueOf(q.Get),
			"GetEntry":      reflect.ValueOf(q.GetEntry),
			"Load":          reflect.ValueOf(q.Load),
			"Mkdir":         reflect.ValueOf(q.Mkdir),
			"Rename":        reflect.ValueOf(q.Rename),
			"ReplaceInFile": reflect.ValueOf(q.ReplaceInFile),
			"Rm":            reflect.ValueOf(q.Rm),
			"Rmdir":         reflect.ValueOf(q.Rmdir),
			"Save":          reflect.ValueOf(q.Save),
			"Unpack":        reflect.ValueOf(q.Unpack),
		},
		TypedConsts:   map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{},
	})
}

// export by github.com/goplus/ixgo/cmd/qexp

package recipe

import (
	q "github.com/goplus/cppkg/recipe"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "recipe",
		Path: "github.com/goplus/cppkg/recipe",
		Deps: map[string]string{
			"context":                       "context",
			"errors":                        "errors",
			"fmt":                           "fmt",
			"github.com/goplus/cppkg/x/ver": "ver",
			"github.com/qiniu/x/gsh":        "gsh",
			"gopkg.in/yaml.v3":              "yaml",
			"io":                            "io",
			"log/slog":                      "slog",
			"maps":                          "maps",
			"net/http":                      "http",
			"os":                            "os",
			"path/filepath":                 "filepath",
			"regexp":                        "regexp",
			"slices":                        "slices",
			"sort":                          "sort",
			"strconv":                       "strconv",
			"strings":                       "strings",
			"sync":                          "sync",
		},
		Interfaces: map[string]reflect.Type{
			"BuildRequirer":     reflect.TypeOf((*q.BuildRequirer)(nil)).Elem(),
			"BuildSystem":       reflect.TypeOf((*q.BuildSystem)(nil)).Elem(),
			"Builder":           reflect.TypeOf((*q.Builder)(nil)).Elem(),
			"Configurer":        reflect.TypeOf((*q.Configurer)(nil)).Elem(),
			"DataProvider":      reflect.TypeOf((*q.DataProvider)(nil)).Elem(),
			"Generator":         reflect.TypeOf((*q.Generator)(nil)).Elem(),
			"HookSet":           reflect.TypeOf((*q.HookSet)(nil)).Elem(),
			"Locator":           reflect.TypeOf((*q.Locator)(nil)).Elem(),
			"OptionsConfigurer": reflect.TypeOf((*q.OptionsConfigurer)(nil)).Elem(),
			"PackageInfoer":     reflect.TypeOf((*q.PackageInfoer)(nil)).Elem(),
			"Packager":          reflect.TypeOf((*q.Packager)(nil)).Elem(),
			"Recipe":            reflect.TypeOf((*q.Recipe)(nil)).Elem(),
			"Requirer":          reflect.TypeOf((*q.Requirer)(nil)).Elem(),
			"Sourcer":           reflect.TypeOf((*q.Sourcer)(nil)).Elem(),
			"ToolRunner":        reflect.TypeOf((*q.ToolRunner)(nil)).Elem(),
			"Validator":         reflect.TypeOf((*q.Validator)(nil)).Elem(),
		},
		NamedTypes: map[string]reflect.Type{
			"Arch":                 reflect.TypeOf((*q.Arch)(nil)).Elem(),
			"ArtifactMissingError": reflect.TypeOf((*q.ArtifactMissingError)(nil)).Elem(),
			"BuildPlan":            reflect.TypeOf((*q.BuildPlan)(nil)).Elem(),
			"BuildType":            reflect.TypeOf((*q.BuildType)(nil)).Elem(),
			"Command":              reflect.TypeOf((*q.Command)(nil)).Elem(),
			"Compiler":             reflect.TypeOf((*q.Compiler)(nil)).Elem(),
			"CompilerSettings":     reflect.TypeOf((*q.CompilerSettings)(nil)).Elem(),
			"Component":            reflect.TypeOf((*q.Component)(nil)).Elem(),
			"ConfigurationError":   reflect.TypeOf((*q.ConfigurationError)(nil)).Elem(),
			"Context":              reflect.TypeOf((*q.Context)(nil)).Elem(),
			"Data":                 reflect.TypeOf((*q.Data)(nil)).Elem(),
			"DepOption":            reflect.TypeOf((*q.DepOption)(nil)).Elem(),
			"Dependency":           reflect.TypeOf((*q.Dependency)(nil)).Elem(),
			"DependencyInfo":       reflect.TypeOf((*q.DependencyInfo)(nil)).Elem(),
			"Descriptor":           reflect.TypeOf((*q.Descriptor)(nil)).Elem(),
			"Factory":              reflect.TypeOf((*q.Factory)(nil)).Elem(),
			"Folders":              reflect.TypeOf((*q.Folders)(nil)).Elem(),
			"LinkDescriptor":       reflect.TypeOf((*q.LinkDescriptor)(nil)).Elem(),
			"MinimumVersions":      reflect.TypeOf((*q.MinimumVersions)(nil)).Elem(),
			"OS":                   reflect.TypeOf((*q.OS)(nil)).Elem(),
			"Options":              reflect.TypeOf((*q.Options)(nil)).Elem(),
			"PackageType":          reflect.TypeOf((*q.PackageType)(nil)).Elem(),
			"PatchEntry":           reflect.TypeOf((*q.PatchEntry)(nil)).Elem(),
			"RecipeF":              reflect.TypeOf((*q.RecipeF)(nil)).Elem(),
			"Reference":            reflect.TypeOf((*q.Reference)(nil)).Elem(),
			"Requirements":         reflect.TypeOf((*q.Requirements)(nil)).Elem(),
			"Settings":             reflect.TypeOf((*q.Settings)(nil)).Elem(),
			"SourceEntry":          reflect.TypeOf((*q.SourceEntry)(nil)).Elem(),
			"ToolInvocationError":  reflect.TypeOf((*q.ToolInvocationError)(nil)).Elem(),
			"URLs":                 reflect.TypeOf((*q.URLs)(nil)).Elem(),
			"Value":                reflect.TypeOf((*q.Value)(nil)).Elem(),
			"Visibility":           reflect.TypeOf((*q.Visibility)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars: map[string]reflect.Value{
			"ErrArtifactMissing":      reflect.ValueOf(&q.ErrArtifactMissing),
			"ErrInvalidConfiguration": reflect.ValueOf(&q.ErrInvalidConfiguration),
			"ErrToolFailed":           reflect.ValueOf(&q.ErrToolFailed),
		},
		Funcs: map[string]reflect.Value{
			"Bool":              reflect.ValueOf(q.Bool),
			"CheckMinCppStd":    reflect.ValueOf(q.CheckMinCppStd),
			"CheckMinVS":        reflect.ValueOf(q.CheckMinVS),
			"DefaultBuild":      reflect.ValueOf(q.DefaultBuild),
			"DefaultPackage":    reflect.ValueOf(q.DefaultPackage),
			"Gopt_RecipeF_Main": reflect.ValueOf(q.Gopt_RecipeF_Main),
			"Invalidf":          reflect.ValueOf(q.Invalidf),
			"LibraryPatterns":   reflect.ValueOf(q.LibraryPatterns),
			"Lookup":            reflect.ValueOf(q.Lookup),
			"Names":             reflect.ValueOf(q.Names),
			"NewContext":        reflect.ValueOf(q.NewContext),
			"NewOptions":        reflect.ValueOf(q.NewOptions),
			"NewPlan":           reflect.ValueOf(q.NewPlan),
			"ParseCompiler":     reflect.ValueOf(q.ParseCompiler),
			"ParseData":         reflect.ValueOf(q.ParseData),
			"ParseReference":    reflect.ValueOf(q.ParseReference),
			"ParseSettings":     reflect.ValueOf(q.ParseSettings),
			"ParseValue":        reflect.ValueOf(q.ParseValue),
			"Register":          reflect.ValueOf(q.Register),
			"ValidMinCppStd":    reflect.ValueOf(q.ValidMinCppStd),
			"WithOption":        reflect.ValueOf(q.WithOption),
		},
		TypedConsts: map[string]ixgo.TypedConst{
			"ARMv7":          {reflect.TypeOf(q.ARMv7), constant.MakeString(string(q.ARMv7))},
			"ARMv8":          {reflect.TypeOf(q.ARMv8), constant.MakeString(string(q.ARMv8))},
			"Android":        {reflect.TypeOf(q.Android), constant.MakeString(string(q.Android))},
			"Any":            {reflect.TypeOf(q.Any), constant.MakeString(string(q.Any))},
			"AppleClang":     {reflect.TypeOf(q.AppleClang), constant.MakeInt64(int64(q.AppleClang))},
			"Application":    {reflect.TypeOf(q.Application), constant.MakeString(string(q.Application))},
			"Build":          {reflect.TypeOf(q.Build), constant.MakeInt64(int64(q.Build))},
			"Clang":          {reflect.TypeOf(q.Clang), constant.MakeInt64(int64(q.Clang))},
			"Debug":          {reflect.TypeOf(q.Debug), constant.MakeString(string(q.Debug))},
			"Emscripten":     {reflect.TypeOf(q.Emscripten), constant.MakeString(string(q.Emscripten))},
			"False":          {reflect.TypeOf(q.False), constant.MakeString(string(q.False))},
			"FreeBSD":        {reflect.TypeOf(q.FreeBSD), constant.MakeString(string(q.FreeBSD))},
			"GCC":            {reflect.TypeOf(q.GCC), constant.MakeInt64(int64(q.GCC))},
			"HeaderLibrary":  {reflect.TypeOf(q.HeaderLibrary), constant.MakeString(string(q.HeaderLibrary))},
			"IOS":            {reflect.TypeOf(q.IOS), constant.MakeString(string(q.IOS))},
			"Intel":          {reflect.TypeOf(q.Intel), constant.MakeInt64(int64(q.Intel))},
			"Library":        {reflect.TypeOf(q.Library), constant.MakeString(string(q.Library))},
			"Link":           {reflect.TypeOf(q.Link), constant.MakeInt64(int64(q.Link))},
			"Linux":          {reflect.TypeOf(q.Linux), constant.MakeString(string(q.Linux))},
			"MSVC":           {reflect.TypeOf(q.MSVC), constant.MakeInt64(int64(q.MSVC))},
			"Macos":          {reflect.TypeOf(q.Macos), constant.MakeString(string(q.Macos))},
			"MinSizeRel":     {reflect.TypeOf(q.MinSizeRel), constant.MakeString(string(q.MinSizeRel))},
			"NoneValue":      {reflect.TypeOf(q.NoneValue), constant.MakeString(string(q.NoneValue))},
			"RelWithDebInfo": {reflect.TypeOf(q.RelWithDebInfo), constant.MakeString(string(q.RelWithDebInfo))},
			"Release":        {reflect.TypeOf(q.Release), constant.MakeString(string(q.Release))},
			"SharedLibrary":  {reflect.TypeOf(q.SharedLibrary), constant.MakeString(string(q.SharedLibrary))},
			"StaticLibrary":  {reflect.TypeOf(q.StaticLibrary), constant.MakeString(string(q.StaticLibrary))},
			"Test":           {reflect.TypeOf(q.Test), constant.MakeInt64(int64(q.Test))},
			"True":           {reflect.TypeOf(q.True), constant.MakeString(string(q.True))},
			"Unknown":        {reflect.TypeOf(q.Unknown), constant.MakeInt64(int64(q.Unknown))},
			"Wasm":           {reflect.TypeOf(q.Wasm), constant.MakeString(string(q.Wasm))},
			"Windows":        {reflect.TypeOf(q.Windows), constant.MakeString(string(q.Windows))},
			"X86":            {reflect.TypeOf(q.X86), constant.MakeString(string(q.X86))},
			"X86_64":         {reflect.TypeOf(q.X86_64), constant.MakeString(string(q.X86_64))},
		},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"GopPackage":          {"untyped bool", constant.MakeBool(bool(q.GopPackage))},
			"KeyArch":             {"untyped string", constant.MakeString(string(q.KeyArch))},
			"KeyBuildType":        {"untyped string", constant.MakeString(string(q.KeyBuildType))},
			"KeyCompiler":         {"untyped string", constant.MakeString(string(q.KeyCompiler))},
			"KeyCompilerVersion":  {"untyped string", constant.MakeString(string(q.KeyCompilerVersion))},
			"KeyCppStd":           {"untyped string", constant.MakeString(string(q.KeyCppStd))},
			"KeyLibCxx":           {"untyped string", constant.MakeString(string(q.KeyLibCxx))},
			"KeyOS":               {"untyped string", constant.MakeString(string(q.KeyOS))},
			"KeyRuntime":          {"untyped string", constant.MakeString(string(q.KeyRuntime))},
			"PropCMakeFileName":   {"untyped string", constant.MakeString(string(q.PropCMakeFileName))},
			"PropCMakeTargetName": {"untyped string", constant.MakeString(string(q.PropCMakeTargetName))},
			"PropPkgConfigName":   {"untyped string", constant.MakeString(string(q.PropPkgConfigName))},
		},
	})
}

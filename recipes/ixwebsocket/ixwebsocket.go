// Package ixwebsocket is the recipe of IXWebSocket, a C++ WebSocket client
// and server library built with CMake.
package ixwebsocket

import (
	_ "embed"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/cmake"
	"github.com/goplus/cppkg/x/files"
	"github.com/goplus/cppkg/x/ver"
)

//go:embed sources.yml
var sources []byte

// TLS backends of the tls option.
const (
	MbedTLS  recipe.Value = "mbedtls"
	OpenSSL  recipe.Value = "openssl"
	AppleSSL recipe.Value = "applessl"
)

// Recipe builds IXWebSocket.
type Recipe struct{}

// New returns the ixwebsocket recipe.
func New() recipe.Recipe { return Recipe{} }

func (Recipe) Descriptor() *recipe.Descriptor {
	d := &recipe.Descriptor{
		Name:        "ixwebsocket",
		Description: "IXWebSocket is a C++ library for WebSocket client and server development",
		License:     "BSD-3-Clause",
		Homepage:    "https://github.com/machinezone/IXWebSocket",
		Topics:      []string{"socket", "websocket"},
		PackageType: recipe.Library,
	}
	return d.LibraryOptions().
		Option("tls", MbedTLS, MbedTLS, OpenSSL, AppleSSL, recipe.False).
		BoolOption("with_zlib", true)
}

func (Recipe) Data() (*recipe.Data, error) {
	return recipe.ParseData(sources)
}

// minCppStd is 11 from 11.0.8 on, 14 before.
func minCppStd(version string) string {
	if ver.Before(version, "11.0.8") {
		return "14"
	}
	return "11"
}

func (Recipe) ConfigOptions(ctx *recipe.Context) {
	if ctx.IsWindows() {
		ctx.Options.RmSafe("fPIC")
	}
	if ver.Before(ctx.Ref.Version, "10.1.5") {
		// zlib is mandatory before 10.1.5
		ctx.Options.RmSafe("with_zlib")
	}
}

func (Recipe) Configure(ctx *recipe.Context) {
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
}

func (Recipe) Requirements(ctx *recipe.Context, reqs *recipe.Requirements) {
	if ctx.Options.BoolOr("with_zlib", true) {
		reqs.Requires("zlib/1.2.13")
	}
	switch ctx.Options.Get("tls").OrElse(recipe.False) {
	case OpenSSL:
		reqs.Requires("openssl/1.1.1s")
	case MbedTLS:
		reqs.Requires("mbedtls/2.25.0")
	}
}

func (Recipe) Validate(ctx *recipe.Context) error {
	if err := recipe.CheckMinCppStd(ctx.Settings, minCppStd(ctx.Ref.Version)); err != nil {
		return err
	}
	tls := ctx.Options.Get("tls").OrElse(recipe.False)
	if tls == AppleSSL && !ctx.Settings.OS.IsApple() {
		return recipe.Invalidf("can only use Apple SSL on Apple")
	}
	// OpenSSL on Windows arrived in 7.9.3; earlier versions force MbedTLS.
	if tls == OpenSSL && ctx.IsWindows() && ver.Before(ctx.Ref.Version, "7.9.3") {
		return recipe.Invalidf("%s doesn't support OpenSSL with Windows; use v7.9.3 or newer", ctx.Ref)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func (Recipe) Generate(ctx *recipe.Context) (*recipe.BuildPlan, error) {
	tls := ctx.Options.Get("tls").OrElse(recipe.False)
	tc := cmake.NewToolchain(ctx)
	tc.Variables["USE_TLS"] = onOff(tls.Truthy())
	tc.Variables["USE_MBED_TLS"] = onOff(tls == MbedTLS)
	tc.Variables["USE_OPEN_SSL"] = onOff(tls == OpenSSL)
	if ver.AtLeast(ctx.Ref.Version, "10.1.5") {
		tc.Variables["USE_ZLIB"] = onOff(ctx.Options.Bool("with_zlib"))
	}
	tc.Variables["CMAKE_WINDOWS_EXPORT_ALL_SYMBOLS"] = "ON"

	c := cmake.New(ctx)
	plan := recipe.NewPlan(c)
	if err := tc.Generate(ctx, plan); err != nil {
		return nil, err
	}
	tc.Apply(ctx, c)
	deps, err := cmake.NewDeps(ctx)
	if err != nil {
		return nil, err
	}
	if err := deps.Generate(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

type replacement struct{ search, replace string }

// cmakePatches returns the CMakeLists.txt edits for version: use the
// generated MbedTLS config, stop forcing PIC and allow shared builds with
// complete install destinations.
func cmakePatches(version string) []replacement {
	r := []replacement{
		{"${MBEDTLS_INCLUDE_DIRS}", "${MbedTLS_INCLUDE_DIRS}"},
		{"${MBEDTLS_LIBRARIES}", "MbedTLS::mbedtls"},
	}
	if ver.AtLeast(version, "9.5.7") {
		r = append(r, replacement{"set(CMAKE_POSITION_INDEPENDENT_CODE ON)", ""})
	}
	if ver.Before(version, "11.1.4") {
		r = append(r, replacement{"add_library( ixwebsocket STATIC", "add_library( ixwebsocket"})
	}
	switch {
	case ver.Before(version, "9.8.5"):
		r = append(r, replacement{
			"ARCHIVE DESTINATION ${CMAKE_INSTALL_PREFIX}/lib",
			"ARCHIVE DESTINATION ${CMAKE_INSTALL_PREFIX}/lib LIBRARY DESTINATION lib RUNTIME DESTINATION bin",
		})
	case ver.Before(version, "11.4.3"):
		r = append(r, replacement{
			"ARCHIVE DESTINATION lib",
			"ARCHIVE DESTINATION lib LIBRARY DESTINATION lib RUNTIME DESTINATION bin",
		})
	default:
		r = append(r, replacement{
			"ARCHIVE DESTINATION ${CMAKE_INSTALL_LIBDIR}",
			"ARCHIVE DESTINATION ${CMAKE_INSTALL_LIBDIR} LIBRARY DESTINATION ${CMAKE_INSTALL_LIBDIR} RUNTIME DESTINATION bin",
		})
	}
	return r
}

func (Recipe) Build(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	cmakelists := ctx.SourcePath("CMakeLists.txt")
	for _, r := range cmakePatches(ctx.Ref.Version) {
		if err := files.ReplaceInFile(cmakelists, r.search, r.replace, true); err != nil {
			return err
		}
	}
	return recipe.DefaultBuild(ctx, plan)
}

func (Recipe) Package(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	if _, err := files.Copy("LICENSE*", ctx.Folders.Source, ctx.PackagePath("licenses"), files.Flat()); err != nil {
		return err
	}
	if err := plan.System.Install(ctx); err != nil {
		return err
	}
	return files.Rmdir(ctx.PackagePath("lib", "cmake"))
}

func (Recipe) PackageInfo(ctx *recipe.Context, info *recipe.LinkDescriptor) {
	info.SetProperty(recipe.PropCMakeFileName, "ixwebsocket")
	info.SetProperty(recipe.PropCMakeTargetName, "ixwebsocket::ixwebsocket")
	libs, err := files.CollectLibs(ctx.PackagePath("lib"))
	ctx.AddErr(err)
	info.Libs = libs

	tls := ctx.Options.Get("tls").OrElse(recipe.False)
	switch {
	case ctx.IsWindows():
		info.SystemLibs = append(info.SystemLibs, "wsock32", "ws2_32", "shlwapi")
		if tls.Truthy() {
			info.SystemLibs = append(info.SystemLibs, "crypt32")
		}
	case ctx.Settings.OS.IsUnixLike():
		info.SystemLibs = append(info.SystemLibs, "m", "pthread")
	}
	if ctx.Options.BoolOr("with_zlib", false) {
		info.Defines = append(info.Defines, "IXWEBSOCKET_USE_ZLIB")
	}
	switch tls {
	case MbedTLS:
		info.Defines = append(info.Defines, "IXWEBSOCKET_USE_MBED_TLS")
	case OpenSSL:
		info.Defines = append(info.Defines, "IXWEBSOCKET_USE_OPEN_SSL")
	case AppleSSL:
		info.Frameworks = []string{"Security", "CoreFoundation"}
		info.Defines = append(info.Defines, "IXWEBSOCKET_USE_SECURE_TRANSPORT")
	}
}

package recipe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordRunner struct {
	cmds []Command
	err  error
}

func (r *recordRunner) Run(ctx context.Context, cmd Command) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func newTestContext(t *testing.T, settings map[string]string) (*Context, *bytes.Buffer) {
	t.Helper()
	s, err := ParseSettings(settings)
	require.NoError(t, err)
	d := &Descriptor{Name: "cppcmd"}
	ctx := NewContext(context.Background(), Reference{Name: "cppcmd", Version: "1.0.0"}, s, d.NewOptions())
	var logs bytes.Buffer
	ctx.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	return ctx, &logs
}

func TestContextCheckCompiler(t *testing.T) {
	table := MinimumVersions{GCC: "7", Clang: "6"}

	ctx, logs := newTestContext(t, map[string]string{"compiler": "gcc", "compiler.version": "5"})
	err := ctx.CheckCompiler("17", table)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.ErrorContains(t, err, "requires C++17")
	assert.Empty(t, logs.String())

	ctx, logs = newTestContext(t, map[string]string{"compiler": "gcc", "compiler.version": "11"})
	assert.NoError(t, ctx.CheckCompiler("17", table))

	ctx, logs = newTestContext(t, map[string]string{"compiler": "intel-cc", "compiler.version": "2021"})
	assert.NoError(t, ctx.CheckCompiler("17", table))
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "assuming C++17 support")

	ctx, _ = newTestContext(t, map[string]string{"compiler": "gcc", "compiler.version": "11", "compiler.cppstd": "14"})
	assert.ErrorIs(t, ctx.CheckCompiler("17", table), ErrInvalidConfiguration)
}

func TestContextDependency(t *testing.T) {
	ctx, _ := newTestContext(t, nil)
	ctx.SetDependency(&DependencyInfo{
		Ref:     Reference{Name: "openssl", Version: "3.2.1"},
		Options: map[string]Value{"shared": True},
	})

	_, err := ctx.Dependency("openssl")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.ErrorContains(t, err, "cppkg build openssl/3.2.1")

	_, err = ctx.Dependency("zlib")
	assert.ErrorContains(t, err, "does not depend on zlib")

	assert.Equal(t, True, ctx.DependencyOption("openssl", "shared").OrElse(""))
	assert.False(t, ctx.DependencyOption("zlib", "shared").IsSome())

	ctx.SetDependency(&DependencyInfo{
		Ref:           Reference{Name: "openssl", Version: "3.2.1"},
		PackageFolder: "/p/openssl",
		Link:          &LinkDescriptor{Libs: []string{"ssl", "crypto"}},
	})
	info, err := ctx.Dependency("openssl")
	require.NoError(t, err)
	assert.Equal(t, "/p/openssl", info.PackageFolder)
	assert.Len(t, ctx.Dependencies(), 1)
}

func TestContextSourceEntry(t *testing.T) {
	ctx, _ := newTestContext(t, nil)
	_, err := ctx.SourceEntry()
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	ctx.Data = &Data{Sources: map[string]SourceEntry{"1.0.0": {URL: URLs{"https://example.com/a.tgz"}}}}
	src, err := ctx.SourceEntry()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.tgz", src.URL[0])

	ctx.Ref.Version = "2.0.0"
	_, err = ctx.SourceEntry()
	assert.ErrorContains(t, err, `unknown version "2.0.0"`)
}

func TestContextExec(t *testing.T) {
	ctx, _ := newTestContext(t, nil)
	ctx.Folders.Build = filepath.Join(t.TempDir(), "build")

	err := ctx.Run("make")
	var terr *ToolInvocationError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, -1, terr.ExitCode)

	runner := &recordRunner{}
	ctx.Runner = runner
	plan := NewPlan(nil)
	plan.SetEnv("PKG_CONFIG_PATH", "/gen")
	ctx.UsePlan(plan)

	require.NoError(t, ctx.Exec(Command{Tool: "make", Args: []string{"-j4"}, Dir: ctx.Folders.Build, Env: map[string]string{"CC": "gcc"}}))
	require.Len(t, runner.cmds, 1)
	cmd := runner.cmds[0]
	assert.Equal(t, map[string]string{"PKG_CONFIG_PATH": "/gen", "CC": "gcc"}, cmd.Env)
	assert.Equal(t, ctx.Stdout, cmd.Stdout)
	assert.DirExists(t, ctx.Folders.Build)

	runner.err = &ToolInvocationError{Tool: "make", ExitCode: 2}
	err = ctx.Run("make", "install")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 2, terr.ExitCode)
	assert.NotContains(t, ctx.Env, "CC")
}

func TestContextErrors(t *testing.T) {
	ctx, _ := newTestContext(t, nil)
	assert.NoError(t, ctx.TakeErr())
	ctx.AddErr(nil)
	ctx.AddErr(errors.New("first"))
	ctx.AddErr(Invalidf("second"))
	err := ctx.TakeErr()
	assert.ErrorContains(t, err, "first")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.NoError(t, ctx.TakeErr())

	ctx.Invalidf("%s is not supported", "wasm")
	assert.EqualError(t, ctx.TakeErr(), "invalid configuration: wasm is not supported")
}

func TestErrorMessages(t *testing.T) {
	terr := &ToolInvocationError{Tool: "cmake", Args: []string{"--build", "."}, ExitCode: 2}
	assert.Equal(t, "cmake --build . exited with status 2", terr.Error())
	assert.ErrorIs(t, terr, ErrToolFailed)

	cerr := &ConfigurationError{Ref: "ixwebsocket/11.4.5", Reason: "bad"}
	assert.Equal(t, "ixwebsocket/11.4.5: invalid configuration: bad", cerr.Error())

	merr := &ArtifactMissingError{Path: "/p/licenses", What: "license files"}
	assert.Equal(t, "missing license files: /p/licenses", merr.Error())
}

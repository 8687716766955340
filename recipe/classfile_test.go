package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSystem struct {
	calls []string
}

func (s *fakeSystem) Name() string { return "fake" }

func (s *fakeSystem) Configure(ctx *Context) error {
	s.calls = append(s.calls, "configure")
	return nil
}

func (s *fakeSystem) Build(ctx *Context, targets ...string) error {
	s.calls = append(s.calls, "build")
	return nil
}

func (s *fakeSystem) Install(ctx *Context) error {
	s.calls = append(s.calls, "install")
	return nil
}

func TestRecipeFAdapter(t *testing.T) {
	f := &RecipeF{}
	f.Name("libfoo")
	f.License("MIT")
	f.LibraryOptions()
	f.Option("backend", "a", "a", "b")
	f.Source("1.0.0", "https://example.com/libfoo-1.0.0.tar.gz", "")
	f.Patch("1.0.0", "patches/fix.patch", "fix build")

	sys := &fakeSystem{}
	f.OnConfigOptions(func(ctx *Context) {
		if ctx.IsWindows() {
			ctx.Options.RmSafe("fPIC")
		}
	})
	f.OnRequirements(func(ctx *Context, reqs *Requirements) {
		if ctx.Options.Is("backend", "b") {
			reqs.Requires("zlib/1.3.1")
		}
	})
	f.OnValidate(func(ctx *Context) {
		if ctx.Settings.OS == Macos {
			ctx.AddErr(Invalidf("macOS is not supported"))
		}
	})
	f.OnGenerate(func(ctx *Context, plan *BuildPlan) {
		plan.System = sys
	})
	f.OnPackageInfo(func(ctx *Context, info *LinkDescriptor) {
		info.Libs = []string{"foo"}
	})

	r := f.Recipe()
	assert.Equal(t, "libfoo", r.Descriptor().Name)
	require.NoError(t, r.Descriptor().Validate())

	data, err := r.(DataProvider).Data()
	require.NoError(t, err)
	assert.Len(t, data.PatchesFor("1.0.0"), 1)

	ctx := NewContext(context.Background(), Reference{Name: "libfoo", Version: "1.0.0"},
		Settings{OS: Windows}, r.Descriptor().NewOptions())
	r.(OptionsConfigurer).ConfigOptions(ctx)
	assert.False(t, ctx.Options.Has("fPIC"))

	require.NoError(t, ctx.Options.Set("backend", "b"))
	var reqs Requirements
	r.(Requirer).Requirements(ctx, &reqs)
	assert.Equal(t, []string{"zlib/1.3.1"}, reqs.Refs())

	assert.NoError(t, r.(Validator).Validate(ctx))
	ctx.Settings.OS = Macos
	assert.ErrorIs(t, r.(Validator).Validate(ctx), ErrInvalidConfiguration)

	plan, err := r.(Generator).Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fake", plan.SystemName())

	require.NoError(t, r.(Builder).Build(ctx, plan))
	require.NoError(t, r.(Packager).Package(ctx, plan))
	assert.Equal(t, []string{"configure", "build", "install"}, sys.calls)

	var info LinkDescriptor
	r.(PackageInfoer).PackageInfo(ctx, &info)
	assert.Equal(t, []string{"foo"}, info.Libs)
}

func TestRecipeFHookErrors(t *testing.T) {
	f := &RecipeF{}
	f.Name("libbar")
	f.OnBuild(func(ctx *Context, plan *BuildPlan) {
		ctx.AddErr(errors.New("boom"))
	})
	r := f.Recipe()
	ctx := NewContext(context.Background(), Reference{Name: "libbar", Version: "1"}, Settings{}, nil)
	assert.EqualError(t, r.(Builder).Build(ctx, NewPlan(nil)), "boom")
	assert.NoError(t, r.(Packager).Package(ctx, NewPlan(nil)))
	assert.NoError(t, r.(Sourcer).Source(ctx))

	hs := r.(HookSet)
	assert.True(t, hs.HasHook("build"))
	assert.False(t, hs.HasHook("source"))
	assert.False(t, hs.HasHook("package"))
	assert.True(t, hs.HasHook("validate"))

	f.SetFolder("/recipes/libbar")
	assert.Equal(t, "/recipes/libbar", r.(Locator).Folder())
}

type registryRecipe struct{}

func (registryRecipe) Descriptor() *Descriptor { return &Descriptor{Name: "registry-test"} }

func TestRegistry(t *testing.T) {
	Register("registry-test", func() Recipe { return registryRecipe{} })
	assert.Contains(t, Names(), "registry-test")

	r, ok := Lookup("registry-test")
	require.True(t, ok)
	assert.Equal(t, "registry-test", r.Descriptor().Name)

	_, ok = Lookup("registry-missing")
	assert.False(t, ok)

	assert.Panics(t, func() {
		Register("registry-test", func() Recipe { return registryRecipe{} })
	})
}

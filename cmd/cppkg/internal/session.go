package internal

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/internal/cache"
	"github.com/goplus/cppkg/internal/lifecycle"
	"github.com/goplus/cppkg/internal/loader"
	"github.com/goplus/cppkg/internal/profile"
	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"

	_ "github.com/goplus/cppkg/recipes"
)

// session is the state shared by the commands that run recipes.
type session struct {
	profile *profile.Profile
	cache   *cache.Cache
	runner  *lifecycle.Runner
}

func newSession(cmd *cobra.Command) (*session, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	c, err := openCache()
	if err != nil {
		return nil, err
	}
	stdout := io.Discard
	if verbose {
		stdout = cmd.ErrOrStderr()
	}
	return &session{
		profile: p,
		cache:   c,
		runner: &lifecycle.Runner{
			Logger:   logger(),
			Tools:    toolexec.New(logger()),
			Client:   http.DefaultClient,
			Resolver: &lifecycle.CacheResolver{Cache: c},
			Cache:    c,
			Stdout:   stdout,
			Stderr:   cmd.ErrOrStderr(),
		},
	}, nil
}

// invocation returns the invocation of r at ref.Version with the settings
// and options of the session's profile.
func (s *session) invocation(r recipe.Recipe, ref recipe.Reference) lifecycle.Invocation {
	return lifecycle.Invocation{
		Recipe:   r,
		Version:  ref.Version,
		Settings: s.profile.Settings,
		Options:  s.profile.OptionsFor(ref.Name, true),
	}
}

// loadProfile lays --profile and then -s/-o over the host profile.
func loadProfile() (*profile.Profile, error) {
	p := profile.Host()
	if profileFlag != "" {
		loaded, err := profile.Load(profileFlag)
		if err != nil {
			return nil, err
		}
		p = p.Merge(loaded)
	}
	if err := p.Apply(settingFlags, optionFlags); err != nil {
		return nil, err
	}
	return p, nil
}

func openCache() (*cache.Cache, error) {
	if workspaceFlag != "" {
		return cache.New(workspaceFlag), nil
	}
	return cache.Open()
}

// findRecipe returns the recipe called name. Classfiles under --recipes
// take precedence over built-in recipes.
func findRecipe(cmd *cobra.Command, name string) (recipe.Recipe, error) {
	var loadErr error
	if recipesFlag != "" {
		files, err := loader.LoadDir(recipesFlag)
		for _, f := range files {
			if f.Recipe.Descriptor().Name == name {
				f.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
				return f.Recipe, nil
			}
		}
		loadErr = err
	}
	if r, ok := recipe.Lookup(name); ok {
		return r, nil
	}
	if loadErr != nil {
		return nil, fmt.Errorf("recipe %s not found: %w", name, loadErr)
	}
	return nil, newPrinter(cmd).Error(
		fmt.Sprintf("Unknown recipe %s", name),
		"No built-in recipe or classfile carries this name.",
		"Run 'cppkg list' to see the available recipes",
		"Pass the directory of its classfile with --recipes",
	)
}

// allRecipes returns the built-in recipes followed by the classfiles under
// --recipes. A classfile named like a built-in recipe replaces it.
func allRecipes(cmd *cobra.Command) ([]recipe.Recipe, error) {
	byName := make(map[string]int)
	var out []recipe.Recipe
	for _, name := range recipe.Names() {
		r, _ := recipe.Lookup(name)
		byName[name] = len(out)
		out = append(out, r)
	}
	if recipesFlag == "" {
		return out, nil
	}
	files, err := loader.LoadDir(recipesFlag)
	for _, f := range files {
		f.SetOutput(io.Discard, io.Discard)
		name := f.Recipe.Descriptor().Name
		if i, ok := byName[name]; ok {
			out[i] = f.Recipe
			continue
		}
		byName[name] = len(out)
		out = append(out, f.Recipe)
	}
	if err != nil {
		return out, fmt.Errorf("failed to load recipes: %w", err)
	}
	return out, nil
}

// selectRecipes returns the recipes called names, or all recipes when
// names is empty.
func selectRecipes(cmd *cobra.Command, names []string) ([]recipe.Recipe, error) {
	if len(names) == 0 {
		return allRecipes(cmd)
	}
	var (
		out  []recipe.Recipe
		errs []error
	)
	for _, name := range names {
		r, err := findRecipe(cmd, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

// versions returns the versions r has sources for, newest first.
func versions(r recipe.Recipe) []string {
	dp, ok := r.(recipe.DataProvider)
	if !ok {
		return nil
	}
	d, err := dp.Data()
	if err != nil || d == nil {
		return nil
	}
	return d.Versions()
}

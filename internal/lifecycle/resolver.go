package lifecycle

import (
	"context"

	"github.com/goplus/cppkg/internal/cache"
	"github.com/goplus/cppkg/recipe"
)

// CacheResolver finds dependency packages in a package cache. It never
// builds anything.
type CacheResolver struct {
	Cache *cache.Cache
}

var _ Resolver = (*CacheResolver)(nil)

// Resolve returns the newest cached build of dep compatible with settings.
// Tool requirements run on the build machine, so only link and test
// dependencies are matched against the consumer's settings.
func (r *CacheResolver) Resolve(ctx context.Context, dep recipe.Dependency, settings map[string]string) (*recipe.DependencyInfo, error) {
	if dep.Visibility == recipe.Build {
		settings = nil
	}
	entry, ok, err := r.Cache.Find(dep.Ref, settings, dep.Options)
	if err != nil || !ok {
		return nil, err
	}
	return &recipe.DependencyInfo{
		Ref:           dep.Ref,
		Visibility:    dep.Visibility,
		Options:       entry.OptionValues(),
		Settings:      entry.Settings,
		Link:          entry.Link,
		PackageFolder: r.Cache.Folders(dep.Ref, entry.PackageID).Package,
	}, nil
}

// Package cache stores built packages in the workspace and indexes them by
// package id.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goplus/cppkg/internal/env"
	"github.com/goplus/cppkg/recipe"
)

// Workspace directory layout:
//
//	root/
//	  <name>/
//	    .cache.json               # maps "version-pkgid" to an Entry
//	    <version>/src/            # shared by every package id of the version
//	    <version>/build-<pkgid>/
//	    <version>/p-<pkgid>/      # package folder
const cacheFile = ".cache.json"

// Entry describes one built package.
type Entry struct {
	Version   string                 `json:"version"`
	PackageID string                 `json:"package_id"`
	Settings  map[string]string      `json:"settings"`
	Options   map[string]string      `json:"options"`
	Requires  []string               `json:"requires,omitempty"`
	Link      *recipe.LinkDescriptor `json:"link"`
	BuildTime time.Time              `json:"build_time"`
}

// OptionValues returns the options of e as recipe values.
func (e *Entry) OptionValues() map[string]recipe.Value {
	out := make(map[string]recipe.Value, len(e.Options))
	for k, v := range e.Options {
		out[k] = recipe.Value(v)
	}
	return out
}

type index struct {
	Cache map[string]*Entry `json:"cache"`
}

func cacheKey(version, pkgID string) string {
	return version + "-" + pkgID
}

// Cache is a package cache rooted at a workspace directory.
type Cache struct {
	root string
	mu   sync.Mutex
}

// New returns a cache rooted at root.
func New(root string) *Cache {
	return &Cache{root: root}
}

// Open returns the cache of the default workspace.
func Open() (*Cache, error) {
	root, err := env.WorkDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate workspace: %w", err)
	}
	return New(root), nil
}

// Root returns the workspace directory.
func (c *Cache) Root() string { return c.root }

// PackageID hashes the inputs that identify a binary package: the settings
// left after the recipe's removals, the final options and the requirement
// references. Map order and requirement order do not matter.
func PackageID(settings map[string]string, options map[string]recipe.Value, requires []string) string {
	var lines []string
	for k, v := range settings {
		lines = append(lines, "settings."+k+"="+v)
	}
	for k, v := range options {
		lines = append(lines, "options."+k+"="+string(v))
	}
	for _, r := range requires {
		lines = append(lines, "requires="+r)
	}
	sort.Strings(lines)
	sum := sha1.Sum([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// Folders returns the folders of a build of ref with pkgID. Each build
// gets its own source tree, as recipes patch and configure in place.
func (c *Cache) Folders(ref recipe.Reference, pkgID string) recipe.Folders {
	base := filepath.Join(c.root, ref.Name, ref.Version)
	build := filepath.Join(base, "build-"+pkgID)
	return recipe.Folders{
		Source:     filepath.Join(build, "src"),
		Build:      build,
		Generators: filepath.Join(build, "generators"),
		Package:    filepath.Join(base, "p-"+pkgID),
	}
}

// Get returns the entry of ref with pkgID. A cached entry whose package
// folder vanished is reported as a miss.
func (c *Cache) Get(ref recipe.Reference, pkgID string) (*Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.load(ref.Name)
	if err != nil {
		return nil, false, err
	}
	e, ok := idx.Cache[cacheKey(ref.Version, pkgID)]
	if !ok {
		return nil, false, nil
	}
	if _, err := os.Stat(c.Folders(ref, pkgID).Package); err != nil {
		return nil, false, nil
	}
	return e, true, nil
}

// Put records e as a build of the package name.
func (c *Cache) Put(name string, e *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.load(name)
	if err != nil {
		return err
	}
	if idx.Cache == nil {
		idx.Cache = make(map[string]*Entry)
	}
	idx.Cache[cacheKey(e.Version, e.PackageID)] = e
	return c.save(name, idx)
}

// Remove deletes a build of ref and its folders, its source tree included.
func (c *Cache) Remove(ref recipe.Reference, pkgID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.load(ref.Name)
	if err != nil {
		return err
	}
	delete(idx.Cache, cacheKey(ref.Version, pkgID))
	f := c.Folders(ref, pkgID)
	for _, dir := range []string{f.Build, f.Package} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return c.save(ref.Name, idx)
}

// Entries returns the builds of name, newest first.
func (c *Cache) Entries(name string) ([]*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.load(name)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(idx.Cache))
	for _, e := range idx.Cache {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Entry) int {
		if c := b.BuildTime.Compare(a.BuildTime); c != 0 {
			return c
		}
		return strings.Compare(a.PackageID, b.PackageID)
	})
	return out, nil
}

// compatKeys are the settings a dependency must share with its consumer.
var compatKeys = []string{recipe.KeyOS, recipe.KeyArch, recipe.KeyBuildType}

// Find returns the newest build of ref usable by a consumer with settings,
// honoring the requested dependency options.
func (c *Cache) Find(ref recipe.Reference, settings map[string]string, options map[string]recipe.Value) (*Entry, bool, error) {
	entries, err := c.Entries(ref.Name)
	if err != nil {
		return nil, false, err
	}
next:
	for _, e := range entries {
		if e.Version != ref.Version {
			continue
		}
		for _, k := range compatKeys {
			want, ok := settings[k]
			if have, set := e.Settings[k]; ok && set && have != want {
				continue next
			}
		}
		for k, v := range options {
			if e.Options[k] != string(v) {
				continue next
			}
		}
		if _, err := os.Stat(c.Folders(ref, e.PackageID).Package); err != nil {
			continue
		}
		return e, true, nil
	}
	return nil, false, nil
}

func (c *Cache) load(name string) (*index, error) {
	data, err := os.ReadFile(filepath.Join(c.root, name, cacheFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &index{}, nil
	}
	if err != nil {
		return nil, err
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse %s cache: %w", name, err)
	}
	return &idx, nil
}

func (c *Cache) save(name string, idx *index) error {
	dir := filepath.Join(c.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}

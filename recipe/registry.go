package recipe

import (
	"fmt"
	"sort"
	"sync"
)

// Factory returns a new instance of a recipe.
type Factory func() Recipe

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a recipe available by name. It panics if the name is
// registered twice.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("recipe: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("recipe: Register called twice for %s", name))
	}
	registry[name] = f
}

// Lookup returns a new instance of the named recipe.
func Lookup(name string) (Recipe, bool) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered recipe names sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package env

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// HomeEnv overrides the workspace location.
const HomeEnv = "CPPKG_HOME"

// WorkDir returns the workspace root, $CPPKG_HOME or <UserCacheDir>/.cppkg.
func WorkDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Abs(dir)
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".cppkg"), nil
}

// RecipesDir returns the directory of user classfile recipes and creates it
// if needed.
func RecipesDir() (string, error) {
	root, err := WorkDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "recipes")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// ListSeparator returns the separator of PATH-style variables on goos.
func ListSeparator(goos string) string {
	if goos == "windows" {
		return ";"
	}
	return ":"
}

// PrependPath prepends value to a PATH-style variable in vars.
func PrependPath(vars map[string]string, key, value string) {
	if cur := vars[key]; cur != "" {
		value += ListSeparator(runtime.GOOS) + cur
	}
	vars[key] = value
}

// AppendFlag appends a space-separated flag to a variable in vars.
func AppendFlag(vars map[string]string, key, flag string) {
	if cur := vars[key]; cur != "" {
		flag = cur + " " + flag
	}
	vars[key] = flag
}

// Merge returns base with every key in overrides replaced or appended.
// Appended keys are sorted.
func Merge(base []string, overrides map[string]string) []string {
	out := slices.Clone(base)
	idx := make(map[string]int, len(out))
	for i, kv := range out {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := overrides[k]
		if i, ok := idx[k]; ok {
			out[i] = k + "=" + v
		} else {
			out = append(out, k+"="+v)
		}
	}
	return out
}

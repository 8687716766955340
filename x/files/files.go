// Package files holds the file helpers recipes use in source and package:
// fetching upstream archives, copying artifacts and pruning the package
// folder.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Mkdir creates dir and its parents.
func Mkdir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// Save writes content to name, creating parent directories.
func Save(name, content string) error {
	if err := Mkdir(filepath.Dir(name)); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	return os.WriteFile(name, []byte(content), 0644)
}

// Load reads name as a string.
func Load(name string) (string, error) {
	b, err := os.ReadFile(name)
	return string(b), err
}

// ReplaceInFile replaces every occurrence of search in name. With strict
// set, a missing search string is an error.
func ReplaceInFile(name, search, replace string, strict bool) error {
	content, err := Load(name)
	if err != nil {
		return err
	}
	if !strings.Contains(content, search) {
		if strict {
			return fmt.Errorf("%s: pattern %q not found", name, search)
		}
		return nil
	}
	return os.WriteFile(name, []byte(strings.ReplaceAll(content, search, replace)), 0644)
}

// Rename moves src to dst, replacing dst if it exists.
func Rename(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if err := Mkdir(filepath.Dir(dst)); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// Rmdir removes dir and everything below it. A missing dir is not an error.
func Rmdir(dir string) error {
	return os.RemoveAll(dir)
}

// Rm removes the files under dir whose name matches pattern, e.g. "*.la".
// With recursive set, subdirectories are searched too.
func Rm(pattern, dir string, recursive bool) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			return os.Remove(p)
		}
		return nil
	})
}

// -----------------------------------------------------------------------------

type copyConfig struct {
	keepPath bool
	excludes []string
}

// CopyOption customizes Copy.
type CopyOption func(*copyConfig)

// Flat copies matching files directly into dst, dropping their relative
// directories.
func Flat() CopyOption {
	return func(c *copyConfig) { c.keepPath = false }
}

// Exclude skips files whose relative path matches one of patterns.
func Exclude(patterns ...string) CopyOption {
	return func(c *copyConfig) { c.excludes = append(c.excludes, patterns...) }
}

// Copy copies the files below src matching pattern into dst and returns the
// copied destination paths sorted. Patterns without a slash match the file
// name at any depth; patterns with one match the slash-separated relative
// path, e.g. "include/*.h". A missing src copies nothing.
func Copy(pattern, src, dst string, opts ...CopyOption) ([]string, error) {
	cfg := copyConfig{keepPath: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	var copied []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == src && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !match(pattern, rel) {
			return nil
		}
		for _, ex := range cfg.excludes {
			if match(ex, rel) {
				return nil
			}
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if !cfg.keepPath {
			target = filepath.Join(dst, d.Name())
		}
		if err := copyFile(p, target, d); err != nil {
			return err
		}
		copied = append(copied, target)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s from %s: %w", pattern, src, err)
	}
	sort.Strings(copied)
	return copied, nil
}

func match(pattern, rel string) bool {
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}
	ok, _ := path.Match(pattern, rel)
	return ok
}

func copyFile(src, dst string, d fs.DirEntry) error {
	if err := Mkdir(filepath.Dir(dst)); err != nil {
		return err
	}
	if d.Type()&fs.ModeSymlink != 0 {
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		os.Remove(dst)
		return os.Symlink(link, dst)
	}
	info, err := d.Info()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}

// -----------------------------------------------------------------------------

var libSuffixes = []string{".dll.a", ".a", ".lib", ".dylib", ".so"}

// CollectLibs returns the library names found in libDir, e.g. "ssl" for
// libssl.so.3, sorted and without duplicates.
func CollectLibs(libDir string) ([]string, error) {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seen := make(map[string]bool)
	var libs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := libName(e.Name())
		if name != "" && !seen[name] {
			seen[name] = true
			libs = append(libs, name)
		}
	}
	sort.Strings(libs)
	return libs, nil
}

func libName(file string) string {
	base := file
	if i := strings.Index(base, ".so."); i > 0 {
		base = base[:i+len(".so")]
	}
	for _, suffix := range libSuffixes {
		if name, ok := strings.CutSuffix(base, suffix); ok {
			if suffix == ".lib" {
				return name
			}
			if n, ok := strings.CutPrefix(name, "lib"); ok && n != "" {
				return n
			}
			return ""
		}
	}
	return ""
}

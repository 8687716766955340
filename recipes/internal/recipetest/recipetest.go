// Package recipetest runs built-in recipes through the real lifecycle with
// faked downloads and tools.
package recipetest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/goplus/cppkg/internal/cache"
	"github.com/goplus/cppkg/internal/lifecycle"
	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"
	"github.com/ulikunitz/xz"
)

// Settings used by most recipe tests.
var (
	Linux = map[string]string{
		"os":               "Linux",
		"arch":             "x86_64",
		"compiler":         "gcc",
		"compiler.version": "13",
		"compiler.cppstd":  "17",
		"compiler.libcxx":  "libstdc++11",
		"build_type":       "Release",
	}
	Windows = map[string]string{
		"os":               "Windows",
		"arch":             "x86_64",
		"compiler":         "msvc",
		"compiler.version": "193",
		"compiler.runtime": "dynamic",
		"build_type":       "Release",
	}
	Macos = map[string]string{
		"os":               "Macos",
		"arch":             "armv8",
		"compiler":         "apple-clang",
		"compiler.version": "15",
		"compiler.libcxx":  "libc++",
		"build_type":       "Release",
	}
)

// With returns a copy of settings with kv applied.
func With(settings map[string]string, kv ...string) map[string]string {
	out := make(map[string]string, len(settings))
	for k, v := range settings {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

// Harness is a runner over a temporary cache. Every source URL is answered
// with an archive of Sources below a single root directory.
type Harness struct {
	Runner *lifecycle.Runner
	Tools  *toolexec.Recorder
	Cache  *cache.Cache
	Logs   *bytes.Buffer
	// Sources maps slash-separated paths to file contents.
	Sources map[string]string

	t testing.TB
}

// New returns a Harness whose tools do nothing until Tools.Hook is set.
func New(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{
		Tools:   &toolexec.Recorder{},
		Cache:   cache.New(t.TempDir()),
		Logs:    new(bytes.Buffer),
		Sources: make(map[string]string),
		t:       t,
	}
	h.Runner = &lifecycle.Runner{
		Logger:   slog.New(slog.NewTextHandler(h.Logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Tools:    h.Tools,
		Client:   &http.Client{Transport: h},
		Resolver: &lifecycle.CacheResolver{Cache: h.Cache},
		Cache:    h.Cache,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	return h
}

// RoundTrip serves the source archive for any request.
func (h *Harness) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := h.archive(strings.HasSuffix(req.URL.Path, ".tar.xz"))
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}, nil
}

func (h *Harness) archive(useXZ bool) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	if useXZ {
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		w = xw
	} else {
		w = gzip.NewWriter(&buf)
	}
	tw := tar.NewWriter(w)
	names := make([]string, 0, len(h.Sources))
	for name := range h.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		content := h.Sources[name]
		hdr := &tar.Header{
			Name:     "pkg-src/" + name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(tw, content); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Configure runs the configuration steps of r.
func (h *Harness) Configure(r recipe.Recipe, settings map[string]string, opts map[string]recipe.Value) (*lifecycle.Configured, error) {
	return h.Runner.Configure(context.Background(), lifecycle.Invocation{Recipe: r, Settings: settings, Options: opts})
}

// Run builds r.
func (h *Harness) Run(r recipe.Recipe, settings map[string]string, opts map[string]recipe.Value) (*lifecycle.Result, error) {
	return h.Runner.Run(context.Background(), lifecycle.Invocation{Recipe: r, Settings: settings, Options: opts})
}

// AddPackage records a built package of ref in the cache so that recipes
// depending on it can be configured and built.
func (h *Harness) AddPackage(ref string, settings map[string]string, opts map[string]recipe.Value, link *recipe.LinkDescriptor) {
	h.t.Helper()
	r, err := recipe.ParseReference(ref)
	if err != nil {
		h.t.Fatal(err)
	}
	if link == nil {
		link = &recipe.LinkDescriptor{}
	}
	options := make(map[string]string, len(opts))
	for k, v := range opts {
		options[k] = string(v)
	}
	pkgID := cache.PackageID(settings, opts, nil)
	if err := os.MkdirAll(h.Cache.Folders(r, pkgID).Package, 0755); err != nil {
		h.t.Fatal(err)
	}
	err = h.Cache.Put(r.Name, &cache.Entry{
		Version:   r.Version,
		PackageID: pkgID,
		Settings:  settings,
		Options:   options,
		Link:      link,
		BuildTime: time.Now(),
	})
	if err != nil {
		h.t.Fatal(err)
	}
}

// PackageFolder returns the package folder a build of r with settings and
// opts will use.
func (h *Harness) PackageFolder(r recipe.Recipe, settings map[string]string, opts map[string]recipe.Value) string {
	h.t.Helper()
	c, err := h.Configure(r, settings, opts)
	if err != nil {
		h.t.Fatalf("Configure() returned error: %v", err)
	}
	return h.Cache.Folders(c.Ref(), c.PackageID).Package
}

// InstallOn returns a tool hook that writes files below dir when a command
// of tool with an argument starting with arg runs. Paths are
// slash-separated and relative to dir.
func InstallOn(dir, tool, arg string, files ...string) func(recipe.Command) error {
	return func(c recipe.Command) error {
		if c.Tool != tool || !contains(c.Args, arg) {
			return nil
		}
		for _, f := range files {
			p := filepath.Join(dir, filepath.FromSlash(f))
			if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(p, []byte(f), 0644); err != nil {
				return err
			}
		}
		return nil
	}
}

func contains(args []string, arg string) bool {
	for _, a := range args {
		if a == arg || strings.HasPrefix(a, arg) {
			return true
		}
	}
	return false
}

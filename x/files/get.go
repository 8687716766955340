package files

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/ulikunitz/xz"
)

// Marker files in the source folder: which archive it was extracted from,
// and that its patches are applied.
const (
	markerFile  = ".cppkg_source"
	patchedFile = ".cppkg_patched"
)

// Get fetches the source of the version being built into the source folder.
// It tries the mirrors of the sources.yml entry in order, verifies the
// checksum and unpacks the archive. A source folder already extracted from
// the same archive is left untouched.
func Get(ctx *recipe.Context) error {
	src, err := ctx.SourceEntry()
	if err != nil {
		return err
	}
	return GetEntry(ctx, src, ctx.Folders.Source)
}

// GetEntry is Get for an explicit entry and destination.
func GetEntry(ctx *recipe.Context, src recipe.SourceEntry, dest string) error {
	stamp := src.SHA256
	if stamp == "" {
		stamp = strings.Join(src.URL, " ")
		ctx.Warnf("no sha256 pinned for %s, the download is not verified", ctx.Ref)
	}
	if cur, err := Load(filepath.Join(dest, markerFile)); err == nil && cur == stamp {
		ctx.Infof("source already staged in %s", dest)
		return nil
	}

	if err := Rmdir(dest); err != nil {
		return fmt.Errorf("failed to clean %s: %w", dest, err)
	}
	if err := Mkdir(filepath.Dir(dest)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "download-*")
	if err != nil {
		return err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	var errs []error
	var fetched string
	for _, u := range src.URL {
		ctx.Infof("downloading %s", u)
		if err := Download(ctx, u, tmp.Name(), src.SHA256); err != nil {
			ctx.Warnf("failed to download %s: %v", u, err)
			errs = append(errs, err)
			continue
		}
		fetched = u
		break
	}
	if fetched == "" {
		return fmt.Errorf("failed to download %s: %w", ctx.Ref, errors.Join(errs...))
	}
	if err := Unpack(tmp.Name(), archiveName(fetched), dest, src.StripRoot); err != nil {
		return err
	}
	return Save(filepath.Join(dest, markerFile), stamp)
}

// Download fetches rawURL into dst and, when sha256sum is not empty, checks
// the digest of what was received.
func Download(ctx *recipe.Context, rawURL, dst, sha256sum string) error {
	req, err := http.NewRequestWithContext(ctx.Ctx(), http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	client := ctx.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	h := sha256.New()
	_, err = io.Copy(io.MultiWriter(f, h), resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", rawURL, err)
	}
	if sha256sum != "" {
		if got := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(got, sha256sum) {
			return fmt.Errorf("sha256 mismatch for %s: got %s, want %s", rawURL, got, sha256sum)
		}
	}
	return nil
}

func archiveName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// Unpack extracts the archive at file into dest. name selects the format
// by extension: .tar.gz, .tgz, .tar.xz, .txz, .tar.bz2, .tbz2, .tar or .zip.
// With stripRoot, the single top-level directory of the archive is removed
// from every path.
func Unpack(file, name, dest string, stripRoot bool) error {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".zip") {
		return unzip(file, dest, stripRoot)
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		r = xr
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		r = bzip2.NewReader(f)
	case strings.HasSuffix(lower, ".tar"):
		r = f
	default:
		return fmt.Errorf("unsupported archive format: %s", name)
	}
	return untar(r, dest, stripRoot)
}

// extractor writes archive entries below dest. Every write goes through an
// os.Root, so no entry lands outside dest, not even through a symlink the
// archive created earlier.
type extractor struct {
	dest string
	root *os.Root
}

func newExtractor(dest string) (*extractor, error) {
	dest = filepath.Clean(dest)
	if err := Mkdir(dest); err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return nil, err
	}
	return &extractor{dest: dest, root: root}, nil
}

func (x *extractor) Close() error { return x.root.Close() }

// rel returns target relative to dest. target comes from entryPath and is
// always below dest.
func (x *extractor) rel(target string) string {
	rel, err := filepath.Rel(x.dest, target)
	if err != nil {
		return target
	}
	return rel
}

func (x *extractor) mkdirAll(rel string) error {
	if rel == "." || rel == "" {
		return nil
	}
	if err := x.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}
	err := x.root.Mkdir(rel, 0755)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	fi, err := x.root.Stat(rel)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("archive path %s is not a directory", rel)
	}
	return nil
}

func (x *extractor) writeFile(rel string, r io.Reader, perm os.FileMode) error {
	if err := x.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0644
	}
	f, err := x.root.OpenFile(rel, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// symlink creates rel pointing at linkname. Absolute links and links that
// leave dest are refused.
func (x *extractor) symlink(rel, linkname string) error {
	resolved := filepath.Join(x.dest, filepath.Dir(rel), filepath.FromSlash(linkname))
	if filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") ||
		!strings.HasPrefix(resolved+string(os.PathSeparator), x.dest+string(os.PathSeparator)) {
		return fmt.Errorf("archive symlink %s -> %s escapes %s", rel, linkname, x.dest)
	}
	if err := x.mkdirAll(filepath.Dir(rel)); err != nil {
		return err
	}
	x.root.Remove(rel)
	parent, err := filepath.EvalSymlinks(filepath.Join(x.dest, filepath.Dir(rel)))
	if err != nil {
		return err
	}
	realDest, err := filepath.EvalSymlinks(x.dest)
	if err != nil {
		return err
	}
	if parent != realDest && !strings.HasPrefix(parent, realDest+string(os.PathSeparator)) {
		return fmt.Errorf("archive symlink %s is below a link out of %s", rel, x.dest)
	}
	return os.Symlink(linkname, filepath.Join(parent, filepath.Base(rel)))
}

// link copies the already extracted file linked into rel.
func (x *extractor) link(rel, linked string) error {
	src, err := x.root.Open(linked)
	if err != nil {
		return err
	}
	defer src.Close()
	fi, err := src.Stat()
	if err != nil {
		return err
	}
	return x.writeFile(rel, src, fi.Mode().Perm())
}

func untar(r io.Reader, dest string, stripRoot bool) error {
	x, err := newExtractor(dest)
	if err != nil {
		return err
	}
	defer x.Close()
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		target, ok, err := entryPath(dest, hdr.Name, stripRoot)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		rel := x.rel(target)
		switch hdr.Typeflag {
		case tar.TypeDir:
			err = x.mkdirAll(rel)
		case tar.TypeReg:
			err = x.writeFile(rel, tr, os.FileMode(hdr.Mode).Perm())
		case tar.TypeSymlink:
			err = x.symlink(rel, hdr.Linkname)
		case tar.TypeLink:
			linked, ok, lerr := entryPath(dest, hdr.Linkname, stripRoot)
			if lerr != nil || !ok {
				return fmt.Errorf("bad hard link %s -> %s", hdr.Name, hdr.Linkname)
			}
			err = x.link(rel, x.rel(linked))
		}
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
		}
	}
}

func unzip(file, dest string, stripRoot bool) error {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	defer zr.Close()
	x, err := newExtractor(dest)
	if err != nil {
		return err
	}
	defer x.Close()
	for _, zf := range zr.File {
		target, ok, err := entryPath(dest, zf.Name, stripRoot)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		rel := x.rel(target)
		if zf.FileInfo().IsDir() {
			if err := x.mkdirAll(rel); err != nil {
				return err
			}
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		err = x.writeFile(rel, rc, zf.Mode().Perm())
		rc.Close()
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", zf.Name, err)
		}
	}
	return nil
}

// entryPath maps an archive entry to its place under dest. ok is false for
// entries that vanish after stripping the root, such as the root itself.
func entryPath(dest, name string, stripRoot bool) (target string, ok bool, err error) {
	name = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, `\`, "/")), "/")
	if stripRoot {
		_, rest, found := strings.Cut(name, "/")
		if !found || rest == "" {
			return "", false, nil
		}
		name = rest
	}
	if name == "" || name == "." {
		return "", false, nil
	}
	target = filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", false, fmt.Errorf("archive entry %q escapes %s", name, dest)
	}
	return target, true, nil
}

// ApplyPatches applies the patches listed for the version being built with
// the external patch tool, once per staged source. Patch files are relative
// to the recipe folder.
func ApplyPatches(ctx *recipe.Context) error {
	patches := ctx.Patches()
	if len(patches) == 0 {
		return nil
	}
	marker := filepath.Join(ctx.Folders.Source, patchedFile)
	if _, err := os.Stat(marker); err == nil {
		return nil
	}
	for _, p := range patches {
		file := p.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(ctx.Folders.Recipe, file)
		}
		dir := ctx.Folders.Source
		if p.Base != "" {
			dir = filepath.Join(dir, p.Base)
		}
		if p.Description != "" {
			ctx.Infof("applying patch %s: %s", p.File, p.Description)
		}
		if err := ctx.RunIn(dir, "patch", "-p1", "-N", "-i", file); err != nil {
			return fmt.Errorf("failed to apply patch %s: %w", p.File, err)
		}
	}
	return Save(marker, fmt.Sprintf("%d\n", len(patches)))
}

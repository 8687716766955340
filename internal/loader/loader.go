// Package loader loads recipes written as XGo classfiles (<Name>_recipe.gox)
// with the ixgo interpreter.
package loader

import (
	"errors"
	"fmt"
	"go/ast"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"unsafe"

	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"

	cppixgo "github.com/goplus/cppkg/internal/ixgo"
	"github.com/goplus/cppkg/recipe"
)

// File is a loaded recipe classfile.
type File struct {
	Path   string
	Recipe recipe.Recipe

	elem reflect.Value
}

// SetOutput redirects the output of shell commands the classfile runs
// through its embedded gsh.App.
func (f *File) SetOutput(stdout, stderr io.Writer) {
	if !f.elem.IsValid() {
		return
	}
	setValue(f.elem, "fout", stdout)
	setValue(f.elem, "ferr", stderr)
}

// Load loads the recipe classfile at path. Patch files of the recipe are
// resolved against the directory of path.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	f, err := loadFS(os.DirFS(dir).(fs.ReadFileFS), filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	f.Path = abs
	f.classfile().SetFolder(dir)
	return f, nil
}

// LoadFS loads a recipe classfile from fsys.
func LoadFS(fsys fs.ReadFileFS, path string) (*File, error) {
	return loadFS(fsys, path)
}

// LoadDir loads every recipe classfile under dir, in lexical order of
// their paths. Files that fail to load are reported together.
func LoadDir(dir string) ([]*File, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	var (
		files []*File
		errs  []error
	)
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		files = append(files, f)
	}
	return files, errors.Join(errs...)
}

// Discover returns the recipe classfiles under dir.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), cppixgo.Ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover recipes: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func loadFS(fsys fs.ReadFileFS, path string) (*File, error) {
	structName, ok := strings.CutSuffix(filepath.Base(path), cppixgo.Ext)
	if !ok || structName == "" {
		return nil, fmt.Errorf("failed to load recipe: file name is not valid: %s", path)
	}
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := ixgo.NewContext(0)
	source, err := xgobuild.BuildFile(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipe %s: %w", path, err)
	}
	pkgs, err := ctx.LoadFile("main.go", source)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", path, err)
	}
	interp, err := ctx.NewInterp(pkgs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", path, err)
	}
	if err = interp.RunInit(); err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", path, err)
	}

	typ, ok := interp.GetType(structName)
	if !ok {
		return nil, fmt.Errorf("failed to load recipe: struct name not found: %s", structName)
	}
	val := reflect.New(typ)
	val.Interface().(interface{ Main() }).Main()

	f := &File{Path: path, elem: val.Elem()}
	f.Recipe = f.classfile().Recipe()
	return f, nil
}

func (f *File) classfile() *recipe.RecipeF {
	return f.elem.FieldByName("RecipeF").Addr().Interface().(*recipe.RecipeF)
}

// unexportValueOf creates a reflect.Value that allows access to unexported fields.
func unexportValueOf(field reflect.Value) reflect.Value {
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}

// setValue sets the value of a field by name in a struct element, exported
// or not. A nil value stores the zero value of the field's type.
func setValue(elem reflect.Value, name string, value any) {
	field := elem.FieldByName(name)
	if !ast.IsExported(name) {
		field = unexportValueOf(field)
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return
	}
	field.Set(reflect.ValueOf(value))
}

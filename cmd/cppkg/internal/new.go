package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/internal/env"
	cppixgo "github.com/goplus/cppkg/internal/ixgo"
	"github.com/goplus/cppkg/recipe"
)

var newDir string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a recipe classfile",
	Long: `New writes <name>_recipe.gox, a CMake library recipe to start from, into the
recipes directory or --dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newDir, "dir", "", "Directory to write the classfile to (default --recipes or the workspace recipes dir)")
	rootCmd.AddCommand(newCmd)
}

var classfileTemplate = template.Must(template.New("recipe").Parse(`import "github.com/goplus/cppkg/x/cmake"

name "{{.Name}}"
description "The {{.Name}} library"
license "MIT"
homepage "https://example.org/{{.Name}}"
libraryOptions()
source "1.0.0", "https://example.org/{{.Name}}/archive/refs/tags/v1.0.0.tar.gz", ""

onConfigOptions ctx => {
	if ctx.IsWindows() {
		ctx.Options.RmSafe("fPIC")
	}
}

onConfigure ctx => {
	if ctx.Shared() {
		ctx.Options.RmSafe("fPIC")
	}
}

onGenerate (ctx, plan) => {
	c := cmake.New(ctx)
	tc := cmake.NewToolchain(ctx)
	ctx.AddErr(tc.Generate(ctx, plan))
	tc.Apply(ctx, c)
	plan.System = c
}

onPackageInfo (ctx, info) => {
	info.Libs = []string{"{{.Name}}"}
}
`))

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := (&recipe.Descriptor{Name: name}).Validate(); err != nil {
		return err
	}
	dir, err := newTargetDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name+cppixgo.Ext)
	if _, err := os.Stat(path); err == nil {
		return newPrinter(cmd).Error(
			fmt.Sprintf("%s already exists", path),
			"cppkg new never overwrites a recipe.",
			"Edit the existing classfile, or pass another --dir",
		)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var buf bytes.Buffer
	if err := classfileTemplate.Execute(&buf, struct{ Name string }{name}); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}
	newPrinter(cmd).Success("created %s", path)
	return nil
}

func newTargetDir() (string, error) {
	switch {
	case newDir != "":
		return newDir, nil
	case recipesFlag != "":
		return recipesFlag, nil
	}
	return env.RecipesDir()
}

package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/internal/loader"
	"github.com/goplus/cppkg/recipe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available recipes",
	Long: `List prints the built-in recipes and, with --recipes, the classfiles of a
directory. Classfiles are parsed, not run.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	p.Header("Built-in recipes")
	for _, name := range recipe.Names() {
		r, _ := recipe.Lookup(name)
		p.Field(name, summaryLine(r.Descriptor().Description, versions(r)))
	}
	if recipesFlag == "" {
		return nil
	}

	paths, err := loader.Discover(recipesFlag)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", recipesFlag, err)
	}
	p.Header("Recipes in %s", recipesFlag)
	for _, path := range paths {
		s, err := loader.Peek(path)
		if err != nil {
			p.Warning("%s: %v", path, err)
			continue
		}
		p.Field(s.Name, summaryLine(s.Description, s.Versions))
	}
	return nil
}

func summaryLine(description string, vers []string) string {
	if len(vers) == 0 {
		return description
	}
	return fmt.Sprintf("%s [%s]", description, strings.Join(vers, ", "))
}

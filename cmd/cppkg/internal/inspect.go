package internal

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goplus/cppkg/recipe"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Print the descriptor of a recipe",
	Long:  `Inspect prints the metadata, options and known versions of a recipe as YAML.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type inspectOutput struct {
	recipe.Descriptor `yaml:",inline"`
	Versions          []string `yaml:"versions,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := findRecipe(cmd, args[0])
	if err != nil {
		return err
	}
	out := inspectOutput{Descriptor: *r.Descriptor(), Versions: versions(r)}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", args[0], err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

package internal

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/recipe"
)

var infoCmd = &cobra.Command{
	Use:   "info <name[/version]>",
	Short: "Show the configuration of a package",
	Long: `Info configures a recipe for the current profile without building it and
prints the resulting settings, options, package id and requirements.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ref, err := recipe.ParseReference(args[0])
	if err != nil {
		return err
	}
	r, err := findRecipe(cmd, ref.Name)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.runner.Configure(cmd.Context(), s.invocation(r, ref))
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	p.Header("%s", c.Ref())
	p.Field("package_id", c.PackageID)
	if c.Descriptor.PackageType != "" {
		p.Field("package_type", c.Descriptor.PackageType)
	}
	settings := c.Context.Settings.Values()
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		p.Field("settings."+k, settings[k])
	}
	opts := c.Context.Options.Values()
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		p.Field("options."+k, opts[k])
	}
	for _, dep := range c.Context.Dependencies() {
		status := "built"
		if !dep.Built() {
			status = "missing"
		}
		p.Field("requires "+dep.Ref.String(), dep.Visibility.String()+", "+status)
	}
	if missing := c.Missing(); len(missing) > 0 {
		p.Warning("%d dependencies must be built before %s", len(missing), c.Ref())
	}
	return nil
}

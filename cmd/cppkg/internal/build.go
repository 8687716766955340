package internal

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goplus/cppkg/internal/lifecycle"
	"github.com/goplus/cppkg/internal/metrics"
	"github.com/goplus/cppkg/internal/toolexec"
	"github.com/goplus/cppkg/recipe"
)

var (
	buildDryRun     bool
	buildForce      bool
	buildOutput     string
	buildMetricsOut string
)

var buildCmd = &cobra.Command{
	Use:   "build <name[/version]>",
	Short: "Build a package into the workspace",
	Long: `Build runs a recipe for the current profile and prints the link descriptor
of the package. Dependencies must be built first. The newest version of the
recipe is built when none is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Print the build tool commands instead of running them")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Rebuild even when the package is cached")
	buildCmd.Flags().StringVar(&buildOutput, "out", "", "Copy the package to a directory or .zip file")
	buildCmd.Flags().StringVar(&buildMetricsOut, "metrics-out", "", "Write Prometheus metrics of the build to this file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) (err error) {
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
	if buildDryRun {
		s.runner.DryRun = true
		s.runner.Tools = &toolexec.Recorder{Out: cmd.OutOrStdout()}
	}
	if buildMetricsOut != "" {
		defer func() {
			if werr := metrics.WriteFile(buildMetricsOut); werr != nil && err == nil {
				err = fmt.Errorf("failed to write metrics: %w", werr)
			}
		}()
	}

	// Resolve output path to absolute before build
	if buildOutput != "" {
		if buildOutput, err = filepath.Abs(buildOutput); err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
	}

	inv := s.invocation(r, ref)
	inv.Force = buildForce
	res, err := s.runner.Run(cmd.Context(), inv)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func printResult(cmd *cobra.Command, res *lifecycle.Result) error {
	p := newPrinter(cmd)
	switch {
	case buildDryRun:
		p.Success("dry run of %s done", res.Ref())
	case res.Cached:
		p.Success("%s is up to date", res.Ref())
	default:
		p.Success("built %s", res.Ref())
	}
	p.Field("package_id", res.PackageID)
	p.Field("package_folder", res.Folders.Package)
	if !res.Cached {
		p.Field("build_system", res.System)
	}

	data, err := yaml.Marshal(res.Link)
	if err != nil {
		return fmt.Errorf("failed to render link descriptor: %w", err)
	}
	p.Println(string(data))

	if buildOutput != "" && !buildDryRun {
		if err := outputResult(res.Folders.Package, buildOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		p.Success("package written to %s", buildOutput)
	}
	return nil
}

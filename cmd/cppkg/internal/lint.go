package internal

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/internal/lint"
)

var lintJobs int

var lintCmd = &cobra.Command{
	Use:   "lint [names...]",
	Short: "Check recipes across a settings matrix",
	Long: `Lint configures every recipe, or the named ones, for each combination of
platform, build type and boolean option, and reports recipes whose option
schema, config hooks or requirements misbehave.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().IntVarP(&lintJobs, "jobs", "j", runtime.NumCPU(), "Number of recipes checked in parallel")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	recipes, err := selectRecipes(cmd, args)
	if err != nil {
		return err
	}
	reports, err := lint.CheckAll(cmd.Context(), recipes, lintJobs)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	failed := 0
	for _, rep := range reports {
		if rep.OK() {
			p.Success("%s: %d combinations checked, %d rejected", rep.Recipe, rep.Checked, rep.Rejected)
			continue
		}
		failed++
		p.Warning("%s: %d findings", rep.Recipe, len(rep.Findings))
		for _, f := range rep.Findings {
			p.Println("   ", f)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recipes failed lint", failed, len(reports))
	}
	return nil
}

package internal

import (
	"log"
	"log/slog"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/goplus/cppkg/internal/logging"
	"github.com/goplus/cppkg/internal/printer"
)

var (
	settingFlags  []string
	optionFlags   []string
	profileFlag   string
	workspaceFlag string
	recipesFlag   string
	verbose       bool
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "cppkg",
	Short: "cppkg builds C and C++ packages from recipes",
	Long: `cppkg builds C and C++ packages from recipes and caches the results in a
workspace. Recipes are either built in or XGo classfiles loaded with --recipes.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&settingFlags, "setting", "s", nil, "Setting as key=value, e.g. -s build_type=Debug")
	pf.StringArrayVarP(&optionFlags, "option", "o", nil, "Option as [pkg:]key=value, e.g. -o shared=True")
	pf.StringVar(&profileFlag, "profile", "", "YAML profile laid over the host profile")
	pf.StringVar(&workspaceFlag, "workspace", "", "Workspace directory (default $CPPKG_HOME or the user cache dir)")
	pf.StringVar(&recipesFlag, "recipes", "", "Directory of *_recipe.gox classfiles")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show build tool output and debug logs")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" && verbose {
		level = "debug"
	}
	logging.SetDefault(logging.Options{
		Module:  "cppkg",
		Version: buildVersion(),
		Level:   level,
	})
	return nil
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "devel"
}

func logger() *slog.Logger {
	return slog.Default()
}

func newPrinter(cmd *cobra.Command) *printer.Printer {
	return &printer.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

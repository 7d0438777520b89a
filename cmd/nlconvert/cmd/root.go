// Package cmd provides the CLI commands for nlconvert.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nlconvert/core/engine"
	"nlconvert/core/format"
	"nlconvert/core/quantity"
	"nlconvert/core/table"
	"nlconvert/core/ui"
	"nlconvert/internal/config"
	"nlconvert/internal/errors"
	"nlconvert/internal/logging"
)

// Version is set at build time with -ldflags "-X nlconvert/cmd/nlconvert/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	tablePath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nlconvert",
	Short: "Convert quantities typed in plain language",
	Long: `nlconvert converts a quantity typed as text into every unit it
knows a conversion for.

Examples:
  nlconvert convert 3 4/5 oz
  nlconvert convert --format json 100 C
  nlconvert units --from acre
  nlconvert serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	err := rootCmd.Execute()
	if err != nil {
		statusWriter(rootCmd).Error("%v", err)
	}
	if t, ok := errors.TypeOf(err); ok {
		logging.Debug("command failed", zap.String("type", string(t)))
	}
	return err
}

// statusWriter writes diagnostics to stderr, honouring --verbose and
// --no-color
func statusWriter(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.ErrOrStderr(), noColor || config.Get().Output.NoColor)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nlconvert.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "HCL unit table replacing the built-in one")

	// Add subcommands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}

	if err := format.SetLocale(cfg.Format.Locale); err != nil {
		logging.Warn("unknown locale, keeping default", zap.String("locale", cfg.Format.Locale), zap.Error(err))
	}
}

// newEngine loads the unit table named by --table or the config and
// wraps it in an engine
func newEngine() (*engine.Engine, error) {
	cfg := config.Get()

	path := tablePath
	if path == "" {
		path = cfg.Table.Path
	}

	builder := table.Builder{
		StrictLabels: cfg.Table.StrictLabels,
		Logger:       logging.Named("table"),
	}
	g, err := builder.BuildFile(path)
	if err != nil {
		return nil, err
	}

	parser := quantity.Parser{AllowZero: cfg.Parser.AllowZero}
	return engine.New(g, parser, logging.Named("engine")), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nlconvert version %s\n", Version)
	},
}

// Package cmd - convert command
package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nlconvert/core/output"
	"nlconvert/core/ui"
	"nlconvert/internal/config"
	"nlconvert/internal/errors"
	"nlconvert/internal/logging"
)

var (
	outputFormat string
	noColor      bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [quantity...]",
	Short: "Convert a quantity into every known unit",
	Long: `Convert a quantity such as "3 4/5 oz" or "100 C".

Arguments are joined with spaces, so quoting is optional. With no
arguments, quantities are read from stdin one per line until EOF or
"quit".

Examples:
  nlconvert convert 1 acre
  nlconvert convert --format markdown 12 fl oz
  echo "255" | nlconvert convert`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown, msgpack)")
	convertCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// formatter resolves the output format from the flag or the config
func formatter() (output.Formatter, error) {
	cfg := config.Get()
	name := outputFormat
	if name == "" {
		name = cfg.Output.DefaultFormat
	}
	registry := output.DefaultRegistry(noColor || cfg.Output.NoColor)
	return registry.Get(output.Format(name))
}

func runConvert(cmd *cobra.Command, args []string) error {
	f, err := formatter()
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.Input("empty quantity")
		}
		resp := eng.Convert(text)
		logging.Debug("converted", zap.String("input", text), zap.Bool("hit", resp != nil))
		return f.Render(out, resp)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := statusWriter(cmd)
	session := ui.NewSession(w)
	if f.Format() == output.FormatCLI {
		w.Info("type a quantity such as 3 4/5 oz, or quit to exit")
	} else {
		session.SetPrompt("")
	}
	return session.Run(ctx, cmd.InOrStdin(), func(line string) (bool, error) {
		resp := eng.Convert(line)
		if resp == nil {
			return false, nil
		}
		return true, f.Render(out, resp)
	})
}

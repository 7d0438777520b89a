// Package cmd - units command
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"nlconvert/core/units"
)

var unitsFrom string

// unitsCmd prints the conversion reference table
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List every known conversion",
	Long: `List every conversion in the unit table, sorted by source unit.
Conversions marked as inverse were derived from the reverse direction.

Examples:
  nlconvert units
  nlconvert units --from acre
  nlconvert units --format json`,
	Args: cobra.NoArgs,
	RunE: runUnits,
}

func init() {
	unitsCmd.Flags().StringVar(&unitsFrom, "from", "", "only show conversions from this unit, name or alias")
	unitsCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown, msgpack)")
	unitsCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runUnits(cmd *cobra.Command, args []string) error {
	f, err := formatter()
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	rows := eng.Help()
	if unitsFrom != "" {
		u := eng.Graph().Lookup(strings.ToLower(unitsFrom))
		if u == nil {
			rows = nil
		} else {
			rows = filterRows(rows, u.Name)
		}
	}
	return f.RenderHelp(cmd.OutOrStdout(), rows)
}

func filterRows(rows []units.HelpRow, from string) []units.HelpRow {
	var kept []units.HelpRow
	for _, r := range rows {
		if r.From == from {
			kept = append(kept, r)
		}
	}
	return kept
}

package output

import (
	"io"
	"strings"

	"nlconvert/core/engine"
	"nlconvert/core/format"
	"nlconvert/core/ui"
	"nlconvert/core/units"
)

// CLIFormatter renders terminal tables
type CLIFormatter struct {
	NoColor bool
}

// NewCLIFormatter creates a terminal formatter
func NewCLIFormatter(noColor bool) *CLIFormatter {
	return &CLIFormatter{NoColor: noColor}
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render prints one row per result, value right-aligned
func (f *CLIFormatter) Render(w io.Writer, resp *engine.Response) error {
	out := ui.NewWriter(w, f.NoColor)
	if resp == nil {
		out.Warning("no conversions")
		return nil
	}

	out.Header(resp.Input)
	table := out.NewTable("Value", "Unit").AlignRight(0)
	for _, d := range resp.Results {
		table.AddRow(d.Value, format.Caret(d.Label))
	}
	table.Render()
	return nil
}

// RenderHelp prints the reference table
func (f *CLIFormatter) RenderHelp(w io.Writer, rows []units.HelpRow) error {
	out := ui.NewWriter(w, f.NoColor)
	table := out.NewTable("From", "Aliases", "To", "Factor")
	for _, r := range rows {
		factor := r.Factor
		if r.Derived {
			factor += out.Color(ui.Dim, " (inverse)")
		}
		table.AddRow(format.Caret(r.From), strings.Join(r.Aliases, ", "), format.Caret(r.To), factor)
	}
	if table.Len() == 0 {
		out.Warning("no conversions")
		return nil
	}
	table.Render()
	return nil
}

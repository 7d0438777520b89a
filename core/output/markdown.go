package output

import (
	"fmt"
	"io"
	"strings"

	"nlconvert/core/engine"
	"nlconvert/core/format"
	"nlconvert/core/units"
)

// MarkdownFormatter renders GitHub-flavored markdown tables
type MarkdownFormatter struct{}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes a two-column table headed by the input
func (f *MarkdownFormatter) Render(w io.Writer, resp *engine.Response) error {
	if resp == nil {
		_, err := fmt.Fprintln(w, "_No conversions._")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", escape(resp.Input))
	b.WriteString("| Value | Unit |\n|------:|:-----|\n")
	for _, d := range resp.Results {
		fmt.Fprintf(&b, "| %s | %s |\n", escape(d.Value), escape(format.Caret(d.Label)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHelp writes the reference table
func (f *MarkdownFormatter) RenderHelp(w io.Writer, rows []units.HelpRow) error {
	var b strings.Builder
	b.WriteString("| From | Aliases | To | Factor |\n|:-----|:--------|:---|-------:|\n")
	for _, r := range rows {
		factor := r.Factor
		if r.Derived {
			factor += " _(inverse)_"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escape(format.Caret(r.From)),
			escape(strings.Join(r.Aliases, ", ")),
			escape(format.Caret(r.To)),
			escape(factor),
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var escaper = strings.NewReplacer("|", `\|`, "*", `\*`)

func escape(s string) string {
	return escaper.Replace(s)
}

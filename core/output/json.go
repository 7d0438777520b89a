package output

import (
	"encoding/json"
	"io"

	"nlconvert/core/engine"
	"nlconvert/core/units"
)

// JSONFormatter renders JSON documents
type JSONFormatter struct {
	Indent bool
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render encodes the response; a miss is {"results": []}
func (f *JSONFormatter) Render(w io.Writer, resp *engine.Response) error {
	if resp == nil {
		return f.encode(w, Missed{Results: []units.Display{}})
	}
	return f.encode(w, resp)
}

// RenderHelp encodes the reference table as an array
func (f *JSONFormatter) RenderHelp(w io.Writer, rows []units.HelpRow) error {
	if rows == nil {
		rows = []units.HelpRow{}
	}
	return f.encode(w, rows)
}

func (f *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

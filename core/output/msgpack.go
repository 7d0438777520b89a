package output

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"nlconvert/core/engine"
	"nlconvert/core/units"
)

// MsgpackFormatter writes msgpack, for piping into other tools
type MsgpackFormatter struct{}

// Format returns FormatMsgpack
func (f *MsgpackFormatter) Format() Format {
	return FormatMsgpack
}

// Render encodes the response; a miss encodes an empty result list
func (f *MsgpackFormatter) Render(w io.Writer, resp *engine.Response) error {
	enc := msgpack.NewEncoder(w)
	if resp == nil {
		return enc.Encode(Missed{Results: []units.Display{}})
	}
	return enc.Encode(resp)
}

// RenderHelp encodes the reference table
func (f *MsgpackFormatter) RenderHelp(w io.Writer, rows []units.HelpRow) error {
	return msgpack.NewEncoder(w).Encode(rows)
}

// Package engine provides the request-time conversion pipeline.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"go.uber.org/zap"

	"nlconvert/core/quantity"
	"nlconvert/core/units"
)

// Engine converts free text into every reachable unit. It only reads the
// sealed graph, so one Engine can serve concurrent callers.
type Engine struct {
	graph  *units.Graph
	parser quantity.Parser
	logger *zap.Logger
}

// Response is one answered conversion request
type Response struct {
	// Input is the text as typed
	Input string `json:"input" msgpack:"input"`

	// Value is the parsed quantity
	Value float64 `json:"value" msgpack:"value"`

	// Unit is the recognised source unit
	Unit *units.Unit `json:"unit" msgpack:"unit"`

	// Results are the formatted conversions, in graph order
	Results []units.Display `json:"results" msgpack:"results"`
}

// New creates an engine over a built graph
func New(graph *units.Graph, parser quantity.Parser, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		graph:  graph,
		parser: parser,
		logger: logger,
	}
}

// Graph returns the conversion graph
func (e *Engine) Graph() *units.Graph {
	return e.graph
}

// Convert parses text and converts it. Unparseable text and unknown
// units yield nil rather than an error.
func (e *Engine) Convert(text string) *Response {
	q, err := e.parser.Parse(text)
	if err != nil {
		e.logger.Debug("no quantity", zap.String("input", text), zap.Error(err))
		return nil
	}
	if q.Label == "" {
		return nil
	}

	conv, ok := e.graph.Convert(q.Value, q.Label)
	if !ok {
		e.logger.Debug("no conversions",
			zap.String("input", text),
			zap.String("label", q.Label),
		)
		return nil
	}

	resp := &Response{
		Input:   text,
		Value:   q.Value,
		Unit:    conv.Unit,
		Results: make([]units.Display, len(conv.Results)),
	}
	for i, r := range conv.Results {
		resp.Results[i] = r.Format()
	}
	return resp
}

// Help returns the conversion reference table
func (e *Engine) Help() []units.HelpRow {
	return e.graph.HelpMatrix()
}

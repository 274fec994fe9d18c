package models

// Message is one turn of a conversation. GraphData / TableData are attached
// to assistant messages whose reply embedded a data block.
type Message struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	GraphData *GraphPayload `json:"graphData,omitempty"`
	TableData *TablePayload `json:"tableData,omitempty"`
}

// GraphPayload describes a chart extracted from an assistant reply.
// Data records are flat key→value maps; Options carries rendering hints
// (axis names, per-series config) passed through to the chart widget.
type GraphPayload struct {
	Type    string           `json:"type"`
	Data    []map[string]any `json:"data"`
	Options map[string]any   `json:"options,omitempty"`
	Title   string           `json:"title,omitempty"`
}

// Chart types accepted in GraphPayload.Type.
const (
	GraphLine     = "line"
	GraphBar      = "bar"
	GraphPie      = "pie"
	GraphScatter  = "scatter"
	GraphArea     = "area"
	GraphComposed = "composed"
)

func IsGraphType(t string) bool {
	switch t {
	case GraphLine, GraphBar, GraphPie, GraphScatter, GraphArea, GraphComposed:
		return true
	default:
		return false
	}
}

// TablePayload describes tabular data extracted from an assistant reply.
// After sanitization every row has exactly len(Headers) cells.
type TablePayload struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
	Title   string   `json:"title,omitempty"`
	Note    string   `json:"note,omitempty"`
}

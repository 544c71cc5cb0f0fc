package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Table is the "table" object of a gviz JSON response.
type Table struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

// Column describes one sheet column. Only the count is used for layout checks.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Row is a positional sequence of cells. A nil cell is absent.
type Row struct {
	C []*Cell `json:"c"`
}

// Cell holds a raw scalar (string, float64, bool or nil) and its optional
// formatted representation.
type Cell struct {
	V any    `json:"v"`
	F string `json:"f,omitempty"`
}

// At returns the cell at index i, or nil when the row is shorter.
func (r Row) At(i int) *Cell {
	if i < 0 || i >= len(r.C) {
		return nil
	}
	return r.C[i]
}

// Unwrap recovers the JSON payload from a gviz response. The payload is
// located between the first '{' and the last '}', so changes to the wrapper
// call text do not shift the slice.
func Unwrap(raw []byte) (*Table, error) {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, &ParseError{Reason: "no json payload in response"}
	}
	payload := raw[start : end+1]

	if !gjson.ValidBytes(payload) {
		return nil, &ParseError{Reason: "invalid json payload"}
	}

	if gjson.GetBytes(payload, "status").String() == "error" {
		msg := gjson.GetBytes(payload, "errors.0.detailed_message").String()
		if msg == "" {
			msg = gjson.GetBytes(payload, "errors.0.message").String()
		}
		return nil, &ParseError{Reason: "upstream query error: " + msg}
	}

	if !gjson.GetBytes(payload, "table.rows").IsArray() {
		return nil, &ParseError{Reason: "missing table.rows"}
	}

	var resp struct {
		Table Table `json:"table"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &ParseError{Reason: "decode table", Err: err}
	}
	return &resp.Table, nil
}

// ParseError reports a malformed or unexpected response structure.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Reason, e.Err)
	}
	return "parse response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

package roster

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dgallion1/rosterboard/internal/sheets"
)

// Value is an optional scalar taken from one sheet cell.
type Value struct {
	v any
}

// ValueOf wraps a cell. Missing cells and null payloads are absent.
func ValueOf(c *sheets.Cell) Value {
	if c == nil {
		return Value{}
	}
	return Value{v: c.V}
}

// Present reports whether the cell carried a non-null scalar.
func (v Value) Present() bool { return v.v != nil }

// Raw returns the underlying scalar, or nil when absent.
func (v Value) Raw() any { return v.v }

// Is reports whether the value is a string exactly equal to s.
func (v Value) Is(s string) bool {
	str, ok := v.v.(string)
	return ok && str == s
}

// String renders the scalar as text. Absent values render as "".
func (v Value) String() string {
	switch x := v.v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

// Record is one roster entry built from a matching sheet row.
type Record struct {
	ID       Value `json:"id"`
	Name     Value `json:"name"`
	Gender   Value `json:"gender"`
	Group    Value `json:"group"`
	Role     Value `json:"role"`
	Telegram Value `json:"telegram"`
}

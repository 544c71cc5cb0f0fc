package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Field names a Record attribute sourced from a sheet column.
type Field string

const (
	FieldID       Field = "id"
	FieldGroup    Field = "group"
	FieldName     Field = "name"
	FieldGender   Field = "gender"
	FieldRole     Field = "role"
	FieldTelegram Field = "telegram"
)

// Fields lists every field a column mapping must cover.
var Fields = []Field{FieldID, FieldGroup, FieldName, FieldGender, FieldRole, FieldTelegram}

// DefaultColumns is the layout of the roster sheet (E, G, L, N, S, W).
const DefaultColumns = "id=E,group=G,name=L,gender=N,role=S,telegram=W"

// Columns maps each field to a zero-based column position.
type Columns map[Field]int

// ParseColumns reads a mapping like "id=E,role=S". Positions are either
// spreadsheet letters or zero-based integers.
func ParseColumns(s string) (Columns, error) {
	cols := Columns{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, pos, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("column mapping %q: expected field=column", part)
		}
		field := Field(strings.ToLower(strings.TrimSpace(name)))
		if !knownField(field) {
			return nil, fmt.Errorf("column mapping %q: unknown field %q", part, name)
		}
		if _, dup := cols[field]; dup {
			return nil, fmt.Errorf("column mapping: field %q mapped twice", field)
		}
		idx, err := parsePosition(strings.TrimSpace(pos))
		if err != nil {
			return nil, fmt.Errorf("column mapping %q: %w", part, err)
		}
		cols[field] = idx
	}
	return cols, cols.Validate()
}

func parsePosition(pos string) (int, error) {
	if pos == "" {
		return 0, fmt.Errorf("empty column")
	}
	if n, err := strconv.Atoi(pos); err == nil {
		return n, nil
	}
	n, err := excelize.ColumnNameToNumber(pos)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func knownField(f Field) bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// Validate checks that every field is mapped within spreadsheet bounds.
func (c Columns) Validate() error {
	for _, f := range Fields {
		idx, ok := c[f]
		if !ok {
			return fmt.Errorf("column mapping: field %q is not mapped", f)
		}
		if idx < 0 || idx >= excelize.MaxColumns {
			return fmt.Errorf("column mapping: field %q index %d out of range [0,%d)", f, idx, excelize.MaxColumns)
		}
	}
	return nil
}

// Fits reports a layout mismatch when a mapped column lies beyond a sheet
// that is width columns wide.
func (c Columns) Fits(width int) error {
	for _, f := range Fields {
		idx := c[f]
		if idx >= width {
			return fmt.Errorf("field %q expects column %s but the sheet has %d columns", f, Letter(idx), width)
		}
	}
	return nil
}

// Letter returns the spreadsheet letter for a zero-based column index.
func Letter(idx int) string {
	name, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return strconv.Itoa(idx)
	}
	return name
}

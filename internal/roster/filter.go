package roster

import "github.com/dgallion1/rosterboard/internal/sheets"

// DefaultHeaderRows is the number of leading rows treated as sheet header.
const DefaultHeaderRows = 8

// Options controls which rows become Records.
type Options struct {
	Columns    Columns
	HeaderRows int
	Role       string
}

// Filter keeps rows at index >= HeaderRows whose role cell is exactly Role
// and maps them to Records in source order.
func Filter(rows []sheets.Row, opts Options) []Record {
	start := opts.HeaderRows
	if start < 0 {
		start = 0
	}

	var out []Record
	for i := start; i < len(rows); i++ {
		row := rows[i]
		cell := func(f Field) Value { return ValueOf(row.At(opts.Columns[f])) }

		role := cell(FieldRole)
		if !role.Is(opts.Role) {
			continue
		}
		out = append(out, Record{
			ID:       cell(FieldID),
			Name:     cell(FieldName),
			Gender:   cell(FieldGender),
			Group:    cell(FieldGroup),
			Role:     role,
			Telegram: cell(FieldTelegram),
		})
	}
	return out
}

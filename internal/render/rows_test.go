package render

import (
	"testing"

	"github.com/dgallion1/rosterboard/internal/roster"
	"github.com/dgallion1/rosterboard/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func val(v any) roster.Value {
	if v == nil {
		return roster.Value{}
	}
	return roster.ValueOf(&sheets.Cell{V: v})
}

func TestRows_Numbering(t *testing.T) {
	rows := Rows([]roster.Record{
		{Name: val("Sok"), ID: val("D-01")},
		{Name: val("Chan"), ID: val(7.0)},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "Sok", rows[0].Name)
	assert.Equal(t, "7", rows[1].ID)
}

func TestRows_EmptyPlaceholder(t *testing.T) {
	for _, in := range [][]roster.Record{nil, {}} {
		rows := Rows(in)
		require.Len(t, rows, 1)
		assert.Equal(t, NoDataMessage, rows[0].Placeholder)
		assert.Zero(t, rows[0].Index)
	}
}

func TestRows_AbsentFieldsRenderEmpty(t *testing.T) {
	rows := Rows([]roster.Record{{Role: val("r")}})
	require.Len(t, rows, 1)
	r := rows[0]
	for _, s := range []string{r.Name, r.ID, r.Gender, r.Group} {
		assert.Equal(t, "", s)
	}
	assert.Equal(t, "r", r.Role)
}

func TestTelegramLink(t *testing.T) {
	tests := []struct {
		name string
		in   roster.Value
		want Link
	}{
		{"with at", val("@alice"), Link{Href: "https://t.me/alice", Text: "@alice"}},
		{"without at", val("bob"), Link{Href: "https://t.me/bob", Text: "bob"}},
		{"only one at stripped", val("@@x"), Link{Href: "https://t.me/@x", Text: "@@x"}},
		{"inner at kept", val("a@b"), Link{Href: "https://t.me/a@b", Text: "a@b"}},
		{"absent", val(nil), Link{Text: NotAvailable}},
		{"empty", val(""), Link{Text: NotAvailable}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TelegramLink(tt.in))
		})
	}
}

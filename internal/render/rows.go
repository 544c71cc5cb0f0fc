package render

import (
	"net/url"
	"strings"

	"github.com/dgallion1/rosterboard/internal/roster"
)

const (
	// NoDataMessage fills the placeholder row of an empty roster.
	NoDataMessage = "No matching data found"
	// NotAvailable is shown in place of a missing Telegram handle.
	NotAvailable = "N/A"
	// TelegramBaseURL prefixes Telegram profile links.
	TelegramBaseURL = "https://t.me/"
)

// Row is one display row of the roster table.
type Row struct {
	Index    int    `json:"index,omitempty"`
	Name     string `json:"name"`
	ID       string `json:"id"`
	Gender   string `json:"gender"`
	Group    string `json:"group"`
	Role     string `json:"role"`
	Telegram Link   `json:"telegram"`

	// Placeholder, when set, replaces the whole row with a single
	// full-width message.
	Placeholder string `json:"placeholder,omitempty"`
}

// Link is a Telegram cell. An empty Href means plain text.
type Link struct {
	Href string `json:"href,omitempty"`
	Text string `json:"text"`
}

// Rows converts records to display rows numbered from 1. An empty input
// yields exactly one placeholder row.
func Rows(records []roster.Record) []Row {
	if len(records) == 0 {
		return []Row{{Placeholder: NoDataMessage}}
	}
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		rows = append(rows, Row{
			Index:    i + 1,
			Name:     r.Name.String(),
			ID:       r.ID.String(),
			Gender:   r.Gender.String(),
			Group:    r.Group.String(),
			Role:     r.Role.String(),
			Telegram: TelegramLink(r.Telegram),
		})
	}
	return rows
}

// TelegramLink links to the profile named by v with one leading '@'
// removed, keeping the original text for display.
func TelegramLink(v roster.Value) Link {
	text := v.String()
	if text == "" {
		return Link{Text: NotAvailable}
	}
	handle := strings.TrimPrefix(text, "@")
	return Link{
		Href: TelegramBaseURL + url.PathEscape(handle),
		Text: text,
	}
}

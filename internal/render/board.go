package render

import (
	"strconv"
	"sync"

	"github.com/dgallion1/rosterboard/internal/roster"
)

// LoadErrorMessage is the single message shown for any failed cycle.
const LoadErrorMessage = "Error: Could not load data. Please check the sheet link or your connection."

// Board is the in-memory display surface. Every write replaces its slot.
type Board struct {
	mu      sync.RWMutex
	rows    []Row
	total   string
	male    string
	female  string
	loading bool
	errMsg  string
}

func NewBoard() *Board {
	return &Board{}
}

// View is a read-only copy of the board.
type View struct {
	Rows    []Row  `json:"rows"`
	Total   string `json:"total"`
	Male    string `json:"male"`
	Female  string `json:"female"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// SetRows replaces the table body. nil clears it.
func (b *Board) SetRows(rows []Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append([]Row(nil), rows...)
}

// SetTotals writes the three counts verbatim into the summary slots.
func (b *Board) SetTotals(s roster.Summary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = strconv.Itoa(s.Total)
	b.male = strconv.Itoa(s.Male)
	b.female = strconv.Itoa(s.Female)
}

func (b *Board) SetLoading(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = active
}

// SetError overrides the loader with msg. An empty msg clears it.
func (b *Board) SetError(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errMsg = msg
}

func (b *Board) Snapshot() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rows := append([]Row{}, b.rows...)
	return View{
		Rows:    rows,
		Total:   b.total,
		Male:    b.male,
		Female:  b.female,
		Loading: b.loading,
		Error:   b.errMsg,
	}
}

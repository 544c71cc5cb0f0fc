package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/rosterboard/internal/render"
	"github.com/dgallion1/rosterboard/internal/roster"
	"github.com/dgallion1/rosterboard/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRole = "ប្រធានក្រុម-DI"

type fetchFunc func(ctx context.Context) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions(t *testing.T) Options {
	t.Helper()
	cols, err := roster.ParseColumns(roster.DefaultColumns)
	require.NoError(t, err)
	return Options{
		Filter:  roster.Options{Columns: cols, HeaderRows: roster.DefaultHeaderRows, Role: testRole},
		Genders: roster.DefaultGenders,
	}
}

// gvizRow builds a JSON row with values at the default column positions.
func gvizRow(id, name, gender, group, role, telegram string) string {
	cells := make([]string, 23)
	for i := range cells {
		cells[i] = "null"
	}
	set := func(i int, v string) {
		if v != "" {
			cells[i] = fmt.Sprintf(`{"v":%q}`, v)
		}
	}
	set(4, id)
	set(6, group)
	set(11, name)
	set(13, gender)
	set(18, role)
	set(22, telegram)
	return `{"c":[` + strings.Join(cells, ",") + `]}`
}

// scenarioBody is 8 header rows, two matching rows and one non-matching row,
// wrapped the way the gviz endpoint wraps it.
func scenarioBody() []byte {
	var rows []string
	for i := 0; i < 8; i++ {
		rows = append(rows, gvizRow("", fmt.Sprintf("header %d", i), "", "", "", ""))
	}
	rows = append(rows,
		gvizRow("D-01", "Sok", "ប្រុស", "Group 1", testRole, "@sok"),
		gvizRow("D-02", "Chan", "ស្រី", "Group 2", testRole, ""),
		gvizRow("D-03", "Dara", "ប្រុស", "Group 3", "សមាជិក", "@dara"),
	)
	return []byte("/*O_o*/\ngoogle.visualization.Query.setResponse({\"status\":\"ok\",\"table\":{\"rows\":[" +
		strings.Join(rows, ",") + "]}});")
}

func TestRefresh_Scenario(t *testing.T) {
	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		return scenarioBody(), nil
	}), board, testOptions(t), discardLogger())

	v, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, board.Snapshot(), v)

	require.Len(t, v.Rows, 2)
	assert.Equal(t, 1, v.Rows[0].Index)
	assert.Equal(t, "Sok", v.Rows[0].Name)
	assert.Equal(t, "https://t.me/sok", v.Rows[0].Telegram.Href)
	assert.Equal(t, 2, v.Rows[1].Index)
	assert.Equal(t, render.NotAvailable, v.Rows[1].Telegram.Text)
	assert.Equal(t, "2", v.Total)
	assert.Equal(t, "1", v.Male)
	assert.Equal(t, "1", v.Female)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
}

func TestRefresh_HTTP500(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(scenarioBody())
	}))
	defer srv.Close()

	client := sheets.NewClient(srv.URL, "sheet", "name", nil)
	defer client.Close()
	board := render.NewBoard()
	svc := New(client, board, testOptions(t), discardLogger())

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	v, err := svc.Refresh(context.Background())
	require.Error(t, err)
	var ne *sheets.NetworkError
	assert.True(t, errors.As(err, &ne))

	assert.Equal(t, board.Snapshot(), v)
	assert.Empty(t, v.Rows, "table is left empty after a failed cycle")
	assert.Equal(t, render.LoadErrorMessage, v.Error)
	assert.False(t, v.Loading)
	assert.Equal(t, "2", v.Total, "totals keep their previous values")
}

func TestRefresh_FirstCycleFailsLeavesTotalsUnset(t *testing.T) {
	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		return []byte("not a gviz response"), nil
	}), board, testOptions(t), discardLogger())

	v, err := svc.Refresh(context.Background())
	var pe *sheets.ParseError
	require.True(t, errors.As(err, &pe))

	assert.Empty(t, v.Rows)
	assert.Equal(t, "", v.Total)
	assert.Equal(t, render.LoadErrorMessage, v.Error)
	assert.False(t, v.Loading)
}

func TestRefresh_ClearsPreviousStateWhileLoading(t *testing.T) {
	board := render.NewBoard()
	board.SetRows([]render.Row{{Index: 1, Name: "stale"}})
	board.SetError(render.LoadErrorMessage)

	var during render.View
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		during = board.Snapshot()
		return scenarioBody(), nil
	}), board, testOptions(t), discardLogger())

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, during.Loading)
	assert.Empty(t, during.Rows)
	assert.Empty(t, during.Error)
}

func TestRefresh_NoMatches(t *testing.T) {
	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		return []byte(`x({"table":{"rows":[]}})`), nil
	}), board, testOptions(t), discardLogger())

	v, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, render.NoDataMessage, v.Rows[0].Placeholder)
	assert.Equal(t, "0", v.Total)
}

func TestRefresh_CoalescesOverlappingTriggers(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return scenarioBody(), nil
	}), board, testOptions(t), discardLogger())

	var wg sync.WaitGroup
	errs := make([]error, 3)
	views := make([]render.View, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		views[0], errs[0] = svc.Refresh(context.Background())
	}()
	<-entered

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i], errs[i] = svc.Refresh(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err)
		assert.Len(t, views[i].Rows, 2)
		assert.False(t, views[i].Loading)
	}
	assert.EqualValues(t, 1, calls.Load(), "overlapping refreshes should share one fetch")
	assert.Len(t, board.Snapshot().Rows, 2)
}

func TestRefresh_IgnoresCallerCancellation(t *testing.T) {
	board := render.NewBoard()
	svc := New(fetchFunc(func(ctx context.Context) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return scenarioBody(), nil
	}), board, testOptions(t), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, v.Rows, 2)
}

func TestRefresh_ViewSurvivesNextCycle(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		if calls.Add(1) == 2 {
			close(entered)
			<-release
		}
		return scenarioBody(), nil
	}), board, testOptions(t), discardLogger())

	v, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Refresh(context.Background())
	}()
	<-entered

	live := board.Snapshot()
	assert.True(t, live.Loading)
	assert.Empty(t, live.Rows)

	page, err := render.NewPage("Roster", "")
	require.NoError(t, err)
	var buf strings.Builder
	require.NoError(t, page.Write(&buf, v))
	assert.Contains(t, buf.String(), "Sok")
	assert.NotContains(t, buf.String(), `class="active"`)

	close(release)
	<-done
}

func TestLoad_JoinsInFlightRefresh(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return scenarioBody(), nil
	}), render.NewBoard(), testOptions(t), discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()
	<-entered

	loaded := make(chan *Result, 1)
	go func() {
		res, err := svc.Load(context.Background())
		assert.NoError(t, err)
		loaded <- res
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-done)
	res := <-loaded
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Summary.Total)
	assert.EqualValues(t, 1, calls.Load(), "export and refresh should share one fetch")
}

func TestLoad_Idempotent(t *testing.T) {
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		return scenarioBody(), nil
	}), render.NewBoard(), testOptions(t), discardLogger())

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, roster.Summary{Total: 2, Male: 1, Female: 1}, first.Summary)
	assert.Equal(t, first.Summary, second.Summary)
	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i].Name.String(), second.Records[i].Name.String())
		assert.Equal(t, first.Records[i].Telegram.String(), second.Records[i].Telegram.String())
	}
}

func TestLoad_LayoutDrift(t *testing.T) {
	body := `x({"table":{"cols":[{"id":"A"},{"id":"B"}],"rows":[]}})`
	board := render.NewBoard()
	svc := New(fetchFunc(func(context.Context) ([]byte, error) {
		return []byte(body), nil
	}), board, testOptions(t), discardLogger())

	_, err := svc.Load(context.Background())
	var pe *sheets.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "sheet has 2 columns")
	assert.Empty(t, board.Snapshot().Rows, "Load never writes to the display")
}

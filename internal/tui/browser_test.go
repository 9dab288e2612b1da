package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quid/internal/model"
)

type fakeSummarizer struct {
	rows map[string][]model.ReportRow
	err  error
}

func (f *fakeSummarizer) MonthlySummary(_ context.Context, month model.Month) ([]model.ReportRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[month.String()], nil
}

func floatPtr(v float64) *float64 { return &v }

func mustMonth(t *testing.T, value string) model.Month {
	t.Helper()

	month, err := model.NewMonth(value)
	require.NoError(t, err)
	return month
}

func sampleRows(month model.Month) []model.ReportRow {
	return []model.ReportRow{
		{
			Month:        month,
			CategoryID:   1,
			CategoryName: "Food",
			Actual:       180.50,
			Budgeted:     floatPtr(200),
			Delta:        floatPtr(19.50),
			Status:       model.StatusUnder,
		},
		{
			Month:        month,
			CategoryID:   2,
			CategoryName: "Transport",
			Actual:       75,
			Status:       model.StatusUnbudgeted,
		},
	}
}

// deliver runs a load command and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestBrowserShowsLoadedSummary(t *testing.T) {
	month := mustMonth(t, "2024-05")
	summarizer := &fakeSummarizer{
		rows: map[string][]model.ReportRow{"2024-05": sampleRows(month)},
	}

	m := New(context.Background(), summarizer, month)
	assert.True(t, m.loading)

	m = deliver(t, m, m.loadSummary(m.month))

	assert.False(t, m.loading)
	view := m.View()
	assert.Contains(t, view, "2024-05")
	assert.Contains(t, view, "Food")
	assert.Contains(t, view, "Transport")
	assert.Contains(t, view, "180.50")
	assert.Contains(t, view, "unbudgeted")
	assert.Contains(t, view, "180.50 of 200.00")
}

func TestBrowserMonthNavigation(t *testing.T) {
	may := mustMonth(t, "2024-05")
	june := mustMonth(t, "2024-06")
	summarizer := &fakeSummarizer{
		rows: map[string][]model.ReportRow{
			"2024-05": sampleRows(may),
			"2024-06": {{
				Month:        june,
				CategoryID:   3,
				CategoryName: "Travel",
				Actual:       420,
				Budgeted:     floatPtr(400),
				Delta:        floatPtr(-20),
				Status:       model.StatusOver,
			}},
		},
	}

	m := New(context.Background(), summarizer, may)
	m = deliver(t, m, m.loadSummary(m.month))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	assert.Equal(t, "2024-06", m.month.String())
	assert.True(t, m.loading)

	m = deliver(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "2024-06")
	assert.Contains(t, view, "Travel")
	assert.NotContains(t, view, "Food")

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, "2024-05", m.month.String())

	m = deliver(t, m, cmd)
	assert.Contains(t, m.View(), "Food")
}

func TestBrowserIgnoresStaleLoad(t *testing.T) {
	may := mustMonth(t, "2024-05")
	summarizer := &fakeSummarizer{
		rows: map[string][]model.ReportRow{"2024-05": sampleRows(may)},
	}

	m := New(context.Background(), summarizer, may)
	staleCmd := m.loadSummary(m.month)

	// Navigate away before the first load lands.
	updated, juneCmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)

	m = deliver(t, m, staleCmd)
	assert.True(t, m.loading, "stale result must not end the pending load")
	assert.Empty(t, m.rows)

	m = deliver(t, m, juneCmd)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Nothing recorded in 2024-06.")
}

func TestBrowserQuitKeys(t *testing.T) {
	month := mustMonth(t, "2024-05")
	summarizer := &fakeSummarizer{}

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := New(context.Background(), summarizer, month)
		updated, cmd := m.Update(key)
		m = updated.(Model)

		assert.True(t, m.quitting)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, m.View())
	}
}

func TestBrowserShowsLoadError(t *testing.T) {
	month := mustMonth(t, "2024-05")
	summarizer := &fakeSummarizer{err: errors.New("database locked")}

	m := New(context.Background(), summarizer, month)
	m = deliver(t, m, m.loadSummary(m.month))

	view := m.View()
	assert.Contains(t, view, "Failed to load report")
	assert.Contains(t, view, "database locked")
}

func TestBrowserResize(t *testing.T) {
	month := mustMonth(t, "2024-05")
	m := New(context.Background(), &fakeSummarizer{}, month)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, 40, m.progress.Width)

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	m = updated.(Model)
	assert.Equal(t, 24, m.progress.Width)
}

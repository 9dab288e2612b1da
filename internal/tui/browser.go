// Package tui implements the interactive budget report browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quid/internal/cli"
	"quid/internal/model"
)

// Summarizer produces the rows the browser displays for one month.
type Summarizer interface {
	MonthlySummary(ctx context.Context, month model.Month) ([]model.ReportRow, error)
}

// summaryLoadedMsg carries a freshly computed month summary.
type summaryLoadedMsg struct {
	err   error
	month model.Month
	rows  []model.ReportRow
}

// Model holds the report browser state.
type Model struct {
	ctx        context.Context
	summarizer Summarizer
	lastError  error
	month      model.Month
	rows       []model.ReportRow
	table      table.Model
	progress   progress.Model
	width      int
	height     int
	loading    bool
	quitting   bool
}

// New creates a report browser positioned at the given month.
func New(ctx context.Context, summarizer Summarizer, month model.Month) Model {
	columns := []table.Column{
		{Title: "Category", Width: 22},
		{Title: "Budget", Width: 10},
		{Title: "Actual", Width: 10},
		{Title: "Delta", Width: 10},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(cli.PrimaryColor).
		Bold(true)
	t.SetStyles(s)

	prog := progress.New(progress.WithDefaultGradient())
	prog.ShowPercentage = false
	prog.Width = 40

	return Model{
		ctx:        ctx,
		summarizer: summarizer,
		month:      month,
		table:      t,
		progress:   prog,
		loading:    true,
	}
}

// Init kicks off the first summary load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.loadSummary(m.month))
}

// loadSummary recomputes the report for a month off the UI loop.
func (m Model) loadSummary(month model.Month) tea.Cmd {
	return func() tea.Msg {
		rows, err := m.summarizer.MonthlySummary(m.ctx, month)
		return summaryLoadedMsg{month: month, rows: rows, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.loading = true
			m.month = m.month.Add(-1)
			return m, m.loadSummary(m.month)
		case "right", "l":
			m.loading = true
			m.month = m.month.Add(1)
			return m, m.loadSummary(m.month)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, m.height-8))
		m.progress.Width = min(m.width-6, 40)

	case summaryLoadedMsg:
		if msg.month != m.month {
			// Stale load for a month we already navigated away from
			return m, nil
		}
		m.loading = false
		m.lastError = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.table.SetRows(buildRows(msg.rows))
			m.table.SetCursor(0)
		}
		return m, nil
	}

	newTable, cmd := m.table.Update(msg)
	m.table = newTable
	return m, cmd
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := cli.TitleStyle.Render(cli.ChartIcon + " Budget report")
	subtitle := cli.SubtitleStyle.Render(m.month.String())

	if m.lastError != nil {
		body := cli.ErrorStyle.Render("Failed to load report: " + m.lastError.Error())
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, body, m.footer())
	}

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "Loading...", m.footer())
	}

	if len(m.rows) == 0 {
		body := cli.SubtleStyle.Render("Nothing recorded in " + m.month.String() + ".")
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, body, m.footer())
	}

	sections := []string{title, subtitle, m.table.View()}
	if detail := m.renderSelection(); detail != "" {
		sections = append(sections, detail)
	}
	sections = append(sections, m.footer())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSelection shows how much of the selected category's budget is spent.
func (m Model) renderSelection() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return ""
	}

	row := m.rows[idx]
	if !row.HasBudget() {
		return cli.SubtleStyle.Render(fmt.Sprintf("%s: %.2f spent, no budget set", row.CategoryName, row.Actual))
	}

	ratio := 0.0
	if *row.Budgeted > 0 {
		ratio = row.Actual / *row.Budgeted
	}
	if ratio > 1 {
		ratio = 1
	}

	label := fmt.Sprintf("%s: %.2f of %.2f", row.CategoryName, row.Actual, *row.Budgeted)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		cli.SubtleStyle.Render(label),
		m.progress.ViewAs(ratio),
	)
}

func (m Model) footer() string {
	hints := []string{
		"[←/→] Change month",
		"[↑↓] Navigate",
		"[q] Quit",
	}
	return cli.SubtleStyle.Render(strings.Join(hints, "  "))
}

// buildRows formats report rows for the table.
func buildRows(rows []model.ReportRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		budget := "-"
		delta := "-"
		if row.HasBudget() {
			budget = fmt.Sprintf("%.2f", *row.Budgeted)
			delta = fmt.Sprintf("%+.2f", *row.Delta)
		}
		out = append(out, table.Row{
			row.CategoryName,
			budget,
			fmt.Sprintf("%.2f", row.Actual),
			delta,
			string(row.Status),
		})
	}
	return out
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, summarizer Summarizer, month model.Month) error {
	p := tea.NewProgram(New(ctx, summarizer, month), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("report browser failed: %w", err)
	}
	return nil
}

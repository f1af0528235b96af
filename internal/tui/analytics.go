package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/objective"
)

// historyLimit caps the samples kept for the tile sparklines.
const historyLimit = 30

type analyticsModel struct {
	width  int
	height int

	visible []objective.Objective
	summary objective.Summary
	history []objective.Summary

	chart barchart.Model
}

func newAnalyticsModel() analyticsModel {
	return analyticsModel{
		chart: barchart.New(60, 10),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.buildChart()
}

// setData summarizes the whole collection and charts the visible records.
// sample also appends the summary to the sparkline history.
func (a *analyticsModel) setData(records, visible []objective.Objective, sample bool) {
	a.visible = visible
	a.summary = objective.Summarize(records)
	if sample {
		a.history = append(a.history, a.summary)
	}
	if len(a.history) > historyLimit {
		a.history = a.history[len(a.history)-historyLimit:]
	}
	a.buildChart()
}

func (a *analyticsModel) buildChart() {
	chartWidth := max(a.width-8, 20)
	chartHeight := 10
	if a.height > 36 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, rec := range a.visible {
		style := lipgloss.NewStyle().Foreground(statusColors[rec.Status])
		bars = append(bars, barchart.BarData{
			Label: truncate(rec.ID, 8),
			Values: []barchart.BarValue{{
				Name:  rec.Title,
				Value: float64(rec.Progress),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) series(f func(objective.Summary) float64) []float64 {
	values := make([]float64, len(a.history))
	for i, s := range a.history {
		values[i] = f(s)
	}
	return values
}

func (a analyticsModel) renderTile(label, value string, values []float64, w int) string {
	sl := sparkline.New(max(w-4, 4), 2)
	sl.PushAll(values)
	sl.Draw()

	return tileStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(label),
		highlightStyle.Bold(true).Render(value),
		sl.View(),
	))
}

func (a analyticsModel) view(l loaderModel, spin string) string {
	w := a.width - 4

	if l.loading() && (l.kind == loadInitial || a.summary.TotalCount == 0) {
		return panelStyle.Width(w).Render(spin + " Loading analytics...")
	}

	s := a.summary
	tileW := max(w/4-1, 16)
	tiles := []string{
		a.renderTile("Average Progress", formatPercent(s.AverageProgress),
			a.series(func(s objective.Summary) float64 { return float64(s.AverageProgress) }), tileW),
		a.renderTile("Completed", formatRatio(s.CompletedCount, s.TotalCount),
			a.series(func(s objective.Summary) float64 { return float64(s.CompletedCount) }), tileW),
		a.renderTile("Tasks Done", formatRatio(s.CompletedTaskCount, s.TotalTaskCount),
			a.series(func(s objective.Summary) float64 { return float64(s.CompletedTaskCount) }), tileW),
		a.renderTile("Task Completion", fmt.Sprintf("%.0f%%", s.TaskCompletion()),
			a.series(func(s objective.Summary) float64 { return s.TaskCompletion() }), tileW),
	}

	var tileRow string
	if (tileW+2)*4 <= a.width {
		tileRow = lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	} else {
		tileRow = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, tiles[0], tiles[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, tiles[2], tiles[3]),
		)
	}

	chartView := mutedStyle.Render("  No objectives to chart")
	if len(a.visible) > 0 {
		chartView = a.chart.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tileRow,
		"",
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Progress by objective"), "", chartView, "", a.renderLegend(),
		)),
		"",
		a.renderBreakdown(),
	)
}

func (a analyticsModel) renderLegend() string {
	var items []string
	for _, rec := range a.visible {
		dot := lipgloss.NewStyle().Foreground(statusColors[rec.Status]).Render("●")
		items = append(items, fmt.Sprintf("%s %s %s", dot, rec.ID, truncate(rec.Title, 24)))
	}
	return "  " + strings.Join(items, "  ")
}

func (a analyticsModel) renderBreakdown() string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %6s", "Status", "Count")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 21)))
	for _, st := range objective.Statuses {
		rows = append(rows, fmt.Sprintf("  %s %*d", statusBadge(st),
			21-lipgloss.Width(statusBadge(st)), a.summary.ByStatus[st]))
	}
	return strings.Join(rows, "\n")
}

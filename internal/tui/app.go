package tui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/export"
	"github.com/sadopc/okrboard/internal/notify"
	"github.com/sadopc/okrboard/internal/objective"
	"github.com/sadopc/okrboard/internal/seed"
	"github.com/sadopc/okrboard/internal/store"
)

// App is the root Bubble Tea model. It owns the collection snapshot and the
// active spec, and derives every view from them.
type App struct {
	store  *store.Store
	source seed.Source
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	records []objective.Objective
	spec    objective.Spec
	// baseSpec is the configured starting spec that clearing returns to.
	baseSpec objective.Spec

	loader  loaderModel
	spinner spinner.Model
	toasts  toastModel

	objectives objectivesModel
	analytics  analyticsModel
	filters    filtersModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the dashboard. The initial load starts with Init.
func NewApp(s *store.Store, src seed.Source, spec objective.Spec) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()

	a := App{
		store:      s,
		source:     src,
		activeView: viewObjectives,
		exportDir:  home,
		spec:       spec,
		baseSpec:   spec,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(colorPrimary)),
		),
		toasts:     newToastModel(),
		objectives: newObjectivesModel(s),
		analytics:  newAnalyticsModel(),
		filters:    newFiltersModel(spec),
		help:       h,
	}
	a.loader.start(loadInitial)
	a.recompute(false)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loader.tick(),
		a.spinner.Tick,
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.objectives.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.filters.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (search bar, form), delegate first.
		if a.isInputActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.loader.cancel()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			return a.refresh()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewObjectives
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewAnalytics
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewFilters
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case spinner.TickMsg:
		if !a.loader.loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case loadTickMsg:
		if !a.loader.current(msg.gen) {
			return a, nil
		}
		return a, a.fetch(msg.gen, a.loader.kind)

	case dataLoadedMsg:
		if !a.loader.finish(msg.gen, msg.err) {
			return a, nil
		}
		if msg.err != nil {
			log.Printf("load objectives: %v", msg.err)
			a.setStatus("Load failed, press r to retry", true)
			return a, a.toasts.push("Failed to load objectives", notify.KindError)
		}
		a.records = msg.records
		a.recompute(true)
		a.setStatus("", false)
		switch a.loader.kind {
		case loadRefresh:
			return a, a.toasts.push("Data refreshed successfully", notify.KindSuccess)
		case loadReseed:
			return a, a.toasts.push("Objectives reloaded", notify.KindInfo)
		}
		return a, nil

	case SeedChangedMsg:
		log.Printf("seed %v changed, reloading", a.source)
		return a.startLoad(loadReseed)

	case taskToggledMsg:
		if msg.err != nil {
			log.Printf("toggle task %s/%s: %v", msg.objectiveID, msg.taskID, msg.err)
			return a, a.toasts.push("Could not update task", notify.KindError)
		}
		if !msg.found {
			log.Printf("toggle task %s/%s: not found", msg.objectiveID, msg.taskID)
			return a, nil
		}
		a.records = msg.records
		a.recompute(true)
		text := "Task reopened"
		if msg.completed {
			text = "Task completed"
		}
		return a, a.toasts.push(text, notify.KindSuccess)

	case specChangedMsg:
		a.spec = msg.spec
		if a.objectives.search.Value() != a.spec.Query {
			a.objectives.search.SetValue(a.spec.Query)
		}
		a.recompute(false)
		a.setStatus("Filters updated", false)
		return a, nil

	case filtersClearedMsg:
		a.spec = a.baseSpec
		a.objectives.search.SetValue(a.spec.Query)
		a.recompute(false)
		a.setStatus("Filters cleared", false)
		return a, nil

	case toastMsg:
		return a, a.toasts.push(msg.text, msg.kind)

	case toastExpiredMsg:
		a.toasts.expire(msg.id)
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, a.toasts.push("Export complete", notify.KindSuccess)
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewObjectives:
		a.objectives, cmd = a.objectives.update(msg)
		if q := a.objectives.search.Value(); q != a.spec.Query {
			a.spec = a.spec.Merge(objective.Patch{Query: &q})
			a.recompute(false)
		}
	case viewAnalytics:
		// read-only
	case viewFilters:
		a.filters, cmd = a.filters.update(msg)
	}
	return a, cmd
}

func (a App) isInputActive() bool {
	switch a.activeView {
	case viewObjectives:
		return a.objectives.searching()
	case viewFilters:
		return a.filters.formActive
	}
	return false
}

// refresh re-lists the store after the refresh delay. After a failed load it
// reseeds from the source instead.
func (a App) refresh() (tea.Model, tea.Cmd) {
	if a.loader.loading() {
		return a, nil
	}
	if a.loader.failed() {
		return a.startLoad(loadReseed)
	}
	return a.startLoad(loadRefresh)
}

func (a App) startLoad(kind loadKind) (tea.Model, tea.Cmd) {
	a.loader.start(kind)
	return a, tea.Batch(a.loader.tick(), a.spinner.Tick)
}

// fetch reads the collection for load gen. Seeding loads replace the store
// contents from the source first.
func (a App) fetch(gen int, kind loadKind) tea.Cmd {
	s, src := a.store, a.source
	return func() tea.Msg {
		if kind != loadRefresh {
			records, err := src.Load()
			if err != nil {
				return dataLoadedMsg{gen: gen, err: err}
			}
			if err := s.Seed(records); err != nil {
				return dataLoadedMsg{gen: gen, err: err}
			}
		}
		records, err := s.ListObjectives()
		return dataLoadedMsg{gen: gen, records: records, err: err}
	}
}

// recompute derives the visible records from the snapshot and spec. The
// summary always covers the whole snapshot. sample adds a point to the
// analytics history.
func (a *App) recompute(sample bool) {
	visible := objective.Apply(a.records, a.spec)
	a.objectives.setData(visible, len(a.records))
	a.analytics.setData(a.records, visible, sample)
	a.filters.setState(a.spec, objective.KPITypes(a.records))
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	toasts := a.toasts.view(a.width)

	var content string
	switch a.activeView {
	case viewObjectives:
		content = a.objectives.view(a.loader, a.spinner.View(), a.spec.IsActive())
	case viewAnalytics:
		content = a.analytics.view(a.loader, a.spinner.View())
	case viewFilters:
		content = a.filters.view()
	}

	// Calculate available height for content
	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if toasts != "" {
		contentHeight -= lipgloss.Height(toasts)
	}
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := []string{header, content}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("okrboard")
	if a.loader.loading() && a.loader.kind != loadInitial {
		title += " " + a.spinner.View() + mutedStyle.Render("Refreshing...")
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	right := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		right = style.Render(" " + a.status)
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{
		titleStyle.Render("Export Format"),
		mutedStyle.Render(fmt.Sprintf("%d visible objectives", len(a.objectives.visible))),
		"",
	}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the visible objectives, in display order.
func (a App) doExport(format int) tea.Cmd {
	records := a.objectives.visible
	dir := a.exportDir
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("okrboard-export-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("okrboard-export-%s.json", dateStr))
			if err := export.ToJSON(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

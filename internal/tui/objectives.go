package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/notify"
	"github.com/sadopc/okrboard/internal/objective"
	"github.com/sadopc/okrboard/internal/store"
)

// cardHeight is the rendered height of a collapsed card, borders included.
const cardHeight = 6

type objectivesModel struct {
	store  *store.Store
	width  int
	height int

	visible []objective.Objective
	total   int
	cursor  int

	// expanded is the ID of the objective whose tasks are shown.
	expanded   string
	taskCursor int

	search textinput.Model
	bar    progress.Model
}

func newObjectivesModel(s *store.Store) objectivesModel {
	ti := textinput.New()
	ti.Placeholder = "Search objectives..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	return objectivesModel{
		store:  s,
		search: ti,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(24),
			progress.WithoutPercentage(),
		),
	}
}

func (o *objectivesModel) setSize(w, h int) {
	o.width = w
	o.height = h
	o.search.Width = max(w-8, 10)
	o.bar.Width = max(min(w/3, 40), 10)
}

func (o objectivesModel) searching() bool { return o.search.Focused() }

// setData replaces the visible records and keeps the selection on the same
// objective when it is still visible.
func (o *objectivesModel) setData(visible []objective.Objective, total int) {
	selectedID := ""
	if sel, ok := o.selected(); ok {
		selectedID = sel.ID
	}

	o.visible = visible
	o.total = total
	o.cursor = 0
	for i, rec := range visible {
		if rec.ID == selectedID {
			o.cursor = i
			break
		}
	}

	sel, ok := o.selected()
	if !ok || sel.ID != o.expanded {
		o.expanded = ""
		o.taskCursor = 0
		return
	}
	if o.taskCursor >= len(sel.Tasks) {
		o.taskCursor = max(len(sel.Tasks)-1, 0)
	}
}

func (o objectivesModel) selected() (objective.Objective, bool) {
	if o.cursor < 0 || o.cursor >= len(o.visible) {
		return objective.Objective{}, false
	}
	return o.visible[o.cursor], true
}

func (o objectivesModel) update(msg tea.Msg) (objectivesModel, tea.Cmd) {
	if o.search.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Enter) {
				o.search.Blur()
				return o, nil
			}
		}
		var cmd tea.Cmd
		o.search, cmd = o.search.Update(msg)
		return o, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	sel, hasSel := o.selected()
	switch {
	case key.Matches(km, keys.Search):
		return o, o.search.Focus()

	case key.Matches(km, keys.Up):
		if o.expanded != "" {
			if o.taskCursor > 0 {
				o.taskCursor--
			}
		} else if o.cursor > 0 {
			o.cursor--
		}

	case key.Matches(km, keys.Down):
		if o.expanded != "" {
			if o.taskCursor < len(sel.Tasks)-1 {
				o.taskCursor++
			}
		} else if o.cursor < len(o.visible)-1 {
			o.cursor++
		}

	case key.Matches(km, keys.Enter):
		if !hasSel {
			return o, nil
		}
		if o.expanded == sel.ID {
			o.expanded = ""
			return o, nil
		}
		o.expanded = sel.ID
		o.taskCursor = 0
		return o, toast("Opening objective details...", notify.KindInfo)

	case key.Matches(km, keys.Back):
		o.expanded = ""

	case key.Matches(km, keys.Toggle):
		if o.expanded == "" {
			return o, nil
		}
		return o, o.toggleTask()

	case key.Matches(km, keys.Clear):
		o.search.SetValue("")
		return o, func() tea.Msg { return filtersClearedMsg{} }
	}
	return o, nil
}

func (o objectivesModel) toggleTask() tea.Cmd {
	sel, ok := o.selected()
	if !ok || o.taskCursor >= len(sel.Tasks) {
		return nil
	}
	task := sel.Tasks[o.taskCursor]
	completed := !task.Completed
	return func() tea.Msg {
		records, found, err := o.store.ToggleTask(sel.ID, task.ID, completed)
		return taskToggledMsg{
			objectiveID: sel.ID,
			taskID:      task.ID,
			completed:   completed,
			found:       found,
			records:     records,
			err:         err,
		}
	}
}

func (o objectivesModel) view(l loaderModel, spin string, filtered bool) string {
	w := o.width - 4

	count := mutedStyle.Render(fmt.Sprintf("Showing %d of %d objectives", len(o.visible), o.total))
	if filtered {
		count += badgeStyle.Render("filters active")
	}
	head := lipgloss.JoinVertical(lipgloss.Left, o.search.View(), count, "")

	var body string
	switch {
	case l.loading() && (l.kind == loadInitial || o.total == 0):
		body = o.renderSkeleton(w, spin)
	case l.failed():
		body = o.renderError(w, l.err)
	case len(o.visible) == 0 && l.state == loadReady:
		body = o.renderEmpty(w)
	default:
		body = o.renderCards(w, o.height-lipgloss.Height(head))
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, body)
}

func (o objectivesModel) renderCards(w, h int) string {
	n := max(h/cardHeight, 1)
	if o.expanded != "" {
		n = 1
	}
	start := 0
	if o.cursor >= n {
		start = o.cursor - n + 1
	}
	end := min(start+n, len(o.visible))

	var cards []string
	for i := start; i < end; i++ {
		cards = append(cards, o.renderCard(o.visible[i], i == o.cursor, w))
	}
	if end < len(o.visible) {
		cards = append(cards, mutedStyle.Render(fmt.Sprintf("  … %d more", len(o.visible)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (o objectivesModel) renderCard(rec objective.Objective, selected bool, w int) string {
	inner := w - 4

	marker := "  "
	title := titleStyle.Render(truncate(rec.Title, inner-2))
	if selected {
		marker = selectedItemStyle.Render("> ")
		title = selectedItemStyle.Render(truncate(rec.Title, inner-2))
	}

	kpi := mutedStyle.Render(truncate("KPI: "+rec.KPI, inner))

	due := "No due date"
	if rec.DueDate != "" {
		due = "Due " + rec.DueDate
	}
	meta := []string{statusBadge(rec.Status)}
	if p := priorityBadge(rec.Priority); p != "" {
		meta = append(meta, p)
	}
	meta = append(meta, mutedStyle.Render(due))
	if rec.Assignee != "" {
		meta = append(meta, highlightStyle.Render("@"+rec.Assignee))
	}

	bar := o.bar.ViewAs(float64(rec.Progress) / 100)
	progressLine := fmt.Sprintf("%s %s  %s", bar, formatPercent(rec.Progress),
		mutedStyle.Render("Tasks "+formatRatio(rec.CompletedTasks(), len(rec.Tasks))))

	rows := []string{
		marker + title,
		kpi,
		strings.Join(meta, "  "),
		progressLine,
	}
	if rec.ID == o.expanded {
		rows = append(rows, o.renderDetails(rec, inner)...)
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (o objectivesModel) renderDetails(rec objective.Objective, w int) []string {
	rows := []string{""}
	if rec.KPIFormula != "" {
		rows = append(rows, subtitleStyle.Render(truncate("Formula: "+rec.KPIFormula, w)))
	}
	for _, line := range strings.Split(rec.KPI, "\n")[1:] {
		rows = append(rows, mutedStyle.Render(truncate("  "+line, w)))
	}
	rows = append(rows, "", titleStyle.Render("Tasks"))
	if len(rec.Tasks) == 0 {
		return append(rows, mutedStyle.Render("  No tasks"))
	}
	for i, t := range rec.Tasks {
		box := "[ ]"
		style := normalItemStyle
		if t.Completed {
			box = successStyle.Render("[x]")
			style = mutedStyle
		}
		cursor := "  "
		if i == o.taskCursor {
			cursor = selectedItemStyle.Render("> ")
		}
		rows = append(rows, cursor+box+" "+style.Render(truncate(t.Title, w-8)))
	}
	return append(rows, "", mutedStyle.Render("  space: toggle task  esc: close"))
}

func (o objectivesModel) renderSkeleton(w int, spin string) string {
	rows := []string{spin + " Loading objectives..."}
	for i := 0; i < 3; i++ {
		block := lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(strings.Repeat("░", max(w/2, 4))),
			mutedStyle.Render(strings.Repeat("░", max(w/3, 4))),
			"",
			mutedStyle.Render(strings.Repeat("░", max(w/4, 4))),
		)
		rows = append(rows, cardStyle.Width(w).Render(block))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (o objectivesModel) renderError(w int, err error) string {
	rows := []string{
		errorStyle.Bold(true).Render("Something went wrong"),
		"",
		"An error occurred while loading your data. Please try again.",
	}
	if err != nil {
		rows = append(rows, mutedStyle.Render(truncate(err.Error(), w-6)))
	}
	rows = append(rows, "", highlightStyle.Render("r: retry"))
	return activePanelStyle.BorderForeground(colorError).Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (o objectivesModel) renderEmpty(w int) string {
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("No objectives found"),
		mutedStyle.Render("Try adjusting your search or filters."),
		"",
		highlightStyle.Render("c: clear filters"),
	))
}

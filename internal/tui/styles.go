package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/notify"
	"github.com/sadopc/okrboard/internal/objective"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorInfo      = lipgloss.Color("#3498DB")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Objective cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

var statusColors = map[objective.Status]lipgloss.Color{
	objective.StatusNotStarted: colorMuted,
	objective.StatusInProgress: colorWarning,
	objective.StatusCompleted:  colorSuccess,
}

var priorityColors = map[objective.Priority]lipgloss.Color{
	objective.PriorityLow:    colorSuccess,
	objective.PriorityMedium: colorWarning,
	objective.PriorityHigh:   colorError,
}

var priorityLabels = map[objective.Priority]string{
	objective.PriorityLow:    "Low",
	objective.PriorityMedium: "Medium",
	objective.PriorityHigh:   "High",
}

var toastColors = map[notify.Kind]lipgloss.Color{
	notify.KindSuccess: colorSuccess,
	notify.KindError:   colorError,
	notify.KindInfo:    colorInfo,
}

func statusBadge(s objective.Status) string {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColors[s]).Render("● " + s.Label())
}

func priorityBadge(p objective.Priority) string {
	if p == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(priorityColors[p]).Render(priorityLabels[p])
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/notify"
	"github.com/sadopc/okrboard/internal/objective"
)

// viewState represents the currently active view.
type viewState int

const (
	viewObjectives viewState = iota
	viewAnalytics
	viewFilters
)

var viewNames = []string{"Objectives", "Analytics", "Filters"}

// --- Messages ---

// SeedChangedMsg tells the app that the seed file changed on disk.
type SeedChangedMsg struct{}

type loadTickMsg struct {
	gen int
}

type dataLoadedMsg struct {
	gen     int
	records []objective.Objective
	err     error
}

type taskToggledMsg struct {
	objectiveID string
	taskID      string
	completed   bool
	found       bool
	records     []objective.Objective
	err         error
}

type specChangedMsg struct {
	spec objective.Spec
}

// filtersClearedMsg resets the spec to the one the app started with.
type filtersClearedMsg struct{}

type toastMsg struct {
	text string
	kind notify.Kind
}

type toastExpiredMsg struct {
	id string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// truncate shortens s to at most w cells, ending with an ellipsis when cut.
// Only the first line of s is kept.
func truncate(s string, w int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func formatPercent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

func formatRatio(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}

func toast(text string, kind notify.Kind) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{text: text, kind: kind}
	}
}

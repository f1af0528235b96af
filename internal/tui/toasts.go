package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/notify"
)

var toastIcons = map[notify.Kind]string{
	notify.KindSuccess: "✓",
	notify.KindError:   "✗",
	notify.KindInfo:    "ℹ",
}

// toastModel shows the notification queue. Every toast gets its own expiry
// tick when pushed.
type toastModel struct {
	queue notify.Queue
	now   func() time.Time
}

func newToastModel() toastModel {
	return toastModel{
		queue: notify.NewQueue(notify.DefaultTTL),
		now:   time.Now,
	}
}

func (t *toastModel) push(text string, kind notify.Kind) tea.Cmd {
	n := t.queue.Push(text, kind, t.now())
	return tea.Tick(t.queue.TTL(), func(time.Time) tea.Msg {
		return toastExpiredMsg{id: n.ID}
	})
}

func (t *toastModel) expire(id string) {
	t.queue.Expire(id)
}

func (t toastModel) view(width int) string {
	items := t.queue.Items()
	if len(items) == 0 {
		return ""
	}
	maxW := min(width-2, 60)
	var rows []string
	for _, n := range items {
		c := toastColors[n.Kind]
		text := lipgloss.NewStyle().Foreground(c).Render(toastIcons[n.Kind] + " " + truncate(n.Message, maxW-6))
		rows = append(rows, toastStyle.BorderForeground(c).Render(text))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, rows...))
}

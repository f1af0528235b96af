package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	initialLoadDelay = 1500 * time.Millisecond
	refreshDelay     = 1000 * time.Millisecond
)

// loadState tracks the dashboard's data lifecycle.
type loadState int

const (
	loadIdle loadState = iota
	loadLoading
	loadReady
	loadFailed
)

// loadKind says where a load reads its records from.
type loadKind int

const (
	// loadInitial seeds the store from the source, then lists it.
	loadInitial loadKind = iota
	// loadRefresh re-lists the store and keeps task toggles.
	loadRefresh
	// loadReseed replaces the store contents from a changed source.
	loadReseed
)

// loaderModel sequences simulated loads. Each start bumps gen, and a delay
// or result carrying an older gen is dropped, so a superseded or cancelled
// load never lands.
type loaderModel struct {
	state loadState
	kind  loadKind
	gen   int
	err   error
}

func (l *loaderModel) start(kind loadKind) {
	l.gen++
	l.state = loadLoading
	l.kind = kind
	l.err = nil
}

// tick schedules the end of the current load's delay.
func (l loaderModel) tick() tea.Cmd {
	gen := l.gen
	delay := refreshDelay
	if l.kind == loadInitial {
		delay = initialLoadDelay
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return loadTickMsg{gen: gen}
	})
}

// current reports whether gen belongs to the load in flight.
func (l loaderModel) current(gen int) bool {
	return l.state == loadLoading && gen == l.gen
}

// finish settles the load in flight. It returns false for stale results.
func (l *loaderModel) finish(gen int, err error) bool {
	if !l.current(gen) {
		return false
	}
	if err != nil {
		l.state = loadFailed
		l.err = err
		return true
	}
	l.state = loadReady
	return true
}

// cancel drops the load in flight.
func (l *loaderModel) cancel() {
	if l.state != loadLoading {
		return
	}
	l.gen++
	l.state = loadIdle
}

func (l loaderModel) loading() bool { return l.state == loadLoading }
func (l loaderModel) failed() bool  { return l.state == loadFailed }

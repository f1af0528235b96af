package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestWatcherSendsSeedChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objectives.yaml")
	if err := os.WriteFile(path, []byte("objectives: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	msgs := make(chanSender, 4)
	cleanup, err := StartWatcher(path, msgs)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-msgs:
		t.Fatalf("unexpected message %T for another file", msg)
	case <-time.After(2 * watchDebounce):
	}

	if err := os.WriteFile(path, []byte("objectives: []\n# edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-msgs:
		if _, ok := msg.(SeedChangedMsg); !ok {
			t.Fatalf("expected SeedChangedMsg, got %T", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no SeedChangedMsg after writing the seed file")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := StartWatcher(filepath.Join(t.TempDir(), "missing", "seed.yaml"), make(chanSender, 1))
	if err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

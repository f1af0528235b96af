package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sadopc/okrboard/internal/objective"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fixture() []objective.Objective {
	return []objective.Objective{
		{
			ID: "1", Title: "Automate Office 365", KPI: "Automation rate", KPIFormula: "automated / manual * 100",
			Progress: 85, Status: objective.StatusCompleted, Priority: objective.PriorityHigh, DueDate: "2024-03-15",
			Tasks: []objective.Task{
				{ID: "1-1", Title: "Governance doc", Completed: true},
				{ID: "1-2", Title: "Webinars", Completed: true},
			},
		},
		{
			ID: "2", Title: "Workflow delivery", KPI: "Workflows on time",
			Progress: 90, Status: objective.StatusInProgress, Priority: objective.PriorityMedium, DueDate: "2024-04-30", Assignee: "Nadia",
			Tasks: []objective.Task{
				{ID: "2-1", Title: "Business needs", Completed: false},
				{ID: "2-2", Title: "Production fixes", Completed: true},
				{ID: "2-3", Title: "Incident follow-up", Completed: false},
			},
		},
		{
			ID: "3", Title: "Project tasks on time", KPI: "Tasks on time",
			Progress: 97, Status: objective.StatusNotStarted, Priority: objective.PriorityLow,
			Tasks: []objective.Task{},
		},
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	if err := s.Seed(fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestStoresAreIsolated(t *testing.T) {
	a := seededStore(t)
	b := newTestStore(t)

	got, err := b.ListObjectives()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh store sees %d objectives from another store", len(got))
	}
	if list, _ := a.ListObjectives(); len(list) != 3 {
		t.Fatalf("expected 3 objectives, got %d", len(list))
	}
}

// ============================================================
// Seed / list
// ============================================================

func TestSeedAndList(t *testing.T) {
	s := seededStore(t)

	got, err := s.ListObjectives()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, fixture()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, fixture())
	}
}

func TestSeedKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	records := []objective.Objective{
		{ID: "z", Title: "Z", Status: objective.StatusCompleted, Tasks: []objective.Task{{ID: "b"}, {ID: "a"}}},
		{ID: "a", Title: "A", Status: objective.StatusCompleted},
	}
	if err := s.Seed(records); err != nil {
		t.Fatal(err)
	}

	got, _ := s.ListObjectives()
	if got[0].ID != "z" || got[1].ID != "a" {
		t.Fatalf("objective order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Tasks[0].ID != "b" || got[0].Tasks[1].ID != "a" {
		t.Fatal("task order not preserved")
	}
	if got[1].Priority != objective.PriorityMedium {
		t.Fatalf("empty priority should default to medium, got %q", got[1].Priority)
	}
}

func TestSeedReplacesCollection(t *testing.T) {
	s := seededStore(t)
	if err := s.Seed(fixture()[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ := s.ListObjectives()
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only objective 1, got %+v", got)
	}
}

func TestSeedRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *objective.Objective)
	}{
		{"progress above 100", func(o *objective.Objective) { o.Progress = 101 }},
		{"negative progress", func(o *objective.Objective) { o.Progress = -1 }},
		{"unknown status", func(o *objective.Objective) { o.Status = "archived" }},
		{"unknown priority", func(o *objective.Objective) { o.Priority = "urgent" }},
		{"duplicate task id", func(o *objective.Objective) { o.Tasks = append(o.Tasks, o.Tasks[0]) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t)
			records := fixture()
			tt.mutate(&records[0])
			if err := s.Seed(records); err == nil {
				t.Fatal("expected seed error")
			}
			// A failed seed rolls back and keeps the previous collection.
			got, _ := s.ListObjectives()
			if !reflect.DeepEqual(got, fixture()) {
				t.Fatal("failed seed modified the collection")
			}
		})
	}
}

func TestSeedRejectsDuplicateObjectiveIDs(t *testing.T) {
	s := newTestStore(t)
	records := fixture()
	records[1].ID = records[0].ID
	if err := s.Seed(records); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestGetObjective(t *testing.T) {
	s := seededStore(t)

	o, err := s.GetObjective("2")
	if err != nil {
		t.Fatal(err)
	}
	if o.Assignee != "Nadia" || len(o.Tasks) != 3 {
		t.Fatalf("unexpected objective: %+v", o)
	}

	_, err = s.GetObjective("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Toggle
// ============================================================

func TestToggleTask(t *testing.T) {
	s := seededStore(t)

	got, found, err := s.ToggleTask("2", "2-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected task to be found")
	}

	want := fixture()
	want[1].Tasks[0].Completed = true
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected collection after toggle:\n got %+v\nwant %+v", got, want)
	}

	got, _, err = s.ToggleTask("2", "2-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, fixture()) {
		t.Fatal("toggling back should restore the original collection")
	}
}

func TestToggleTaskSameValueStillMatches(t *testing.T) {
	s := seededStore(t)
	_, found, err := s.ToggleTask("1", "1-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("setting an unchanged value should still report the task as found")
	}
}

func TestToggleTaskUnknownIDs(t *testing.T) {
	tests := []struct {
		name        string
		objectiveID string
		taskID      string
	}{
		{"unknown objective", "99", "2-1"},
		{"unknown task", "2", "2-9"},
		{"task of another objective", "1", "2-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t)
			got, found, err := s.ToggleTask(tt.objectiveID, tt.taskID, true)
			if err != nil {
				t.Fatalf("unknown ids must not be an error: %v", err)
			}
			if found {
				t.Fatal("expected not found")
			}
			if !reflect.DeepEqual(got, fixture()) {
				t.Fatal("no-op toggle changed the collection")
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	s := seededStore(t)

	tasks, err := s.ListTasks("3")
	if err != nil {
		t.Fatal(err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil task list, got %#v", tasks)
	}

	tasks, _ = s.ListTasks("2")
	if len(tasks) != 3 || tasks[2].ID != "2-3" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

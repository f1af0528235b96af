package objective

import "fmt"

// Status is the lifecycle state of an objective.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

var statusLabels = map[Status]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// Label returns the human readable form of s.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if _, ok := statusLabels[s]; !ok {
		return "", fmt.Errorf("unknown status %q", v)
	}
	return s, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Rank maps a priority onto low=1, medium=2, high=3. Unknown values rank 0.
func (p Priority) Rank() int {
	return priorityRanks[p]
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if _, ok := priorityRanks[p]; !ok {
		return "", fmt.Errorf("unknown priority %q", v)
	}
	return p, nil
}

type Task struct {
	ID        string
	Title     string
	Completed bool
}

// Objective is a tracked goal with a KPI, a progress percentage and its own
// ordered task list. DueDate and Assignee are empty when absent.
type Objective struct {
	ID         string
	Title      string
	KPI        string
	KPIFormula string
	Progress   int // 0..100
	Status     Status
	Priority   Priority
	DueDate    string // YYYY-MM-DD
	Assignee   string
	Tasks      []Task
}

// CompletedTasks counts the tasks marked completed.
func (o Objective) CompletedTasks() int {
	n := 0
	for _, t := range o.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// TaskProgress is the share of completed tasks as a percentage, 0 without tasks.
func (o Objective) TaskProgress() float64 {
	if len(o.Tasks) == 0 {
		return 0
	}
	return float64(o.CompletedTasks()) / float64(len(o.Tasks)) * 100
}

// Clone returns a copy of o that shares no task storage with it.
func (o Objective) Clone() Objective {
	c := o
	if o.Tasks != nil {
		c.Tasks = make([]Task, len(o.Tasks))
		copy(c.Tasks, o.Tasks)
	}
	return c
}

// KPITypes returns the distinct KPI descriptors of records in first-seen order.
func KPITypes(records []Objective) []string {
	seen := make(map[string]bool)
	var kpis []string
	for _, o := range records {
		if o.KPI == "" || seen[o.KPI] {
			continue
		}
		seen[o.KPI] = true
		kpis = append(kpis, o.KPI)
	}
	return kpis
}

package objective

import "math"

// Summary holds the aggregate figures shown in the dashboard header.
type Summary struct {
	TotalCount         int
	CompletedCount     int
	AverageProgress    int
	TotalTaskCount     int
	CompletedTaskCount int
	ByStatus           map[Status]int
}

// TaskCompletion is the share of completed tasks as a percentage.
func (s Summary) TaskCompletion() float64 {
	if s.TotalTaskCount == 0 {
		return 0
	}
	return float64(s.CompletedTaskCount) / float64(s.TotalTaskCount) * 100
}

// Summarize aggregates records. The average progress of an empty collection
// is 0.
func Summarize(records []Objective) Summary {
	s := Summary{
		TotalCount: len(records),
		ByStatus:   make(map[Status]int, len(Statuses)),
	}
	progress := 0
	for _, o := range records {
		if o.Status == StatusCompleted {
			s.CompletedCount++
		}
		s.ByStatus[o.Status]++
		progress += o.Progress
		s.TotalTaskCount += len(o.Tasks)
		s.CompletedTaskCount += o.CompletedTasks()
	}
	if len(records) > 0 {
		s.AverageProgress = int(math.Round(float64(progress) / float64(len(records))))
	}
	return s
}

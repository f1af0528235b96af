package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/okrboard/internal/objective"
)

type jsonExport struct {
	ExportedAt string          `json:"exported_at"`
	Count      int             `json:"count"`
	Summary    jsonSummary     `json:"summary"`
	Objectives []jsonObjective `json:"objectives"`
}

type jsonSummary struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	AverageProgress int `json:"average_progress"`
	Tasks           int `json:"tasks"`
	TasksCompleted  int `json:"tasks_completed"`
}

type jsonObjective struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	KPI        string     `json:"kpi"`
	KPIFormula string     `json:"kpi_formula,omitempty"`
	Progress   int        `json:"progress"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	DueDate    string     `json:"due_date,omitempty"`
	Assignee   string     `json:"assignee,omitempty"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ToJSON writes records and their summary as an indented JSON document.
func ToJSON(records []objective.Objective, path string) error {
	data, err := MarshalJSON(records, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// MarshalJSON renders the export document with the given timestamp.
func MarshalJSON(records []objective.Objective, at time.Time) ([]byte, error) {
	s := objective.Summarize(records)
	export := jsonExport{
		ExportedAt: at.UTC().Format(time.RFC3339),
		Count:      len(records),
		Summary: jsonSummary{
			Total:           s.TotalCount,
			Completed:       s.CompletedCount,
			AverageProgress: s.AverageProgress,
			Tasks:           s.TotalTaskCount,
			TasksCompleted:  s.CompletedTaskCount,
		},
		Objectives: make([]jsonObjective, 0, len(records)),
	}

	for _, o := range records {
		jo := jsonObjective{
			ID:         o.ID,
			Title:      o.Title,
			KPI:        o.KPI,
			KPIFormula: o.KPIFormula,
			Progress:   o.Progress,
			Status:     string(o.Status),
			Priority:   string(o.Priority),
			DueDate:    o.DueDate,
			Assignee:   o.Assignee,
			Tasks:      make([]jsonTask, 0, len(o.Tasks)),
		}
		for _, t := range o.Tasks {
			jo.Tasks = append(jo.Tasks, jsonTask{ID: t.ID, Title: t.Title, Completed: t.Completed})
		}
		export.Objectives = append(export.Objectives, jo)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}

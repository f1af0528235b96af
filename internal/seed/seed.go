// Package seed supplies the objective records the dashboard starts from:
// an embedded default dataset or a YAML seed file.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/sadopc/okrboard/internal/objective"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSeed = errors.New("invalid seed")

//go:embed default.yaml
var defaultData []byte

// Source produces the initial record collection.
type Source interface {
	Load() ([]objective.Objective, error)
}

type builtin struct{}

// Builtin returns the embedded default dataset.
func Builtin() Source { return builtin{} }

func (builtin) Load() ([]objective.Objective, error) {
	return Parse(defaultData)
}

func (builtin) String() string { return "built-in dataset" }

// File reads a YAML seed file on every Load.
type File struct {
	Path string
}

func (f File) Load() ([]objective.Objective, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", f.Path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", f.Path, err)
	}
	return records, nil
}

func (f File) String() string { return f.Path }

// Static serves a fixed collection. Each Load returns a fresh copy.
type Static []objective.Objective

func (s Static) Load() ([]objective.Objective, error) {
	out := make([]objective.Objective, len(s))
	for i, o := range s {
		out[i] = o.Clone()
	}
	return out, nil
}

type document struct {
	Objectives []objectiveDoc `yaml:"objectives"`
}

type objectiveDoc struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	KPI        string    `yaml:"kpi"`
	KPIFormula string    `yaml:"kpi_formula"`
	Progress   int       `yaml:"progress"`
	Status     string    `yaml:"status"`
	Priority   string    `yaml:"priority,omitempty"`
	DueDate    string    `yaml:"due_date,omitempty"`
	Assignee   string    `yaml:"assignee,omitempty"`
	Tasks      []taskDoc `yaml:"tasks"`
}

type taskDoc struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Completed bool   `yaml:"completed"`
}

// Parse decodes and validates a YAML seed document.
func Parse(data []byte) ([]objective.Objective, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidSeed, err)
	}

	records := make([]objective.Objective, 0, len(doc.Objectives))
	seen := make(map[string]bool)
	for i, d := range doc.Objectives {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: objective #%d has no id", ErrInvalidSeed, i+1)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: duplicate objective id %q", ErrInvalidSeed, d.ID)
		}
		seen[d.ID] = true

		o, err := d.toObjective()
		if err != nil {
			return nil, fmt.Errorf("%w: objective %q: %v", ErrInvalidSeed, d.ID, err)
		}
		records = append(records, o)
	}
	return records, nil
}

func (d objectiveDoc) toObjective() (objective.Objective, error) {
	if d.Progress < 0 || d.Progress > 100 {
		return objective.Objective{}, fmt.Errorf("progress %d outside [0, 100]", d.Progress)
	}
	status, err := objective.ParseStatus(d.Status)
	if err != nil {
		return objective.Objective{}, err
	}
	priority := objective.PriorityMedium
	if d.Priority != "" {
		if priority, err = objective.ParsePriority(d.Priority); err != nil {
			return objective.Objective{}, err
		}
	}

	o := objective.Objective{
		ID:         d.ID,
		Title:      d.Title,
		KPI:        d.KPI,
		KPIFormula: d.KPIFormula,
		Progress:   d.Progress,
		Status:     status,
		Priority:   priority,
		DueDate:    d.DueDate,
		Assignee:   d.Assignee,
		Tasks:      make([]objective.Task, 0, len(d.Tasks)),
	}
	taskIDs := make(map[string]bool)
	for _, t := range d.Tasks {
		if t.ID == "" {
			return objective.Objective{}, fmt.Errorf("task without id")
		}
		if taskIDs[t.ID] {
			return objective.Objective{}, fmt.Errorf("duplicate task id %q", t.ID)
		}
		taskIDs[t.ID] = true
		o.Tasks = append(o.Tasks, objective.Task{ID: t.ID, Title: t.Title, Completed: t.Completed})
	}
	return o, nil
}

// Marshal renders records as a seed document Parse accepts.
func Marshal(records []objective.Objective) ([]byte, error) {
	doc := document{Objectives: make([]objectiveDoc, 0, len(records))}
	for _, o := range records {
		d := objectiveDoc{
			ID:         o.ID,
			Title:      o.Title,
			KPI:        o.KPI,
			KPIFormula: o.KPIFormula,
			Progress:   o.Progress,
			Status:     string(o.Status),
			Priority:   string(o.Priority),
			DueDate:    o.DueDate,
			Assignee:   o.Assignee,
		}
		for _, t := range o.Tasks {
			d.Tasks = append(d.Tasks, taskDoc{ID: t.ID, Title: t.Title, Completed: t.Completed})
		}
		doc.Objectives = append(doc.Objectives, d)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal seed: %w", err)
	}
	return data, nil
}

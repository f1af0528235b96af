package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/okrboard/internal/objective"
)

// Seed replaces the whole collection with records, keeping their order and
// the order of each task list.
func (s *Store) Seed(records []objective.Objective) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM objectives`); err != nil {
		return fmt.Errorf("clear objectives: %w", err)
	}

	for i, o := range records {
		_, err := tx.Exec(
			`INSERT INTO objectives (id, position, title, kpi, kpi_formula, progress, status, priority, due_date, assignee)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, i, o.Title, o.KPI, o.KPIFormula, o.Progress, string(o.Status), priorityOrDefault(o.Priority), o.DueDate, o.Assignee,
		)
		if err != nil {
			return fmt.Errorf("insert objective %q: %w", o.ID, err)
		}
		for j, t := range o.Tasks {
			_, err := tx.Exec(
				`INSERT INTO tasks (objective_id, id, position, title, completed) VALUES (?, ?, ?, ?, ?)`,
				o.ID, t.ID, j, t.Title, boolToInt(t.Completed),
			)
			if err != nil {
				return fmt.Errorf("insert task %q of objective %q: %w", t.ID, o.ID, err)
			}
		}
	}
	return tx.Commit()
}

// ListObjectives returns the collection in seed order, each with its tasks.
func (s *Store) ListObjectives() ([]objective.Objective, error) {
	rows, err := s.db.Query(
		`SELECT id, title, kpi, kpi_formula, progress, status, priority, due_date, assignee
		 FROM objectives ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	defer rows.Close()

	var records []objective.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the single pooled connection before the task query.
	rows.Close()

	tasks, err := s.listAllTasks()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if ts, ok := tasks[records[i].ID]; ok {
			records[i].Tasks = ts
		}
	}
	return records, nil
}

// GetObjective returns a single objective with its tasks.
func (s *Store) GetObjective(id string) (*objective.Objective, error) {
	row := s.db.QueryRow(
		`SELECT id, title, kpi, kpi_formula, progress, status, priority, due_date, assignee
		 FROM objectives WHERE id = ?`, id,
	)
	o, err := scanObjective(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get objective %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get objective %q: %w", id, err)
	}
	o.Tasks, err = s.ListTasks(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObjective(r scanner) (objective.Objective, error) {
	var o objective.Objective
	var status, priority string
	err := r.Scan(&o.ID, &o.Title, &o.KPI, &o.KPIFormula, &o.Progress, &status, &priority, &o.DueDate, &o.Assignee)
	if err != nil {
		return o, err
	}
	o.Status = objective.Status(status)
	o.Priority = objective.Priority(priority)
	o.Tasks = []objective.Task{}
	return o, nil
}

func priorityOrDefault(p objective.Priority) string {
	if p == "" {
		return string(objective.PriorityMedium)
	}
	return string(p)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

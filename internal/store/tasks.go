package store

import (
	"fmt"
	"time"

	"github.com/sadopc/okrboard/internal/objective"
)

// ToggleTask sets the completed flag of one task and returns the updated
// collection. Unknown objective or task ids leave everything untouched and
// report false; they are not an error.
func (s *Store) ToggleTask(objectiveID, taskID string, completed bool) ([]objective.Objective, bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE objective_id = ? AND id = ?`,
		boolToInt(completed), now, objectiveID, taskID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("toggle task %q of objective %q: %w", taskID, objectiveID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("toggle task rows: %w", err)
	}

	records, err := s.ListObjectives()
	if err != nil {
		return nil, false, err
	}
	return records, n > 0, nil
}

// ListTasks returns the tasks of one objective in display order.
func (s *Store) ListTasks(objectiveID string) ([]objective.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, completed FROM tasks WHERE objective_id = ? ORDER BY position`, objectiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []objective.Task{}
	for rows.Next() {
		var t objective.Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &completed); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) listAllTasks() (map[string][]objective.Task, error) {
	rows, err := s.db.Query(`SELECT objective_id, id, title, completed FROM tasks ORDER BY objective_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	byObjective := make(map[string][]objective.Task)
	for rows.Next() {
		var objectiveID string
		var t objective.Task
		var completed int
		if err := rows.Scan(&objectiveID, &t.ID, &t.Title, &completed); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		byObjective[objectiveID] = append(byObjective[objectiveID], t)
	}
	return byObjective, rows.Err()
}

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/okrboard/internal/objective"
)

// ToCSV writes one row per objective in the order given.
func ToCSV(records []objective.Objective, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "KPI", "KPI Formula", "Progress", "Status", "Priority", "Due Date", "Assignee", "Tasks Done", "Tasks Total"}); err != nil {
		return err
	}

	for _, o := range records {
		row := []string{
			o.ID,
			o.Title,
			o.KPI,
			o.KPIFormula,
			strconv.Itoa(o.Progress),
			string(o.Status),
			string(o.Priority),
			o.DueDate,
			o.Assignee,
			strconv.Itoa(o.CompletedTasks()),
			strconv.Itoa(len(o.Tasks)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sadopc/okrboard/internal/objective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDataset(t *testing.T) {
	records, err := Builtin().Load()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, objective.PriorityHigh, records[0].Priority)
	assert.Equal(t, "2024-03-15", records[0].DueDate)
	assert.Len(t, records[1].Tasks, 3)
	assert.Equal(t, "2-1", records[1].Tasks[0].ID)
	assert.Contains(t, records[0].KPI, "\nB) ")

	s := objective.Summarize(records)
	assert.Equal(t, 91, s.AverageProgress)
	assert.Equal(t, 3, s.CompletedCount)
	assert.Equal(t, 6, s.TotalTaskCount)
}

func TestParseDefaultsPriority(t *testing.T) {
	records, err := Parse([]byte(`
objectives:
  - id: a
    title: Ship it
    progress: 10
    status: in-progress
`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, objective.PriorityMedium, records[0].Priority)
	assert.Empty(t, records[0].Tasks)
}

func TestParseRejectsInvalidSeeds(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "objectives: [\n"},
		{"missing id", "objectives:\n  - title: x\n    status: completed\n"},
		{"duplicate id", "objectives:\n  - {id: a, status: completed}\n  - {id: a, status: completed}\n"},
		{"progress too high", "objectives:\n  - {id: a, status: completed, progress: 101}\n"},
		{"negative progress", "objectives:\n  - {id: a, status: completed, progress: -1}\n"},
		{"bad status", "objectives:\n  - {id: a, status: done}\n"},
		{"bad priority", "objectives:\n  - {id: a, status: completed, priority: urgent}\n"},
		{"duplicate task id", "objectives:\n  - id: a\n    status: completed\n    tasks:\n      - {id: t}\n      - {id: t}\n"},
		{"task without id", "objectives:\n  - id: a\n    status: completed\n    tasks:\n      - {title: t}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidSeed)
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objectives:\n  - {id: x, title: X, status: not-started}\n"), 0o644))

	records, err := File{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, objective.StatusNotStarted, records[0].Status)

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Load()
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	records, err := Builtin().Load()
	require.NoError(t, err)

	data, err := Marshal(records)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestStaticReturnsCopies(t *testing.T) {
	src := Static{{ID: "1", Status: objective.StatusCompleted, Tasks: []objective.Task{{ID: "1-1"}}}}
	first, _ := src.Load()
	first[0].Tasks[0].Completed = true

	second, _ := src.Load()
	assert.False(t, second[0].Tasks[0].Completed)
}

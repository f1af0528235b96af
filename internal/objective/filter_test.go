package objective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Objective {
	return []Objective{
		{ID: "1", Title: "Automate Office 365", KPI: "Automation rate", Progress: 85, Status: StatusCompleted, Priority: PriorityHigh, DueDate: "2024-03-15",
			Tasks: []Task{{ID: "1-1", Title: "Governance doc", Completed: true}, {ID: "1-2", Title: "Webinars", Completed: false}}},
		{ID: "2", Title: "Workflow delivery", KPI: "Workflows on time", Progress: 40, Status: StatusInProgress, Priority: PriorityMedium, DueDate: "2024-04-30", Assignee: "Nadia",
			Tasks: []Task{{ID: "2-1", Title: "Specs", Completed: false}}},
		{ID: "3", Title: "bug triage", KPI: "Automation rate", Progress: 0, Status: StatusNotStarted, Priority: PriorityLow},
		{ID: "4", Title: "Évaluation annuelle", KPI: "Team Performance", Progress: 100, Status: StatusCompleted, Priority: PriorityHigh, DueDate: "not a date"},
	}
}

func ids(records []Objective) []string {
	var out []string
	for _, o := range records {
		out = append(out, o.ID)
	}
	return out
}

func TestApplyDefaultSpecKeepsEverything(t *testing.T) {
	records := sample()
	got := Apply(records, DefaultSpec())
	assert.ElementsMatch(t, ids(records), ids(got))
	assert.Len(t, got, len(records))
}

func TestApplyIsIdempotent(t *testing.T) {
	records := sample()
	spec := DefaultSpec()
	spec.SortKey = SortPriority
	spec.SortDirection = Descending

	first := Apply(records, spec)
	second := Apply(records, spec)
	assert.Equal(t, first, second)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := sample()
	before := ids(records)
	spec := DefaultSpec()
	spec.SortKey = SortProgress
	Apply(records, spec)
	assert.Equal(t, before, ids(records))
}

func TestApplySearch(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"title case-insensitive", Spec{SearchText: "WORKFLOW"}, []string{"2"}},
		{"kpi", Spec{SearchText: "automation rate"}, []string{"1", "3"}},
		{"assignee", Spec{SearchText: "nad"}, []string{"2"}},
		{"query bar", Spec{Query: "triage"}, []string{"3"}},
		{"search text wins over query", Spec{SearchText: "triage", Query: "workflow"}, []string{"3"}},
		{"no match", Spec{SearchText: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultSpec().Merge(Patch{SearchText: &tt.spec.SearchText, Query: &tt.spec.Query})
			spec.SortKey = SortProgress
			got := Apply(sample(), spec)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestApplyKPIAndStatusFilters(t *testing.T) {
	spec := DefaultSpec()
	spec.KPITypes = []string{"Automation rate"}
	assert.ElementsMatch(t, []string{"1", "3"}, ids(Apply(sample(), spec)))

	spec.Statuses = []Status{StatusCompleted}
	assert.Equal(t, []string{"1"}, ids(Apply(sample(), spec)))
}

func TestApplyProgressRangeIsInclusive(t *testing.T) {
	spec := DefaultSpec()
	spec.ProgressRange = [2]int{40, 85}
	spec.SortKey = SortProgress
	assert.Equal(t, []string{"2", "1"}, ids(Apply(sample(), spec)))

	spec.ProgressRange = [2]int{100, 100}
	assert.Equal(t, []string{"4"}, ids(Apply(sample(), spec)))
}

func TestApplyEmptyResult(t *testing.T) {
	spec := DefaultSpec()
	spec.Statuses = []Status{StatusInProgress}
	spec.ProgressRange = [2]int{90, 100}
	got := Apply(sample(), spec)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplySortKeys(t *testing.T) {
	tests := []struct {
		key  SortKey
		dir  SortDirection
		want []string
	}{
		{SortAlphabetical, Ascending, []string{"1", "3", "4", "2"}},
		{SortProgress, Ascending, []string{"3", "2", "1", "4"}},
		{SortProgress, Descending, []string{"4", "1", "2", "3"}},
		{SortPriority, Ascending, []string{"3", "2", "1", "4"}},
		{SortPriority, Descending, []string{"1", "4", "2", "3"}},
		// Missing and malformed due dates sort as the epoch.
		{SortDueDate, Ascending, []string{"3", "4", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key)+"-"+string(tt.dir), func(t *testing.T) {
			spec := DefaultSpec()
			spec.SortKey = tt.key
			spec.SortDirection = tt.dir
			assert.Equal(t, tt.want, ids(Apply(sample(), spec)))
		})
	}
}

func TestApplySortIsStable(t *testing.T) {
	records := []Objective{
		{ID: "a", Title: "x", Progress: 50},
		{ID: "b", Title: "y", Progress: 50},
		{ID: "c", Title: "z", Progress: 10},
		{ID: "d", Title: "w", Progress: 50},
	}
	spec := DefaultSpec()
	spec.SortKey = SortProgress
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(Apply(records, spec)))

	spec.SortDirection = Descending
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(Apply(records, spec)))
}

func TestDueTime(t *testing.T) {
	epoch := DueTime("")
	assert.Equal(t, int64(0), epoch.Unix())
	assert.Equal(t, epoch, DueTime("31/12/2024"))
	assert.Equal(t, 2024, DueTime("2024-03-15").Year())
}

func TestSpecValidate(t *testing.T) {
	require.NoError(t, DefaultSpec().Validate())

	bad := DefaultSpec()
	bad.ProgressRange = [2]int{60, 40}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSpec)

	bad = DefaultSpec()
	bad.ProgressRange = [2]int{-5, 40}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSpec)

	bad = DefaultSpec()
	bad.SortKey = "owner"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSpec)

	bad = DefaultSpec()
	bad.Statuses = []Status{"archived"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSpec)
}

func TestSpecMergeAndToggles(t *testing.T) {
	key := SortDueDate
	kpis := []string{"Automation rate"}
	spec := DefaultSpec().Merge(Patch{SortKey: &key, KPITypes: &kpis})
	assert.Equal(t, SortDueDate, spec.SortKey)
	assert.Equal(t, Ascending, spec.SortDirection)
	assert.Equal(t, kpis, spec.KPITypes)

	kpis[0] = "changed"
	assert.Equal(t, "Automation rate", spec.KPITypes[0], "merge must copy slices")

	spec = spec.ToggleKPIType("Team Performance", true).ToggleKPIType("Automation rate", false)
	assert.Equal(t, []string{"Team Performance"}, spec.KPITypes)

	spec = spec.ToggleStatus(StatusCompleted, true).ToggleStatus(StatusCompleted, true)
	assert.Equal(t, []Status{StatusCompleted}, spec.Statuses)
}

func TestSpecIsActive(t *testing.T) {
	assert.False(t, DefaultSpec().IsActive())

	s := DefaultSpec()
	s.SortDirection = Descending
	assert.False(t, s.IsActive())

	s.ProgressRange = [2]int{0, 95}
	assert.True(t, s.IsActive())

	s = DefaultSpec()
	s.SearchText = "x"
	assert.True(t, s.IsActive())
}

func TestKPITypes(t *testing.T) {
	assert.Equal(t, []string{"Automation rate", "Workflows on time", "Team Performance"}, KPITypes(sample()))
	assert.Empty(t, KPITypes(nil))
}

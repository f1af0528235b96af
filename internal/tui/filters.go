package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/okrboard/internal/notify"
	"github.com/sadopc/okrboard/internal/objective"
)

type filtersModel struct {
	width  int
	height int

	spec       objective.Spec
	kpiOptions []string

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	searchText *string
	kpiTypes   *[]string
	statuses   *[]string
	minPercent *string
	maxPercent *string
	sortKey    *string
	sortOrder  *string
}

func newFiltersModel(spec objective.Spec) filtersModel {
	st, lo, hi, sk, so := "", "", "", "", ""
	var kpis, statuses []string
	return filtersModel{
		spec:       spec,
		searchText: &st,
		kpiTypes:   &kpis,
		statuses:   &statuses,
		minPercent: &lo,
		maxPercent: &hi,
		sortKey:    &sk,
		sortOrder:  &so,
	}
}

func (f *filtersModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

// setState syncs the model with the app's current spec and the KPI types
// present in the collection.
func (f *filtersModel) setState(spec objective.Spec, kpiOptions []string) {
	f.spec = spec
	f.kpiOptions = kpiOptions
}

func (f filtersModel) update(msg tea.Msg) (filtersModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return f.showForm()
		case key.Matches(msg, keys.Clear):
			return f, func() tea.Msg { return filtersClearedMsg{} }
		}
	}
	return f, nil
}

func (f filtersModel) showForm() (filtersModel, tea.Cmd) {
	*f.searchText = f.spec.SearchText
	*f.kpiTypes = append([]string(nil), f.spec.KPITypes...)
	*f.statuses = (*f.statuses)[:0]
	for _, st := range f.spec.Statuses {
		*f.statuses = append(*f.statuses, string(st))
	}
	*f.minPercent = strconv.Itoa(f.spec.ProgressRange[0])
	*f.maxPercent = strconv.Itoa(f.spec.ProgressRange[1])
	*f.sortKey = string(f.spec.SortKey)
	*f.sortOrder = string(f.spec.SortDirection)

	var kpiOpts []huh.Option[string]
	for _, k := range f.kpiOptions {
		kpiOpts = append(kpiOpts, huh.NewOption(truncate(k, 48), k))
	}
	var statusOpts []huh.Option[string]
	for _, st := range objective.Statuses {
		statusOpts = append(statusOpts, huh.NewOption(st.Label(), string(st)))
	}
	var sortOpts []huh.Option[string]
	for _, k := range objective.SortKeys {
		sortOpts = append(sortOpts, huh.NewOption(k.Label(), string(k)))
	}

	filterFields := []huh.Field{
		huh.NewMultiSelect[string]().Title("Status").Options(statusOpts...).Value(f.statuses),
		huh.NewInput().Title("Min progress %").Value(f.minPercent).Validate(validatePercent),
		huh.NewInput().Title("Max progress %").Value(f.maxPercent).Validate(validatePercent),
	}
	if len(kpiOpts) > 0 {
		filterFields = append([]huh.Field{
			huh.NewMultiSelect[string]().Title("KPI type").Options(kpiOpts...).Value(f.kpiTypes),
		}, filterFields...)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search").Placeholder("title, KPI or assignee").Value(f.searchText),
			huh.NewSelect[string]().Title("Sort by").Options(sortOpts...).Value(f.sortKey),
			huh.NewSelect[string]().Title("Order").
				Options(
					huh.NewOption("Ascending", string(objective.Ascending)),
					huh.NewOption("Descending", string(objective.Descending)),
				).Value(f.sortOrder),
		).Title("Search & Sort"),
		huh.NewGroup(filterFields...).Title("Filters"),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f filtersModel) updateForm(msg tea.Msg) (filtersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateAborted {
		f.formActive = false
		f.form = nil
		return f, nil
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		f.form = nil
		spec, err := f.formSpec()
		if err != nil {
			return f, toast(err.Error(), notify.KindError)
		}
		return f, func() tea.Msg { return specChangedMsg{spec: spec} }
	}

	return f, cmd
}

// formSpec builds a spec from the form values. The query from the search
// bar is carried over unchanged.
func (f filtersModel) formSpec() (objective.Spec, error) {
	lo, _ := strconv.Atoi(strings.TrimSpace(*f.minPercent))
	hi, _ := strconv.Atoi(strings.TrimSpace(*f.maxPercent))

	statuses := make([]objective.Status, 0, len(*f.statuses))
	for _, v := range *f.statuses {
		statuses = append(statuses, objective.Status(v))
	}
	search := strings.TrimSpace(*f.searchText)
	kpis := append([]string(nil), *f.kpiTypes...)
	rng := [2]int{lo, hi}
	sortKey := objective.SortKey(*f.sortKey)
	dir := objective.SortDirection(*f.sortOrder)

	spec := f.spec.Merge(objective.Patch{
		SearchText:    &search,
		KPITypes:      &kpis,
		ProgressRange: &rng,
		Statuses:      &statuses,
		SortKey:       &sortKey,
		SortDirection: &dir,
	})
	return spec, spec.Validate()
}

func validatePercent(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 || n > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func (f filtersModel) view() string {
	w := f.width - 4
	title := titleStyle.Render("Filters")

	if f.formActive && f.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View()),
		)
	}

	s := f.spec
	label := func(v string) string { return lipgloss.NewStyle().Width(16).Render(v) }
	value := func(v string) string {
		if v == "" {
			return mutedStyle.Render("any")
		}
		return highlightStyle.Render(v)
	}

	var statuses []string
	for _, st := range s.Statuses {
		statuses = append(statuses, st.Label())
	}
	order := "ascending"
	if s.SortDirection == objective.Descending {
		order = "descending"
	}

	rows := []string{
		title,
		"",
		"  " + label("Search") + value(s.SearchText),
		"  " + label("Search bar") + value(s.Query),
		"  " + label("KPI type") + value(strings.Join(s.KPITypes, "; ")),
		"  " + label("Status") + value(strings.Join(statuses, ", ")),
		"  " + label("Progress") + highlightStyle.Render(fmt.Sprintf("%d%% – %d%%", s.ProgressRange[0], s.ProgressRange[1])),
		"  " + label("Sort") + highlightStyle.Render(s.SortKey.Label()+", "+order),
		"",
	}
	if s.IsActive() {
		rows = append(rows, badgeStyle.Render("Filters are narrowing the list"), "")
	}
	rows = append(rows, mutedStyle.Render("Press enter to edit filters, c to clear"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

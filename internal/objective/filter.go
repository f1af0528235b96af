package objective

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSpec = errors.New("invalid filter spec")

type SortKey string

const (
	SortAlphabetical SortKey = "alphabetical"
	SortProgress     SortKey = "progress"
	SortPriority     SortKey = "priority"
	SortDueDate      SortKey = "dueDate"
)

// SortKeys lists the sort keys in the order the filter form offers them.
var SortKeys = []SortKey{SortAlphabetical, SortProgress, SortPriority, SortDueDate}

var sortKeyLabels = map[SortKey]string{
	SortAlphabetical: "Alphabetical",
	SortProgress:     "Progress %",
	SortPriority:     "Priority",
	SortDueDate:      "Due Date",
}

func (k SortKey) Label() string {
	if l, ok := sortKeyLabels[k]; ok {
		return l
	}
	return string(k)
}

func ParseSortKey(v string) (SortKey, error) {
	k := SortKey(v)
	if _, ok := sortKeyLabels[k]; !ok {
		return "", fmt.Errorf("unknown sort key %q", v)
	}
	return k, nil
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func ParseSortDirection(v string) (SortDirection, error) {
	switch SortDirection(v) {
	case Ascending, Descending:
		return SortDirection(v), nil
	}
	return "", fmt.Errorf("unknown sort direction %q", v)
}

// Spec is the combined search, filter and sort configuration applied to the
// objective collection.
type Spec struct {
	SearchText string
	// Query is the free-text search bar. SearchText takes precedence when both
	// are set.
	Query         string
	KPITypes      []string
	ProgressRange [2]int
	Statuses      []Status
	SortKey       SortKey
	SortDirection SortDirection
}

// DefaultSpec restricts nothing and sorts alphabetically, ascending.
func DefaultSpec() Spec {
	return Spec{
		ProgressRange: [2]int{0, 100},
		SortKey:       SortAlphabetical,
		SortDirection: Ascending,
	}
}

func (s Spec) Validate() error {
	lo, hi := s.ProgressRange[0], s.ProgressRange[1]
	if lo < 0 || hi > 100 {
		return fmt.Errorf("%w: progress range [%d, %d] outside [0, 100]", ErrInvalidSpec, lo, hi)
	}
	if lo > hi {
		return fmt.Errorf("%w: progress range low %d above high %d", ErrInvalidSpec, lo, hi)
	}
	if _, err := ParseSortKey(string(s.SortKey)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if _, err := ParseSortDirection(string(s.SortDirection)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	for _, st := range s.Statuses {
		if _, err := ParseStatus(string(st)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	}
	return nil
}

// IsActive reports whether any filter narrows the collection beyond the
// defaults. Sorting does not count.
func (s Spec) IsActive() bool {
	return s.SearchText != "" ||
		len(s.KPITypes) > 0 ||
		len(s.Statuses) > 0 ||
		s.ProgressRange[0] > 0 || s.ProgressRange[1] < 100
}

// Patch is a partial Spec update. Nil fields are left untouched.
type Patch struct {
	SearchText    *string
	Query         *string
	KPITypes      *[]string
	ProgressRange *[2]int
	Statuses      *[]Status
	SortKey       *SortKey
	SortDirection *SortDirection
}

// Merge returns s with every non-nil field of p applied.
func (s Spec) Merge(p Patch) Spec {
	if p.SearchText != nil {
		s.SearchText = *p.SearchText
	}
	if p.Query != nil {
		s.Query = *p.Query
	}
	if p.KPITypes != nil {
		s.KPITypes = slices.Clone(*p.KPITypes)
	}
	if p.ProgressRange != nil {
		s.ProgressRange = *p.ProgressRange
	}
	if p.Statuses != nil {
		s.Statuses = slices.Clone(*p.Statuses)
	}
	if p.SortKey != nil {
		s.SortKey = *p.SortKey
	}
	if p.SortDirection != nil {
		s.SortDirection = *p.SortDirection
	}
	return s
}

// ToggleKPIType adds or removes kpi from the allowed KPI types.
func (s Spec) ToggleKPIType(kpi string, checked bool) Spec {
	s.KPITypes = toggle(s.KPITypes, kpi, checked)
	return s
}

// ToggleStatus adds or removes st from the allowed statuses.
func (s Spec) ToggleStatus(st Status, checked bool) Spec {
	s.Statuses = toggle(s.Statuses, st, checked)
	return s
}

func toggle[T comparable](set []T, v T, checked bool) []T {
	out := slices.DeleteFunc(slices.Clone(set), func(x T) bool { return x == v })
	if checked {
		out = append(out, v)
	}
	return out
}

func (s Spec) query() string {
	if s.SearchText != "" {
		return s.SearchText
	}
	return s.Query
}

// Apply filters records by s and returns the survivors in sort order. The
// input slice is never modified. An empty result is a valid outcome.
func Apply(records []Objective, s Spec) []Objective {
	out := make([]Objective, 0, len(records))

	q := strings.ToLower(s.query())
	lo, hi := s.ProgressRange[0], s.ProgressRange[1]
	for _, o := range records {
		if q != "" && !matchesQuery(o, q) {
			continue
		}
		if len(s.KPITypes) > 0 && !slices.Contains(s.KPITypes, o.KPI) {
			continue
		}
		if o.Progress < lo || o.Progress > hi {
			continue
		}
		if len(s.Statuses) > 0 && !slices.Contains(s.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}

	cmp := comparator(s.SortKey)
	if s.SortDirection == Descending {
		asc := cmp
		cmp = func(a, b Objective) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func matchesQuery(o Objective, q string) bool {
	return strings.Contains(strings.ToLower(o.Title), q) ||
		strings.Contains(strings.ToLower(o.KPI), q) ||
		(o.Assignee != "" && strings.Contains(strings.ToLower(o.Assignee), q))
}

func comparator(key SortKey) func(a, b Objective) int {
	switch key {
	case SortProgress:
		return func(a, b Objective) int { return a.Progress - b.Progress }
	case SortPriority:
		return func(a, b Objective) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortDueDate:
		return func(a, b Objective) int { return DueTime(a.DueDate).Compare(DueTime(b.DueDate)) }
	default:
		// Collators are not safe for concurrent use, so each Apply gets its own.
		c := collate.New(language.Und)
		return func(a, b Objective) int { return c.CompareString(a.Title, b.Title) }
	}
}

var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

// DueTime parses a due date. Missing or malformed dates map to the Unix epoch
// so they sort before every real date.
func DueTime(v string) time.Time {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// Package objective holds the objective data model and the pure functions the
// dashboard derives its views from: the filter/sort pipeline (Apply) and the
// aggregate summary (Summarize).
//
// Nothing in this package keeps state. Callers recompute the visible list and
// the summary whenever the records or the Spec change.
package objective

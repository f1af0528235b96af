package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/okrboard/internal/config"
	"github.com/sadopc/okrboard/internal/export"
	"github.com/sadopc/okrboard/internal/objective"
	"github.com/sadopc/okrboard/internal/seed"
	"github.com/sadopc/okrboard/internal/store"
	"github.com/sadopc/okrboard/internal/tui"
)

const usage = "Usage: okrboard [--config path] [--seed path] [--json] [list [query]|summary|toggle <objective> <task> <true|false>|export <csv|json> <path>|seed]"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	jsonOutput := hasFlag(args, "--json")
	args = removeFlag(args, "--json")
	configPath, args := flagValue(args, "--config")
	seedPath, args := flagValue(args, "--seed")

	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seedPath != "" {
		cfg.Seed = seedPath
	}
	spec, err := cfg.Spec()
	if err != nil {
		return err
	}

	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "okrboard")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	src := sourceFor(cfg)

	if len(args) == 0 {
		return runTUI(cfg, src, spec)
	}

	switch args[0] {
	case "list":
		spec.Query = strings.Join(args[1:], " ")
		return cmdList(src, spec, jsonOutput)
	case "summary":
		return cmdSummary(src, jsonOutput)
	case "toggle":
		if len(args) < 4 {
			return fmt.Errorf("usage: okrboard toggle <objective> <task> <true|false>")
		}
		completed, err := strconv.ParseBool(args[3])
		if err != nil {
			return fmt.Errorf("completed must be true or false, got %q", args[3])
		}
		return cmdToggle(src, args[1], args[2], completed, jsonOutput)
	case "export":
		if len(args) < 3 {
			return fmt.Errorf("usage: okrboard export <csv|json> <path>")
		}
		return cmdExport(src, spec, args[1], args[2])
	case "seed":
		return cmdSeed(src)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func sourceFor(cfg config.Config) seed.Source {
	if cfg.Seed != "" {
		return seed.File{Path: cfg.Seed}
	}
	return seed.Builtin()
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func removeFlag(args []string, flag string) []string {
	var result []string
	for _, a := range args {
		if a != flag {
			result = append(result, a)
		}
	}
	return result
}

// flagValue extracts "flag value" from args.
func flagValue(args []string, flag string) (string, []string) {
	var value string
	var result []string
	for i := 0; i < len(args); i++ {
		if args[i] == flag && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		result = append(result, args[i])
	}
	return value, result
}

func runTUI(cfg config.Config, src seed.Source, spec objective.Spec) error {
	s, err := store.NewMemory()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	app := tui.NewApp(s, src, spec)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if cfg.Watch && cfg.Seed != "" {
		cleanup, err := tui.StartWatcher(cfg.Seed, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: seed watcher failed: %v\n", err)
		} else {
			defer cleanup()
		}
	}

	_, err = p.Run()
	return err
}

// openSeeded returns a fresh in-memory store holding the source's records.
func openSeeded(src seed.Source) (*store.Store, error) {
	records, err := src.Load()
	if err != nil {
		return nil, err
	}
	s, err := store.NewMemory()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := s.Seed(records); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func loadAll(src seed.Source) ([]objective.Objective, error) {
	s, err := openSeeded(src)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.ListObjectives()
}

// CLI Commands

func cmdList(src seed.Source, spec objective.Spec, jsonOut bool) error {
	all, err := loadAll(src)
	if err != nil {
		return err
	}
	visible := objective.Apply(all, spec)

	if jsonOut {
		return outputExport(visible)
	}

	if len(visible) == 0 {
		fmt.Println("No objectives found.")
		return nil
	}
	fmt.Printf("Showing %d of %d objectives\n", len(visible), len(all))
	for _, o := range visible {
		printObjective(o)
	}
	return nil
}

func printObjective(o objective.Objective) {
	status := "○"
	switch o.Status {
	case objective.StatusCompleted:
		status = "✓"
	case objective.StatusInProgress:
		status = "◐"
	}
	due := ""
	if o.DueDate != "" {
		due = " due " + o.DueDate
	}
	fmt.Printf("%s [%s] %s  %d%%  %s%s  tasks %d/%d\n",
		status, o.ID, o.Title, o.Progress, o.Priority, due, o.CompletedTasks(), len(o.Tasks))
}

func cmdSummary(src seed.Source, jsonOut bool) error {
	all, err := loadAll(src)
	if err != nil {
		return err
	}
	sum := objective.Summarize(all)

	if jsonOut {
		byStatus := make(map[string]int, len(sum.ByStatus))
		for st, n := range sum.ByStatus {
			byStatus[string(st)] = n
		}
		return outputJSON(map[string]any{
			"total":            sum.TotalCount,
			"completed":        sum.CompletedCount,
			"average_progress": sum.AverageProgress,
			"tasks":            sum.TotalTaskCount,
			"tasks_completed":  sum.CompletedTaskCount,
			"by_status":        byStatus,
		})
	}

	fmt.Printf("Objectives:       %d\n", sum.TotalCount)
	fmt.Printf("Completed:        %d/%d\n", sum.CompletedCount, sum.TotalCount)
	fmt.Printf("Average progress: %d%%\n", sum.AverageProgress)
	fmt.Printf("Tasks done:       %d/%d\n", sum.CompletedTaskCount, sum.TotalTaskCount)
	for _, st := range objective.Statuses {
		fmt.Printf("  %-12s %d\n", st.Label(), sum.ByStatus[st])
	}
	return nil
}

func cmdToggle(src seed.Source, objectiveID, taskID string, completed, jsonOut bool) error {
	s, err := openSeeded(src)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, found, err := s.ToggleTask(objectiveID, taskID, completed); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("task %s/%s: %w", objectiveID, taskID, store.ErrNotFound)
	}
	o, err := s.GetObjective(objectiveID)
	if err != nil {
		return err
	}

	if jsonOut {
		return outputExport([]objective.Objective{*o})
	}
	printObjective(*o)
	for _, t := range o.Tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Printf("    %s %s %s\n", box, t.ID, t.Title)
	}
	return nil
}

func cmdExport(src seed.Source, spec objective.Spec, format, path string) error {
	all, err := loadAll(src)
	if err != nil {
		return err
	}
	visible := objective.Apply(all, spec)

	switch format {
	case "csv":
		err = export.ToCSV(visible, path)
	case "json":
		err = export.ToJSON(visible, path)
	default:
		return fmt.Errorf("unknown export format %q (want csv or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d objectives to %s\n", len(visible), path)
	return nil
}

func cmdSeed(src seed.Source) error {
	records, err := src.Load()
	if err != nil {
		return err
	}
	data, err := seed.Marshal(records)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func outputExport(records []objective.Objective) error {
	data, err := export.MarshalJSON(records, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

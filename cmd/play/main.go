package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"bitevolve/internal/ga"
	"bitevolve/internal/logging"
	"bitevolve/internal/storage"
)

func main() {
	// Parse flags
	championPath := flag.String("champion", "artifacts/champion.json", "path to champion JSON")
	historyPath := flag.String("history", "runs/run.jsonl", "path to JSONL history")
	sqlitePath := flag.String("sqlite", "", "read the run from this sqlite store instead of files")
	runID := flag.String("run", "", "run id to show from the sqlite store (latest if empty)")
	width := flag.Int("width", 60, "chart width in characters")
	flag.Parse()

	var (
		view *RunView
		err  error
	)
	if *sqlitePath != "" {
		view, err = loadFromStore(context.Background(), *sqlitePath, *runID)
	} else {
		view, err = loadFromFiles(*championPath, *historyPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading run: %v\n", err)
		os.Exit(1)
	}

	NewDisplay(*width).Render(os.Stdout, view)
}

// RunView is everything the display needs about one run
type RunView struct {
	RunID     string
	History   ga.RunHistory
	Best      ga.Genome
	BestScore float64
	MaxScore  float64
}

func loadFromFiles(championPath, historyPath string) (*RunView, error) {
	champion, err := logging.LoadChampion(championPath)
	if err != nil {
		return nil, err
	}
	history, err := logging.ReadHistory(historyPath)
	if err != nil {
		return nil, err
	}
	return &RunView{
		RunID:     champion.RunID,
		History:   history,
		Best:      champion.Genome,
		BestScore: champion.Fitness,
		MaxScore:  champion.MaxFitness,
	}, nil
}

func loadFromStore(ctx context.Context, path, runID string) (*RunView, error) {
	store := storage.NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	defer store.Close()

	var run storage.RunRecord
	if runID == "" {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("no runs in %s", path)
		}
		run = runs[len(runs)-1]
	} else {
		found, ok, err := store.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		run = found
	}

	history, ok, err := store.GetHistory(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run %s has no history", run.ID)
	}
	return &RunView{
		RunID:     run.ID,
		History:   history,
		Best:      run.BestGenome,
		BestScore: run.BestScore,
		MaxScore:  float64(run.Config.GenomeLength),
	}, nil
}

// Display handles terminal rendering
type Display struct {
	width int
}

// NewDisplay creates a new display
func NewDisplay(width int) *Display {
	if width < 10 {
		width = 10
	}
	return &Display{width: width}
}

// Render draws the convergence chart and the best genome
func (d *Display) Render(w io.Writer, view *RunView) {
	if view.RunID != "" {
		fmt.Fprintf(w, "Run %s\n", view.RunID)
	}
	fmt.Fprintln(w, "Fitness Convergence  (█ best, ░ mean)")

	scale := view.MaxScore
	for _, s := range view.History {
		scale = math.Max(scale, s.BestFitness)
	}
	if scale <= 0 {
		scale = 1
	}

	fmt.Fprint(w, "┌")
	fmt.Fprint(w, strings.Repeat("─", d.width+22))
	fmt.Fprintln(w, "┐")
	for _, s := range view.History {
		fmt.Fprintf(w, "│%4d %s %7.2f %7.2f│\n", s.Generation, d.bar(s.BestFitness, s.MeanFitness, scale), s.BestFitness, s.MeanFitness)
	}
	fmt.Fprint(w, "└")
	fmt.Fprint(w, strings.Repeat("─", d.width+22))
	fmt.Fprintln(w, "┘")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Best Solution Found")
	fmt.Fprintf(w, "  Best Fitness: %.0f / %.0f\n", view.BestScore, view.MaxScore)
	fmt.Fprintf(w, "  %s\n", view.Best)
}

// bar renders mean as ░ and the gap up to best as █
func (d *Display) bar(best, mean, scale float64) string {
	b := cells(best, scale, d.width)
	m := cells(mean, scale, d.width)
	if m > b {
		m = b
	}
	return strings.Repeat("░", m) + strings.Repeat("█", b-m) + strings.Repeat(" ", d.width-b)
}

func cells(v, scale float64, width int) int {
	n := int(math.Round(v / scale * float64(width)))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"bitevolve/internal/ga"
)

// HistoryWriter streams per-generation statistics to CSV and JSONL files
type HistoryWriter struct {
	csvPath   string
	jsonPath  string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	logger    *zap.Logger
	err       error
}

// NewHistoryWriter creates the parent directories and opens both files.
// An empty path disables that output.
func NewHistoryWriter(csvPath, jsonPath string, logger *zap.Logger) (*HistoryWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &HistoryWriter{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		logger:   logger,
	}

	if csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
			return nil, err
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return nil, err
		}
		w.csvFile = f
		w.csvWriter = csv.NewWriter(f)

		header := []string{"generation", "best_fitness", "mean_fitness", "worst_fitness", "stddev_fitness"}
		if err := w.csvWriter.Write(header); err != nil {
			w.Close()
			return nil, err
		}
	}

	if jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
			w.Close()
			return nil, err
		}
		f, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.jsonFile = f
	}

	return w, nil
}

// Observe writes one generation; it has the ga.Observer signature.
// The first write error is kept and reported by Close.
func (w *HistoryWriter) Observe(report ga.GenerationReport) {
	if err := w.write(report.Stat); err != nil && w.err == nil {
		w.err = err
		w.logger.Warn("history write failed", zap.Int("generation", report.Stat.Generation), zap.Error(err))
	}
}

func (w *HistoryWriter) write(s ga.GenerationStat) error {
	if w.csvWriter != nil {
		row := []string{
			strconv.Itoa(s.Generation),
			fmt.Sprintf("%.4f", s.BestFitness),
			fmt.Sprintf("%.4f", s.MeanFitness),
			fmt.Sprintf("%.4f", s.WorstFitness),
			fmt.Sprintf("%.4f", s.StdDevFitness),
		}
		if err := w.csvWriter.Write(row); err != nil {
			return err
		}
		w.csvWriter.Flush()
		if err := w.csvWriter.Error(); err != nil {
			return err
		}
	}

	if w.jsonFile != nil {
		line, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := w.jsonFile.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes both files. It returns the first write error,
// or else the first flush or close error.
func (w *HistoryWriter) Close() error {
	errs := []error{w.err}
	if w.csvWriter != nil {
		w.csvWriter.Flush()
		errs = append(errs, w.csvWriter.Error())
	}
	if w.csvFile != nil {
		errs = append(errs, w.csvFile.Close())
	}
	if w.jsonFile != nil {
		errs = append(errs, w.jsonFile.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadHistory loads a JSONL history file written by HistoryWriter
func ReadHistory(path string) (ga.RunHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var history ga.RunHistory
	dec := json.NewDecoder(f)
	for dec.More() {
		var s ga.GenerationStat
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		history = append(history, s)
	}
	return history, nil
}

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"

	"bitevolve/internal/ga"
)

// Champion is the saved best genome of a run
type Champion struct {
	RunID        string    `json:"run_id,omitempty"`
	Generation   int       `json:"generation"`
	Fitness      float64   `json:"fitness"`
	MaxFitness   float64   `json:"max_fitness"`
	GenomeLength int       `json:"genome_length"`
	Genome       ga.Genome `json:"genome"`
}

// SaveChampion saves the champion genome to a file
func SaveChampion(path string, champion Champion) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(champion, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadChampion loads a champion from a file
func LoadChampion(path string) (Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Champion{}, err
	}

	var saved Champion
	if err := json.Unmarshal(data, &saved); err != nil {
		return Champion{}, err
	}

	return saved, nil
}

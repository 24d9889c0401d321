package storage

import (
	"context"
	"time"

	"bitevolve/internal/ga"
)

// RunRecord is the persisted summary of a finished run
type RunRecord struct {
	VersionedRecord
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	Config      ga.RunConfig `json:"config"`
	FitnessMode string       `json:"fitness_mode"`
	BestGenome  ga.Genome    `json:"best_genome"`
	BestScore   float64      `json:"best_score"`
}

// VersionedRecord tags payloads so old rows can be detected on read
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Store defines persistence operations for finished runs
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]RunRecord, error)
	SaveHistory(ctx context.Context, runID string, history ga.RunHistory) error
	GetHistory(ctx context.Context, runID string) (ga.RunHistory, bool, error)
}

// Package store persists scoring runs and the monetary-category cache.
package store

import (
	"context"
	"time"

	"github.com/donorlens/leverage-cli/internal/model"
)

// RunFilter specifies criteria for listing scoring runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store is the persistence interface for the scoring pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, donationAmount float64, raceCount int) (*model.ScoringRun, error)
	CompleteRun(ctx context.Context, runID string, results []model.LeverageScore) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.ScoringRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ScoringRun, error)

	// Category cache. PutCategoryIfAbsent must be atomic: concurrent
	// writers for the same key keep the first value.
	GetCachedCategory(ctx context.Context, key string) (string, bool, error)
	PutCategoryIfAbsent(ctx context.Context, key, category string, ttl time.Duration) error
	DeleteExpiredCategories(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

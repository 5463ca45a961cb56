package services

import (
	"context"

	"workout-engine/internal/models"
)

// ExerciseCatalog returns the full exercise pool. Implementations are assumed
// cheap (in-memory after bootstrap); no streaming or pagination.
type ExerciseCatalog interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
}

// ContentRowProvider serves the three content stores. Queries for different
// kinds may be issued concurrently; a failed query degrades to "no result".
type ContentRowProvider interface {
	ListContentRows(ctx context.Context, kind models.ContentKind) ([]models.ContentRow, error)
}

// ProgramProvider returns all program records for ancestor resolution.
type ProgramProvider interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
}

// Providers bundles the three external reads the orchestrator consults.
type Providers struct {
	Exercises ExerciseCatalog
	Content   ContentRowProvider
	Programs  ProgramProvider
}

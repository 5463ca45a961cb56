package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"workout-engine/internal/models"
)

// CatalogStore serves the exercise pool from sqlite. Records are stored as
// JSON blobs keyed by id; malformed rows are skipped, not surfaced.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a catalog store over an initialized database.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ListExercises returns every catalog record.
func (s *CatalogStore) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan exercise row: %w", err)
		}
		var e models.Exercise
		if err := json.Unmarshal([]byte(record), &e); err != nil {
			continue // skip malformed rows
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// UpsertExercise writes a catalog record.
func (s *CatalogStore) UpsertExercise(ctx context.Context, e *models.Exercise) error {
	record, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal exercise %s: %w", e.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exercises (id, record, role) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record, role = excluded.role, updated_at = CURRENT_TIMESTAMP`,
		e.ID, string(record), string(e.Role))
	return err
}

// ContentStore serves the three content tables from sqlite.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a content store over an initialized database.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ListContentRows returns every row of one content kind.
func (s *ContentStore) ListContentRows(ctx context.Context, kind models.ContentKind) ([]models.ContentRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM content_rows WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query content rows: %w", err)
	}
	defer rows.Close()

	var result []models.ContentRow
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		var r models.ContentRow
		if err := json.Unmarshal([]byte(record), &r); err != nil {
			continue // skip malformed rows
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpsertContentRow writes a content record under a kind.
func (s *ContentStore) UpsertContentRow(ctx context.Context, kind models.ContentKind, r *models.ContentRow) error {
	record, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal content row %s: %w", r.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_rows (id, kind, record) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, record = excluded.record, updated_at = CURRENT_TIMESTAMP`,
		r.ID, string(kind), string(record))
	return err
}

// ProgramStore serves program records from sqlite.
type ProgramStore struct {
	db *sql.DB
}

// NewProgramStore creates a program store over an initialized database.
func NewProgramStore(db *sql.DB) *ProgramStore {
	return &ProgramStore{db: db}
}

// ListPrograms returns every program record.
func (s *ProgramStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM programs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		var p models.Program
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			continue // skip malformed rows
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// UpsertProgram writes a program record.
func (s *ProgramStore) UpsertProgram(ctx context.Context, p *models.Program) error {
	record, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal program %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO programs (id, record) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`,
		p.ID, string(record))
	return err
}

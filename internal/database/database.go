package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize initializes the database connection and creates tables
func Initialize(dbPath string) (*sql.DB, error) {
	// Validate and sanitize database path
	cleanPath := filepath.Clean(dbPath)
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid database path: path traversal detected")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite3", cleanPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings (optimized for SQLite)
	db.SetMaxOpenConns(1) // SQLite single-writer optimization
	db.SetMaxIdleConns(5)

	// Create tables
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates all necessary tables
func createTables(db *sql.DB) error {
	queries := []string{
		createExercisesTable,
		createContentRowsTable,
		createProgramsTable,
		createContentRowsIndex,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

const createExercisesTable = `
CREATE TABLE IF NOT EXISTS exercises (
	id TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'main',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createContentRowsTable = `
CREATE TABLE IF NOT EXISTS content_rows (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	record TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createProgramsTable = `
CREATE TABLE IF NOT EXISTS programs (
	id TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createContentRowsIndex = `
CREATE INDEX IF NOT EXISTS idx_content_rows_kind ON content_rows(kind)`

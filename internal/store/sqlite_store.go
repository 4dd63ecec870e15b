// Package store implements interfaces.DocumentStore on SQLite, checkpointing the
// full Project aggregate (inputs, progress, results) as JSON columns.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrProjectNotFound is returned by Load when no project with the given ID exists.
var ErrProjectNotFound = errors.New("store: project not found")

// SQLiteStore is a modernc.org/sqlite-backed interfaces.DocumentStore. The pipeline
// controller is the sole writer and never issues concurrent Saves for the same
// project, so Save does not need row-level locking beyond what SQLite already gives
// a single writer under WAL.
type SQLiteStore struct {
	db     *sql.DB
	logger interfaces.Logger
}

// Open opens (creating if necessary) a SQLite database at dbPath and applies the
// schema and performance/safety pragmas.
func Open(dbPath string, logger interfaces.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// modernc.org/sqlite serializes writers internally; a single pooled connection
	// avoids SQLITE_BUSY churn against busy_timeout under concurrent callers.
	db.SetMaxOpenConns(1)
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.With(interfaces.Field{Key: "component", Value: "sqlite_store"})}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ interfaces.DocumentStore = (*SQLiteStore)(nil)

// Save upserts the full Project aggregate. Inputs, Progress, and Results are each
// serialized as JSON; the pipeline controller is expected to call this after every
// stage completes.
func (s *SQLiteStore) Save(ctx context.Context, project *model.Project) error {
	if project == nil {
		return fmt.Errorf("store: nil project")
	}

	inputsJSON, err := json.Marshal(project.Inputs)
	if err != nil {
		return fmt.Errorf("store: marshal inputs: %w", err)
	}
	progressJSON, err := json.Marshal(project.Progress)
	if err != nil {
		return fmt.Errorf("store: marshal progress: %w", err)
	}
	resultsJSON, err := json.Marshal(project.Results)
	if err != nil {
		return fmt.Errorf("store: marshal results: %w", err)
	}

	createdAt := project.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, old_base_url, new_base_url, status, inputs, progress, results, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			old_base_url = excluded.old_base_url,
			new_base_url = excluded.new_base_url,
			status       = excluded.status,
			inputs       = excluded.inputs,
			progress     = excluded.progress,
			results      = excluded.results,
			updated_at   = excluded.updated_at
	`,
		project.ID, project.OldBaseURL, project.NewBaseURL, string(project.Status),
		string(inputsJSON), string(progressJSON), string(resultsJSON),
		createdAt.Unix(), time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: save project %s: %w", project.ID, err)
	}
	return nil
}

// Load fetches a Project by ID, returning ErrProjectNotFound if it doesn't exist.
func (s *SQLiteStore) Load(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, old_base_url, new_base_url, status, inputs, progress, results, created_at
		FROM projects WHERE id = ? LIMIT 1
	`, projectID)

	var (
		p                                     model.Project
		status                                string
		inputsJSON, progressJSON, resultsJSON sql.NullString
		createdAtUnix                         int64
	)
	if err := row.Scan(&p.ID, &p.OldBaseURL, &p.NewBaseURL, &status, &inputsJSON, &progressJSON, &resultsJSON, &createdAtUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("store: load project %s: %w", projectID, err)
	}

	p.Status = model.ProjectStatus(status)
	p.CreatedAt = time.Unix(createdAtUnix, 0).UTC()

	if inputsJSON.Valid {
		if err := json.Unmarshal([]byte(inputsJSON.String), &p.Inputs); err != nil {
			return nil, fmt.Errorf("store: unmarshal inputs for %s: %w", projectID, err)
		}
	}
	if progressJSON.Valid {
		if err := json.Unmarshal([]byte(progressJSON.String), &p.Progress); err != nil {
			return nil, fmt.Errorf("store: unmarshal progress for %s: %w", projectID, err)
		}
	}
	if resultsJSON.Valid && resultsJSON.String != "" {
		if err := json.Unmarshal([]byte(resultsJSON.String), &p.Results); err != nil {
			return nil, fmt.Errorf("store: unmarshal results for %s: %w", projectID, err)
		}
	}

	return &p, nil
}

// Delete removes a Project by ID. Deleting an already-absent project is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("store: delete project %s: %w", projectID, err)
	}
	return nil
}

package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoActiveWorkspace is returned when no workspace has been activated yet.
var ErrNoActiveWorkspace = errors.New("no active workspace")

// Config holds configuration for the workspace registry database.
type Config struct {
	// Path is the location of the SQLite registry file.
	Path string `mapstructure:"path" default:"stocktake.db"`
}

const schema = `
CREATE TABLE IF NOT EXISTS workspaces (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	store      TEXT NOT NULL,
	path       TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	active     INTEGER NOT NULL DEFAULT 0
);`

// Workspace is a registry row describing one named stocktake workspace.
type Workspace struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Store     string `db:"store" json:"store"`
	Path      string `db:"path" json:"path"`
	CreatedAt string `db:"created_at" json:"created_at"`
	Active    bool   `db:"active" json:"active"`
}

// Open opens (creating if needed) the SQLite registry database.
func Open(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}
	return db, nil
}

// Store provides workspace bookkeeping on top of the registry database.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store over an open registry database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create registers a new workspace rooted at path and returns the stored row.
// The first workspace ever created becomes active automatically.
func (s *Store) Create(name, store, path string) (*Workspace, error) {
	ws := &Workspace{
		Name:      name,
		Store:     store,
		Path:      path,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM workspaces`); err != nil {
		return nil, fmt.Errorf("failed to count workspaces: %w", err)
	}
	ws.Active = count == 0

	res, err := s.db.Exec(
		`INSERT INTO workspaces (name, store, path, created_at, active) VALUES (?, ?, ?, ?, ?)`,
		ws.Name, ws.Store, ws.Path, ws.CreatedAt, ws.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace %q: %w", name, err)
	}

	ws.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace id: %w", err)
	}
	return ws, nil
}

// List returns all registered workspaces, newest first.
func (s *Store) List() ([]Workspace, error) {
	var out []Workspace
	if err := s.db.Select(&out, `SELECT * FROM workspaces ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

// Activate marks the given workspace active and deactivates all others.
func (s *Store) Activate(id int64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin activation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE workspaces SET active = 0 WHERE active = 1`); err != nil {
		return fmt.Errorf("failed to deactivate workspaces: %w", err)
	}

	res, err := tx.Exec(`UPDATE workspaces SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to activate workspace %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("workspace %d not found", id)
	}

	return tx.Commit()
}

// Active returns the currently active workspace.
func (s *Store) Active() (*Workspace, error) {
	var ws Workspace
	err := s.db.Get(&ws, `SELECT * FROM workspaces WHERE active = 1 LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveWorkspace
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active workspace: %w", err)
	}
	return &ws, nil
}

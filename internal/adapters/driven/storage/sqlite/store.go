package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stylequest-labs/paymate-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

// Store is a SQLite-backed token store. The database holds one token
// slot; Save replaces whatever connection was persisted before.
type Store struct {
	db   *sql.DB
	path string

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.paymate/data/paymate.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paymate", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "paymate.db")

	// WAL mode tolerates a concurrent paymate process touching the slot
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		Now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save persists the record into the single slot, replacing any prior one.
func (s *Store) Save(ctx context.Context, record domain.TokenRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallet_token (slot, access_token, token_type, expires_in, scope, refresh_token, issued_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			expires_in = excluded.expires_in,
			scope = excluded.scope,
			refresh_token = excluded.refresh_token,
			issued_at = excluded.issued_at,
			updated_at = excluded.updated_at
	`, record.AccessToken, record.TokenType, record.ExpiresIn,
		record.Scope, record.RefreshToken, record.IssuedAt)

	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Load returns the persisted record. An expired or unreadable record is
// deleted and reported as absent.
func (s *Store) Load(ctx context.Context) (*domain.TokenRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, expires_in, scope, refresh_token, issued_at
		FROM wallet_token WHERE slot = 1
	`)

	var record domain.TokenRecord
	err := row.Scan(&record.AccessToken, &record.TokenType, &record.ExpiresIn,
		&record.Scope, &record.RefreshToken, &record.IssuedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrNotFound
	case err != nil:
		// Corrupt slot reads as absent; drop it so the next Load is clean.
		_ = s.Clear(ctx)
		return nil, domain.ErrNotFound
	}

	if !record.ValidAt(s.Now()) {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}

	return &record, nil
}

// Clear removes the persisted record unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM wallet_token WHERE slot = 1")
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

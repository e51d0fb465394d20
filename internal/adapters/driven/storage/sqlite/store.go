package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/almanac/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// DatabaseFile is the file name inside the data directory.
const DatabaseFile = "dataset.db"

// Store is a SQLite-backed dataset store.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.almanac/data/dataset.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".almanac", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets readers proceed while an append is in flight.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
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

// DatasetStore returns a DatasetStore interface backed by this store.
func (s *Store) DatasetStore() driven.DatasetStore {
	return &datasetStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
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
		// "001_dataset_records.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Dataset Store ====================

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// Append inserts records in one transaction. Either every record is
// stored or none is.
func (d *datasetStore) Append(ctx context.Context, records []domain.DatasetRecord) ([]domain.DatasetRecord, error) {
	if len(records) == 0 {
		return []domain.DatasetRecord{}, nil
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_records (row_id, person_id, system, provider, row_json, provenance_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing append: %w", err)
	}
	defer stmt.Close()

	createdAt := d.store.now().UTC()
	out := make([]domain.DatasetRecord, len(records))
	for i := range records {
		rec := records[i].Clone()
		rec.CreatedAt = createdAt

		rowJSON, err := json.Marshal(rec.Row)
		if err != nil {
			return nil, fmt.Errorf("marshalling row %s: %w", rec.Row.ID, err)
		}
		provJSON, err := json.Marshal(rec.Provenance)
		if err != nil {
			return nil, fmt.Errorf("marshalling provenance: %w", err)
		}

		res, err := stmt.ExecContext(ctx, rec.Row.ID, rec.Row.PersonID, string(rec.Row.System),
			string(rec.Provenance.Provider), string(rowJSON), string(provJSON),
			createdAt.Format(time.RFC3339Nano))
		if err != nil {
			return nil, fmt.Errorf("inserting row %s: %w", rec.Row.ID, err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading sequence: %w", err)
		}
		rec.Seq = seq
		out[i] = rec
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing append: %w", err)
	}
	return out, nil
}

// Records returns every record in insertion order.
func (d *datasetStore) Records(ctx context.Context) ([]domain.DatasetRecord, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT seq, row_json, provenance_json, created_at
		FROM dataset_records ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []domain.DatasetRecord{}
	for rows.Next() {
		var rec domain.DatasetRecord
		var rowJSON, provJSON, createdAt string
		if err := rows.Scan(&rec.Seq, &rowJSON, &provJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(rowJSON), &rec.Row); err != nil {
			return nil, fmt.Errorf("unmarshalling row %d: %w", rec.Seq, err)
		}
		if err := json.Unmarshal([]byte(provJSON), &rec.Provenance); err != nil {
			return nil, fmt.Errorf("unmarshalling provenance %d: %w", rec.Seq, err)
		}
		if rec.Provenance.Config == nil {
			rec.Provenance.Config = map[string]any{}
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %d: %w", rec.Seq, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (d *datasetStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := d.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dataset_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// Clear removes every record. Sequence numbers keep increasing.
func (d *datasetStore) Clear(ctx context.Context) error {
	if _, err := d.store.db.ExecContext(ctx, "DELETE FROM dataset_records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// Package sqlite provides the SQLite-backed storage adapter.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// replica, favourite and trigger-state store interfaces through wrapper
// types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hymnal/data/replica.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hymnal", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "replica.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// ReplicaStore returns a ReplicaStore interface backed by this store.
func (s *Store) ReplicaStore() driven.ReplicaStore {
	return &replicaStore{store: s}
}

// FavoriteStore returns a FavoriteStore interface backed by this store.
func (s *Store) FavoriteStore() driven.FavoriteStore {
	return &favoriteStore{store: s}
}

// TriggerStateStore returns a TriggerStateStore interface backed by this store.
func (s *Store) TriggerStateStore() driven.TriggerStateStore {
	return &triggerStateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
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

// ==================== Replica Store ====================

// replicaStore implements driven.ReplicaStore.
type replicaStore struct {
	store *Store
}

var _ driven.ReplicaStore = (*replicaStore)(nil)

const hymnColumns = "id, title, reciter, poet, category, lyrics, translation, media_url, updated_at"

// UpsertHymn inserts or replaces a hymn keyed by ID.
func (r *replicaStore) UpsertHymn(ctx context.Context, hymn domain.Hymn) error {
	if hymn.ID < 0 {
		return domain.ErrPinnedID
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO hymns (id, title, reciter, poet, category, lyrics, translation, media_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			reciter = excluded.reciter,
			poet = excluded.poet,
			category = excluded.category,
			lyrics = excluded.lyrics,
			translation = excluded.translation,
			media_url = excluded.media_url,
			updated_at = excluded.updated_at
	`, hymn.ID, hymn.Title, hymn.Reciter, hymn.Poet, hymn.Category,
		hymn.Lyrics, hymn.Translation, hymn.MediaURL, hymn.UpdatedAt.UnixMilli())

	if err != nil {
		return fmt.Errorf("upserting hymn: %w", err)
	}
	return nil
}

// DeleteHymn removes a hymn by ID. Idempotent.
func (r *replicaStore) DeleteHymn(ctx context.Context, id int64) error {
	if _, err := r.store.db.ExecContext(ctx, "DELETE FROM hymns WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting hymn: %w", err)
	}
	return nil
}

// GetHymn retrieves a hymn by ID.
func (r *replicaStore) GetHymn(ctx context.Context, id int64) (*domain.Hymn, error) {
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+hymnColumns+" FROM hymns WHERE id = ?", id)

	hymn, err := scanHymn(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning hymn: %w", err)
	}
	return hymn, nil
}

// CountHymns returns the number of hymns in the replica.
func (r *replicaStore) CountHymns(ctx context.Context) (int, error) {
	var count int
	row := r.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hymns")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting hymns: %w", err)
	}
	return count, nil
}

// ListHymns returns hymns ordered by title, windowed by page.
func (r *replicaStore) ListHymns(ctx context.Context, page domain.Page) ([]domain.Hymn, error) {
	return r.query(ctx,
		"SELECT "+hymnColumns+" FROM hymns ORDER BY title, id LIMIT ? OFFSET ?",
		page.Limit, page.Offset)
}

// ListByCategory returns hymns in a category ordered by title.
func (r *replicaStore) ListByCategory(ctx context.Context, category string, page domain.Page) ([]domain.Hymn, error) {
	return r.query(ctx,
		"SELECT "+hymnColumns+" FROM hymns WHERE category = ? COLLATE NOCASE ORDER BY title, id LIMIT ? OFFSET ?",
		category, page.Limit, page.Offset)
}

// ListByPoet returns hymns by a poet ordered by title.
func (r *replicaStore) ListByPoet(ctx context.Context, poet string, page domain.Page) ([]domain.Hymn, error) {
	return r.query(ctx,
		"SELECT "+hymnColumns+" FROM hymns WHERE poet = ? COLLATE NOCASE ORDER BY title, id LIMIT ? OFFSET ?",
		poet, page.Limit, page.Offset)
}

// ListByReciter returns hymns by a reciter ordered by title.
func (r *replicaStore) ListByReciter(ctx context.Context, reciter string, page domain.Page) ([]domain.Hymn, error) {
	return r.query(ctx,
		"SELECT "+hymnColumns+" FROM hymns WHERE reciter = ? COLLATE NOCASE ORDER BY title, id LIMIT ? OFFSET ?",
		reciter, page.Limit, page.Offset)
}

// SearchHymns returns hymns matching a free-text query over title, reciter,
// poet and both lyric bodies.
func (r *replicaStore) SearchHymns(ctx context.Context, query string, page domain.Page) ([]domain.Hymn, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.query(ctx, `
		SELECT `+hymnColumns+` FROM hymns
		WHERE title LIKE ? ESCAPE '\'
		   OR reciter LIKE ? ESCAPE '\'
		   OR poet LIKE ? ESCAPE '\'
		   OR lyrics LIKE ? ESCAPE '\'
		   OR translation LIKE ? ESCAPE '\'
		ORDER BY title, id LIMIT ? OFFSET ?`,
		pattern, pattern, pattern, pattern, pattern, page.Limit, page.Offset)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// query runs a hymn SELECT and scans the rows.
func (r *replicaStore) query(ctx context.Context, q string, args ...any) ([]domain.Hymn, error) {
	rows, err := r.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying hymns: %w", err)
	}
	defer rows.Close()

	hymns := []domain.Hymn{}
	for rows.Next() {
		hymn, err := scanHymn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning hymn: %w", err)
		}
		hymns = append(hymns, *hymn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hymns: %w", err)
	}
	return hymns, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanHymn scans one hymn row.
func scanHymn(row scanner) (*domain.Hymn, error) {
	var hymn domain.Hymn
	var updatedMs int64
	if err := row.Scan(&hymn.ID, &hymn.Title, &hymn.Reciter, &hymn.Poet,
		&hymn.Category, &hymn.Lyrics, &hymn.Translation, &hymn.MediaURL,
		&updatedMs); err != nil {
		return nil, err
	}
	hymn.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return &hymn, nil
}

// SyncCursor returns the replication watermark.
func (r *replicaStore) SyncCursor(ctx context.Context) (time.Time, error) {
	var cursorMs int64
	row := r.store.db.QueryRowContext(ctx, "SELECT cursor_ms FROM sync_state WHERE id = 1")
	if err := row.Scan(&cursorMs); err != nil {
		return time.Time{}, fmt.Errorf("reading sync cursor: %w", err)
	}
	if cursorMs == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(cursorMs).UTC(), nil
}

// SetSyncCursor persists the replication watermark.
func (r *replicaStore) SetSyncCursor(ctx context.Context, cursor time.Time) error {
	var cursorMs int64
	if !cursor.IsZero() {
		cursorMs = cursor.UnixMilli()
	}
	if _, err := r.store.db.ExecContext(ctx,
		"UPDATE sync_state SET cursor_ms = ? WHERE id = 1", cursorMs); err != nil {
		return fmt.Errorf("writing sync cursor: %w", err)
	}
	return nil
}

// DailyAttempts returns the persisted daily attempt counter.
func (r *replicaStore) DailyAttempts(ctx context.Context) (domain.DailyAttempts, error) {
	var attempts domain.DailyAttempts
	row := r.store.db.QueryRowContext(ctx,
		"SELECT attempt_count, attempt_date FROM sync_state WHERE id = 1")
	if err := row.Scan(&attempts.Count, &attempts.Date); err != nil {
		return domain.DailyAttempts{}, fmt.Errorf("reading daily attempts: %w", err)
	}
	return attempts, nil
}

// IncrementDailyAttempt records one full sync attempt for the given date,
// resetting the counter first if the stored date differs.
func (r *replicaStore) IncrementDailyAttempt(ctx context.Context, today string) error {
	_, err := r.store.db.ExecContext(ctx, `
		UPDATE sync_state SET
			attempt_count = CASE WHEN attempt_date = ? THEN attempt_count + 1 ELSE 1 END,
			attempt_date = ?
		WHERE id = 1
	`, today, today)
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// ==================== Favorite Store ====================

// favoriteStore implements driven.FavoriteStore.
type favoriteStore struct {
	store *Store
}

var _ driven.FavoriteStore = (*favoriteStore)(nil)

// AddFavorite adds a hymn ID to the set. Adding an existing ID is a no-op.
func (f *favoriteStore) AddFavorite(ctx context.Context, id int64) error {
	if _, err := f.store.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites (hymn_id) VALUES (?)", id); err != nil {
		return fmt.Errorf("adding favourite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a hymn ID from the set.
func (f *favoriteStore) RemoveFavorite(ctx context.Context, id int64) error {
	if _, err := f.store.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE hymn_id = ?", id); err != nil {
		return fmt.Errorf("removing favourite: %w", err)
	}
	return nil
}

// IsFavorite reports whether an ID is in the set.
func (f *favoriteStore) IsFavorite(ctx context.Context, id int64) (bool, error) {
	var one int
	row := f.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE hymn_id = ?", id)
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("checking favourite: %w", err)
	}
	return true, nil
}

// ListFavorites returns all favourite IDs in insertion order.
func (f *favoriteStore) ListFavorites(ctx context.Context) ([]int64, error) {
	rows, err := f.store.db.QueryContext(ctx,
		"SELECT hymn_id FROM favorites ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing favourites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favourite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favourites: %w", err)
	}
	return ids, nil
}

// ==================== Trigger State Store ====================

// triggerStateStore implements driven.TriggerStateStore.
type triggerStateStore struct {
	store *Store
}

var _ driven.TriggerStateStore = (*triggerStateStore)(nil)

// LastAttempt returns when the named trigger last fired.
func (t *triggerStateStore) LastAttempt(ctx context.Context, triggerID string) (time.Time, error) {
	var ms int64
	row := t.store.db.QueryRowContext(ctx,
		"SELECT last_attempt_ms FROM trigger_state WHERE trigger_id = ?", triggerID)
	if err := row.Scan(&ms); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("reading trigger state: %w", err)
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms).UTC(), nil
}

// SetLastAttempt records when the named trigger fired.
func (t *triggerStateStore) SetLastAttempt(ctx context.Context, triggerID string, at time.Time) error {
	_, err := t.store.db.ExecContext(ctx, `
		INSERT INTO trigger_state (trigger_id, last_attempt_ms)
		VALUES (?, ?)
		ON CONFLICT(trigger_id) DO UPDATE SET last_attempt_ms = excluded.last_attempt_ms
	`, triggerID, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("writing trigger state: %w", err)
	}
	return nil
}

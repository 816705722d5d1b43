package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all persistence interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.inkwell/data/inkwell.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".inkwell", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "inkwell.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
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

// VersionStore returns a VersionStore interface backed by this store.
func (s *Store) VersionStore() driven.VersionStore {
	return &versionStore{store: s}
}

// AlertStore returns an AlertStore interface backed by this store.
func (s *Store) AlertStore() driven.AlertStore {
	return &alertStore{store: s}
}

// AnchorStore returns an AnchorStore interface backed by this store.
func (s *Store) AnchorStore() driven.AnchorStore {
	return &anchorStore{store: s}
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// DismissalStore returns a DismissalStore interface backed by this store.
func (s *Store) DismissalStore() driven.DismissalStore {
	return &dismissalStore{store: s}
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
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ==================== Version Store ====================

// versionStore implements driven.VersionStore.
type versionStore struct {
	store *Store
}

var _ driven.VersionStore = (*versionStore)(nil)

// SaveVersion appends a new version. Versions are append-only, so a
// duplicate (project, number) pair is a conflict, never an update.
func (s *versionStore) SaveVersion(ctx context.Context, version domain.DocumentVersion) error {
	chapterJSON, err := json.Marshal(version.ChapterHashes)
	if err != nil {
		return fmt.Errorf("marshalling chapter hashes: %w", err)
	}
	paragraphJSON, err := json.Marshal(version.ParagraphHashes)
	if err != nil {
		return fmt.Errorf("marshalling paragraph hashes: %w", err)
	}
	modifiedJSON, err := marshalInts(version.ModifiedChapters)
	if err != nil {
		return err
	}
	addedJSON, err := marshalInts(version.AddedChapters)
	if err != nil {
		return err
	}
	deletedJSON, err := marshalInts(version.DeletedChapters)
	if err != nil {
		return err
	}

	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO versions (project_id, number, full_hash, chapter_hashes, paragraph_hashes,
			word_count, char_count, source_file, created_at,
			modified_chapters, added_chapters, deleted_chapters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, version.ProjectID, version.Number, version.FullHash, string(chapterJSON), string(paragraphJSON),
		version.WordCount, version.CharCount, version.SourceFile, version.CreatedAt,
		modifiedJSON, addedJSON, deletedJSON)

	if isUniqueViolation(err) {
		return fmt.Errorf("version %d: %w", version.Number, domain.ErrVersionConflict)
	}
	if err != nil {
		return fmt.Errorf("saving version: %w", err)
	}
	return nil
}

// GetLatestVersion returns the highest-numbered version for a project.
func (s *versionStore) GetLatestVersion(ctx context.Context, projectID string) (*domain.DocumentVersion, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT project_id, number, full_hash, chapter_hashes, paragraph_hashes,
			word_count, char_count, source_file, created_at,
			modified_chapters, added_chapters, deleted_chapters
		FROM versions WHERE project_id = ?
		ORDER BY number DESC LIMIT 1
	`, projectID)
	return scanVersion(row)
}

// GetVersion returns one specific version.
func (s *versionStore) GetVersion(ctx context.Context, projectID string, number int) (*domain.DocumentVersion, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT project_id, number, full_hash, chapter_hashes, paragraph_hashes,
			word_count, char_count, source_file, created_at,
			modified_chapters, added_chapters, deleted_chapters
		FROM versions WHERE project_id = ? AND number = ?
	`, projectID, number)
	return scanVersion(row)
}

// ListVersions returns all versions for a project, oldest first.
func (s *versionStore) ListVersions(ctx context.Context, projectID string) ([]domain.DocumentVersion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT project_id, number, full_hash, chapter_hashes, paragraph_hashes,
			word_count, char_count, source_file, created_at,
			modified_chapters, added_chapters, deleted_chapters
		FROM versions WHERE project_id = ?
		ORDER BY number ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.DocumentVersion //nolint:prealloc // size unknown from query
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}
	return versions, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	var chapterJSON, paragraphJSON string
	var modifiedJSON, addedJSON, deletedJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&version.ProjectID, &version.Number, &version.FullHash,
		&chapterJSON, &paragraphJSON,
		&version.WordCount, &version.CharCount, &version.SourceFile, &createdAt,
		&modifiedJSON, &addedJSON, &deletedJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}

	if err := json.Unmarshal([]byte(chapterJSON), &version.ChapterHashes); err != nil {
		return nil, fmt.Errorf("unmarshaling chapter hashes: %w", err)
	}
	if err := json.Unmarshal([]byte(paragraphJSON), &version.ParagraphHashes); err != nil {
		return nil, fmt.Errorf("unmarshaling paragraph hashes: %w", err)
	}
	var err error
	if version.ModifiedChapters, err = unmarshalInts(modifiedJSON); err != nil {
		return nil, err
	}
	if version.AddedChapters, err = unmarshalInts(addedJSON); err != nil {
		return nil, err
	}
	if version.DeletedChapters, err = unmarshalInts(deletedJSON); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		version.CreatedAt = createdAt.Time
	}
	return &version, nil
}

// ==================== Alert Store ====================

// alertStore implements driven.AlertStore.
type alertStore struct {
	store *Store
}

var _ driven.AlertStore = (*alertStore)(nil)

// SaveAlert inserts or updates an alert.
func (s *alertStore) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	anchorJSON, err := json.Marshal(alert.AnchorIDs)
	if err != nil {
		return fmt.Errorf("marshalling anchor ids: %w", err)
	}
	entityJSON, err := json.Marshal(alert.EntityIDs)
	if err != nil {
		return fmt.Errorf("marshalling entity ids: %w", err)
	}

	var resolvedAt any
	if alert.ResolvedAt != nil {
		resolvedAt = *alert.ResolvedAt
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO alerts (id, project_id, type, category, severity, confidence,
			title, description, excerpt, chapter, anchor_ids, entity_ids,
			source_module, status, resolution_note, detected_version, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			severity = excluded.severity,
			confidence = excluded.confidence,
			title = excluded.title,
			description = excluded.description,
			excerpt = excluded.excerpt,
			chapter = excluded.chapter,
			anchor_ids = excluded.anchor_ids,
			status = excluded.status,
			resolution_note = excluded.resolution_note,
			resolved_at = excluded.resolved_at
	`, alert.ID, alert.ProjectID, alert.Type, string(alert.Category), string(alert.Severity),
		alert.Confidence, alert.Title, alert.Description, alert.Excerpt, alert.Chapter,
		string(anchorJSON), string(entityJSON), alert.SourceModule, string(alert.Status),
		alert.ResolutionNote, alert.DetectedVersion, alert.CreatedAt, resolvedAt)

	if err != nil {
		return fmt.Errorf("saving alert: %w", err)
	}
	return nil
}

// GetAlert retrieves an alert by ID.
func (s *alertStore) GetAlert(ctx context.Context, id string) (*domain.Alert, error) {
	row := s.store.db.QueryRowContext(ctx, alertSelect+" WHERE id = ?", id)
	return scanAlert(row)
}

// GetAlertsForChapters returns all alerts of the project whose chapter
// is in the given set. An empty set returns every alert.
func (s *alertStore) GetAlertsForChapters(ctx context.Context, projectID string, chapters []int) ([]domain.Alert, error) {
	query := alertSelect + " WHERE project_id = ?"
	args := []any{projectID}
	if len(chapters) > 0 {
		placeholders := make([]string, len(chapters))
		for i, ch := range chapters {
			placeholders[i] = "?"
			args = append(args, ch)
		}
		query += " AND chapter IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY chapter ASC, created_at ASC, id ASC"

	return s.queryAlerts(ctx, query, args...)
}

// ListAlerts returns the project's alerts matching the filter. Status,
// severity and type criteria are applied in memory; a project holds at
// most a few thousand alerts.
func (s *alertStore) ListAlerts(ctx context.Context, projectID string, filter domain.AlertFilter) ([]domain.Alert, error) {
	all, err := s.queryAlerts(ctx,
		alertSelect+" WHERE project_id = ? ORDER BY chapter ASC, created_at ASC, id ASC",
		projectID)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Alert, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}

func (s *alertStore) queryAlerts(ctx context.Context, query string, args ...any) ([]domain.Alert, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert //nolint:prealloc // size unknown from query
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}
	return alerts, nil
}

const alertSelect = `
	SELECT id, project_id, type, category, severity, confidence,
		title, description, excerpt, chapter, anchor_ids, entity_ids,
		source_module, status, resolution_note, detected_version, created_at, resolved_at
	FROM alerts`

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var alert domain.Alert
	var category, severity, status string
	var anchorJSON, entityJSON string
	var createdAt, resolvedAt sql.NullTime
	if err := row.Scan(&alert.ID, &alert.ProjectID, &alert.Type, &category, &severity,
		&alert.Confidence, &alert.Title, &alert.Description, &alert.Excerpt, &alert.Chapter,
		&anchorJSON, &entityJSON, &alert.SourceModule, &status, &alert.ResolutionNote,
		&alert.DetectedVersion, &createdAt, &resolvedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning alert: %w", err)
	}

	if err := json.Unmarshal([]byte(anchorJSON), &alert.AnchorIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling anchor ids: %w", err)
	}
	if err := json.Unmarshal([]byte(entityJSON), &alert.EntityIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling entity ids: %w", err)
	}

	alert.Category = domain.AlertCategory(category)
	alert.Severity = domain.AlertSeverity(severity)
	alert.Status = domain.AlertStatus(status)
	if createdAt.Valid {
		alert.CreatedAt = createdAt.Time
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		alert.ResolvedAt = &t
	}
	return &alert, nil
}

// ==================== Anchor Store ====================

// anchorStore implements driven.AnchorStore.
type anchorStore struct {
	store *Store
}

var _ driven.AnchorStore = (*anchorStore)(nil)

// SaveAnchor inserts or updates an anchor.
func (s *anchorStore) SaveAnchor(ctx context.Context, anchor *domain.TextAnchor) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO anchors (id, project_id, chapter, paragraph, sentence,
			start_char, end_char, text_content, content_hash,
			context_before, context_after, context_hash,
			created_version, relocated_version, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chapter = excluded.chapter,
			paragraph = excluded.paragraph,
			sentence = excluded.sentence,
			start_char = excluded.start_char,
			end_char = excluded.end_char,
			text_content = excluded.text_content,
			context_before = excluded.context_before,
			context_after = excluded.context_after,
			context_hash = excluded.context_hash,
			relocated_version = excluded.relocated_version,
			confidence = excluded.confidence
	`, anchor.ID, anchor.ProjectID, anchor.Chapter, anchor.Paragraph, anchor.Sentence,
		anchor.StartChar, anchor.EndChar, anchor.TextContent, anchor.ContentHash,
		anchor.ContextBefore, anchor.ContextAfter, anchor.ContextHash,
		anchor.CreatedVersion, anchor.RelocatedVersion, anchor.Confidence)

	if err != nil {
		return fmt.Errorf("saving anchor: %w", err)
	}
	return nil
}

// GetAnchor retrieves an anchor by ID.
func (s *anchorStore) GetAnchor(ctx context.Context, id string) (*domain.TextAnchor, error) {
	row := s.store.db.QueryRowContext(ctx, anchorSelect+" WHERE id = ?", id)
	return scanAnchor(row)
}

// GetAnchorsForProject returns all anchors of a project.
func (s *anchorStore) GetAnchorsForProject(ctx context.Context, projectID string) ([]domain.TextAnchor, error) {
	rows, err := s.store.db.QueryContext(ctx,
		anchorSelect+" WHERE project_id = ? ORDER BY chapter ASC, start_char ASC, id ASC",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("querying anchors: %w", err)
	}
	defer rows.Close()

	var anchors []domain.TextAnchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		anchor, err := scanAnchor(rows)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, *anchor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating anchors: %w", err)
	}
	return anchors, nil
}

const anchorSelect = `
	SELECT id, project_id, chapter, paragraph, sentence,
		start_char, end_char, text_content, content_hash,
		context_before, context_after, context_hash,
		created_version, relocated_version, confidence
	FROM anchors`

func scanAnchor(row rowScanner) (*domain.TextAnchor, error) {
	var anchor domain.TextAnchor
	if err := row.Scan(&anchor.ID, &anchor.ProjectID, &anchor.Chapter, &anchor.Paragraph,
		&anchor.Sentence, &anchor.StartChar, &anchor.EndChar, &anchor.TextContent,
		&anchor.ContentHash, &anchor.ContextBefore, &anchor.ContextAfter, &anchor.ContextHash,
		&anchor.CreatedVersion, &anchor.RelocatedVersion, &anchor.Confidence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning anchor: %w", err)
	}
	return &anchor, nil
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// AppendHistory appends one state-change row and assigns its ID.
func (s *historyStore) AppendHistory(ctx context.Context, change *domain.AlertStateChange) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO alert_history (alert_id, from_status, to_status, at, actor, reason, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, change.AlertID, string(change.From), string(change.To), change.At,
		string(change.Actor), change.Reason, change.Note)
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting history id: %w", err)
	}
	change.ID = id
	return nil
}

// HistoryForAlert returns an alert's history, oldest first.
func (s *historyStore) HistoryForAlert(ctx context.Context, alertID string) ([]domain.AlertStateChange, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, alert_id, from_status, to_status, at, actor, reason, note
		FROM alert_history WHERE alert_id = ?
		ORDER BY id ASC
	`, alertID)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var changes []domain.AlertStateChange //nolint:prealloc // size unknown from query
	for rows.Next() {
		var change domain.AlertStateChange
		var from, to, actor string
		var at sql.NullTime
		if err := rows.Scan(&change.ID, &change.AlertID, &from, &to, &at,
			&actor, &change.Reason, &change.Note); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		change.From = domain.AlertStatus(from)
		change.To = domain.AlertStatus(to)
		change.Actor = domain.Actor(actor)
		if at.Valid {
			change.At = at.Time
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return changes, nil
}

// ==================== Dismissal Store ====================

// dismissalStore implements driven.DismissalStore.
type dismissalStore struct {
	store *Store
}

var _ driven.DismissalStore = (*dismissalStore)(nil)

// RecordPattern stores a pattern. Recording an identical signature
// twice is a no-op.
func (s *dismissalStore) RecordPattern(ctx context.Context, pattern domain.DismissalPattern) error {
	if pattern.RecordedAt.IsZero() {
		pattern.RecordedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO dismissal_patterns (project_id, signature, alert_type, entity_key, excerpt_hash, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, signature) DO NOTHING
	`, pattern.ProjectID, pattern.Signature(), pattern.AlertType, pattern.EntityKey,
		pattern.ExcerptHash, pattern.RecordedAt)
	if err != nil {
		return fmt.Errorf("recording dismissal pattern: %w", err)
	}
	return nil
}

// GetPatterns returns all recorded patterns for a project.
func (s *dismissalStore) GetPatterns(ctx context.Context, projectID string) ([]domain.DismissalPattern, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT project_id, alert_type, entity_key, excerpt_hash, recorded_at
		FROM dismissal_patterns WHERE project_id = ?
		ORDER BY recorded_at ASC, signature ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying dismissal patterns: %w", err)
	}
	defer rows.Close()

	var patterns []domain.DismissalPattern //nolint:prealloc // size unknown from query
	for rows.Next() {
		var pattern domain.DismissalPattern
		var recordedAt sql.NullTime
		if err := rows.Scan(&pattern.ProjectID, &pattern.AlertType, &pattern.EntityKey,
			&pattern.ExcerptHash, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning dismissal pattern: %w", err)
		}
		if recordedAt.Valid {
			pattern.RecordedAt = recordedAt.Time
		}
		patterns = append(patterns, pattern)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dismissal patterns: %w", err)
	}
	return patterns, nil
}

// RemovePattern deletes the pattern with the given signature.
func (s *dismissalStore) RemovePattern(ctx context.Context, projectID, signature string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM dismissal_patterns WHERE project_id = ? AND signature = ?",
		projectID, signature)
	if err != nil {
		return fmt.Errorf("removing dismissal pattern: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

func marshalInts(values []int) (string, error) {
	if values == nil {
		values = []int{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshalling chapter list: %w", err)
	}
	return string(data), nil
}

func unmarshalInts(data string) ([]int, error) {
	var values []int
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshaling chapter list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// Schema for the sessions database.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    name TEXT,
    summary TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sequence INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_session_sequence ON messages(session_id, sequence);

-- Full-text search on message content
CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    content,
    content='messages',
    content_rowid='id'
);

-- Triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
`

// NewSQLiteStore opens (creating if needed) the database named by cfg.
func NewSQLiteStore(cfg Config, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dbPath, err := GetDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("get db path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	store := &SQLiteStore{db: db, cfg: cfg, logger: logger}
	if err := store.cleanup(context.Background()); err != nil {
		logger.Warn("session cleanup failed", "error", err)
	}
	logger.Debug("opened session store", "path", dbPath)

	return store, nil
}

// schemaVersion is the current schema version. Fresh databases get the full
// schema and start here; older ones run the pending migrations.
const schemaVersion = 1

// migration represents a schema migration.
type migration struct {
	version     int
	description string
	up          func(db *sql.DB) error
}

// migrations upgrade databases created before a schema change. The schema
// const always holds the full current schema.
var migrations = []migration{
	{
		version:     1,
		description: "add session summary column",
		up: func(db *sql.DB) error {
			_, err := db.Exec("ALTER TABLE sessions ADD COLUMN summary TEXT")
			if err != nil && !isDuplicateColumnError(err) {
				return err
			}
			return nil
		},
	},
}

// initSchema creates the schema and runs pending migrations. The common
// case, an up-to-date database, is a single SELECT.
func initSchema(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version").Scan(&currentVersion)
	if err == nil && currentVersion >= schemaVersion {
		return nil
	}

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) && !strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("get current version: %w", err)
		}
		// Without a version record, a database that already has sessions
		// predates versioning and runs every migration. A fresh one gets the
		// full schema below and starts current.
		var tableCount int
		err = db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='table' AND name='sessions'
		`).Scan(&tableCount)
		if err != nil {
			return fmt.Errorf("check sessions table: %w", err)
		}
		currentVersion = schemaVersion
		if tableCount > 0 {
			currentVersion = 0
		}
		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
			return fmt.Errorf("create schema_version table: %w", err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentVersion); err != nil {
			return fmt.Errorf("insert initial version: %w", err)
		}
	}

	// Migrations run before the schema so that indexes and triggers created
	// by it can rely on current columns.
	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := m.up(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := db.Exec("UPDATE schema_version SET version = ?", m.version); err != nil {
			return fmt.Errorf("update version to %d: %w", m.version, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create base schema: %w", err)
	}
	return nil
}

// isDuplicateColumnError checks if an error is due to a column already existing.
func isDuplicateColumnError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate column") ||
		strings.Contains(errStr, "already exists")
}

// cleanup enforces MaxCount by dropping the least recently updated sessions.
func (s *SQLiteStore) cleanup(ctx context.Context) error {
	if s.cfg.MaxCount <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE id IN (
			SELECT id FROM sessions
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)`, s.cfg.MaxCount)
	if err != nil {
		return fmt.Errorf("enforce max count: %w", err)
	}
	return nil
}

// Create inserts a new session.
func (s *SQLiteStore) Create(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = NewID()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = sess.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		sess.ID, nullString(sess.Name), nullString(sess.Summary), sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID. A missing session is (nil, nil).
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.summary, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages WHERE session_id = s.id)
		FROM sessions s WHERE s.id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return sess, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var name, summary sql.NullString
	if err := row.Scan(&sess.ID, &name, &summary, &sess.CreatedAt, &sess.UpdatedAt, &sess.MessageCount); err != nil {
		return nil, err
	}
	sess.Name = name.String
	sess.Summary = summary.String
	return &sess, nil
}

// Delete removes a session and its messages.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	// Foreign key cascade handles messages
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	return nil
}

// List returns sessions, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Session, error) {
	query := `
		SELECT s.id, s.name, s.summary, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages WHERE session_id = s.id)
		FROM sessions s
		WHERE 1=1`
	args := []any{}

	if opts.Name != "" {
		query += " AND s.name LIKE '%' || ? || '%'"
		args = append(args, opts.Name)
	}
	query += " ORDER BY s.updated_at DESC"

	limit := opts.Limit
	if limit == 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT %d", limit)
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var results []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		results = append(results, *sess)
	}
	return results, rows.Err()
}

// Search finds messages containing the query text using FTS5.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit == 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.session_id, m.id, COALESCE(s.name, ''), snippet(messages_fts, 0, '**', '**', '...', 32)
		FROM messages_fts f
		JOIN messages m ON m.id = f.rowid
		JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.SessionID, &r.MessageID, &r.SessionName, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AddMessage appends a message to a session. If msg.Sequence < 0 the next
// sequence number is allocated inside the transaction. The first user
// message becomes the session summary.
func (s *SQLiteStore) AddMessage(ctx context.Context, sessionID string, msg *Message) error {
	msg.SessionID = sessionID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if msg.Sequence < 0 {
		var maxSeq sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT MAX(sequence) FROM messages WHERE session_id = ?`,
			sessionID).Scan(&maxSeq)
		if err != nil {
			return fmt.Errorf("get max sequence: %w", err)
		}
		msg.Sequence = 0
		if maxSeq.Valid {
			msg.Sequence = int(maxSeq.Int64) + 1
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO messages (session_id, role, content, created_at, sequence)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(msg.Role), msg.Content, msg.CreatedAt, msg.Sequence)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	msg.ID, _ = result.LastInsertId()

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ?,
		       summary = CASE WHEN (summary IS NULL OR summary = '') AND ? = 'user' THEN ? ELSE summary END
		WHERE id = ?`,
		time.Now(), string(msg.Role), TruncateSummary(msg.Content), sessionID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetMessages retrieves messages for a session in sequence order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error) {
	query := `
		SELECT id, session_id, role, content, created_at, sequence
		FROM messages
		WHERE session_id = ?
		ORDER BY sequence ASC`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		if limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt, &msg.Sequence); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullString converts an empty string to NULL for database storage.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

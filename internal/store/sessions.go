// Package store persists payjoin sessions in a local SQLite database so
// interrupted rounds can be picked up again with the resume subcommand.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/payjoinlabs/payjoin-cli/internal/logger"
	"github.com/payjoinlabs/payjoin-cli/migrations"
)

// DefaultDBPath is the compiled-in default for the db_path config key.
const DefaultDBPath = "payjoin-db"

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Session kinds.
const (
	KindSend    = "send"
	KindReceive = "receive"
)

// Session is one payjoin round, pending until CompletedAt is set.
type Session struct {
	ID          string
	Kind        string
	Payload     string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// SessionStore wraps the SQLite session database.
type SessionStore struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	log *logger.Logger
}

// NewSessionStore opens (creating if necessary) the session database at
// dbPath and applies pending schema migrations.
func NewSessionStore(ctx context.Context, dbPath string, log *logger.Logger) (*SessionStore, error) {
	if err := createDBFileIfNotExists(dbPath); err != nil {
		log.Err(err).Str("db_path", dbPath).Msg("error creating session database file")
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening session database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to session database: %w", err)
	}

	if err := migrations.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Debug().Str("db_path", dbPath).Msg("session database ready")
	return newSessionStore(conn, log), nil
}

func newSessionStore(db *sql.DB, log *logger.Logger) *SessionStore {
	return &SessionStore{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log: log,
	}
}

func createDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating session database file: %w", err)
		}
		f.Close()
	}

	return nil
}

// Insert records a new pending session and returns it.
func (s *SessionStore) Insert(ctx context.Context, kind, payload string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	query, args, err := s.sb.Insert("sessions").
		Columns("id", "kind", "payload", "created_at").
		Values(session.ID, session.Kind, session.Payload, session.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert session query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	s.log.Debug().Str("session_id", session.ID).Str("kind", kind).Msg("session recorded")
	return session, nil
}

// Pending returns all sessions that have not completed, oldest first.
func (s *SessionStore) Pending(ctx context.Context) ([]Session, error) {
	query, args, err := s.sb.Select("id", "kind", "payload", "created_at", "completed_at").
		From("sessions").
		Where(sq.Eq{"completed_at": nil}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending sessions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var completedAt sql.NullTime
		if err := rows.Scan(&session.ID, &session.Kind, &session.Payload, &session.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if completedAt.Valid {
			session.CompletedAt = &completedAt.Time
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return sessions, nil
}

// Complete marks the session as finished.
func (s *SessionStore) Complete(ctx context.Context, id string) error {
	query, args, err := s.sb.Update("sessions").
		Set("completed_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "completed_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build complete session query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

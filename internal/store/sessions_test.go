package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payjoinlabs/payjoin-cli/internal/logger"
)

func newMockStore(t *testing.T) (*SessionStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return newSessionStore(db, logger.Nop()), mock
}

func TestInsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), KindSend, `{"uri":"bitcoin:..."}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session, err := store.Insert(context.Background(), KindSend, `{"uri":"bitcoin:..."}`)
	require.NoError(t, err)
	assert.Equal(t, KindSend, session.Kind)
	assert.Nil(t, session.CompletedAt)

	_, err = uuid.Parse(session.ID)
	assert.NoError(t, err, "session id should be a uuid")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DBError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO sessions").
		WillReturnError(assert.AnError)

	session, err := store.Insert(context.Background(), KindReceive, "{}")
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPending(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "kind", "payload", "created_at", "completed_at"}).
		AddRow("id-1", KindSend, "{}", created, nil).
		AddRow("id-2", KindReceive, "{}", created.Add(time.Minute), nil)

	mock.ExpectQuery("SELECT id, kind, payload, created_at, completed_at FROM sessions").
		WillReturnRows(rows)

	sessions, err := store.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "id-1", sessions[0].ID)
	assert.Equal(t, KindReceive, sessions[1].Kind)
	assert.Nil(t, sessions[0].CompletedAt)
}

func TestPending_Empty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, kind, payload, created_at, completed_at FROM sessions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "payload", "created_at", "completed_at"}))

	sessions, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestComplete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE sessions SET completed_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Complete(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE sessions SET completed_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Complete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

func TestSessionStore_Create(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := &domain.Session{Token: "tok", UserID: "u-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	mock.ExpectExec(`INSERT\s+INTO\s+sessions`).
		WithArgs("tok", "u-1", sess.CreatedAt, sess.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), sess))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Get(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	mock.ExpectQuery(`(?s)FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2`).
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at", "expires_at"}).
			AddRow("u-1", now.Add(-time.Minute), now.Add(time.Hour)))

	got, err := store.Get(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "tok", got.Token)
	require.Equal(t, "u-1", got.UserID)
	require.Equal(t, now.Add(time.Hour), got.ExpiresAt)
}

func TestSessionStore_Get_MissingOrExpired(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)

	mock.ExpectQuery(`FROM\s+sessions`).
		WithArgs("gone", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "gone")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Get_DBError(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)

	mock.ExpectQuery(`FROM\s+sessions`).WillReturnError(errors.New("timeout"))

	_, err := store.Get(context.Background(), "tok")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Delete_Idempotent(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)

	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+token`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+token`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), "tok"))
	require.NoError(t, store.Delete(context.Background(), "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Purge(t *testing.T) {
	db, mock := newMock(t)
	store := NewSessionStore(db)

	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<=\s*\$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.Purge(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

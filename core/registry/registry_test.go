package registry

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreate_FirstWorkspaceBecomesActive(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workspaces`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO workspaces`).
		WithArgs("loja-centro", "042", "/data/loja-centro", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ws, err := store.Create("loja-centro", "042", "/data/loja-centro")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ws.ID)
	assert.True(t, ws.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_SubsequentWorkspaceInactive(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workspaces`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO workspaces`).
		WithArgs("loja-norte", "043", "/data/loja-norte", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(3, 1))

	ws, err := store.Create("loja-norte", "043", "/data/loja-norte")
	require.NoError(t, err)
	assert.False(t, ws.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_SwitchesActiveFlag(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE workspaces SET active = 0`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE workspaces SET active = 1 WHERE id = \?`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Activate(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_UnknownWorkspace(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE workspaces SET active = 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE workspaces SET active = 1 WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Activate(99)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestActive_NoneActive(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM workspaces WHERE active = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "store", "path", "created_at", "active"}))

	_, err := store.Active()
	assert.ErrorIs(t, err, ErrNoActiveWorkspace)
}

func TestActive_ReturnsRow(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "store", "path", "created_at", "active"}).
		AddRow(1, "loja-centro", "042", "/data/loja-centro", "2026-08-01T10:00:00Z", true)
	mock.ExpectQuery(`SELECT \* FROM workspaces WHERE active = 1`).WillReturnRows(rows)

	ws, err := store.Active()
	require.NoError(t, err)
	assert.Equal(t, "loja-centro", ws.Name)
	assert.Equal(t, "/data/loja-centro", ws.Path)
}

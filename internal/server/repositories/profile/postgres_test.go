package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	p := journal.Profile{PatientName: "Jamie Doe", CaseNumber: "CV-1"}
	doc, err := json.Marshal(p)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT doc FROM vault_profile WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jamie Doe", got.PatientName)
	assert.Equal(t, "CV-1", got.CaseNumber)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT doc FROM vault_profile`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p := &journal.Profile{PatientName: "Jamie Doe", UpdatedAt: now}
	doc, err := json.Marshal(p)
	require.NoError(t, err)

	q := `INSERT INTO vault_profile \(id, doc, updated_at\)\s+VALUES \(1, \$1, \$2\)\s+ON CONFLICT \(id\)`
	mock.ExpectExec(q).WithArgs(doc, now).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), p))

	mock.ExpectExec(q).WillReturnError(errors.New("down"))
	assert.ErrorContains(t, repo.Save(context.Background(), p), "db error")

	require.NoError(t, mock.ExpectationsWereMet())
}

package verifytokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmkoval/metools/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const createQuery = `(?s)^INSERT\s+INTO\s+verify_tokens\s*\(token,\s*valid_until,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	validUntil := time.Now().Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("vt-1", time.Now())
	mock.ExpectQuery(createQuery).
		WithArgs("tok-value", validUntil, "u-1").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), "u-1", "tok-value", validUntil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "vt-1" || got.UserID != "u-1" || got.Token != "tok-value" || !got.ValidUntil.Equal(validUntil) {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	validUntil := time.Now()
	mock.ExpectQuery(createQuery).
		WithArgs("tok", validUntil, "u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "u-1", "tok", validUntil)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const getLiveQuery = `(?s)^SELECT\s+id,\s*created_at,\s*valid_until,\s*token,\s*user_id\s+FROM\s+verify_tokens\s+WHERE\s+token\s*=\s*\$1\s+AND\s+valid_until\s*>\s*\$2\s*$`

func TestGetLive_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "valid_until", "token", "user_id"}).
		AddRow("vt-1", now.Add(-time.Hour), now.Add(23*time.Hour), "tok-value", "u-1")
	mock.ExpectQuery(getLiveQuery).
		WithArgs("tok-value", now).
		WillReturnRows(rows)

	got, err := repo.GetLive(context.Background(), "tok-value", now)
	if err != nil {
		t.Fatalf("GetLive error: %v", err)
	}
	if got.ID != "vt-1" || got.UserID != "u-1" {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestGetLive_AbsentOrExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(getLiveQuery).
		WithArgs("gone", now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLive(context.Background(), "gone", now)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

const deleteQuery = `(?s)^DELETE\s+FROM\s+verify_tokens\s+WHERE\s+id\s*=\s*\$1\s*$`

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).
		WithArgs("vt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "vt-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).
		WithArgs("vt-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "vt-404")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

const deleteExpiredQuery = `(?s)^DELETE\s+FROM\s+verify_tokens\s+WHERE\s+valid_until\s*<=\s*\$1\s*$`

func TestDeleteExpired_ReturnsCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(deleteExpiredQuery).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows removed, got %d", count)
	}
}

func TestDeleteExpired_ZeroMatchesIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(deleteExpiredQuery).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 rows removed, got %d", count)
	}
}

func TestDeleteExpired_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(deleteExpiredQuery).
		WithArgs(now).
		WillReturnError(errors.New("db down"))

	_, err := repo.DeleteExpired(context.Background(), now)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var taskTestColumns = []string{"id", "title", "description", "priority", "is_completed", "user_id", "created_at", "updated_at"}

func taskRow(id int64, title string, priority int, completed bool, ownerID int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(taskTestColumns).
		AddRow(id, title, "", priority, completed, ownerID, now, now)
}

func TestCreate_ExplicitPriority(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(title,\s*description,\s*priority,\s*user_id\)`

	prio := 3
	mock.ExpectQuery(q).
		WithArgs("write report", "quarterly numbers", prio, int64(1)).
		WillReturnRows(taskRow(10, "write report", 3, false, 1))

	got, err := repo.Create(context.Background(), 1, "write report", "quarterly numbers", &prio)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 10 || got.Priority != 3 || got.OwnerID != 1 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCreate_AssignedPriority(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// Nil priority is handed to the DB, which assigns max+1 in the
	// COALESCE subselect.
	q := `(?s)COALESCE\(\$3,\s*\(SELECT\s+COALESCE\(MAX\(priority\),\s*0\)\s*\+\s*1\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$4\)\)`

	mock.ExpectQuery(q).
		WithArgs("write report", "", nil, int64(1)).
		WillReturnRows(taskRow(11, "write report", 5, false, 1))

	got, err := repo.Create(context.Background(), 1, "write report", "", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Priority != 5 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+tasks`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), 1, "t", "", nil)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByOwner_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+priority,\s*id\s*$`

	rows := taskRow(1, "a", 1, false, 7)
	now := time.Now()
	rows.AddRow(int64(2), "b", "", 2, true, int64(7), now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), 7, models.TaskFilter{})
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || !got[1].IsCompleted {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListByOwner_Filtered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_completed\s*=\s*\$2\s+AND\s+priority\s*=\s*\$3\s+ORDER\s+BY\s+priority,\s*id\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(7), false, 2).
		WillReturnRows(taskRow(2, "b", 2, false, 7))

	completed := false
	prio := 2
	got, err := repo.ListByOwner(context.Background(), 7, models.TaskFilter{IsCompleted: &completed, Priority: &prio})
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestUpdateOwned_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*COALESCE\(\$3,\s*title\).*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	title := "renamed"
	mock.ExpectQuery(q).
		WithArgs(int64(3), int64(7), title, nil, nil, nil).
		WillReturnRows(taskRow(3, "renamed", 1, false, 7))

	got, err := repo.UpdateOwned(context.Background(), 3, 7, models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateOwned error: %v", err)
	}
	if got.Title != "renamed" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestUpdateOwned_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+tasks\s+SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateOwned(context.Background(), 3, 8, models.TaskPatch{})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteOwned_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteOwned(context.Background(), 3, 7); err != nil {
		t.Fatalf("DeleteOwned error: %v", err)
	}
}

func TestDeleteOwned_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks`).
		WithArgs(int64(3), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOwned(context.Background(), 3, 8)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteOwned_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks`).
		WillReturnError(errors.New("db down"))

	err := repo.DeleteOwned(context.Background(), 3, 7)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestMarkCompletedOwned_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+is_completed\s*=\s*TRUE.*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectQuery(q).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(taskRow(3, "a", 1, true, 7))

	got, err := repo.MarkCompletedOwned(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("MarkCompletedOwned error: %v", err)
	}
	if !got.IsCompleted {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestMarkCompletedOwned_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+tasks\s+SET\s+is_completed`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkCompletedOwned(context.Background(), 3, 8)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListAll_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+tasks\s+ORDER\s+BY\s+user_id,\s*priority,\s*id\s*$`

	rows := taskRow(1, "a", 1, false, 7)
	now := time.Now()
	rows.AddRow(int64(2), "b", "", 1, false, int64(8), now, now)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(got) != 2 || got[1].OwnerID != 8 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestUpdateAny_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*COALESCE\(\$2,\s*title\).*WHERE\s+id\s*=\s*\$1\s+RETURNING`

	title := "renamed"
	mock.ExpectQuery(q).
		WithArgs(int64(3), title, nil, nil, nil).
		WillReturnRows(taskRow(3, "renamed", 1, false, 7))

	got, err := repo.UpdateAny(context.Background(), 3, models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateAny error: %v", err)
	}
	if got.Title != "renamed" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestMarkCompletedAny_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+tasks\s+SET\s+is_completed`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkCompletedAny(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

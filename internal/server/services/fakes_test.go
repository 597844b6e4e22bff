package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	tasksrepo "github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createErr error

	byEmail    map[string]*models.User
	byEmailErr error

	byID    *models.User
	byIDErr error

	listOut []*models.User
	listErr error

	updateOut  *models.User
	updateErr  error
	lastUpdate usersrepo.UserUpdate
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = int64(len(f.byEmail) + 1)
	if f.byEmail == nil {
		f.byEmail = map[string]*models.User{}
	}
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, upd usersrepo.UserUpdate) (*models.User, error) {
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

type fakeTasksRepo struct {
	createOut *models.Task
	createErr error

	listOut    []*models.Task
	listErr    error
	lastFilter models.TaskFilter

	taskOut   *models.Task
	taskErr   error
	lastPatch models.TaskPatch

	deleteErr error
}

func (f *fakeTasksRepo) Create(ctx context.Context, ownerID int64, title, description string, priority *int) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error) {
	f.lastFilter = filter
	return f.listOut, f.listErr
}

func (f *fakeTasksRepo) UpdateOwned(ctx context.Context, taskID, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	f.lastPatch = patch
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return f.taskOut, nil
}

func (f *fakeTasksRepo) DeleteOwned(ctx context.Context, taskID, ownerID int64) error {
	return f.deleteErr
}

func (f *fakeTasksRepo) MarkCompletedOwned(ctx context.Context, taskID, ownerID int64) (*models.Task, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return f.taskOut, nil
}

func (f *fakeTasksRepo) ListAll(ctx context.Context) ([]*models.Task, error) {
	return f.listOut, f.listErr
}

func (f *fakeTasksRepo) UpdateAny(ctx context.Context, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	f.lastPatch = patch
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return f.taskOut, nil
}

func (f *fakeTasksRepo) MarkCompletedAny(ctx context.Context, taskID int64) (*models.Task, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return f.taskOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository      { return m.t }

type fakeMailer struct {
	sendErr error

	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.sendErr
}

type fakeTimers struct {
	startErr error
	stopErr  error

	infoOut json.RawMessage
	infoErr error

	statsOut json.RawMessage
	statsErr error

	started []int64
	stopped []int64
}

func (f *fakeTimers) Start(ctx context.Context, userID, taskID int64) error {
	f.started = append(f.started, taskID)
	return f.startErr
}

func (f *fakeTimers) Stop(ctx context.Context, userID, taskID int64) error {
	f.stopped = append(f.stopped, taskID)
	return f.stopErr
}

func (f *fakeTimers) StartedInfo(ctx context.Context, userID int64) (json.RawMessage, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.infoOut, nil
}

func (f *fakeTimers) Stats(ctx context.Context, userID int64) (json.RawMessage, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.statsOut, nil
}

package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

const taskColumns = "id, title, description, priority, is_completed, user_id, created_at, updated_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTask(row *sql.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Priority,
		&task.IsCompleted, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID int64, title, description string, priority *int) (*models.Task, error) {

	// The priority subselect runs inside the INSERT, so there is no
	// application-level read-then-write window. Priority stays a hint:
	// no unique index, duplicates under concurrent creates are tolerated.
	query :=
		`INSERT INTO tasks (title, description, priority, user_id)
		 VALUES ($1, $2,
		         COALESCE($3, (SELECT COALESCE(MAX(priority), 0) + 1 FROM tasks WHERE user_id = $4)),
		         $4)
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, title, description, priority, ownerID))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error) {

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{ownerID}

	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	query += " ORDER BY priority, id"

	return r.queryTasks(ctx, query, args...)
}

func (r *PostgresRepository) UpdateOwned(ctx context.Context, taskID, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     priority = COALESCE($5, priority),
		     is_completed = COALESCE($6, is_completed),
		     updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID,
		patch.Title, patch.Description, patch.Priority, patch.IsCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, taskID, ownerID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) MarkCompletedOwned(ctx context.Context, taskID, ownerID int64) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET is_completed = TRUE, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY user_id, priority, id`
	return r.queryTasks(ctx, query)
}

func (r *PostgresRepository) UpdateAny(ctx context.Context, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     priority = COALESCE($4, priority),
		     is_completed = COALESCE($5, is_completed),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID,
		patch.Title, patch.Description, patch.Priority, patch.IsCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) MarkCompletedAny(ctx context.Context, taskID int64) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET is_completed = TRUE, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Priority,
			&task.IsCompleted, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

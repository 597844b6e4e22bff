package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
)

// TimerClient is the outbound contract of the second backend's pomodoro
// API, satisfied by pomodoro.Client.
type TimerClient interface {
	Start(ctx context.Context, userID, taskID int64) error
	Stop(ctx context.Context, userID, taskID int64) error
	StartedInfo(ctx context.Context, userID int64) (json.RawMessage, error)
	Stats(ctx context.Context, userID int64) (json.RawMessage, error)
}

// TaskService provides per-user task operations plus the admin variants
// that skip ownership scoping. Timer calls are best-effort: a failure is
// logged and never undoes the committed task mutation.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timers      TimerClient
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, timers TimerClient, logger logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		timers:      timers,
		logger:      logger.With("module", "task_service"),
	}
}

// CreateTask creates a task for ownerID. When priority is nil, the store
// assigns max(owner's priorities)+1 atomically. On success a pomodoro
// timer is started for the new task.
func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, title, description string, priority *int) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if priority != nil && *priority < 1 {
		return nil, fmt.Errorf("%w: priority must be positive", common.ErrorValidation)
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, ownerID, title, description, priority)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	if s.timers != nil {
		if err := s.timers.Start(ctx, ownerID, task.ID); err != nil {
			s.logger.Warn(ctx, "pomodoro start failed", "task_id", task.ID, "owner_id", ownerID, "error", err.Error())
		}
	}

	return task, nil
}

// ListTasks returns the owner's tasks, optionally filtered by completion
// state and priority.
func (s *TaskService) ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

// validateTaskPatch applies the same field rules as CreateTask to the
// fields the patch actually sets.
func validateTaskPatch(patch models.TaskPatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if patch.Priority != nil && *patch.Priority < 1 {
		return fmt.Errorf("%w: priority must be positive", common.ErrorValidation)
	}
	return nil
}

// UpdateTask applies a partial update to an owned task. A task that does
// not exist or belongs to someone else fails with ErrorNotFound.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	if err := validateTaskPatch(patch); err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).UpdateOwned(ctx, taskID, ownerID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return task, nil
}

// DeleteTask permanently removes an owned task, with the same not-found
// semantics as UpdateTask.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID int64) error {
	err := s.repomanager.Tasks(s.db).DeleteOwned(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// MarkCompleted sets is_completed on an owned task and asks the second
// backend to stop the task's timer.
func (s *TaskService) MarkCompleted(ctx context.Context, taskID, ownerID int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).MarkCompletedOwned(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error completing task: %w", err)
	}

	if s.timers != nil {
		if err := s.timers.Stop(ctx, ownerID, taskID); err != nil {
			s.logger.Warn(ctx, "pomodoro stop failed", "task_id", taskID, "owner_id", ownerID, "error", err.Error())
		}
	}

	return task, nil
}

// PomodoroInfo relays the user's currently running timer from the second
// backend.
func (s *TaskService) PomodoroInfo(ctx context.Context, ownerID int64) (json.RawMessage, error) {
	if s.timers == nil {
		return nil, common.ErrorInternal
	}
	info, err := s.timers.StartedInfo(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching pomodoro info: %w", err)
	}
	return info, nil
}

// PomodoroStats relays the user's accumulated pomodoro statistics from
// the second backend.
func (s *TaskService) PomodoroStats(ctx context.Context, ownerID int64) (json.RawMessage, error) {
	if s.timers == nil {
		return nil, common.ErrorInternal
	}
	stats, err := s.timers.Stats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching pomodoro stats: %w", err)
	}
	return stats, nil
}

// AdminListTasks returns every task of every user. Admin surface only.
func (s *TaskService) AdminListTasks(ctx context.Context) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing all tasks: %w", err)
	}
	return list, nil
}

// AdminUpdateTask applies a partial update to any task regardless of owner.
func (s *TaskService) AdminUpdateTask(ctx context.Context, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	if err := validateTaskPatch(patch); err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).UpdateAny(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return task, nil
}

// AdminMarkCompleted completes any task regardless of owner.
func (s *TaskService) AdminMarkCompleted(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).MarkCompletedAny(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error completing task: %w", err)
	}
	return task, nil
}

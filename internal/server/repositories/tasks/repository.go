// Package tasks implements the ownership-scoped task store. Every owned
// operation filters by owner id in the same statement that does the work,
// so a foreign task id behaves exactly like a missing one.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	// Create inserts a task for ownerID. When priority is nil the value is
	// computed inside the INSERT as max(owner's priorities)+1.
	Create(ctx context.Context, ownerID int64, title, description string, priority *int) (*models.Task, error)

	ListByOwner(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error)
	UpdateOwned(ctx context.Context, taskID, ownerID int64, patch models.TaskPatch) (*models.Task, error)
	DeleteOwned(ctx context.Context, taskID, ownerID int64) error
	MarkCompletedOwned(ctx context.Context, taskID, ownerID int64) (*models.Task, error)

	// Admin variants: no owner filter. Reachable only through the
	// admin-gated surface.
	ListAll(ctx context.Context) ([]*models.Task, error)
	UpdateAny(ctx context.Context, taskID int64, patch models.TaskPatch) (*models.Task, error)
	MarkCompletedAny(ctx context.Context, taskID int64) (*models.Task, error)
}

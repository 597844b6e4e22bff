package users

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// UserUpdate is the column-level partial update applied by the repository.
// Nil fields keep their current value. PasswordHash is already hashed by
// the service layer.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error)
}

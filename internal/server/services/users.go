package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// UserService provides directory operations over registered users: list,
// lookup, and partial update with password re-hashing.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secretKey   []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: m, secretKey: []byte(cfg.SecretKey)}
}

func (s *UserService) GetUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update. Only supplied fields change; a new
// email is normalized and validated, a new password is policy-checked and
// hashed before it reaches the repository.
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	upd := users.UserUpdate{}

	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}

	if patch.Password != nil {
		if err := ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password, s.secretKey)
		if err != nil {
			return nil, common.ErrorInternal
		}
		upd.PasswordHash = &hash
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

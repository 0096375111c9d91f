package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taxpractice/internal/authz"
	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

type UserService interface {
	Create(ctx context.Context, actor models.Actor, name, email, password, role string) (*models.User, error)
	Deactivate(ctx context.Context, actor models.Actor, id string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type userService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewUserService(store repositories.Store, log *zap.Logger) UserService {
	return &userService{store: store, log: log}
}

func (s *userService) Create(ctx context.Context, actor models.Actor, name, email, password, role string) (*models.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, models.Validationf("name and email are required")
	}
	if len(password) < 8 {
		return nil, models.Validationf("password must be at least 8 characters")
	}
	if !authz.ValidRole(role) {
		return nil, models.Validationf("invalid role %q", role)
	}
	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, &models.StorageError{Op: "get user", Err: err}
	}
	if existing != nil {
		return nil, &models.ConflictError{Msg: "email already in use"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "user", user.ID,
			map[string]string{"email": email, "role": role})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create user", Err: err}
	}
	return user, nil
}

// Deactivate disables the account instead of deleting it so past audit
// entries keep resolving to a user.
func (s *userService) Deactivate(ctx context.Context, actor models.Actor, id string) error {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return &models.StorageError{Op: "get user", Err: err}
	}
	if user == nil {
		return &models.NotFoundError{Resource: "user", ID: id}
	}
	user.IsActive = false

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "user", id,
			map[string]string{"is_active": "false"})
	})
	if err != nil {
		return &models.StorageError{Op: "deactivate user", Err: err}
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get user", Err: err}
	}
	if u == nil {
		return nil, &models.NotFoundError{Resource: "user", ID: id}
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	res, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "list users", Err: err}
	}
	return res, nil
}

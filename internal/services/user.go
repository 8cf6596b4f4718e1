package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

// pgUniqueViolation is the Postgres error code for a unique constraint hit.
const pgUniqueViolation = "23505"

var ErrEmailTaken = errors.New("email already registered")

type UserService interface {
	Register(ctx context.Context, email, password, name string, role types.Role) (*types.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role types.Role) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) Register(ctx context.Context, email, password, name string, role types.Role) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email required")
	}
	if password == "" {
		return nil, fmt.Errorf("password required")
	}
	if role == "" {
		role = types.RoleResident
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", string(role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *types.User
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrEmailTaken
		}

		user = &types.User{
			ID:       uuid.New(),
			Email:    email,
			Password: string(hash),
			Name:     name,
			Role:     role,
		}
		if _, err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			// The pre-check races with concurrent registrations; the unique
			// index is the arbiter, map its violation to the same error.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("user %s does not exist", id)
	}
	return users[0], nil
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role types.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", string(role))
	}
	return s.userRepo.UpdateRole(ctx, nil, id, role)
}

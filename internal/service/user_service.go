package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/repository"
	"github.com/limbo/moodlog/pkg/entity"
	"github.com/limbo/moodlog/pkg/password"
)

type UserService struct {
	repo   repository.UsersRepositoryI
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(usersRepo repository.UsersRepositoryI, logger *slog.Logger) *UserService {
	InitValidator()
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo:   usersRepo,
		logger: logger,
		now:    time.Now,
	}
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", errorvalues.ErrValidation)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	taken, err := us.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("repository searching error: %w", err)
	}
	if taken {
		return nil, errorvalues.ErrUserExists
	}
	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password error: %w", err)
	}
	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    us.now().UTC(),
	}
	id, err := us.repo.Create(ctx, user)
	if err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, errorvalues.ErrUserExists
		}
		return nil, fmt.Errorf("repository creating error: %w", err)
	}
	user.ID = id
	return user, nil
}

func (us *UserService) Login(ctx context.Context, username, plain string) (*entity.User, error) {
	user, err := us.repo.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrWrongCredentials
		}
		return nil, fmt.Errorf("repository searching error: %w", err)
	}
	ok, err := password.Verify(plain, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password of user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, errorvalues.ErrWrongCredentials
	}
	return user, nil
}

// ForgotPassword only logs the request. No token is issued and no mail is sent.
func (us *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("repository searching error: %w", err)
	}
	us.logger.InfoContext(ctx, "password reset requested", slog.Int64("uid", user.ID))
	return nil
}

func (us *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository searching error: %w", err)
	}
	return user, nil
}

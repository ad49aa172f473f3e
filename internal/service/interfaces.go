package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"

	"github.com/limbo/moodlog/pkg/entity"
)

type RegisterRequest struct {
	Username string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required"`
}

type LogMoodRequest struct {
	Emoji string
	Note  *string
}

type UserServiceI interface {
	// Validates user's data, checks uniqueness and stores the user with a hashed password
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID
	Login(ctx context.Context, username, password string) (*entity.User, error)
	// Records a reset request for an existing email. Unknown emails are silently ignored
	ForgotPassword(ctx context.Context, email string) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

type MoodServiceI interface {
	// Stores today's mood of the user, replacing an earlier one of the same day
	LogMood(ctx context.Context, uid int64, req LogMoodRequest) (*entity.MoodEntry, error)
	GetTodayMood(ctx context.Context, uid int64) (*entity.MoodEntry, error)
	// Always 7 entries, oldest first, gaps filled with placeholders
	GetLastSevenDays(ctx context.Context, uid int64) ([]entity.MoodEntry, error)
	// Statistics over every entry the user ever logged
	GetStats(ctx context.Context, uid int64) (entity.MoodStats, error)
}

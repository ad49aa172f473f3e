package api

import (
	"context"
	"time"

	"github.com/limbo/moodlog/pkg/entity"
	jwtservice "github.com/limbo/moodlog/pkg/jwt_service"
)

type JWTServiceI interface {
	GenerateToken(user *entity.User) (string, time.Time, error)
	ParseToken(tokenString string) (*jwtservice.Claims, error)
}

type RecommenderI interface {
	Recommend(ctx context.Context, week []entity.MoodEntry) (string, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

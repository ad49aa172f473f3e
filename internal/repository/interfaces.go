package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/moodlog/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database and returns its id
	Create(ctx context.Context, user *entity.User) (int64, error)
	// Reports whether username or email is already taken (exact match)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by email. Used by forgot-password
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by id. Can be used for authorization middleware
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

type MoodsRepositoryI interface {
	// Inserts the user's entry for entry.Date or overwrites the existing one
	Upsert(ctx context.Context, entry *entity.MoodEntry) (*entity.MoodEntry, error)
	// Entry of the user on a given day
	GetByUserAndDate(ctx context.Context, uid int64, date time.Time) (*entity.MoodEntry, error)
	// Entries between from and to inclusive, ordered by date
	GetByUserAndDateRange(ctx context.Context, uid int64, from, to time.Time) ([]entity.MoodEntry, error)
	// Scores of every entry the user ever logged
	ListScoresByUser(ctx context.Context, uid int64) ([]int, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

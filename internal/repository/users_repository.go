package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/pkg/entity"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) (int64, error) {
	if user == nil {
		return 0, errors.New("user is nil")
	}
	var id int64
	row := ur.conn.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, errorvalues.ErrUserExists
		}
		return 0, fmt.Errorf("creating user db error: %w", err)
	}
	return id, nil
}

func (ur *UsersRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	row := ur.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2);`,
		username, email,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("checking user existence error: %w", err)
	}
	return exists, nil
}

func (ur *UsersRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	return ur.findOne(ctx, "name",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1;`, name)
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, "email",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1;`, email)
}

func (ur *UsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return ur.findOne(ctx, "id",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1;`, id)
}

func (ur *UsersRepository) findOne(ctx context.Context, by, query string, arg any) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, query, arg)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("searching user by %s error: %w", by, err)
	}
	return &user, nil
}

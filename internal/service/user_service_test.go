package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/service"
	"github.com/limbo/moodlog/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

const (
	username = "test_user"
	email    = "test@example.com"
	pass     = "test_password"
)

func newUserService(repo *fakeUsersRepo) (*service.UserService, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return service.NewUserService(repo, logger), &logs
}

func TestRegister(t *testing.T) {
	repo := &fakeUsersRepo{}
	us, _ := newUserService(repo)
	ctx := context.Background()

	user, err := us.Register(ctx, &service.RegisterRequest{Username: username, Email: email, Password: pass})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, username, user.Username)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NotEqual(t, pass, user.PasswordHash)
	ok, err := password.Verify(pass, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	testCases := []struct {
		Desc  string
		Req   service.RegisterRequest
		Error error
	}{
		{Desc: "taken username", Req: service.RegisterRequest{Username: username, Email: "other@example.com", Password: pass}, Error: errorvalues.ErrUserExists},
		{Desc: "taken email", Req: service.RegisterRequest{Username: "other_user", Email: email, Password: pass}, Error: errorvalues.ErrUserExists},
		{Desc: "invalid email", Req: service.RegisterRequest{Username: "valid_user", Email: "not-an-email", Password: pass}, Error: errorvalues.ErrValidation},
		{Desc: "username too long", Req: service.RegisterRequest{Username: strings.Repeat("a", 101), Email: "a@example.com", Password: pass}, Error: errorvalues.ErrValidation},
		{Desc: "missing password", Req: service.RegisterRequest{Username: "valid_user", Email: "a@example.com"}, Error: errorvalues.ErrValidation},
		{Desc: "empty", Req: service.RegisterRequest{}, Error: errorvalues.ErrValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			req := tc.Req
			_, err := us.Register(ctx, &req)
			assert.ErrorIs(t, err, tc.Error)
			assert.Len(t, repo.users, 1)
		})
	}

	t.Run("free-form usernames and short passwords are accepted", func(t *testing.T) {
		for _, req := range []service.RegisterRequest{
			{Username: "john.doe", Email: "john@example.com", Password: "longenough"},
			{Username: "alice", Email: "alice@example.com", Password: "abc"},
			{Username: "1-user", Email: "one@example.com", Password: "x"},
		} {
			_, err := us.Register(ctx, &req)
			assert.NoError(t, err, req.Username)
		}
		assert.Len(t, repo.users, 4)
	})

	t.Run("uniqueness is case sensitive", func(t *testing.T) {
		_, err := us.Register(ctx, &service.RegisterRequest{Username: "TEST_USER", Email: "TEST@example.com", Password: pass})
		assert.NoError(t, err)
		assert.Len(t, repo.users, 5)
	})
	t.Run("repository error", func(t *testing.T) {
		repo.fail = true
		defer func() { repo.fail = false }()
		_, err := us.Register(ctx, &service.RegisterRequest{Username: "valid_user", Email: "v@example.com", Password: pass})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserExists)
	})
}

func TestLogin(t *testing.T) {
	repo := &fakeUsersRepo{}
	us, _ := newUserService(repo)
	ctx := context.Background()
	registered, err := us.Register(ctx, &service.RegisterRequest{Username: username, Email: email, Password: pass})
	require.NoError(t, err)

	t.Run("logged in", func(t *testing.T) {
		user, err := us.Login(ctx, username, pass)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})
	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, errWrong := us.Login(ctx, username, pass+"1")
		_, errUnknown := us.Login(ctx, "nobody", pass)
		assert.ErrorIs(t, errWrong, errorvalues.ErrWrongCredentials)
		assert.ErrorIs(t, errUnknown, errorvalues.ErrWrongCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})
	t.Run("username match is exact", func(t *testing.T) {
		_, err := us.Login(ctx, "Test_User", pass)
		assert.ErrorIs(t, err, errorvalues.ErrWrongCredentials)
	})
	t.Run("repository error", func(t *testing.T) {
		repo.fail = true
		defer func() { repo.fail = false }()
		_, err := us.Login(ctx, username, pass)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrWrongCredentials)
	})
}

func TestForgotPassword(t *testing.T) {
	repo := &fakeUsersRepo{}
	us, logs := newUserService(repo)
	ctx := context.Background()
	_, err := us.Register(ctx, &service.RegisterRequest{Username: username, Email: email, Password: pass})
	require.NoError(t, err)

	require.NoError(t, us.ForgotPassword(ctx, "unknown@example.com"))
	assert.NotContains(t, logs.String(), "password reset requested")

	require.NoError(t, us.ForgotPassword(ctx, email))
	assert.Contains(t, logs.String(), "password reset requested")
}

func TestGetByID(t *testing.T) {
	repo := &fakeUsersRepo{}
	us, _ := newUserService(repo)
	ctx := context.Background()
	registered, err := us.Register(ctx, &service.RegisterRequest{Username: username, Email: email, Password: pass})
	require.NoError(t, err)

	user, err := us.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, username, user.Username)

	_, err = us.GetByID(ctx, registered.ID+100)
	assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
}

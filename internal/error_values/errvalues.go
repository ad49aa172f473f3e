package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("user with such username or email already exists")
	ErrUserNotFound     = errors.New("user doesn't exist")
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrValidation       = errors.New("validation error")

	ErrInvalidEmoji = errors.New("unknown emoji")
	ErrMoodNotFound = errors.New("mood doesn't exist")
)

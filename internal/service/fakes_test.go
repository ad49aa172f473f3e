package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/pkg/entity"
)

var errDB = errors.New("db error")

type fakeUsersRepo struct {
	mu     sync.Mutex
	users  []*entity.User
	nextID int64
	fail   bool
}

func (r *fakeUsersRepo) Create(ctx context.Context, user *entity.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return 0, errDB
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, errorvalues.ErrUserExists
		}
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users = append(r.users, &stored)
	return stored.ID, nil
}

func (r *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return false, errDB
	}
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUsersRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (r *fakeUsersRepo) FindByName(ctx context.Context, name string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == name })
}

func (r *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

type moodKey struct {
	uid int64
	day string
}

type fakeMoodsRepo struct {
	mu      sync.Mutex
	entries map[moodKey]entity.MoodEntry
	nextID  int64
	fail    bool
}

func newFakeMoodsRepo() *fakeMoodsRepo {
	return &fakeMoodsRepo{entries: make(map[moodKey]entity.MoodEntry)}
}

func (r *fakeMoodsRepo) Upsert(ctx context.Context, entry *entity.MoodEntry) (*entity.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	key := moodKey{entry.UserID, entry.Date.Format(time.DateOnly)}
	stored, ok := r.entries[key]
	if !ok {
		r.nextID++
		stored.ID = r.nextID
	}
	stored.UserID = entry.UserID
	stored.Date = entry.Date
	stored.Emoji = entry.Emoji
	stored.Score = entry.Score
	stored.Note = entry.Note
	r.entries[key] = stored
	return &stored, nil
}

func (r *fakeMoodsRepo) GetByUserAndDate(ctx context.Context, uid int64, date time.Time) (*entity.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	e, ok := r.entries[moodKey{uid, date.Format(time.DateOnly)}]
	if !ok {
		return nil, errorvalues.ErrMoodNotFound
	}
	return &e, nil
}

func (r *fakeMoodsRepo) GetByUserAndDateRange(ctx context.Context, uid int64, from, to time.Time) ([]entity.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	var out []entity.MoodEntry
	for _, e := range r.entries {
		if e.UserID == uid && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeMoodsRepo) ListScoresByUser(ctx context.Context, uid int64) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	var scores []int
	for _, e := range r.entries {
		if e.UserID == uid {
			scores = append(scores, e.Score)
		}
	}
	return scores, nil
}

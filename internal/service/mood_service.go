package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/mood"
	"github.com/limbo/moodlog/internal/repository"
	"github.com/limbo/moodlog/pkg/entity"
)

type MoodService struct {
	repo repository.MoodsRepositoryI
	now  func() time.Time
}

type MoodServiceOption func(*MoodService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) MoodServiceOption {
	return func(ms *MoodService) {
		ms.now = now
	}
}

func NewMoodService(moodsRepo repository.MoodsRepositoryI, opts ...MoodServiceOption) *MoodService {
	ms := &MoodService{
		repo: moodsRepo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

func (ms *MoodService) today() time.Time {
	return mood.Day(ms.now())
}

func (ms *MoodService) LogMood(ctx context.Context, uid int64, req LogMoodRequest) (*entity.MoodEntry, error) {
	score, err := mood.ScoreFromEmoji(req.Emoji)
	if err != nil {
		return nil, err
	}
	entry, err := ms.repo.Upsert(ctx, &entity.MoodEntry{
		UserID: uid,
		Date:   ms.today(),
		Emoji:  req.Emoji,
		Score:  score,
		Note:   req.Note,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository upsert error: %w", err)
	}
	return entry, nil
}

func (ms *MoodService) GetTodayMood(ctx context.Context, uid int64) (*entity.MoodEntry, error) {
	entry, err := ms.repo.GetByUserAndDate(ctx, uid, ms.today())
	if err != nil {
		if errors.Is(err, errorvalues.ErrMoodNotFound) {
			return nil, errorvalues.ErrMoodNotFound
		}
		return nil, fmt.Errorf("repository searching error: %w", err)
	}
	return entry, nil
}

func (ms *MoodService) GetLastSevenDays(ctx context.Context, uid int64) ([]entity.MoodEntry, error) {
	today := ms.today()
	entries, err := ms.repo.GetByUserAndDateRange(ctx, uid, mood.WindowStart(today), today)
	if err != nil {
		return nil, fmt.Errorf("repository range error: %w", err)
	}
	return mood.FillWeek(entries, today), nil
}

func (ms *MoodService) GetStats(ctx context.Context, uid int64) (entity.MoodStats, error) {
	scores, err := ms.repo.ListScoresByUser(ctx, uid)
	if err != nil {
		return entity.MoodStats{}, fmt.Errorf("repository listing error: %w", err)
	}
	return mood.Summarize(scores), nil
}

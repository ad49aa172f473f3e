package service_test

import (
	"context"
	"testing"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/mood"
	"github.com/limbo/moodlog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLogMoodOverwritesSameDay(t *testing.T) {
	repo := newFakeMoodsRepo()
	now := time.Date(2024, time.March, 10, 22, 15, 0, 0, time.UTC)
	ms := service.NewMoodService(repo, service.WithClock(fixedClock(now)))
	ctx := context.Background()

	note := "long day"
	first, err := ms.LogMood(ctx, 1, service.LogMoodRequest{Emoji: mood.EmojiCrying, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Score)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), first.Date)

	second, err := ms.LogMood(ctx, 1, service.LogMoodRequest{Emoji: mood.EmojiBigSmile})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	today, err := ms.GetTodayMood(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, mood.EmojiBigSmile, today.Emoji)
	assert.Equal(t, 9, today.Score)
	assert.Nil(t, today.Note)

	stats, err := ms.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stats.AverageScore)
	assert.Equal(t, 1, stats.HappyDays)
}

func TestLogMoodUsesUTCDay(t *testing.T) {
	repo := newFakeMoodsRepo()
	tz := time.FixedZone("UTC+3", 3*60*60)
	// 01:30 local is still the previous day in UTC
	now := time.Date(2024, time.March, 11, 1, 30, 0, 0, tz)
	ms := service.NewMoodService(repo, service.WithClock(fixedClock(now)))
	entry, err := ms.LogMood(context.Background(), 1, service.LogMoodRequest{Emoji: mood.EmojiNeutral})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), entry.Date)
}

func TestLogMoodInvalidEmoji(t *testing.T) {
	repo := newFakeMoodsRepo()
	ms := service.NewMoodService(repo)
	_, err := ms.LogMood(context.Background(), 1, service.LogMoodRequest{Emoji: "🤖"})
	assert.ErrorIs(t, err, errorvalues.ErrInvalidEmoji)
	assert.Empty(t, repo.entries)
}

func TestGetTodayMoodNotFound(t *testing.T) {
	ms := service.NewMoodService(newFakeMoodsRepo())
	_, err := ms.GetTodayMood(context.Background(), 1)
	assert.ErrorIs(t, err, errorvalues.ErrMoodNotFound)
}

func TestGetLastSevenDays(t *testing.T) {
	repo := newFakeMoodsRepo()
	ctx := context.Background()
	today := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	logOn := func(day time.Time, emoji string) {
		ms := service.NewMoodService(repo, service.WithClock(fixedClock(day)))
		_, err := ms.LogMood(ctx, 1, service.LogMoodRequest{Emoji: emoji})
		require.NoError(t, err)
	}
	logOn(today, mood.EmojiSmile)
	logOn(today.AddDate(0, 0, -2), mood.EmojiFrowning)
	logOn(today.AddDate(0, 0, -6), mood.EmojiCrying)
	logOn(today.AddDate(0, 0, -7), mood.EmojiBigSmile)

	ms := service.NewMoodService(repo, service.WithClock(fixedClock(today)))
	week, err := ms.GetLastSevenDays(ctx, 1)
	require.NoError(t, err)
	require.Len(t, week, 7)
	emojis := make([]string, 0, 7)
	for _, e := range week {
		emojis = append(emojis, e.Emoji)
	}
	assert.Equal(t, []string{
		mood.EmojiCrying, mood.EmojiUnknown, mood.EmojiUnknown, mood.EmojiUnknown,
		mood.EmojiFrowning, mood.EmojiUnknown, mood.EmojiSmile,
	}, emojis)

	other, err := ms.GetLastSevenDays(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 7)
	for _, e := range other {
		assert.Equal(t, 0, e.Score)
	}
}

func TestGetStats(t *testing.T) {
	repo := newFakeMoodsRepo()
	ctx := context.Background()
	start := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i, emoji := range []string{
		mood.EmojiBigSmile, mood.EmojiBigSmile, mood.EmojiCrying, mood.EmojiCrying,
		mood.EmojiNeutral, mood.EmojiSmile, mood.EmojiFrowning,
	} {
		ms := service.NewMoodService(repo, service.WithClock(fixedClock(start.AddDate(0, 0, i*10))))
		_, err := ms.LogMood(ctx, 1, service.LogMoodRequest{Emoji: emoji})
		require.NoError(t, err)
	}
	ms := service.NewMoodService(repo)
	stats, err := ms.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stats.AverageScore)
	assert.Equal(t, 3, stats.HappyDays)
	assert.Equal(t, 3, stats.SadDays)

	empty, err := ms.GetStats(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestMoodServiceRepositoryErrors(t *testing.T) {
	repo := newFakeMoodsRepo()
	repo.fail = true
	ms := service.NewMoodService(repo)
	ctx := context.Background()
	_, err := ms.LogMood(ctx, 1, service.LogMoodRequest{Emoji: mood.EmojiNeutral})
	assert.Error(t, err)
	_, err = ms.GetTodayMood(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errorvalues.ErrMoodNotFound)
	_, err = ms.GetLastSevenDays(ctx, 1)
	assert.Error(t, err)
	_, err = ms.GetStats(ctx, 1)
	assert.Error(t, err)
}

package mood_test

import (
	"testing"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/mood"
	"github.com/limbo/moodlog/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFromEmoji(t *testing.T) {
	testCases := []struct {
		Emoji string
		Score int
	}{
		{Emoji: "😢", Score: 1},
		{Emoji: "🙁", Score: 3},
		{Emoji: "😐", Score: 5},
		{Emoji: "🙂", Score: 7},
		{Emoji: "😄", Score: 9},
	}
	for _, tc := range testCases {
		t.Run(tc.Emoji, func(t *testing.T) {
			score, err := mood.ScoreFromEmoji(tc.Emoji)
			require.NoError(t, err)
			assert.Equal(t, tc.Score, score)
		})
	}
	for _, bad := range []string{"", "😊", "❓", ":)", "😄😄"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := mood.ScoreFromEmoji(bad)
			assert.ErrorIs(t, err, errorvalues.ErrInvalidEmoji)
		})
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		Score  int
		Bucket mood.Bucket
	}{
		{0, mood.Sad},
		{1, mood.Sad},
		{2, mood.Sad},
		{3, mood.Frown},
		{4, mood.Frown},
		{5, mood.Neutral},
		{6, mood.Smile},
		{7, mood.Smile},
		{8, mood.Happy},
		{9, mood.Happy},
		{10, mood.Happy},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.Bucket, mood.Classify(tc.Score), "score %d", tc.Score)
	}
	assert.Equal(t, "frown", mood.Frown.String())
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, entity.MoodStats{}, mood.Summarize(nil))
	})
	t.Run("mixed week", func(t *testing.T) {
		stats := mood.Summarize([]int{9, 9, 1, 1, 5, 7, 3})
		assert.Equal(t, entity.MoodStats{AverageScore: 5, HappyDays: 3, SadDays: 3}, stats)
	})
	t.Run("rounding to two decimals", func(t *testing.T) {
		stats := mood.Summarize([]int{9, 7, 7})
		assert.Equal(t, 7.67, stats.AverageScore)
		assert.Equal(t, 3, stats.HappyDays)
		assert.Equal(t, 0, stats.SadDays)
	})
	t.Run("neutral counts nowhere", func(t *testing.T) {
		stats := mood.Summarize([]int{5, 5})
		assert.Equal(t, entity.MoodStats{AverageScore: 5}, stats)
	})
}

func TestFillWeek(t *testing.T) {
	today := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)
	note := "walked"
	entries := []entity.MoodEntry{
		{ID: 2, Date: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), Emoji: mood.EmojiBigSmile, Score: 9, Note: &note},
		{ID: 1, Date: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), Emoji: mood.EmojiCrying, Score: 1},
		{ID: 3, Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Emoji: mood.EmojiSmile, Score: 7},
	}
	week := mood.FillWeek(entries, today)
	require.Len(t, week, mood.WindowDays)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), week[0].Date)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), week[6].Date)
	for i := 1; i < len(week); i++ {
		assert.True(t, week[i-1].Date.Before(week[i].Date))
	}
	assert.Equal(t, 1, week[0].Score)
	assert.Equal(t, mood.EmojiBigSmile, week[6].Emoji)
	assert.Equal(t, &note, week[6].Note)
	for _, e := range week[1:6] {
		assert.Equal(t, mood.EmojiUnknown, e.Emoji)
		assert.Equal(t, 0, e.Score)
		assert.Nil(t, e.Note)
	}
}

func TestFillWeekEmpty(t *testing.T) {
	week := mood.FillWeek(nil, time.Now())
	require.Len(t, week, mood.WindowDays)
	for _, e := range week {
		assert.Equal(t, mood.EmojiUnknown, e.Emoji)
	}
}

// Package mood holds the scoring rules of the journal: the closed emoji
// set, score buckets, lifetime statistics and the 7-day window.
package mood

import (
	"fmt"
	"math"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/pkg/entity"
)

const (
	EmojiCrying     = "\U0001F622"
	EmojiFrowning   = "\U0001F641"
	EmojiNeutral    = "\U0001F610"
	EmojiSmile      = "\U0001F642"
	EmojiBigSmile   = "\U0001F604"
	EmojiUnknown    = "❓"
	WindowDays      = 7
	dayKeyLayout    = "2006-01-02"
	unknownDayScore = 0
)

var scores = map[string]int{
	EmojiCrying:   1,
	EmojiFrowning: 3,
	EmojiNeutral:  5,
	EmojiSmile:    7,
	EmojiBigSmile: 9,
}

func ScoreFromEmoji(emoji string) (int, error) {
	score, ok := scores[emoji]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errorvalues.ErrInvalidEmoji, emoji)
	}
	return score, nil
}

type Bucket int

const (
	Sad Bucket = iota
	Frown
	Neutral
	Smile
	Happy
)

func (b Bucket) String() string {
	switch b {
	case Sad:
		return "sad"
	case Frown:
		return "frown"
	case Neutral:
		return "neutral"
	case Smile:
		return "smile"
	case Happy:
		return "happy"
	}
	return "unknown"
}

// Classify maps a score onto a bucket. Only an exact 5 is neutral, so 4
// lands in Frown and 2 in Sad.
func Classify(score int) Bucket {
	switch {
	case score >= 8:
		return Happy
	case score >= 6:
		return Smile
	case score == 5:
		return Neutral
	case score >= 3:
		return Frown
	default:
		return Sad
	}
}

// Summarize computes lifetime statistics. The average is rounded to two
// decimals with round-half-to-even.
func Summarize(scores []int) entity.MoodStats {
	if len(scores) == 0 {
		return entity.MoodStats{}
	}
	var stats entity.MoodStats
	total := 0
	for _, s := range scores {
		total += s
		switch Classify(s) {
		case Happy, Smile:
			stats.HappyDays++
		case Sad, Frown:
			stats.SadDays++
		}
	}
	avg := float64(total) / float64(len(scores))
	stats.AverageScore = math.RoundToEven(avg*100) / 100
	return stats
}

// Day truncates t to midnight UTC of its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowStart is the first day of the 7-day window ending on today.
func WindowStart(today time.Time) time.Time {
	return Day(today).AddDate(0, 0, -(WindowDays - 1))
}

// FillWeek returns exactly WindowDays entries, oldest first, for the days
// ending on today. Days without an entry get the unknown emoji and score 0.
// Entries outside the window are ignored.
func FillWeek(entries []entity.MoodEntry, today time.Time) []entity.MoodEntry {
	byDay := make(map[string]entity.MoodEntry, len(entries))
	for _, e := range entries {
		byDay[Day(e.Date).Format(dayKeyLayout)] = e
	}
	start := WindowStart(today)
	week := make([]entity.MoodEntry, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		day := start.AddDate(0, 0, i)
		if e, ok := byDay[day.Format(dayKeyLayout)]; ok {
			e.Date = day
			week = append(week, e)
			continue
		}
		week = append(week, entity.MoodEntry{
			Date:  day,
			Emoji: EmojiUnknown,
			Score: unknownDayScore,
		})
	}
	return week
}

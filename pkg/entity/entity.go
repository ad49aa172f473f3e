package entity

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MoodEntry is one user's mood on one UTC calendar day. Date is always
// truncated to midnight UTC.
type MoodEntry struct {
	ID     int64
	UserID int64
	Date   time.Time
	Emoji  string
	Score  int
	Note   *string
}

type MoodStats struct {
	AverageScore float64 `json:"averageScore"`
	HappyDays    int     `json:"happyDays"`
	SadDays      int     `json:"sadDays"`
}

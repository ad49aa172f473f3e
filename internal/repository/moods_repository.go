package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/pkg/entity"
)

const moodColumns = `id, user_id, mood_date, emoji, score, note`

type MoodsRepository struct {
	conn PgConnection
}

func NewMoodsRepo(conn PgConnection) *MoodsRepository {
	return &MoodsRepository{
		conn: conn,
	}
}

// Upsert locks the (user, day) row when it exists and overwrites it. When it
// doesn't, the insert falls back to ON CONFLICT so two concurrent first logs
// of the same day still end up as one row.
func (mr *MoodsRepository) Upsert(ctx context.Context, entry *entity.MoodEntry) (result *entity.MoodEntry, err error) {
	if entry == nil {
		return nil, errors.New("mood entry is nil")
	}
	tx, err := mr.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning upsert tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var existingID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM moods WHERE user_id = $1 AND mood_date = $2 FOR UPDATE;`,
		entry.UserID, entry.Date,
	).Scan(&existingID)
	var row pgx.Row
	switch {
	case err == nil:
		row = tx.QueryRow(ctx,
			`UPDATE moods SET emoji = $1, score = $2, note = $3, updated_at = now() WHERE id = $4 RETURNING `+moodColumns+`;`,
			entry.Emoji, entry.Score, entry.Note, existingID,
		)
	case errors.Is(err, pgx.ErrNoRows):
		row = tx.QueryRow(ctx,
			`INSERT INTO moods (user_id, mood_date, emoji, score, note) VALUES ($1, $2, $3, $4, $5) `+
				`ON CONFLICT (user_id, mood_date) DO UPDATE SET emoji = EXCLUDED.emoji, score = EXCLUDED.score, note = EXCLUDED.note, updated_at = now() `+
				`RETURNING `+moodColumns+`;`,
			entry.UserID, entry.Date, entry.Emoji, entry.Score, entry.Note,
		)
	default:
		return nil, fmt.Errorf("locking mood row error: %w", err)
	}

	saved, err := scanMood(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("saving mood error: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing mood error: %w", err)
	}
	return saved, nil
}

func (mr *MoodsRepository) GetByUserAndDate(ctx context.Context, uid int64, date time.Time) (*entity.MoodEntry, error) {
	row := mr.conn.QueryRow(ctx,
		`SELECT `+moodColumns+` FROM moods WHERE user_id = $1 AND mood_date = $2;`,
		uid, date,
	)
	entry, err := scanMood(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrMoodNotFound
		}
		return nil, fmt.Errorf("getting mood by date error: %w", err)
	}
	return entry, nil
}

func (mr *MoodsRepository) GetByUserAndDateRange(ctx context.Context, uid int64, from, to time.Time) ([]entity.MoodEntry, error) {
	rows, err := mr.conn.Query(ctx,
		`SELECT `+moodColumns+` FROM moods WHERE user_id = $1 AND mood_date >= $2 AND mood_date <= $3 ORDER BY mood_date;`,
		uid, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("getting moods for period error: %w", err)
	}
	defer rows.Close()
	result := make([]entity.MoodEntry, 0, 7)
	for rows.Next() {
		entry, err := scanMood(rows)
		if err != nil {
			return nil, fmt.Errorf("mood row parsing error: %w", err)
		}
		result = append(result, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected mood rows error: %w", err)
	}
	return result, nil
}

func (mr *MoodsRepository) ListScoresByUser(ctx context.Context, uid int64) ([]int, error) {
	rows, err := mr.conn.Query(ctx, `SELECT score FROM moods WHERE user_id = $1;`, uid)
	if err != nil {
		return nil, fmt.Errorf("listing scores error: %w", err)
	}
	defer rows.Close()
	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("score row parsing error: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected score rows error: %w", err)
	}
	return scores, nil
}

func scanMood(row pgx.Row) (*entity.MoodEntry, error) {
	var entry entity.MoodEntry
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Date, &entry.Emoji, &entry.Score, &entry.Note); err != nil {
		return nil, err
	}
	entry.Date = entry.Date.UTC()
	return &entry, nil
}

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Entry is one leaderboard row as returned to clients.
type Entry struct {
	ParticipantName string    `db:"participant_name" json:"participant_name"`
	SubmissionTag   string    `db:"submission_tag" json:"submission_tag"`
	Timestamp       time.Time `db:"timestamp" json:"timestamp"`
	Score           float64   `db:"score" json:"score"`
	Rank            int       `db:"rank" json:"rank"`
}

// Store manages the leaderboard table. One row per (participant, tag);
// resubmitting the same tag replaces the previous score.
type Store struct {
	db *sqlx.DB

	initOnce sync.Once
	initErr  error
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS leaderboard (
				id SERIAL PRIMARY KEY,
				participant_name VARCHAR(255) NOT NULL,
				submission_tag VARCHAR(100) NOT NULL,
				timestamp TIMESTAMPTZ NOT NULL,
				score FLOAT NOT NULL,
				UNIQUE(participant_name, submission_tag)
			)`)
		if err != nil {
			s.initErr = fmt.Errorf("create leaderboard table: %w", err)
			return
		}

		_, err = s.db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_leaderboard_score
			ON leaderboard(score DESC)`)
		if err != nil {
			s.initErr = fmt.Errorf("create leaderboard index: %w", err)
		}
	})
	return s.initErr
}

// Update upserts a participant's score for the given submission tag.
func (s *Store) Update(ctx context.Context, participantName, submissionTag string, score float64) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (participant_name, submission_tag, timestamp, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (participant_name, submission_tag)
		DO UPDATE SET score = EXCLUDED.score, timestamp = EXCLUDED.timestamp`,
		participantName, submissionTag, time.Now().UTC(), score,
	)
	if err != nil {
		return fmt.Errorf("upsert leaderboard entry: %w", err)
	}

	log.Debug().
		Str("participant", participantName).
		Str("tag", submissionTag).
		Float64("score", score).
		Msg("leaderboard updated")
	return nil
}

// Top returns up to limit entries ordered by score with dense SQL ranks.
func (s *Store) Top(ctx context.Context, limit int) ([]Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	entries := []Entry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT
			participant_name,
			submission_tag,
			timestamp,
			score,
			RANK() OVER (ORDER BY score DESC) AS rank
		FROM leaderboard
		ORDER BY score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return entries, nil
}

// ParticipantRank returns the 1-indexed rank of a participant, or 0 when
// the participant has no entry.
func (s *Store) ParticipantRank(ctx context.Context, participantName string) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}

	var rank int
	err := s.db.GetContext(ctx, &rank, `
		WITH ranked AS (
			SELECT participant_name, RANK() OVER (ORDER BY score DESC) AS rank
			FROM leaderboard
		)
		SELECT rank FROM ranked WHERE participant_name = $1 LIMIT 1`,
		participantName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query participant rank: %w", err)
	}

	return rank, nil
}

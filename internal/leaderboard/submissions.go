package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// SubmissionRecord captures one evaluated submission with its per-test
// breakdown for later analysis.
type SubmissionRecord struct {
	UserName        string
	SubmissionTag   string
	FinalScore      float64
	LeaderboardRank int
	TestScores      map[string]float64
}

// SubmissionsStore keeps the history of evaluated submissions. Recording is
// best-effort: callers log failures and carry on.
type SubmissionsStore struct {
	db *sqlx.DB

	initOnce sync.Once
	initErr  error
}

func NewSubmissionsStore(db *sqlx.DB) *SubmissionsStore {
	return &SubmissionsStore{db: db}
}

func (s *SubmissionsStore) ensureSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS user_submissions (
				id SERIAL PRIMARY KEY,
				timestamp TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				user_name VARCHAR(255) NOT NULL,
				submission_tag VARCHAR(255) NOT NULL,
				final_score DECIMAL(6,3) NOT NULL,
				leaderboard_rank INTEGER,
				test_1_score DECIMAL(6,3),
				test_2_score DECIMAL(6,3),
				test_3_score DECIMAL(6,3),
				test_4_score DECIMAL(6,3),
				test_5_score DECIMAL(6,3),
				test_6_score DECIMAL(6,3),
				test_7_score DECIMAL(6,3),
				test_8_score DECIMAL(6,3),
				test_9_score DECIMAL(6,3),
				test_10_score DECIMAL(6,3),
				UNIQUE(user_name, submission_tag)
			)`)
		if err != nil {
			s.initErr = fmt.Errorf("create user_submissions table: %w", err)
		}
	})
	return s.initErr
}

// Record upserts a submission record. A test absent from TestScores stores
// NULL in its column.
func (s *SubmissionsStore) Record(ctx context.Context, rec SubmissionRecord) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	args := []any{rec.UserName, rec.SubmissionTag, time.Now().UTC(), rec.FinalScore, rec.LeaderboardRank}
	for i := 1; i <= 10; i++ {
		if score, ok := rec.TestScores[fmt.Sprintf("test_%d", i)]; ok {
			args = append(args, score)
		} else {
			args = append(args, nil)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_submissions (
			user_name, submission_tag, timestamp, final_score, leaderboard_rank,
			test_1_score, test_2_score, test_3_score, test_4_score, test_5_score,
			test_6_score, test_7_score, test_8_score, test_9_score, test_10_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_name, submission_tag) DO UPDATE SET
			timestamp = EXCLUDED.timestamp,
			final_score = EXCLUDED.final_score,
			leaderboard_rank = EXCLUDED.leaderboard_rank,
			test_1_score = EXCLUDED.test_1_score,
			test_2_score = EXCLUDED.test_2_score,
			test_3_score = EXCLUDED.test_3_score,
			test_4_score = EXCLUDED.test_4_score,
			test_5_score = EXCLUDED.test_5_score,
			test_6_score = EXCLUDED.test_6_score,
			test_7_score = EXCLUDED.test_7_score,
			test_8_score = EXCLUDED.test_8_score,
			test_9_score = EXCLUDED.test_9_score,
			test_10_score = EXCLUDED.test_10_score`,
		args...)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}

	log.Debug().
		Str("user", rec.UserName).
		Str("tag", rec.SubmissionTag).
		Float64("final_score", rec.FinalScore).
		Msg("submission recorded")
	return nil
}

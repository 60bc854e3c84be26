package server

import (
	"context"

	"github.com/vehiclebench/vehiclebench/internal/dataset"
	"github.com/vehiclebench/vehiclebench/internal/leaderboard"
)

// LeaderboardStore is the slice of the leaderboard store the server needs.
type LeaderboardStore interface {
	Update(ctx context.Context, participantName, submissionTag string, score float64) error
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
	ParticipantRank(ctx context.Context, participantName string) (int, error)
}

// SubmissionsRecorder records evaluated submissions, best-effort.
type SubmissionsRecorder interface {
	Record(ctx context.Context, rec leaderboard.SubmissionRecord) error
}

// TestDataProvider issues the deterministic per-test record sets.
type TestDataProvider interface {
	GenerateTestData(participantName, submissionTag string) map[string][]dataset.VehicleConfig
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// TestDataResponse is returned by GET /api/test-data.
type TestDataResponse struct {
	TestDataID string                             `json:"test_data_id"`
	Tests      map[string][]dataset.VehicleConfig `json:"tests"`
}

// SubmitRequest is the payload for POST /api/submit-results.
type SubmitRequest struct {
	ParticipantName string         `json:"participant_name"`
	SubmissionTag   string         `json:"submission_tag"`
	Results         map[string]any `json:"results"`
	TestDataID      string         `json:"test_data_id"`
}

// SubmitResponse is returned on a successful evaluation.
type SubmitResponse struct {
	Status            string             `json:"status"`
	Score             float64            `json:"score"`
	Rank              int                `json:"rank"`
	EvaluationDetails map[string]float64 `json:"evaluation_details"`
	Message           string             `json:"message"`
}

// SubmitErrorResponse is returned when evaluation rejects a submission.
type SubmitErrorResponse struct {
	Status string  `json:"status"`
	Error  string  `json:"error"`
	Score  float64 `json:"score"`
}

// LeaderboardResponse is returned by GET /api/leaderboard.
type LeaderboardResponse struct {
	Status            string              `json:"status"`
	Leaderboard       []leaderboard.Entry `json:"leaderboard"`
	TotalParticipants int                 `json:"total_participants"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

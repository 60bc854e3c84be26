// Package server exposes the evaluator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vehiclebench/vehiclebench/internal/config"
	"github.com/vehiclebench/vehiclebench/internal/evaluation"
	"github.com/vehiclebench/vehiclebench/internal/leaderboard"
)

const serviceName = "hackathon-evaluator"

const defaultLeaderboardLimit = 100

type Server struct {
	app         *fiber.App
	cfg         config.ServerEnvConfig
	engine      *evaluation.Engine
	provider    TestDataProvider
	leaderboard LeaderboardStore
	submissions SubmissionsRecorder
}

func New(
	cfg config.ServerEnvConfig,
	engine *evaluation.Engine,
	provider TestDataProvider,
	lb LeaderboardStore,
	submissions SubmissionsRecorder,
) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: fiberErrHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    cfg.BodySizeLimit,
	})

	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(ZstdMiddleware())

	s := &Server{
		app:         app,
		cfg:         cfg,
		engine:      engine,
		provider:    provider,
		leaderboard: lb,
		submissions: submissions,
	}

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/test-data", s.handleTestData)
	api.Post("/submit-results", s.handleSubmitResults)
	api.Get("/leaderboard", s.handleLeaderboard)

	return s
}

func fiberErrHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", c.Path()).
		Str("method", c.Method()).
		Msg("request failed")

	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("evaluator service listening")
		if err := s.app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server listen failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down evaluator service")
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	})
}

func (s *Server) handleTestData(c *fiber.Ctx) error {
	participantName := c.Query("participant_name")
	submissionTag := c.Query("submission_tag", "default")

	if participantName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "participant_name parameter required",
		})
	}

	tests := s.provider.GenerateTestData(participantName, submissionTag)

	return c.JSON(TestDataResponse{
		TestDataID: uuid.NewString(),
		Tests:      tests,
	})
}

func (s *Server) handleSubmitResults(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "JSON payload required"})
	}

	var missing []string
	if req.ParticipantName == "" {
		missing = append(missing, "participant_name")
	}
	if req.SubmissionTag == "" {
		missing = append(missing, "submission_tag")
	}
	if req.Results == nil {
		missing = append(missing, "results")
	}
	if req.TestDataID == "" {
		missing = append(missing, "test_data_id")
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("Missing required fields: [%s]", strings.Join(missing, ", ")),
		})
	}

	result := s.engine.EvaluateSubmission(req.Results)
	if !result.Valid {
		log.Warn().
			Str("participant", req.ParticipantName).
			Str("error", result.Error).
			Msg("submission rejected")
		return c.Status(fiber.StatusBadRequest).JSON(SubmitErrorResponse{
			Status: "error",
			Error:  result.Error,
			Score:  0.0,
		})
	}

	ctx := c.Context()
	if err := s.leaderboard.Update(ctx, req.ParticipantName, req.SubmissionTag, result.Score); err != nil {
		log.Error().Err(err).Msg("leaderboard update failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: fmt.Sprintf("Evaluation failed: %s", err.Error()),
		})
	}

	rank, err := s.leaderboard.ParticipantRank(ctx, req.ParticipantName)
	if err != nil {
		log.Error().Err(err).Msg("rank lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: fmt.Sprintf("Evaluation failed: %s", err.Error()),
		})
	}

	// Submission history is best-effort: a storage failure must not fail
	// the evaluation the participant already earned.
	if err := s.submissions.Record(ctx, leaderboard.SubmissionRecord{
		UserName:        req.ParticipantName,
		SubmissionTag:   req.SubmissionTag,
		FinalScore:      result.Score,
		LeaderboardRank: rank,
		TestScores:      result.TestScores,
	}); err != nil {
		log.Warn().Err(err).Str("participant", req.ParticipantName).Msg("could not record submission")
	}

	log.Info().
		Str("participant", req.ParticipantName).
		Str("tag", req.SubmissionTag).
		Float64("score", result.Score).
		Int("rank", rank).
		Msg("submission evaluated")

	return c.JSON(SubmitResponse{
		Status:            "success",
		Score:             result.Score,
		Rank:              rank,
		EvaluationDetails: result.TestScores,
		Message:           fmt.Sprintf("Submission successful! Score: %.3f", result.Score),
	})
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLeaderboardLimit)
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.leaderboard.Top(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: fmt.Sprintf("Failed to get leaderboard: %s", err.Error()),
		})
	}

	return c.JSON(LeaderboardResponse{
		Status:            "success",
		Leaderboard:       entries,
		TotalParticipants: len(entries),
	})
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/vehiclebench/vehiclebench/internal/config"
	"github.com/vehiclebench/vehiclebench/internal/dataset"
	"github.com/vehiclebench/vehiclebench/internal/evaluation"
	"github.com/vehiclebench/vehiclebench/internal/leaderboard"
	"github.com/vehiclebench/vehiclebench/internal/server"
	"github.com/vehiclebench/vehiclebench/internal/testcases"
	"github.com/vehiclebench/vehiclebench/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting evaluator service...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	weights, thresholds, err := config.LoadEvaluationConfig(cfg.EvaluationConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load evaluation configuration")
	}

	engine := evaluation.NewEngine(
		evaluation.WithWeights(weights),
		evaluation.WithThresholds(thresholds),
	)

	data, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load vehicle dataset")
	}

	provider, err := testcases.NewProvider(cfg.Seed, data)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init test data provider")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := leaderboard.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	srv := server.New(
		cfg.ServerEnvConfig,
		engine,
		provider,
		leaderboard.NewStore(db),
		leaderboard.NewSubmissionsStore(db),
	)

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("evaluator service stopped")
}

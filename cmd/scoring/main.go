package main

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/vehiclebench/vehiclebench/internal/config"
	"github.com/vehiclebench/vehiclebench/internal/evaluation"
	"github.com/vehiclebench/vehiclebench/internal/utils/logger"
)

// Scores a submission results file offline, without the HTTP server or
// database. Useful for debugging embedding pipelines locally:
//
//	go run ./cmd/scoring results.json
func main() {
	logger.Init()

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: scoring <results.json>")
	}
	path := os.Args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	weights, thresholds, err := config.LoadEvaluationConfig(cfg.EvaluationConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load evaluation configuration")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read results file")
	}

	var results map[string]any
	if err := sonic.Unmarshal(raw, &results); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("results file is not valid JSON")
	}

	engine := evaluation.NewEngine(
		evaluation.WithWeights(weights),
		evaluation.WithThresholds(thresholds),
	)

	result := engine.EvaluateSubmission(results)
	if !result.Valid {
		log.Fatal().Str("error", result.Error).Msg("submission rejected")
	}

	for _, id := range evaluation.AllTestIDs() {
		score, ok := result.TestScores[id.String()]
		if !ok {
			log.Warn().Str("test", id.String()).Msg("test missing from submission")
			continue
		}
		log.Info().Str("test", id.String()).Float64("score", score).Msg("test scored")
	}

	log.Info().Float64("final_score", result.Score).Msg("submission scored")
}

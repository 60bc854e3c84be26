package main

import (
	"flag"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vehiclebench/vehiclebench/internal/client"
	"github.com/vehiclebench/vehiclebench/internal/dataset"
	"github.com/vehiclebench/vehiclebench/internal/server"
	"github.com/vehiclebench/vehiclebench/internal/utils/logger"
)

const embeddingDim = 64

// Runs the full participant workflow against a live server: fetch test
// data, embed every vehicle config with a mock encoder, submit, and read
// the leaderboard back.
func main() {
	logger.Init()

	baseURL := flag.String("base", "http://localhost:5001", "evaluator base URL")
	participant := flag.String("participant", "smoke-tester", "participant name")
	tag := flag.String("tag", "smoke", "submission tag")
	flag.Parse()

	c, err := client.New(*baseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build client")
	}

	health, err := c.Health()
	if err != nil {
		log.Fatal().Err(err).Msg("health check failed")
	}
	log.Info().Str("service", health.Service).Str("status", health.Status).Msg("server healthy")

	testData, err := c.FetchTestData(*participant, *tag)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch test data")
	}
	log.Info().Str("test_data_id", testData.TestDataID).Int("tests", len(testData.Tests)).Msg("fetched test data")

	processed := make(map[string]any, len(testData.Tests))
	for name, configs := range testData.Tests {
		embeddings := make([][]float64, 0, len(configs))
		configIDs := make([]string, 0, len(configs))
		for _, cfg := range configs {
			embeddings = append(embeddings, mockEmbedding(cfg))
			configIDs = append(configIDs, cfg.ConfigID)
		}
		processed[name] = map[string]any{
			"embeddings": embeddings,
			"config_ids": configIDs,
		}
	}

	results := map[string]any{
		"processed_data": processed,
		"metadata": map[string]any{
			"model":        "smoke-mock-encoder",
			"dimensions":   embeddingDim,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	}

	submitted, err := c.SubmitResults(server.SubmitRequest{
		ParticipantName: *participant,
		SubmissionTag:   *tag,
		Results:         results,
		TestDataID:      testData.TestDataID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("submission failed")
	}
	log.Info().
		Float64("score", submitted.Score).
		Int("rank", submitted.Rank).
		Msg(submitted.Message)
	for test, score := range submitted.EvaluationDetails {
		log.Info().Str("test", test).Float64("score", score).Msg("test scored")
	}

	board, err := c.Leaderboard()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch leaderboard")
	}
	for _, entry := range board.Leaderboard {
		log.Info().
			Int("rank", entry.Rank).
			Str("participant", entry.ParticipantName).
			Float64("score", entry.Score).
			Msg("leaderboard entry")
	}

	log.Info().Msg("smoke run complete")
}

// mockEmbedding fakes an encoder by hashing the descriptive fields of a
// config into stable directions and adding per-config noise. Configs that
// share a line, trim, or colour land closer together, which keeps the
// submission scores non-degenerate.
func mockEmbedding(cfg dataset.VehicleConfig) []float64 {
	v := make([]float64, embeddingDim)

	fields := []struct {
		value  string
		weight float64
	}{
		{cfg.VehicleLine, 3.0},
		{cfg.Derivative, 2.0},
		{cfg.Trim, 1.5},
		{cfg.ExteriorColour, 1.0},
		{strconv.Itoa(cfg.ModelYear), 1.0},
	}
	for _, f := range fields {
		rng := rand.New(rand.NewSource(int64(hash64(f.value))))
		for i := range v {
			v[i] += f.weight * rng.NormFloat64()
		}
	}

	// Price contributes a shared direction scaled by magnitude.
	priceRng := rand.New(rand.NewSource(int64(hash64("price"))))
	for i := range v {
		v[i] += cfg.TotalPriceGBP / 100_000.0 * priceRng.NormFloat64()
	}

	noise := rand.New(rand.NewSource(int64(hash64(cfg.ConfigID))))
	for i := range v {
		v[i] += 0.25 * noise.NormFloat64()
	}

	return v
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

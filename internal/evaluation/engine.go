package evaluation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Engine evaluates embedding submissions against the ten fixed tests.
// Configuration is immutable after construction, so a single Engine is safe
// for concurrent use.
type Engine struct {
	weights    Weights
	thresholds Thresholds
}

type EngineOption func(*Engine)

func WithWeights(weights Weights) EngineOption {
	return func(e *Engine) {
		e.weights = weights
	}
}

func WithThresholds(thresholds Thresholds) EngineOption {
	return func(e *Engine) {
		e.thresholds = thresholds
	}
}

// NewEngine constructs an Engine with default weights and thresholds unless
// overridden by options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// EvaluateSubmission validates the submitted results, scores each test
// present in processed_data, and combines the per-test scores with the
// configured weights. A test that fails to evaluate records 0.0 without
// aborting the rest of the submission; tests absent from the submission
// contribute 0.0 while their weight is still spent.
func (e *Engine) EvaluateSubmission(results map[string]any) (out SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("submission evaluation panicked")
			out = SubmissionResult{
				Valid: false,
				Error: fmt.Sprintf("Evaluation error: %v", r),
				Score: 0.0,
			}
		}
	}()

	if err := validateSubmissionFormat(results); err != nil {
		return SubmissionResult{Valid: false, Error: err.Error(), Score: 0.0}
	}

	processedData, _ := results["processed_data"].(map[string]any)
	testScores := e.evaluateAllTests(processedData)

	var finalScore float64
	for _, id := range AllTestIDs() {
		finalScore += testScores[id.String()] * e.weights[id]
	}

	rounded := make(map[string]float64, len(testScores))
	for testID, score := range testScores {
		rounded[testID] = round3(score)
	}

	return SubmissionResult{
		Valid:      true,
		Score:      round3(finalScore),
		TestScores: rounded,
	}
}

func validateSubmissionFormat(results map[string]any) error {
	for _, field := range []string{"processed_data", "metadata"} {
		if _, ok := results[field]; !ok {
			return fmt.Errorf("Missing required field: %s", field)
		}
	}

	if _, ok := results["processed_data"].(map[string]any); !ok {
		return fmt.Errorf("processed_data must be a map")
	}

	return nil
}

// evaluateAllTests scores every test present in processed_data with a
// non-empty embeddings list. Conversion failures and non-finite evaluator
// output record 0.0 for that test only.
func (e *Engine) evaluateAllTests(processedData map[string]any) map[string]float64 {
	testScores := make(map[string]float64)

	for _, id := range AllTestIDs() {
		testResult, ok := processedData[id.String()].(map[string]any)
		if !ok {
			continue
		}

		raw, ok := testResult["embeddings"]
		if !ok || raw == nil {
			continue
		}
		if rows, isList := raw.([]any); isList && len(rows) == 0 {
			continue
		}

		embeddings, err := toEmbeddingSet(raw)
		if err != nil {
			log.Debug().Err(err).Str("test_id", id.String()).Msg("invalid embeddings, scoring 0")
			testScores[id.String()] = 0.0
			continue
		}

		score := e.evaluate(id, embeddings)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			score = 0.0
		}
		testScores[id.String()] = score
	}

	return testScores
}

// toEmbeddingSet converts the decoded JSON value into a rectangular set of
// vectors. Ragged rows, empty vectors and non-numeric entries are rejected.
func toEmbeddingSet(raw any) ([][]float64, error) {
	rows, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("embeddings must be a list of vectors")
	}

	embeddings := make([][]float64, 0, len(rows))
	width := -1

	for i, row := range rows {
		values, ok := row.([]any)
		if !ok {
			return nil, fmt.Errorf("embedding %d is not a vector", i)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		if width == -1 {
			width = len(values)
		} else if len(values) != width {
			return nil, fmt.Errorf("embedding %d has length %d, want %d", i, len(values), width)
		}

		vector := make([]float64, len(values))
		for j, v := range values {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("embedding %d element %d: %w", i, j, err)
			}
			vector[j] = f
		}
		embeddings = append(embeddings, vector)
	}

	return embeddings, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

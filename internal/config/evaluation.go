package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/vehiclebench/vehiclebench/internal/evaluation"
)

// EvaluationConfig holds the scoring weights and thresholds loaded from the
// evaluation YAML file. Weights are keyed by criterion name on disk.
type EvaluationConfig struct {
	TestWeights map[string]float64    `yaml:"test_weights"`
	Thresholds  evaluation.Thresholds `yaml:"thresholds"`
}

// criterionToTest maps the named criteria in the YAML file onto test ids.
var criterionToTest = map[string]evaluation.TestID{
	"price_extremes":            evaluation.TestPriceExtremes,
	"single_option_difference":  evaluation.TestSingleOptionDiff,
	"model_year_sensitivity":    evaluation.TestModelYearSensitivity,
	"color_sensitivity":         evaluation.TestColorSensitivity,
	"trim_level_similarity":     evaluation.TestTrimSimilarity,
	"vehicle_line_separation":   evaluation.TestVehicleLineSeparation,
	"derivative_clustering":     evaluation.TestDerivativeClustering,
	"feature_count_correlation": evaluation.TestFeatureCorrelation,
	"transitivity":              evaluation.TestTransitivity,
	"cross_year_comparison":     evaluation.TestCrossYear,
}

// LoadEvaluationConfig reads weights and thresholds from path. A missing
// file is not an error: defaults apply. A present but invalid file is.
func LoadEvaluationConfig(path string) (evaluation.Weights, evaluation.Thresholds, error) {
	weights := evaluation.DefaultWeights()
	thresholds := evaluation.DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("evaluation config not found, using defaults")
			return weights, thresholds, nil
		}
		return nil, evaluation.Thresholds{}, fmt.Errorf("read evaluation config: %w", err)
	}

	var cfg EvaluationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, evaluation.Thresholds{}, fmt.Errorf("parse evaluation config: %w", err)
	}

	for name, weight := range cfg.TestWeights {
		id, ok := criterionToTest[name]
		if !ok {
			return nil, evaluation.Thresholds{}, fmt.Errorf("unknown weight criterion %q", name)
		}
		if weight < 0 {
			return nil, evaluation.Thresholds{}, fmt.Errorf("weight %q must be non-negative", name)
		}
		weights[id] = weight
	}

	if cfg.Thresholds != (evaluation.Thresholds{}) {
		thresholds = cfg.Thresholds
	}

	if thresholds.LowSimilarity >= thresholds.HighSimilarity {
		return nil, evaluation.Thresholds{}, fmt.Errorf(
			"low_similarity (%v) must be below high_similarity (%v)",
			thresholds.LowSimilarity, thresholds.HighSimilarity,
		)
	}

	log.Info().Str("path", path).Msg("evaluation config loaded")
	return weights, thresholds, nil
}

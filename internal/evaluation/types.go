// Package evaluation scores participant embedding submissions against the
// ten fixed geometric test criteria.
package evaluation

import "fmt"

// TestID identifies one of the ten fixed embedding quality tests.
type TestID int

const (
	TestPriceExtremes TestID = iota + 1
	TestSingleOptionDiff
	TestModelYearSensitivity
	TestColorSensitivity
	TestTrimSimilarity
	TestVehicleLineSeparation
	TestDerivativeClustering
	TestFeatureCorrelation
	TestTransitivity
	TestCrossYear
)

// AllTestIDs lists every test in evaluation order.
func AllTestIDs() []TestID {
	return []TestID{
		TestPriceExtremes,
		TestSingleOptionDiff,
		TestModelYearSensitivity,
		TestColorSensitivity,
		TestTrimSimilarity,
		TestVehicleLineSeparation,
		TestDerivativeClustering,
		TestFeatureCorrelation,
		TestTransitivity,
		TestCrossYear,
	}
}

// String returns the wire identifier, e.g. "test_1".
func (t TestID) String() string {
	return fmt.Sprintf("test_%d", int(t))
}

// ParseTestID converts a wire identifier back into a TestID.
func ParseTestID(s string) (TestID, bool) {
	for _, id := range AllTestIDs() {
		if id.String() == s {
			return id, true
		}
	}
	return 0, false
}

// Thresholds holds the externally configurable similarity thresholds. The
// band edges embedded in individual tests are fixed constants and are not
// part of this struct.
type Thresholds struct {
	HighSimilarity      float64 `yaml:"high_similarity"`
	LowSimilarity       float64 `yaml:"low_similarity"`
	SingleOptionDiffMin float64 `yaml:"single_option_diff_min"`
}

// Weights maps each test to its contribution to the final score.
type Weights map[TestID]float64

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighSimilarity:      0.85,
		LowSimilarity:       0.30,
		SingleOptionDiffMin: 0.75,
	}
}

func DefaultWeights() Weights {
	return Weights{
		TestPriceExtremes:         0.15,
		TestSingleOptionDiff:      0.15,
		TestModelYearSensitivity:  0.10,
		TestColorSensitivity:      0.10,
		TestTrimSimilarity:        0.10,
		TestVehicleLineSeparation: 0.10,
		TestDerivativeClustering:  0.10,
		TestFeatureCorrelation:    0.10,
		TestTransitivity:          0.05,
		TestCrossYear:             0.05,
	}
}

// SubmissionResult is the outcome of evaluating a single submission.
// TestScores holds the per-test breakdown keyed by wire identifier and is
// only populated for tests present in the submission.
type SubmissionResult struct {
	Valid      bool               `json:"valid"`
	Score      float64            `json:"score"`
	Error      string             `json:"error,omitempty"`
	TestScores map[string]float64 `json:"test_scores,omitempty"`
}

package evaluation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pairWithSimilarity returns two unit vectors whose cosine similarity is sim.
func pairWithSimilarity(sim float64) [][]float64 {
	return [][]float64{
		{1, 0},
		{sim, math.Sqrt(1 - sim*sim)},
	}
}

// tripleWithSimilarities returns three unit vectors with the given pairwise
// cosine similarities, built by Cholesky factoring the Gram matrix.
func tripleWithSimilarities(simAB, simAC, simBC float64) [][]float64 {
	b2 := math.Sqrt(1 - simAB*simAB)
	c2 := (simBC - simAB*simAC) / b2
	c3 := math.Sqrt(1 - simAC*simAC - c2*c2)

	return [][]float64{
		{1, 0, 0},
		{simAB, b2, 0},
		{simAC, c2, c3},
	}
}

func TestPriceExtremesEvaluator(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name string
		sim  float64
		want float64
	}{
		{"orthogonal full score", 0.0, 1.0},
		{"at low boundary", 0.30, 1.0},
		{"midpoint", 0.575, 0.5},
		{"at high boundary", 0.85, 0.0},
		{"very similar", 0.95, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.evaluatePriceExtremes(pairWithSimilarity(tc.sim))
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestPriceExtremesWrongCardinality(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 0.0, e.evaluatePriceExtremes([][]float64{{1, 0}}))
	assert.Equal(t, 0.0, e.evaluatePriceExtremes([][]float64{{1, 0}, {0, 1}, {1, 1}}))
}

func TestSingleOptionDiffEvaluator(t *testing.T) {
	e := NewEngine()

	// A~B similar (0.80), A~C dissimilar (0.20), ranking correct.
	embeddings := tripleWithSimilarities(0.80, 0.20, 0.30)
	got := e.evaluateSingleOptionDiff(embeddings)
	// similar=1.0, different=1.0, ranking=1.0
	assert.InDelta(t, 1.0, got, 1e-6)

	// A~B below min threshold (0.60), A~C above low (0.50), ranking correct.
	embeddings = tripleWithSimilarities(0.60, 0.50, 0.40)
	got = e.evaluateSingleOptionDiff(embeddings)
	want := (0.60/0.75)*0.4 + ((0.85-0.50)/0.55)*0.4 + 1.0*0.2
	assert.InDelta(t, want, got, 1e-6)

	// Ranking inverted: A closer to C than to B.
	embeddings = tripleWithSimilarities(0.40, 0.60, 0.50)
	got = e.evaluateSingleOptionDiff(embeddings)
	want = (0.40/0.75)*0.4 + ((0.85-0.60)/0.55)*0.4 + 0.5*0.2
	assert.InDelta(t, want, got, 1e-6)
}

func TestModelYearSensitivityEvaluator(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		sim  float64
		want float64
	}{
		{0.50, 1.0},
		{0.62, 1.0},
		{0.75, 1.0},
		{0.30, 0.30 / 0.50},
		{0.85, 1.0 - (0.85-0.75)/0.25},
		{1.0, 0.0},
	}

	for _, tc := range cases {
		got := e.evaluateModelYearSensitivity(pairWithSimilarity(tc.sim))
		assert.InDelta(t, tc.want, got, 1e-6, "sim=%v", tc.sim)
	}
}

func TestColorSensitivityEvaluator(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		sim  float64
		want float64
	}{
		{0.90, 1.0},
		{0.85, 1.0},
		{0.78, (0.78 - 0.70) / 0.15},
		{0.60, 0.0},
	}

	for _, tc := range cases {
		got := e.evaluateColorSensitivity(pairWithSimilarity(tc.sim))
		assert.InDelta(t, tc.want, got, 1e-6, "sim=%v", tc.sim)
	}
}

func TestTrimSimilarityUsesMeanPairwise(t *testing.T) {
	e := NewEngine()

	// All three pairwise similarities 0.65: inside the [0.55, 0.80] band.
	embeddings := tripleWithSimilarities(0.65, 0.65, 0.65)
	assert.InDelta(t, 1.0, e.evaluateTrimSimilarity(embeddings), 1e-6)

	// Mean pairwise 0.40: below the band, scaled.
	embeddings = tripleWithSimilarities(0.40, 0.40, 0.40)
	assert.InDelta(t, 0.40/0.55, e.evaluateTrimSimilarity(embeddings), 1e-6)

	assert.Equal(t, 0.0, e.evaluateTrimSimilarity([][]float64{{1, 0}}))
}

func TestVehicleLineSeparationEvaluator(t *testing.T) {
	e := NewEngine()

	// Orthogonal embeddings: mean similarity 0, full separation score.
	embeddings := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	assert.InDelta(t, 1.0, e.evaluateVehicleLineSeparation(embeddings), 1e-6)

	// Mean similarity 0.45: interpolated.
	pair := pairWithSimilarity(0.45)
	assert.InDelta(t, (0.65-0.45)/0.35, e.evaluateVehicleLineSeparation(pair), 1e-6)

	// Mean similarity 0.80: too similar.
	pair = pairWithSimilarity(0.80)
	assert.InDelta(t, 0.0, e.evaluateVehicleLineSeparation(pair), 1e-6)
}

func TestDerivativeClusteringRequiresExactlyFour(t *testing.T) {
	e := NewEngine()

	three := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	five := [][]float64{{1, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 1}}

	assert.Equal(t, 0.0, e.evaluateDerivativeClustering(three))
	assert.Equal(t, 0.0, e.evaluateDerivativeClustering(five))
}

func TestDerivativeClusteringEvaluator(t *testing.T) {
	e := NewEngine()

	// Three near-identical vectors plus one orthogonal: ideal clustering.
	embeddings := [][]float64{
		{1, 0, 0},
		{1, 0.01, 0},
		{1, 0, 0.01},
		{0, 0, 1},
	}

	got := e.evaluateDerivativeClustering(embeddings)
	// clustering=1.0 (same > diff), same>=0.70 so same=1.0, diff≈0 so diff=1.0
	assert.InDelta(t, 1.0, got, 1e-2)
}

func TestFeatureCorrelationEvaluator(t *testing.T) {
	e := NewEngine()

	// Monotonic: low-mid 0.60, mid-high 0.55, low-high 0.30; avg in band.
	embeddings := tripleWithSimilarities(0.60, 0.30, 0.55)
	assert.InDelta(t, 1.0, e.evaluateFeatureCorrelation(embeddings), 1e-6)

	// Non-monotonic: low-high largest. Average stays inside the band.
	embeddings = tripleWithSimilarities(0.40, 0.60, 0.45)
	want := 0.5*0.5 + 1.0*0.5
	assert.InDelta(t, want, e.evaluateFeatureCorrelation(embeddings), 1e-6)

	assert.Equal(t, 0.0, e.evaluateFeatureCorrelation([][]float64{{1, 0}, {0, 1}}))
}

func TestTransitivityEvaluator(t *testing.T) {
	e := NewEngine()

	// sim_ab=0.70, sim_bc=0.70, sim_ac=0.60: 0.8*0.70=0.56 <= 0.60, full score.
	embeddings := tripleWithSimilarities(0.70, 0.60, 0.70)
	assert.InDelta(t, 1.0, e.evaluateTransitivity(embeddings), 1e-6)

	// sim_ac=0.45 against min 0.70: 0.56 > 0.45 >= 0.42, partial credit.
	embeddings = tripleWithSimilarities(0.70, 0.45, 0.70)
	assert.InDelta(t, 0.7, e.evaluateTransitivity(embeddings), 1e-6)

	// sim_ac=0.30 against min 0.70: scaled penalty 0.30/0.42.
	embeddings = tripleWithSimilarities(0.70, 0.30, 0.70)
	assert.InDelta(t, 0.30/0.42, e.evaluateTransitivity(embeddings), 1e-6)

	assert.Equal(t, 0.0, e.evaluateTransitivity([][]float64{{1, 0}, {0, 1}}))
}

func TestCrossYearEvaluator(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		sim  float64
		want float64
	}{
		{0.60, 1.0},
		{0.72, 1.0},
		{0.85, 1.0},
		{0.40, 0.40 / 0.60},
		{0.92, 1.0 - (0.92-0.85)/0.15},
	}

	for _, tc := range cases {
		got := e.evaluateCrossYear(pairWithSimilarity(tc.sim))
		assert.InDelta(t, tc.want, got, 1e-6, "sim=%v", tc.sim)
	}
}

func TestThresholdOverrides(t *testing.T) {
	e := NewEngine(WithThresholds(Thresholds{
		HighSimilarity:      0.90,
		LowSimilarity:       0.40,
		SingleOptionDiffMin: 0.80,
	}))

	// sim 0.35 is below the overridden low threshold.
	assert.InDelta(t, 1.0, e.evaluatePriceExtremes(pairWithSimilarity(0.35)), 1e-6)

	// Cross-year band edges must stay fixed regardless of threshold overrides.
	assert.InDelta(t, 1.0, e.evaluateCrossYear(pairWithSimilarity(0.85)), 1e-6)
	assert.InDelta(t, 1.0-(0.88-0.85)/0.15, e.evaluateCrossYear(pairWithSimilarity(0.88)), 1e-6)
}

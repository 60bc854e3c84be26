package evaluation

import "math"

// Test-specific calibration constants. These are deliberately not part of
// Thresholds: only the three named thresholds are externally configurable.
const (
	modelYearBandLow  = 0.50
	modelYearBandHigh = 0.75

	colorFloor = 0.70

	trimBandLow  = 0.55
	trimBandHigh = 0.80

	lineSeparationCeiling = 0.65

	clusterSameMin   = 0.70
	clusterDiffGood  = 0.50
	clusterDiffLimit = 0.80

	featureBandLow  = 0.30
	featureBandHigh = 0.65

	crossYearBandLow  = 0.60
	crossYearBandHigh = 0.85

	transitivityFull    = 0.8
	transitivityPartial = 0.6
)

// evaluate dispatches an embedding set to the evaluator for the given test.
func (e *Engine) evaluate(id TestID, embeddings [][]float64) float64 {
	switch id {
	case TestPriceExtremes:
		return e.evaluatePriceExtremes(embeddings)
	case TestSingleOptionDiff:
		return e.evaluateSingleOptionDiff(embeddings)
	case TestModelYearSensitivity:
		return e.evaluateModelYearSensitivity(embeddings)
	case TestColorSensitivity:
		return e.evaluateColorSensitivity(embeddings)
	case TestTrimSimilarity:
		return e.evaluateTrimSimilarity(embeddings)
	case TestVehicleLineSeparation:
		return e.evaluateVehicleLineSeparation(embeddings)
	case TestDerivativeClustering:
		return e.evaluateDerivativeClustering(embeddings)
	case TestFeatureCorrelation:
		return e.evaluateFeatureCorrelation(embeddings)
	case TestTransitivity:
		return e.evaluateTransitivity(embeddings)
	case TestCrossYear:
		return e.evaluateCrossYear(embeddings)
	}
	return 0.0
}

// Test 1: most expensive and least expensive configurations should be
// dissimilar. Full score below low_similarity, zero above high_similarity,
// linear in between.
func (e *Engine) evaluatePriceExtremes(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0.0
	}

	similarity := CosineSimilarity(embeddings[0], embeddings[1])

	switch {
	case similarity < e.thresholds.LowSimilarity:
		return 1.0
	case similarity > e.thresholds.HighSimilarity:
		return 0.0
	default:
		normalized := (e.thresholds.HighSimilarity - similarity) /
			(e.thresholds.HighSimilarity - e.thresholds.LowSimilarity)
		return clamp01(normalized)
	}
}

// Test 2: config A vs B differ by one option (expect high similarity),
// A vs C differ by many (expect dissimilarity). 40% similar quality,
// 40% different quality, 20% correct ranking.
func (e *Engine) evaluateSingleOptionDiff(embeddings [][]float64) float64 {
	if len(embeddings) != 3 {
		return 0.0
	}

	simToSimilar := CosineSimilarity(embeddings[0], embeddings[1])
	simToDifferent := CosineSimilarity(embeddings[0], embeddings[2])

	similarScore := 1.0
	if simToSimilar < e.thresholds.SingleOptionDiffMin {
		similarScore = simToSimilar / e.thresholds.SingleOptionDiffMin
	}

	differentScore := 1.0
	if simToDifferent >= e.thresholds.LowSimilarity {
		differentScore = (e.thresholds.HighSimilarity - simToDifferent) /
			(e.thresholds.HighSimilarity - e.thresholds.LowSimilarity)
	}

	rankingBonus := 0.5
	if simToSimilar > simToDifferent {
		rankingBonus = 1.0
	}

	return similarScore*0.4 + differentScore*0.4 + rankingBonus*0.2
}

// Test 3: a model-year difference should land in the moderate band
// [0.50, 0.75]; linear decay on either side.
func (e *Engine) evaluateModelYearSensitivity(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0.0
	}

	similarity := CosineSimilarity(embeddings[0], embeddings[1])
	return bandScore(similarity, modelYearBandLow, modelYearBandHigh)
}

// Test 4: a color-only difference should leave embeddings nearly identical.
func (e *Engine) evaluateColorSensitivity(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0.0
	}

	similarity := CosineSimilarity(embeddings[0], embeddings[1])

	switch {
	case similarity >= e.thresholds.HighSimilarity:
		return 1.0
	case similarity < colorFloor:
		return 0.0
	default:
		return (similarity - colorFloor) / (e.thresholds.HighSimilarity - colorFloor)
	}
}

// Test 5: same vehicle and year across trims, mean pairwise similarity in
// the band [0.55, 0.80].
func (e *Engine) evaluateTrimSimilarity(embeddings [][]float64) float64 {
	if len(embeddings) < 2 {
		return 0.0
	}

	avg := UpperTriangleMean(SimilarityMatrix(embeddings))
	return bandScore(avg, trimBandLow, trimBandHigh)
}

// Test 6: different vehicle lines should be clearly separated. Full score
// below low_similarity, zero above 0.65, linear in between.
func (e *Engine) evaluateVehicleLineSeparation(embeddings [][]float64) float64 {
	if len(embeddings) < 2 {
		return 0.0
	}

	avg := UpperTriangleMean(SimilarityMatrix(embeddings))

	switch {
	case avg < e.thresholds.LowSimilarity:
		return 1.0
	case avg > lineSeparationCeiling:
		return 0.0
	default:
		return (lineSeparationCeiling - avg) / (lineSeparationCeiling - e.thresholds.LowSimilarity)
	}
}

// Test 7: three configs of the same derivative plus one of a different
// derivative. Intra-group similarity should exceed inter-group. 40%
// clustering, 30% same quality, 30% different quality.
func (e *Engine) evaluateDerivativeClustering(embeddings [][]float64) float64 {
	if len(embeddings) != 4 {
		return 0.0
	}

	sims := SimilarityMatrix(embeddings)

	var sameSum float64
	for i := range 3 {
		for j := i + 1; j < 3; j++ {
			sameSum += sims.At(i, j)
		}
	}
	avgSame := sameSum / 3.0

	var diffSum float64
	for i := range 3 {
		diffSum += sims.At(i, 3)
	}
	avgDifferent := diffSum / 3.0

	clusteringScore := 0.5
	if avgSame > avgDifferent {
		clusteringScore = 1.0
	}

	sameScore := 1.0
	if avgSame < clusterSameMin {
		sameScore = avgSame / clusterSameMin
	}

	differentScore := 1.0
	if avgDifferent >= clusterDiffGood {
		differentScore = math.Max(0.0, (clusterDiffLimit-avgDifferent)/(clusterDiffLimit-clusterDiffGood))
	}

	return clusteringScore*0.4 + sameScore*0.3 + differentScore*0.3
}

// Test 8: embeddings ordered low/mid/high feature count. Closer feature
// counts should be more similar, with similarities in a moderate band.
func (e *Engine) evaluateFeatureCorrelation(embeddings [][]float64) float64 {
	if len(embeddings) != 3 {
		return 0.0
	}

	simLowMid := CosineSimilarity(embeddings[0], embeddings[1])
	simMidHigh := CosineSimilarity(embeddings[1], embeddings[2])
	simLowHigh := CosineSimilarity(embeddings[0], embeddings[2])

	monotonic := 0.5
	if simLowMid > simLowHigh && simMidHigh > simLowHigh {
		monotonic = 1.0
	}

	avgSim := (simLowMid + simMidHigh + simLowHigh) / 3.0
	bandCenter := (featureBandLow + featureBandHigh) / 2.0

	rangeScore := 1.0
	if avgSim < featureBandLow || avgSim > featureBandHigh {
		rangeScore = math.Max(0.0, 1.0-math.Abs(avgSim-bandCenter)/0.5)
	}

	return monotonic*0.5 + rangeScore*0.5
}

// Test 9: if A~B and B~C, then A~C should hold. Full score when sim(A,C)
// reaches 80% of min(sim(A,B), sim(B,C)), partial credit at 60%.
func (e *Engine) evaluateTransitivity(embeddings [][]float64) float64 {
	if len(embeddings) < 3 {
		return 0.0
	}

	simAB := CosineSimilarity(embeddings[0], embeddings[1])
	simBC := CosineSimilarity(embeddings[1], embeddings[2])
	simAC := CosineSimilarity(embeddings[0], embeddings[2])

	minPairwise := math.Min(simAB, simBC)

	switch {
	case simAC >= minPairwise*transitivityFull:
		return 1.0
	case simAC >= minPairwise*transitivityPartial:
		return 0.7
	default:
		return math.Max(0.0, simAC/(minPairwise*transitivityPartial))
	}
}

// Test 10: the same configuration pattern across years should land in the
// band [0.60, 0.85].
func (e *Engine) evaluateCrossYear(embeddings [][]float64) float64 {
	if len(embeddings) != 2 {
		return 0.0
	}

	similarity := CosineSimilarity(embeddings[0], embeddings[1])
	return bandScore(similarity, crossYearBandLow, crossYearBandHigh)
}

// bandScore is the shared ideal-band interpolation: 1.0 inside [low, high],
// sim/low below the band, linear decay towards 1.0 above it.
func bandScore(similarity, low, high float64) float64 {
	switch {
	case similarity >= low && similarity <= high:
		return 1.0
	case similarity < low:
		return similarity / low
	default:
		return math.Max(0.0, 1.0-(similarity-high)/(1.0-high))
	}
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

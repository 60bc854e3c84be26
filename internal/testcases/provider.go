// Package testcases selects the vehicle configuration records handed to
// participants for each of the ten embedding tests. Selection is fully
// deterministic: every participant receives the same records.
package testcases

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vehiclebench/vehiclebench/internal/dataset"
)

// Provider builds the per-test record sets from the vehicle dataset.
type Provider struct {
	seed int64
	data []dataset.VehicleConfig
}

func NewProvider(seed int64, data []dataset.VehicleConfig) (*Provider, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("provider requires a non-empty dataset")
	}
	return &Provider{seed: seed, data: data}, nil
}

// GenerateTestData returns the records for test_1..test_10.
func (p *Provider) GenerateTestData(participantName, submissionTag string) map[string][]dataset.VehicleConfig {
	log.Info().
		Str("participant", participantName).
		Str("tag", submissionTag).
		Msg("generating test data")

	tests := map[string][]dataset.VehicleConfig{
		"test_1":  p.priceExtremes(),
		"test_2":  p.singleOptionDifference(),
		"test_3":  p.modelYearSensitivity(),
		"test_4":  p.colorSensitivity(),
		"test_5":  p.trimLevelSimilarity(),
		"test_6":  p.vehicleLineSeparation(),
		"test_7":  p.derivativeClustering(),
		"test_8":  p.featureCountCorrelation(),
		"test_9":  p.transitivity(),
		"test_10": p.crossYearComparison(),
	}

	total := 0
	for _, configs := range tests {
		total += len(configs)
	}
	log.Info().Int("tests", len(tests)).Int("configs", total).Msg("test data generated")

	return tests
}

// Test 1: the most and least expensive configurations.
func (p *Provider) priceExtremes() []dataset.VehicleConfig {
	mostExpensive := p.data[0]
	leastExpensive := p.data[0]

	for _, cfg := range p.data[1:] {
		if cfg.TotalPriceGBP > mostExpensive.TotalPriceGBP {
			mostExpensive = cfg
		}
		if cfg.TotalPriceGBP < leastExpensive.TotalPriceGBP {
			leastExpensive = cfg
		}
	}

	return []dataset.VehicleConfig{mostExpensive, leastExpensive}
}

// Test 2: a base config, one differing by exactly one feature code, and one
// differing by more than five.
func (p *Provider) singleOptionDifference() []dataset.VehicleConfig {
	base := p.at(100)
	baseFeatures := featureSet(base)

	var similar, dissimilar *dataset.VehicleConfig

	limit := min(500, len(p.data))
	for idx := 101; idx < limit; idx++ {
		cfg := p.data[idx]
		diff := symmetricDifference(baseFeatures, featureSet(cfg))

		if diff == 1 && similar == nil {
			c := cfg
			similar = &c
		} else if diff > 5 && dissimilar == nil {
			c := cfg
			dissimilar = &c
		}

		if similar != nil && dissimilar != nil {
			break
		}
	}

	if similar == nil {
		c := p.at(101)
		similar = &c
	}
	if dissimilar == nil {
		c := p.at(200)
		dissimilar = &c
	}

	return []dataset.VehicleConfig{base, *similar, *dissimilar}
}

// Test 3: the same Range Rover Sport derivative across model years.
func (p *Provider) modelYearSensitivity() []dataset.VehicleConfig {
	base, ok := p.first(func(c dataset.VehicleConfig) bool {
		return c.VehicleLine == "Range Rover Sport" && c.ModelYear == 2023
	})
	if !ok {
		base = p.data[0]
	}

	diffYear, ok := p.first(func(c dataset.VehicleConfig) bool {
		return c.VehicleLine == "Range Rover Sport" && c.ModelYear == 2020 &&
			c.Derivative == base.Derivative
	})
	if !ok {
		diffYear, ok = p.first(func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == "Range Rover Sport" && c.ModelYear == 2020
		})
	}
	if !ok {
		diffYear = p.at(1)
	}

	return []dataset.VehicleConfig{base, diffYear}
}

// Test 4: two configs identical except for exterior colour.
func (p *Provider) colorSensitivity() []dataset.VehicleConfig {
	base := p.at(300)

	colorDiff, ok := p.first(func(c dataset.VehicleConfig) bool {
		return c.VehicleLine == base.VehicleLine &&
			c.Derivative == base.Derivative &&
			c.Trim == base.Trim &&
			c.ModelYear == base.ModelYear &&
			c.ExteriorColour != base.ExteriorColour
	})
	if !ok {
		colorDiff = p.at(301)
	}

	return []dataset.VehicleConfig{base, colorDiff}
}

// Test 5: three trims of the same vehicle line and year.
func (p *Provider) trimLevelSimilarity() []dataset.VehicleConfig {
	configs := p.take(3, func(c dataset.VehicleConfig) bool {
		return c.VehicleLine == "Range Rover" && c.ModelYear == 2024
	})
	if len(configs) < 3 {
		configs = p.take(3, func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == "Range Rover"
		})
	}
	return configs
}

// Test 6: one config from each of four distinct vehicle lines.
func (p *Provider) vehicleLineSeparation() []dataset.VehicleConfig {
	lines := []string{"Range Rover Sport", "Discovery Sport", "Defender", "F-Pace"}

	var configs []dataset.VehicleConfig
	for _, line := range lines {
		cfg, ok := p.first(func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == line
		})
		if ok {
			configs = append(configs, cfg)
		}
	}
	return configs
}

// Test 7: three configs sharing a derivative plus one from a different one.
func (p *Provider) derivativeClustering() []dataset.VehicleConfig {
	configs := p.take(3, func(c dataset.VehicleConfig) bool {
		return c.Derivative == "P400"
	})

	other, ok := p.first(func(c dataset.VehicleConfig) bool {
		return c.Derivative == "D250"
	})
	if ok {
		configs = append(configs, other)
	}
	return configs
}

// Test 8: configs at low, mid and high feature counts, in that order.
func (p *Provider) featureCountCorrelation() []dataset.VehicleConfig {
	low, okLow := p.first(func(c dataset.VehicleConfig) bool {
		return c.FeatureCount <= 6
	})
	mid, okMid := p.first(func(c dataset.VehicleConfig) bool {
		return c.FeatureCount >= 9 && c.FeatureCount <= 11
	})
	high, okHigh := p.first(func(c dataset.VehicleConfig) bool {
		return c.FeatureCount >= 15
	})

	var configs []dataset.VehicleConfig
	if okLow {
		configs = append(configs, low)
	}
	if okMid {
		configs = append(configs, mid)
	}
	if okHigh {
		configs = append(configs, high)
	}
	return configs
}

// Test 9: three configs of the same line and derivative.
func (p *Provider) transitivity() []dataset.VehicleConfig {
	configs := p.take(3, func(c dataset.VehicleConfig) bool {
		return c.VehicleLine == "Range Rover Sport" && c.Derivative == "P530"
	})
	if len(configs) < 3 {
		configs = p.take(3, func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == "Range Rover Sport"
		})
	}
	return configs
}

// Test 10: the same line and derivative in two different model years.
func (p *Provider) crossYearComparison() []dataset.VehicleConfig {
	var configs []dataset.VehicleConfig

	for _, year := range []int{2023, 2025} {
		cfg, ok := p.first(func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == "Discovery" && c.Derivative == "P300" &&
				c.ModelYear == year
		})
		if ok {
			configs = append(configs, cfg)
		}
	}

	if len(configs) < 2 {
		configs = p.take(2, func(c dataset.VehicleConfig) bool {
			return c.VehicleLine == "Discovery"
		})
	}
	return configs
}

func (p *Provider) at(idx int) dataset.VehicleConfig {
	if idx >= len(p.data) {
		return p.data[len(p.data)-1]
	}
	return p.data[idx]
}

func (p *Provider) first(match func(dataset.VehicleConfig) bool) (dataset.VehicleConfig, bool) {
	for _, cfg := range p.data {
		if match(cfg) {
			return cfg, true
		}
	}
	return dataset.VehicleConfig{}, false
}

func (p *Provider) take(n int, match func(dataset.VehicleConfig) bool) []dataset.VehicleConfig {
	var out []dataset.VehicleConfig
	for _, cfg := range p.data {
		if match(cfg) {
			out = append(out, cfg)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func featureSet(c dataset.VehicleConfig) map[string]struct{} {
	set := make(map[string]struct{}, len(c.FeatureCodes))
	for _, code := range c.FeatureCodes {
		set[code] = struct{}{}
	}
	return set
}

func symmetricDifference(a, b map[string]struct{}) int {
	diff := 0
	for code := range a {
		if _, ok := b[code]; !ok {
			diff++
		}
	}
	for code := range b {
		if _, ok := a[code]; !ok {
			diff++
		}
	}
	return diff
}

// Package dataset loads the vehicle configuration records that test cases
// are drawn from.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// VehicleConfig is a single vehicle configuration record. Field names on the
// wire match the dataset column names because participants receive records
// verbatim.
type VehicleConfig struct {
	ConfigID       string   `json:"Config_ID"`
	VehicleLine    string   `json:"Vehicle_Line"`
	Derivative     string   `json:"Derivative"`
	Trim           string   `json:"Trim"`
	ModelYear      int      `json:"Model_Year"`
	ExteriorColour string   `json:"Exterior_Colour"`
	TotalPriceGBP  float64  `json:"Total_Price_GBP"`
	FeatureCodes   []string `json:"Feature_Codes"`
	FeatureCount   int      `json:"Feature_Count"`
}

// Load reads vehicle configurations from a CSV file. The header row decides
// column positions; unknown columns are ignored.
func Load(path string) ([]VehicleConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{
		"Vehicle_Line", "Derivative", "Trim", "Model_Year",
		"Exterior_Colour", "Total_Price_GBP", "Feature_Codes",
	} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset missing column %s", required)
		}
	}

	configs := make([]VehicleConfig, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cfg, err := parseRow(columns, row)
		if err != nil {
			log.Warn().Err(err).Int("row", i+2).Msg("skipping malformed dataset row")
			continue
		}
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}

	log.Info().Int("configs", len(configs)).Str("path", path).Msg("loaded vehicle dataset")
	return configs, nil
}

func parseRow(columns map[string]int, row []string) (VehicleConfig, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	year, err := strconv.Atoi(field("Model_Year"))
	if err != nil {
		return VehicleConfig{}, fmt.Errorf("parse Model_Year: %w", err)
	}

	price, err := strconv.ParseFloat(field("Total_Price_GBP"), 64)
	if err != nil {
		return VehicleConfig{}, fmt.Errorf("parse Total_Price_GBP: %w", err)
	}

	codes, err := ParseFeatureCodes(field("Feature_Codes"))
	if err != nil {
		return VehicleConfig{}, fmt.Errorf("parse Feature_Codes: %w", err)
	}

	return VehicleConfig{
		ConfigID:       field("Config_ID"),
		VehicleLine:    field("Vehicle_Line"),
		Derivative:     field("Derivative"),
		Trim:           field("Trim"),
		ModelYear:      year,
		ExteriorColour: field("Exterior_Colour"),
		TotalPriceGBP:  price,
		FeatureCodes:   codes,
		FeatureCount:   len(codes),
	}, nil
}

// ParseFeatureCodes parses the Feature_Codes column, which stores a Python
// list literal such as ['COD1', 'COD2'].
func ParseFeatureCodes(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("feature codes %q are not a list literal", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []string{}, nil
	}

	var codes []string
	for part := range strings.SplitSeq(inner, ",") {
		part = strings.TrimSpace(part)
		if len(part) >= 2 && (part[0] == '\'' || part[0] == '"') && part[len(part)-1] == part[0] {
			part = part[1 : len(part)-1]
		} else if part != "" {
			return nil, fmt.Errorf("feature code %q is not quoted", part)
		}
		codes = append(codes, part)
	}

	return codes, nil
}

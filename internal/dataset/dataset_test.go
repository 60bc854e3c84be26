package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Config_ID,Vehicle_Line,Derivative,Trim,Model_Year,Exterior_Colour,Total_Price_GBP,Feature_Codes
C001,Range Rover Sport,P400,Dynamic SE,2023,Santorini Black,91500.00,"['AAA', 'BBB', 'CCC']"
C002,Defender,D250,S,2022,Fuji White,62300.50,"['AAA']"
C003,Discovery,P300,HSE,2024,Byron Blue,71999.99,"[]"
C004,F-Pace,P400,R-Dynamic,not-a-year,Red,10.0,"['AAA']"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	configs, err := Load(writeSample(t))
	require.NoError(t, err)

	// The malformed row is skipped, not fatal.
	require.Len(t, configs, 3)

	first := configs[0]
	assert.Equal(t, "C001", first.ConfigID)
	assert.Equal(t, "Range Rover Sport", first.VehicleLine)
	assert.Equal(t, "P400", first.Derivative)
	assert.Equal(t, "Dynamic SE", first.Trim)
	assert.Equal(t, 2023, first.ModelYear)
	assert.Equal(t, "Santorini Black", first.ExteriorColour)
	assert.InDelta(t, 91500.00, first.TotalPriceGBP, 1e-9)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, first.FeatureCodes)
	assert.Equal(t, 3, first.FeatureCount)

	assert.Equal(t, 0, configs[2].FeatureCount)
}

func TestLoadMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestParseFeatureCodes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"['A', 'B']", []string{"A", "B"}},
		{`["A","B"]`, []string{"A", "B"}},
		{"['ONLY']", []string{"ONLY"}},
		{"[]", []string{}},
		{"", nil},
	}

	for _, tc := range cases {
		got, err := ParseFeatureCodes(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParseFeatureCodes("not a list")
	assert.Error(t, err)

	_, err = ParseFeatureCodes("[A, B]")
	assert.Error(t, err)
}

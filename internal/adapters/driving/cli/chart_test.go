package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

var londonBirth = []string{"--date", "1990-06-15", "--time", "14:30", "--tz", "Europe/London", "--lat", "51.5", "--lon", "-0.12"}

func chartArgs(extra ...string) []string {
	return append(append([]string{"chart"}, londonBirth...), extra...)
}

func TestChartCmd_Structure(t *testing.T) {
	assert.Equal(t, "chart", chartCmd.Use)
	for _, name := range []string{"date", "time", "tz", "lat", "lon", "zodiac", "house", "ayanamsa", "rows", "save", "person", "json"} {
		assert.NotNil(t, chartCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
	assert.Equal(t, "12:00", chartCmd.Flags().Lookup("time").DefValue)
	assert.Equal(t, "UTC", chartCmd.Flags().Lookup("tz").DefValue)
}

func TestChartCmd_Positions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs()...)

	require.NoError(t, err)
	assert.Contains(t, out, "Chart 1990-06-15 14:30 Europe/London")
	assert.Contains(t, out, "Provider: demo-ephemeris (demo, tropical zodiac, houses P)")
	assert.Contains(t, out, "UTC: 1990-06-15T13:30:00Z")
	assert.Contains(t, out, "[Bodies]")
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "Pluto")
	assert.Contains(t, out, "[Angles]")
	assert.Contains(t, out, "[Houses]")
	assert.NotContains(t, out, "Ayanamsa:")
}

func TestChartCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs("--json")...)
	require.NoError(t, err)

	var result domain.EphemerisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Bodies, 10)
	assert.Len(t, result.Houses, 12)
	assert.Equal(t, "demo-ephemeris", result.Metadata.Provider)
}

func TestChartCmd_Rows(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs("--rows", "--person", "p1", "--json")...)
	require.NoError(t, err)

	var rows []domain.DatasetRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 10)
	assert.Equal(t, domain.SystemWA, rows[0].System)
	assert.Equal(t, "p1", rows[0].PersonID)
	assert.Equal(t, "1990-06-15T14:30", rows[0].BirthDatetimeLocal)
	assert.Equal(t, "Sun", rows[0].DataPoint)
}

func TestChartCmd_SiderealRows(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs("--zodiac", "Sidereal", "--house", "w", "--rows", "--json")...)
	require.NoError(t, err)

	var rows []domain.DatasetRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, domain.SystemHA, rows[0].System)
	assert.Equal(t, "Sidereal · W", rows[0].Subsystem)
}

func TestChartCmd_SiderealShowsAyanamsa(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs("--zodiac", "sidereal")...)

	require.NoError(t, err)
	assert.Contains(t, out, "sidereal zodiac")
	assert.Contains(t, out, "Ayanamsa: lahiri")
}

func TestChartCmd_SaveAppendsToDataset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(chartArgs("--save", "--person", "p1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 10 rows to the dataset")
	assert.Contains(t, out, "[WA] Sun:")

	out, err = executeCommand("dataset", "stats", "--json")
	require.NoError(t, err)

	var stats domain.DatasetStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 10, stats.TotalRows)
	assert.Equal(t, 1, stats.SystemCount)
}

func TestChartCmd_MissingDate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("chart", "--tz", "UTC")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestChartCmd_InvalidTimezone(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("chart", "--date", "1990-06-15", "--tz", "Mars/Olympus")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChartCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	chartService = nil

	_, err := executeCommand(chartArgs()...)

	require.Error(t, err)
	assert.Equal(t, "chart service not configured", err.Error())
}

func TestChartBatchCmd_Stdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	input := `[
		{"date": "1990-06-15", "time": "14:30", "timezone": "Europe/London", "coordinates": {"latitude": 51.5, "longitude": -0.12}},
		{"date": "2000-01-01", "timezone": "UTC", "coordinates": {"latitude": 0, "longitude": 0}}
	]`
	rootCmd.SetIn(strings.NewReader(input))

	out, err := executeCommand("chart", "batch", "-")
	require.NoError(t, err)

	var results []domain.EphemerisResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "1990-06-15T13:30:00Z", results[0].Metadata.Timestamp)
	assert.Equal(t, "2000-01-01T12:00:00Z", results[1].Metadata.Timestamp)
}

func TestChartBatchCmd_InvalidJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("{not json"))

	_, err := executeCommand("chart", "batch", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding -")
}

func TestChartBatchCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("chart", "batch", "/nonexistent/queries.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading /nonexistent/queries.json")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}

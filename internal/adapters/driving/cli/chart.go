package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// birthFlags binds the flags that describe a BirthQuery.
type birthFlags struct {
	date     string
	clock    string
	zone     string
	lat      float64
	lon      float64
	zodiac   string
	house    string
	ayanamsa string
}

func (b *birthFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.date, "date", "", "birth date (YYYY-MM-DD)")
	f.StringVar(&b.clock, "time", "12:00", "local birth time (HH:MM or HH:MM:SS)")
	f.StringVar(&b.zone, "tz", "UTC", "IANA timezone of the birth place")
	f.Float64Var(&b.lat, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&b.lon, "lon", 0, "longitude in degrees, east positive")
	f.StringVar(&b.zodiac, "zodiac", string(domain.ZodiacTropical), "zodiac frame: tropical or sidereal")
	f.StringVar(&b.house, "house", "", "house system code (default P)")
	f.StringVar(&b.ayanamsa, "ayanamsa", "", "ayanamsa for the sidereal zodiac (default lahiri)")
	_ = cmd.MarkFlagRequired("date")
}

func (b *birthFlags) query() domain.BirthQuery {
	return domain.BirthQuery{
		Date:        b.date,
		Time:        b.clock,
		Timezone:    b.zone,
		Coordinates: domain.Coordinates{Latitude: b.lat, Longitude: b.lon},
		Options: domain.EphemerisOptions{
			Zodiac:      domain.ZodiacType(strings.ToLower(b.zodiac)),
			HouseSystem: strings.ToUpper(b.house),
			Ayanamsa:    b.ayanamsa,
		},
	}
}

var (
	chartBirth  birthFlags
	chartRows   bool
	chartSave   bool
	chartPerson string
	chartJSON   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Compute an ephemeris chart",
	Long: `Computes planetary positions, house cusps and angles for a birth moment
using the configured ephemeris provider.

With --rows each body is mapped to a dataset row; --save also appends
those rows to the dataset.

Examples:
  almanac chart --date 1990-06-15 --time 14:30 --tz Europe/London --lat 51.5 --lon -0.12
  almanac chart --date 1990-06-15 --zodiac sidereal --ayanamsa lahiri --rows --json`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

var chartBatchCmd = &cobra.Command{
	Use:   "batch <file|->",
	Short: "Compute charts for a JSON array of birth queries",
	Long: `Reads a JSON array of birth queries and computes every chart
concurrently and prints them as JSON. Results keep the input order; the
first failure aborts the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runChartBatch,
}

func init() {
	chartBirth.bind(chartCmd)
	chartCmd.Flags().BoolVar(&chartRows, "rows", false, "output dataset rows instead of positions")
	chartCmd.Flags().BoolVar(&chartSave, "save", false, "append the rows to the dataset (implies --rows)")
	chartCmd.Flags().StringVar(&chartPerson, "person", "", "person id stamped on rows")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "output as JSON")
	chartCmd.AddCommand(chartBatchCmd)
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	if chartService == nil {
		return errors.New("chart service not configured")
	}
	ctx := cmd.Context()
	q := chartBirth.query()

	if chartRows || chartSave {
		rows, err := chartService.Rows(ctx, chartPerson, q)
		if err != nil {
			return fmt.Errorf("chart failed: %w", err)
		}
		if chartSave {
			if err := saveChartRows(cmd, rows, q); err != nil {
				return err
			}
		}
		if chartJSON {
			return printJSON(cmd, rows)
		}
		printRows(cmd, rows)
		return nil
	}

	result, err := chartService.Compute(ctx, q)
	if err != nil {
		return fmt.Errorf("chart failed: %w", err)
	}
	if chartJSON {
		return printJSON(cmd, result)
	}
	printChart(cmd, q, result)
	return nil
}

func saveChartRows(cmd *cobra.Command, rows []domain.DatasetRow, q domain.BirthQuery) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	opts := q.Options.WithDefaults()
	records, err := datasetService.Insert(cmd.Context(), rows, domain.Provenance{
		Provider: domain.ProviderEphemeris,
		Config: map[string]any{
			"zodiac":      string(opts.Zodiac),
			"houseSystem": opts.HouseSystem,
			"ayanamsa":    opts.Ayanamsa,
		},
	})
	if err != nil {
		return fmt.Errorf("saving rows: %w", err)
	}
	cmd.PrintErrf("Saved %d rows to the dataset\n", len(records))
	return nil
}

func runChartBatch(cmd *cobra.Command, args []string) error {
	if chartService == nil {
		return errors.New("chart service not configured")
	}
	var queries []domain.BirthQuery
	if err := decodeInput(cmd, args[0], &queries); err != nil {
		return err
	}
	results, err := chartService.ComputeBatch(cmd.Context(), queries)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	return printJSON(cmd, results)
}

func printChart(cmd *cobra.Command, q domain.BirthQuery, res *domain.EphemerisResult) {
	printTitle(cmd, fmt.Sprintf("Chart %s %s %s", q.Date, q.Time, q.Timezone))
	meta := res.Metadata
	cmd.Printf("Provider: %s (%s, %s zodiac, houses %s)\n", meta.Provider, meta.Engine, meta.Options.Zodiac, meta.Options.HouseSystem)
	if meta.Options.Ayanamsa != "" {
		cmd.Printf("Ayanamsa: %s\n", meta.Options.Ayanamsa)
	}
	cmd.Printf("UTC: %s\n", meta.Timestamp)
	cmd.Println()

	cmd.Println("[Bodies]")
	for _, b := range res.Bodies {
		retro := ""
		if b.Retrograde {
			retro = " R"
		}
		cmd.Printf("  %-10s %7.2f°  house %2d%s\n", b.Name, b.Longitude, b.House, retro)
	}
	cmd.Println()

	cmd.Println("[Angles]")
	for _, a := range res.Angles {
		cmd.Printf("  %-10s %7.2f°\n", a.ID, a.Longitude)
	}
	cmd.Println()

	cmd.Println("[Houses]")
	for _, h := range res.Houses {
		cmd.Printf("  %2d  %7.2f°\n", h.Index, h.Cusp)
	}
}

// printRows prints one line per row.
func printRows(cmd *cobra.Command, rows []domain.DatasetRow) {
	if len(rows) == 0 {
		cmd.Println("No rows.")
		return
	}
	for i := range rows {
		r := &rows[i]
		line := fmt.Sprintf("  [%s] %s: %s (%s, strength %d, confidence %.2f, weight %.2f)",
			r.System, r.DataPoint, r.VerbatimText, r.Polarity.Description(), r.Strength, r.Confidence, r.WeightSystem)
		if r.ConflictSetID != "" {
			line += " " + styled(cmd, warningStyle, "[conflict "+shortID(r.ConflictSetID)+"]")
		}
		if len(r.MergedFrom) > 0 {
			line += " " + styled(cmd, mutedStyle, fmt.Sprintf("[merged %d]", len(r.MergedFrom)))
		}
		cmd.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the append-only dataset",
	Long: `Add rows to the dataset with provenance, list them with filters and
summarise them. The store is selected with store.driver (memory or sqlite).`,
}

var (
	datasetProvider string
	datasetConfig   map[string]string
	datasetTime     string
)

var datasetAddCmd = &cobra.Command{
	Use:   "add <file|->",
	Short: "Append rows from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetAdd,
}

// rowFilterFlags binds the listing filters.
type rowFilterFlags struct {
	systems       []string
	categories    []string
	text          string
	polarity      string
	minConfidence float64
	maxConfidence float64
	minStrength   int
	maxStrength   int
	from          string
	to            string
	conflictsOnly bool
	hideUnknown   bool
}

func (f *rowFilterFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.systems, "system", nil, "only these systems (repeatable)")
	fs.StringSliceVar(&f.categories, "category", nil, "only these categories (repeatable)")
	fs.StringVar(&f.text, "text", "", "match text in subsystem or data point")
	fs.StringVar(&f.polarity, "polarity", "", "only this polarity (+, 0 or -)")
	fs.Float64Var(&f.minConfidence, "min-confidence", 0, "minimum confidence")
	fs.Float64Var(&f.maxConfidence, "max-confidence", 1, "maximum confidence")
	fs.IntVar(&f.minStrength, "min-strength", -2, "minimum strength")
	fs.IntVar(&f.maxStrength, "max-strength", 2, "maximum strength")
	fs.StringVar(&f.from, "from", "", "timing window must overlap from this RFC 3339 time")
	fs.StringVar(&f.to, "to", "", "timing window must overlap until this RFC 3339 time")
	fs.BoolVar(&f.conflictsOnly, "conflicts", false, "only rows in a conflict set")
	fs.BoolVar(&f.hideUnknown, "hide-unknown", false, "hide rows whose verbatim text is UNKNOWN")
}

func (f *rowFilterFlags) filter() (domain.RowFilter, error) {
	filter := domain.DefaultRowFilter()
	for _, s := range f.systems {
		system := domain.System(strings.TrimSpace(s))
		if !system.IsValid() {
			return filter, &domain.ValidationError{Field: "system", Message: fmt.Sprintf("unknown system %q", s)}
		}
		filter.Systems = append(filter.Systems, system)
	}
	for _, c := range f.categories {
		category := domain.Category(strings.TrimSpace(c))
		if !category.IsValid() {
			return filter, &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", c)}
		}
		filter.Categories = append(filter.Categories, category)
	}
	if f.polarity != "" {
		p, err := domain.ParsePolarity(f.polarity)
		if err != nil {
			return filter, err
		}
		filter.Polarity = p
	}
	filter.Text = f.text
	filter.MinConfidence, filter.MaxConfidence = f.minConfidence, f.maxConfidence
	filter.MinStrength, filter.MaxStrength = f.minStrength, f.maxStrength
	filter.ConflictsOnly = f.conflictsOnly
	filter.HideUnknown = f.hideUnknown

	var err error
	if filter.TimeStart, err = parseBound("from", f.from); err != nil {
		return filter, err
	}
	if filter.TimeEnd, err = parseBound("to", f.to); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseBound(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: fmt.Sprintf("invalid RFC 3339 time %q", value)}
	}
	return &t, nil
}

var (
	listFilter  rowFilterFlags
	listJSON    bool
	statsFilter rowFilterFlags
	statsJSON   bool
)

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rows in insertion order",
	Args:  cobra.NoArgs,
	RunE:  runDatasetList,
}

var datasetStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise rows",
	Args:  cobra.NoArgs,
	RunE:  runDatasetStats,
}

var datasetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every record",
	Args:  cobra.NoArgs,
	RunE:  runDatasetClear,
}

func init() {
	datasetAddCmd.Flags().StringVar(&datasetProvider, "provider", "", "provider key that computed the rows")
	datasetAddCmd.Flags().StringToStringVar(&datasetConfig, "config", nil, "provider configuration (key=value)")
	datasetAddCmd.Flags().StringVar(&datasetTime, "timestamp", "", "computation time (default now)")
	_ = datasetAddCmd.MarkFlagRequired("provider")

	listFilter.bind(datasetListCmd)
	datasetListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	statsFilter.bind(datasetStatsCmd)
	datasetStatsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")

	datasetCmd.AddCommand(datasetAddCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetStatsCmd)
	datasetCmd.AddCommand(datasetClearCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetAdd(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	var rows []domain.DatasetRow
	if err := decodeInput(cmd, args[0], &rows); err != nil {
		return err
	}
	cfg := make(map[string]any, len(datasetConfig))
	for k, v := range datasetConfig {
		cfg[k] = v
	}
	records, err := datasetService.Insert(cmd.Context(), rows, domain.Provenance{
		Provider:  domain.ProviderKey(datasetProvider),
		Timestamp: datasetTime,
		Config:    cfg,
	})
	if err != nil {
		return fmt.Errorf("dataset add failed: %w", err)
	}
	cmd.Println(styled(cmd, successStyle, fmt.Sprintf("Added %d rows", len(records))))
	return nil
}

func runDatasetList(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	filter, err := listFilter.filter()
	if err != nil {
		return err
	}
	rows, err := datasetService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("dataset list failed: %w", err)
	}
	if listJSON {
		return printJSON(cmd, rows)
	}
	printRows(cmd, rows)
	return nil
}

func runDatasetStats(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	filter, err := statsFilter.filter()
	if err != nil {
		return err
	}
	stats, err := datasetService.Stats(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("dataset stats failed: %w", err)
	}
	if statsJSON {
		return printJSON(cmd, stats)
	}

	printTitle(cmd, "Dataset")
	cmd.Printf("  Rows:            %d\n", stats.TotalRows)
	cmd.Printf("  Systems:         %d\n", stats.SystemCount)
	cmd.Printf("  Unknown share:   %.1f%%\n", stats.UnknownShare)
	cmd.Printf("  Conflicts:       %d\n", stats.ConflictCount)
	cmd.Printf("  Weighted avg:    %.3f\n", stats.StrengthWeightedAverage)
	return nil
}

func runDatasetClear(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	if err := datasetService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("dataset clear failed: %w", err)
	}
	cmd.Println("Dataset cleared.")
	return nil
}

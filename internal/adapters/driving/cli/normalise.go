package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

var normaliseJSON bool

var normaliseCmd = &cobra.Command{
	Use:   "normalise <file|->",
	Short: "Deduplicate rows and flag conflicts",
	Long: `Reads a JSON array of dataset rows, validates every row, merges rows
that state the same thing with overlapping timing windows and flags groups
whose polarities disagree. Use - to read from stdin.

Rows are compared by system and canonical data point. Current weights
are applied to the output.`,
	Aliases: []string{"normalize"},
	Args:    cobra.ExactArgs(1),
	RunE:    runNormalise,
}

func init() {
	normaliseCmd.Flags().BoolVar(&normaliseJSON, "json", false, "output rows and report as JSON")
	rootCmd.AddCommand(normaliseCmd)
}

// normaliseOutput is the JSON shape of a normalisation run.
type normaliseOutput struct {
	Rows   []domain.DatasetRow    `json:"rows"`
	Report domain.NormaliseReport `json:"report"`
}

func runNormalise(cmd *cobra.Command, args []string) error {
	if normaliseService == nil {
		return errors.New("normalise service not configured")
	}
	var rows []domain.DatasetRow
	if err := decodeInput(cmd, args[0], &rows); err != nil {
		return err
	}

	out, report, err := normaliseService.Normalise(cmd.Context(), rows)
	if err != nil {
		return fmt.Errorf("normalise failed: %w", err)
	}

	if normaliseJSON {
		return printJSON(cmd, normaliseOutput{Rows: out, Report: report})
	}

	printRows(cmd, out)
	cmd.Println()
	cmd.Println(styled(cmd, successStyle, fmt.Sprintf(
		"Normalised %d rows into %d (%d merged, %d conflict sets, %d conflicting rows)",
		report.Input, report.Output, report.Merged, report.ConflictSets, report.Conflicting)))
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

var weightsJSON bool

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show per-system weights",
	Long: `Shows the multiplier applied to each system's rows. Overrides are
persisted in ~/.almanac/settings.toml under [weights].`,
	Args: cobra.NoArgs,
	RunE: runWeightsShow,
}

var weightsSetCmd = &cobra.Command{
	Use:   "set <system> <weight>",
	Short: "Override the weight of a system",
	Args:  cobra.ExactArgs(2),
	RunE:  runWeightsSet,
}

var weightsResetCmd = &cobra.Command{
	Use:   "reset <system>",
	Short: "Restore the built-in weight of a system",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeightsReset,
}

func init() {
	weightsCmd.Flags().BoolVar(&weightsJSON, "json", false, "output as JSON")
	weightsCmd.AddCommand(weightsSetCmd)
	weightsCmd.AddCommand(weightsResetCmd)
	rootCmd.AddCommand(weightsCmd)
}

func runWeightsShow(cmd *cobra.Command, _ []string) error {
	if weightsService == nil {
		return errors.New("weights service not configured")
	}
	weights := weightsService.Weights()
	if weightsJSON {
		return printJSON(cmd, weights)
	}

	printTitle(cmd, "Weights")
	for _, system := range domain.AllSystems() {
		w := weights[system]
		marker := ""
		if w != system.DefaultWeight() {
			marker = styled(cmd, warningStyle, fmt.Sprintf(" (default %.2f)", system.DefaultWeight()))
		}
		cmd.Printf("  %-24s %.2f%s\n", system, w, marker)
	}
	return nil
}

func runWeightsSet(cmd *cobra.Command, args []string) error {
	if weightsService == nil {
		return errors.New("weights service not configured")
	}
	weight, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return &domain.ValidationError{Field: "weight", Message: fmt.Sprintf("invalid number %q", args[1])}
	}
	system := domain.System(args[0])
	if err := weightsService.Set(system, weight); err != nil {
		return fmt.Errorf("failed to set weight: %w", err)
	}
	cmd.Printf("%s weight set to %.2f\n", system, weight)
	return nil
}

func runWeightsReset(cmd *cobra.Command, args []string) error {
	if weightsService == nil {
		return errors.New("weights service not configured")
	}
	system := domain.System(args[0])
	if err := weightsService.Reset(system); err != nil {
		return fmt.Errorf("failed to reset weight: %w", err)
	}
	cmd.Printf("%s weight reset to %.2f\n", system, system.DefaultWeight())
	return nil
}

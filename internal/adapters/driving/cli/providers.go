package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var providersJSON bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show calculator role status",
	Long: `Lists every calculator role, whether an implementation is registered
for it, and how to enable the roles that are not.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	providersCmd.Flags().BoolVar(&providersJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if providerRegistry == nil {
		return errors.New("provider registry not configured")
	}
	statuses := providerRegistry.ListStatus()
	if providersJSON {
		return printJSON(cmd, statuses)
	}

	printTitle(cmd, "Providers")
	cmd.Printf("Environment: %s, engine: %s\n", runtimeSettings.Environment, runtimeSettings.Engine.Description())
	cmd.Println()
	for _, s := range statuses {
		state := styled(cmd, successStyle, "registered")
		if !s.Registered {
			state = styled(cmd, warningStyle, "missing")
		}
		cmd.Printf("  %-16s %-24s %s\n", s.Key, s.Name, state)
		if s.ErrorHint != "" {
			cmd.Printf("  %-16s %s\n", "", styled(cmd, mutedStyle, s.ErrorHint))
		}
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Colour palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// styled renders text with style only when the command writes to a terminal.
func styled(cmd *cobra.Command, style lipgloss.Style, text string) string {
	if !isTerminal(cmd.OutOrStderr()) {
		return text
	}
	return style.Render(text)
}

// printTitle prints an underlined section title.
func printTitle(cmd *cobra.Command, title string) {
	cmd.Println(styled(cmd, titleStyle, title))
	cmd.Println(styled(cmd, mutedStyle, strings.Repeat("=", lipgloss.Width(title))))
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decodeInput reads path and decodes it as JSON into v.
func decodeInput(cmd *cobra.Command, path string, v any) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

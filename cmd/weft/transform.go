package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/internal/cli/ui"
)

var (
	transformJSON    bool
	transformNoColor bool
)

func init() {
	transformCmd.Flags().BoolVar(&transformJSON, "json", false, "Output the full result as JSON")
	transformCmd.Flags().BoolVar(&transformNoColor, "no-color", false, "Disable colored output")
}

var transformCmd = &cobra.Command{
	Use:   "transform [file]",
	Short: "Transform an annotated prompt",
	Long:  "Parse the annotations in the given file (or stdin) and print the transformed prompt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		eng, _, err := setup()
		if err != nil {
			return err
		}

		result, err := eng.Transform(text)
		if err != nil {
			ui.WriteError(os.Stderr, err, catalogNames(eng), transformNoColor)
			if result != nil && len(result.Issues) > 0 {
				ui.WriteIssues(os.Stderr, result.Issues, transformNoColor)
			}
			return fmt.Errorf("transform failed")
		}

		if transformJSON {
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		}

		if len(result.Issues) > 0 {
			ui.WriteIssues(os.Stderr, result.Issues, transformNoColor)
		}
		fmt.Println(result.TransformedText)
		return nil
	},
}

// readInput reads the prompt text from the named file or stdin.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/engine/compat"
	"github.com/weft-lang/weft/internal/cli/ui"
)

var checkNoColor bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "Disable colored output")
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check an annotated prompt without transforming it",
	Long:  "Parse and validate the annotations in the given file (or stdin) and report compatibility issues",
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

		issues, err := eng.Check(text)
		if err != nil {
			ui.WriteError(os.Stderr, err, catalogNames(eng), checkNoColor)
			return fmt.Errorf("check failed")
		}

		if len(issues) == 0 {
			ui.WriteSuccess(os.Stdout, "no compatibility issues", checkNoColor)
			return nil
		}

		ui.WriteIssues(os.Stdout, issues, checkNoColor)
		if compat.AnyBlocking(issues) {
			return fmt.Errorf("blocking compatibility issues found")
		}
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/engine/directive"
)

var (
	listCategory string
	listJSON     bool
)

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show directives in this category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit the catalog as JSON")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the directives in the catalog",
	Long:  "List every registered directive definition, including versions loaded from definition files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup()
		if err != nil {
			return err
		}

		var defs []*directive.Definition
		if listCategory != "" {
			defs = eng.Catalog().ListCategory(listCategory)
		} else {
			defs = eng.Catalog().List()
		}

		if listJSON {
			data, err := json.MarshalIndent(defs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(defs) == 0 {
			fmt.Println("no directives registered")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tDESCRIPTION")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Version, def.Category, def.Description)
		}
		return w.Flush()
	},
}

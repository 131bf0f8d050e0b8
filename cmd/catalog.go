package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/futable/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the concept catalog grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("category")
		if filter != "" && !catalog.Category(filter).Valid() {
			return fmt.Errorf("unknown category %q", filter)
		}

		for _, cat := range catalog.AllCategories() {
			if filter != "" && string(cat) != filter {
				continue
			}
			fmt.Printf("%s (%s)\n", catalog.CategoryDisplayName(cat), cat)
			fmt.Println(strings.Repeat("─", 60))
			for _, c := range catalog.ByCategory(cat) {
				fmt.Printf("%3d  %-3s  %s\n     %s\n", c.Ordinal, c.Symbol, c.Name, c.ShortDesc)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringP("category", "c", "", "Only show one category (basic, mechanism, risk, strategy, asset)")
}

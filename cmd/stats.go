package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Brands:          %d\n", stats.TotalBrands)
		fmt.Printf("Cruelty-free:    %d (%.0f%%)\n", stats.CrueltyFreeCount, stats.CrueltyFreePercentage)
		fmt.Printf("Searches (7d):   %d\n", stats.RecentSearches7d)
		if len(stats.TopSearchedBrands) > 0 {
			fmt.Println("Most searched:")
			for _, b := range stats.TopSearchedBrands {
				fmt.Printf("  %-24s %d\n", b.Brand, b.Count)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/consciouscart/brandcheck/internal/store"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search verified brands by name fragment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Printf("No brands matching %q\n", query)
			return nil
		}

		for _, r := range recs {
			mark := "✗"
			if r.IsCrueltyFree {
				mark = "✓"
			}
			fmt.Printf("%s %s", mark, r.Name)
			if r.ParentCompany != "" {
				fmt.Printf(" (parent: %s)", r.ParentCompany)
			}
			fmt.Printf(" — %s\n", r.Explanation)
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", store.DefaultSearchLimit, "maximum results")
	rootCmd.AddCommand(searchCmd)
}

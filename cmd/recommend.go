package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/consciouscart/brandcheck/internal/recommend"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend <brand>",
	Short: "Recommend cruelty-free alternatives to a brand",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brand := strings.Join(args, " ")

		env, err := initEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer env.Close()

		recs, err := env.Agent.Alternatives(cmd.Context(), brand, recommendLimit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Printf("No cruelty-free alternatives found for %s\n", brand)
			return nil
		}

		fmt.Printf("Cruelty-free alternatives to %s:\n", brand)
		for i, r := range recs {
			fmt.Printf("%d. %s (%.2f) — %s\n", i+1, r.BrandName, r.Score, r.MatchReason)
		}

		return nil
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", recommend.DefaultLimit, "maximum recommendations")
	rootCmd.AddCommand(recommendCmd)
}

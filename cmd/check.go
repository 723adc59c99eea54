package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkOffline bool

var checkCmd = &cobra.Command{
	Use:   "check <brand>",
	Short: "Verify whether a brand is cruelty-free",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brand := strings.Join(args, " ")

		env, err := initEnv(cmd.Context(), checkOffline)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Agent.Verify(cmd.Context(), brand)
		if err != nil {
			return err
		}

		verdict := "NOT cruelty-free"
		if res.IsCrueltyFree {
			verdict = "Cruelty-free"
		}
		fmt.Printf("%s: %s\n", res.Brand, verdict)
		fmt.Printf("Confidence: %.2f (%s)\n", res.Confidence, res.Label)
		if res.Explanation != "" {
			fmt.Printf("Why: %s\n", res.Explanation)
		}
		if len(res.Sources) > 0 {
			fmt.Printf("Sources: %s\n", strings.Join(res.Sources, ", "))
		}

		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkOffline, "offline", false, "skip live web search, use canned results")
	rootCmd.AddCommand(checkCmd)
}

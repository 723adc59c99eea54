package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <brand>",
	Short: "Delete a brand record",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brand := strings.Join(args, " ")

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(cmd.Context(), brand); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", brand)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Bulk import brands from a CSV or XLSX dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := importer.ReadFile(path)
		if err != nil {
			return err
		}

		result, err := st.BulkImport(cmd.Context(), rows)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", path),
			zap.Int("imported", result.Imported),
			zap.Int("skipped", result.Skipped),
		)
		fmt.Printf("Imported %d of %d rows (%d skipped)\n", result.Imported, result.Total, result.Skipped)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

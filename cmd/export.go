package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all brand records to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ListBrands(cmd.Context(), false)
		if err != nil {
			return err
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrap(err, "export: create file")
			}
			defer f.Close()
			out = f
		}

		w := csv.NewWriter(out)
		header := []string{"name", "is_cruelty_free", "parent_company", "explanation", "sources", "confidence", "category", "price_tier", "last_verified"}
		if err := w.Write(header); err != nil {
			return eris.Wrap(err, "export: write header")
		}
		for _, r := range recs {
			row := []string{
				r.Name,
				strconv.FormatBool(r.IsCrueltyFree),
				r.ParentCompany,
				r.Explanation,
				strings.Join(r.Sources, ","),
				strconv.FormatFloat(r.Confidence, 'f', 2, 64),
				string(r.Category),
				string(r.PriceTier),
				r.LastVerified.Format("2006-01-02 15:04:05"),
			}
			if err := w.Write(row); err != nil {
				return eris.Wrap(err, "export: write row")
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "export: flush")
		}

		if exportOut != "" {
			fmt.Printf("Exported %d brands to %s\n", len(recs), exportOut)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fundingdash/internal/exporter"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

func (c *cli) prepareCmd() *cobra.Command {
	var (
		output string
		bom    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Clean the funding CSV and print missing-value diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := svc.Snapshot()
			if err != nil {
				return err
			}

			if output != "" {
				if err := c.files().ValidateOutputDirectory(filepath.Dir(output)); err != nil {
					return err
				}
				if err := exporter.NewCSVWriter(c.logger).WriteFile(output, snap.Table, exporter.WriteOptions{BOMPrefix: bom}); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Report)
			}
			return writeDiagnostics(cmd.OutOrStdout(), snap.Report, snap.Table)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the cleaned table to this CSV file")
	cmd.Flags().BoolVar(&bom, "bom", false, "prefix the CSV with a UTF-8 byte order mark")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the preparation report as JSON")
	return cmd
}

func writeDiagnostics(w io.Writer, report domain.PreparationReport, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Source\t%s\n", report.Source)
	fmt.Fprintf(tw, "Rows\t%d\n", report.Rows)
	fmt.Fprintf(tw, "Columns (as loaded)\t%d\n", report.Columns)
	fmt.Fprintf(tw, "Unparsed amounts\t%d\n", report.UnparsedAmounts)
	fmt.Fprintf(tw, "Unparsed dates\t%d\n", report.UnparsedDates)
	if report.AmountMean != nil {
		fmt.Fprintf(tw, "Amount mean\t%s\n", table.Num(*report.AmountMean).Format())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Column\tMissing before\tImputed\tMissing after")
	for _, nc := range t.NullCounts() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
			nc.Column, report.MissingBefore[nc.Column], report.Imputed[nc.Column], nc.Missing)
	}
	return tw.Flush()
}

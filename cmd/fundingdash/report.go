package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fundingdash/internal/analytics"
	"fundingdash/internal/exporter"
	"fundingdash/pkg/contracts/domain"
)

func (c *cli) reportCmd() *cobra.Command {
	var (
		year     int
		company  string
		distinct bool
		top      int
		xlsx     string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.dashboard(cmd.Context())
			if err != nil {
				return err
			}

			filters := svc.DefaultFilters()
			if cmd.Flags().Changed("year") {
				filters.Year = &year
			}
			if cmd.Flags().Changed("distinct") {
				filters.Distinct = distinct
			}
			if cmd.Flags().Changed("top") {
				filters.TopN = top
			}
			filters.Company = company

			d, err := svc.Dashboard(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if xlsx != "" {
				snap, err := svc.Snapshot()
				if err != nil {
					return err
				}
				if err := c.files().ValidateOutputDirectory(filepath.Dir(xlsx)); err != nil {
					return err
				}
				if err := writeWorkbook(xlsx, exporter.Workbook{Dashboard: d, Report: &snap.Report, Table: snap.Table}); err != nil {
					return err
				}
				c.logger.InfoContext(cmd.Context(), "workbook written", "path", xlsx)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			return writeReport(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "show the funding total of this year")
	cmd.Flags().StringVar(&company, "company", "", "show the funding total of this startup")
	cmd.Flags().BoolVar(&distinct, "distinct", true, "deduplicate the company selector list")
	cmd.Flags().IntVar(&top, "top", 0, "ranking length (default data.top_n)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the dashboard workbook to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	return cmd
}

func writeWorkbook(path string, wb exporter.Workbook) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := wb.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeReport(w io.Writer, d domain.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Funding\t%s\n", analytics.FormatUSD(d.Summary.TotalFunding))
	fmt.Fprintf(tw, "Total Startups Funded\t%d\n", d.Summary.DistinctStartups)
	fmt.Fprintf(tw, "Average Funding per Startup\t%s\n", analytics.FormatUSD(d.Summary.MeanFunding))
	fmt.Fprintf(tw, "Total Investors\t%d\n", d.Summary.DistinctInvestors)
	if d.YearFunding != nil {
		fmt.Fprintf(tw, "Funding in %s\t%s\n", d.YearFunding.Value, analytics.FormatUSD(d.YearFunding.Amount))
	}
	if d.CompanyFunding != nil {
		fmt.Fprintf(tw, "Funding to %s\t%s\n", d.CompanyFunding.Value, analytics.FormatUSD(d.CompanyFunding.Amount))
	}
	writeRanking(tw, "Cities", d.TopCities)
	writeRanking(tw, "Companies", d.TopCompanies)
	return tw.Flush()
}

func writeRanking(w io.Writer, label string, ranked []domain.RankedAmount) {
	fmt.Fprintf(w, "\nTop %d %s\n", len(ranked), label)
	for _, r := range ranked {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			strconv.Itoa(r.Rank), r.Key, analytics.FormatUSD(r.Amount), analytics.FormatShare(r.Share))
	}
}

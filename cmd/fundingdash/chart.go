package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"fundingdash/internal/charts"
)

func (c *cli) chartCmd() *cobra.Command {
	var (
		out    string
		format string
		top    int
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the top cities pie and top companies bar charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			cities, err := svc.TopCities(cmd.Context(), top)
			if err != nil {
				return err
			}
			companies, err := svc.TopCompanies(cmd.Context(), top)
			if err != nil {
				return err
			}

			pie, err := charts.CityPie(cities)
			if err != nil {
				return fmt.Errorf("cities chart: %w", err)
			}
			bar, err := charts.CompanyBar(companies)
			if err != nil {
				return fmt.Errorf("companies chart: %w", err)
			}

			if err := c.files().ValidateOutputDirectory(out); err != nil {
				return err
			}
			opts := charts.Options{Format: format}
			for name, p := range map[string]*plot.Plot{"cities": pie, "companies": bar} {
				path := filepath.Join(out, name+"."+format)
				if err := writeChart(path, p, opts); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", charts.FormatPNG, "image format: png or svg")
	cmd.Flags().IntVar(&top, "top", 0, "ranking length (default data.top_n)")
	return cmd
}

func writeChart(path string, p *plot.Plot, opts charts.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := charts.Write(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

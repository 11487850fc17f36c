package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fundingdash/internal/app"
	"fundingdash/internal/config"
	"fundingdash/internal/infrastructure"
	"fundingdash/internal/services"
	"fundingdash/internal/validation"
)

// cli holds the flags shared by every subcommand and the configuration
// they resolve to.
type cli struct {
	configPath      string
	input           string
	logLevel        string
	yearOptions     string
	cityDefault     string
	industryDefault string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "fundingdash",
		Short: "Startup funding dashboard",
		Long: "Clean the startup funding CSV export, answer dashboard queries over it and\n" +
			"serve them over HTTP. Flags override the config file and FUNDINGDASH_* variables.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default config.yaml or configs/config.yaml when present)")
	flags.StringVarP(&c.input, "input", "i", "", "funding CSV to prepare (overrides data.input_path)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&c.yearOptions, "year-options", "", "year selector domain: derived or legacy")
	flags.StringVar(&c.cityDefault, "city-default", "", "value for missing cities")
	flags.StringVar(&c.industryDefault, "industry-default", "", "value for missing industries")

	root.AddCommand(
		c.serveCmd(),
		c.prepareCmd(),
		c.reportCmd(),
		c.chartCmd(),
		c.versionCmd(),
	)
	return root
}

// load resolves defaults < file < env < flags and builds the CLI logger.
func (c *cli) load(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"input":            &cfg.Data.InputPath,
		"log-level":        &cfg.Logging.Level,
		"year-options":     &cfg.Data.YearOptions,
		"city-default":     &cfg.Data.CityDefault,
		"industry-default": &cfg.Data.IndustryDefault,
	}
	values := map[string]string{
		"input":            c.input,
		"log-level":        c.logLevel,
		"year-options":     c.yearOptions,
		"city-default":     c.cityDefault,
		"industry-default": c.industryDefault,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst = values[name]
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.cfg = cfg
	c.logger = infrastructure.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
	return nil
}

// dashboard prepares the input file for one-shot commands. Telemetry is not
// initialized outside serve.
func (c *cli) dashboard(ctx context.Context) (*services.DashboardService, error) {
	if err := c.files().ValidateCSVFile(c.cfg.Data.InputPath); err != nil {
		return nil, err
	}
	preparer := app.NewPreparer(c.cfg.Data, c.logger, nil, nil)
	return services.NewDashboardService(ctx, c.cfg.Data, preparer, nil, c.logger)
}

func (c *cli) files() *validation.FileValidator {
	return validation.NewFileValidator(c.logger)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.AppName, app.Version)
			return err
		},
	}
}

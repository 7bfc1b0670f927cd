package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thomasXwang/covid-visualizer/internal/app"
	"github.com/thomasXwang/covid-visualizer/internal/covid"
	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/covid/export"
	"github.com/thomasXwang/covid-visualizer/internal/covid/usecase"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkglog"
)

func newTopCmd() *cobra.Command {
	var (
		metricRaw string
		n         int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the countries with the highest latest value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, err := entity.ParseMetric(metricRaw)
			if err != nil {
				return err
			}

			uc, err := newCLIUsecase()
			if err != nil {
				return err
			}

			result, err := uc.TopCountries(cmd.Context(), metric, n)
			if err != nil {
				return fmt.Errorf("rank countries: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "#\tCOUNTRY\t%s (%s)\n", strings.ToUpper(string(metric)), result.Date)
			for i, c := range result.Countries {
				fmt.Fprintf(tw, "%d\t%s\t%.0f\n", i+1, c.Country, c.Latest)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&metricRaw, "metric", string(entity.MetricConfirmed), "Metric: confirmed, deaths, recovered")
	cmd.Flags().IntVarP(&n, "limit", "n", 10, "Number of countries")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		metricRaw  string
		countries  []string
		n          int
		outputPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write country series to an xlsx workbook or a YAML document",
		Long: `Writes one series per country. The xlsx format has a Date column
followed by one column per country. Without --countries the top -n
countries of the metric are exported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, err := entity.ParseMetric(metricRaw)
			if err != nil {
				return err
			}

			write, ext, err := exportWriter(format)
			if err != nil {
				return err
			}

			uc, err := newCLIUsecase()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if len(countries) == 0 {
				if countries, err = topLabels(ctx, uc, metric, n); err != nil {
					return err
				}
			}

			result, err := uc.Compare(ctx, metric, countries)
			if err != nil {
				return fmt.Errorf("assemble series: %w", err)
			}

			if outputPath == "" {
				outputPath = string(metric) + ext
			}

			file, err := os.Create(outputPath)
			if err != nil {
				return err
			}

			if err := write(file, string(metric), result.Series); err != nil {
				_ = file.Close()
				return fmt.Errorf("write %s: %w", format, err)
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d series to %s\n", result.Series.Len(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&metricRaw, "metric", string(entity.MetricConfirmed), "Metric: confirmed, deaths, recovered")
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "Countries to export (comma separated)")
	cmd.Flags().IntVarP(&n, "limit", "n", 5, "Number of top countries when --countries is empty")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: <metric>.<format>)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "Output format: xlsx, yaml")

	return cmd
}

func exportWriter(format string) (func(io.Writer, string, *entity.SeriesCollection) error, string, error) {
	switch strings.ToLower(format) {
	case "xlsx":
		return export.WriteXLSX, ".xlsx", nil
	case "yaml", "yml":
		return export.WriteYAML, ".yaml", nil
	default:
		return nil, "", fmt.Errorf("invalid format: %s (must be xlsx or yaml)", format)
	}
}

func topLabels(ctx context.Context, uc *usecase.Usecase, metric entity.Metric, n int) ([]string, error) {
	top, err := uc.TopCountries(ctx, metric, n)
	if err != nil {
		return nil, fmt.Errorf("rank countries: %w", err)
	}

	labels := make([]string, 0, len(top.Countries))
	for _, c := range top.Countries {
		labels = append(labels, c.Country)
	}
	return labels, nil
}

// newCLIUsecase logs to stderr so stdout stays clean for command output.
func newCLIUsecase() (*usecase.Usecase, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := pkglog.ParseLevel(cfg.GetString("log.level"))
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	slog.SetDefault(pkglog.NewLogger(os.Stderr, app.ServiceName, level))

	return covid.NewUsecase(covid.Dependency{Config: cfg})
}

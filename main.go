package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomasXwang/covid-visualizer/internal/app"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "covid-visualizer",
		Short:        "Serve and export chart-ready COVID-19 time series",
		SilenceUsage: true,
		RunE:         serve,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", app.ConfigPath(), "Path to the YAML configuration file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		newTopCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(_ *cobra.Command, _ []string) error {
	application := app.New(configPath) // Initialize the application
	wait := application.Start()        // Start the application and wait for the termination signal
	<-wait                             // Wait for the application to receive a termination signal

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	application.Stop(ctx) // Stop the application gracefully
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/mpopescu/atsmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing session-scoped analysis endpoints. Each session holds its own CV snapshot and analysis cache.",
	RunE:  runServe,
}

var (
	serveAddr   string
	serveRPM    int
	serveConfig string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, e.g. :8080")
	serveCmd.Flags().IntVar(&serveRPM, "rpm", 0, "Per-client requests per minute (0 = config default)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := mergedConfig(serveConfig)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ServerAddr = serveAddr
	}
	if serveRPM > 0 {
		cfg.RequestsPerMinute = serveRPM
	}

	return server.New(cfg).Start()
}

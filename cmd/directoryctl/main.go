package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appconfig "github.com/wolfman30/dental-directory/internal/config"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "directoryctl",
		Short:         "Query the dentist directory and exercise the booking flow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("catalog", cfg.DirectoryCatalogPath, "Catalog file (.json or .yaml); empty uses Redis or the embedded seed")

	rootCmd.AddCommand(
		facetsCmd(cfg, logger),
		searchCmd(cfg, logger),
		browseCmd(cfg, logger),
		publishCmd(cfg, logger),
		checkRequestCmd(),
		bookCmd(cfg, logger),
	)
	return rootCmd
}

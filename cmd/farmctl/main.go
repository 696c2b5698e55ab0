// Command farmctl imports and exports the AgriMind dataset without the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"agrimind/config"
	"agrimind/database"
	"agrimind/pkg/backup"
	"agrimind/pkg/logger"
	transferRepoImp "agrimind/pkg/transfer/repositoryImp"
	"agrimind/pkg/transfer/service"
	transferSvcImp "agrimind/pkg/transfer/serviceImp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "farmctl",
		Short:        "Bulk import and export of farm data",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	open := func(ctx context.Context) (service.TransferService, error) {
		cfg := config.Load()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log := logger.New(logger.Config{Level: level, Format: "console", Output: os.Stderr, ServiceName: "farmctl"})
		return openTransfer(ctx, cfg, log)
	}

	root.AddCommand(newImportCmd(open), newExportCmd(open), newRunsCmd(open))
	return root
}

type opener func(ctx context.Context) (service.TransferService, error)

func openTransfer(ctx context.Context, cfg config.AppConfig, log zerolog.Logger) (service.TransferService, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	backups, err := backup.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open backup store: %w", err)
	}
	return transferSvcImp.New(transferRepoImp.New(db), transferRepoImp.NewImportRuns(db), backups, nil, log), nil
}

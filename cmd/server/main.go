package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fsrsite/internal/config"
	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"github.com/fsrsite/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var cfg config.AppConfig

var rootCommand = &cobra.Command{
	Use:   "fsrsite",
	Short: "Backend for the FSR microsites",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		gin.SetMode(cfg.GinMode)
		logging.Setup(cfg.LogLevel, cfg.GinMode == gin.DebugMode)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func main() {
	rootCommand.AddCommand(serveCommand, migrateCommand, grantAdminCommand, createFSRCommand)
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDatabase() error {
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func openContentStore(ctx context.Context) (content.Store, error) {
	switch cfg.ContentBackend {
	case "", "fs":
		return content.NewFSStore(cfg.ContentDir)
	case "s3":
		client, err := content.NewS3Client(ctx, content.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return content.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix)
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.ContentBackend)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fsrsite/internal/db"
	"github.com/fsrsite/internal/logging"
	"github.com/fsrsite/internal/service"
	"github.com/spf13/cobra"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Run: func(cmd *cobra.Command, args []string) {
		if err := openDatabase(); err != nil {
			logging.Fatal().Err(err).Msg("migration failed")
		}
		logging.Info().Str("driver", cfg.DatabaseDriver).Msg("database migrated")
	},
}

var grantAdminCommand = &cobra.Command{
	Use:   "grant-admin [ugent id] [fsr slug]",
	Short: "Make a user admin of an FSR",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := openDatabase(); err != nil {
			logging.Fatal().Err(err).Msg("database setup failed")
		}
		ctx := context.Background()

		fsr, err := service.NewFSRService(db.DB, nil).GetBySlug(ctx, args[1])
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}

		users := service.NewUserService(db.DB)
		if _, _, err := users.Ensure(ctx, service.UserInfo{UGentID: args[0]}); err != nil {
			fmt.Printf("Failed to create user: %v\n", err)
			os.Exit(1)
		}
		if err := users.SetAdmin(ctx, args[0], fsr.Slug, true); err != nil {
			fmt.Printf("Failed to grant admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("User %s is now admin of %s\n", args[0], fsr.Slug)
	},
}

var createFSRCommand = &cobra.Command{
	Use:   "create-fsr [slug] [name] [primary color] [secondary color]",
	Short: "Create an FSR without going through the API",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		if err := openDatabase(); err != nil {
			logging.Fatal().Err(err).Msg("database setup failed")
		}
		ctx := context.Background()
		store, err := openContentStore(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("content store setup failed")
		}

		fsr, err := service.NewFSRService(db.DB, store).Create(ctx, service.FSRInput{
			Slug:           args[0],
			Name:           args[1],
			PrimaryColor:   args[2],
			SecondaryColor: args[3],
		}, nil)
		if err != nil {
			fmt.Printf("Failed to create FSR: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created FSR %s (%s)\n", fsr.Slug, fsr.Name)
	},
}

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hmuro/productivity-tracker/internal/config"
	"github.com/hmuro/productivity-tracker/internal/database"
	"github.com/hmuro/productivity-tracker/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and create indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.Init(cfg.Env)

		if err := database.Connect(cfg); err != nil {
			return err
		}
		if err := database.Migrate(); err != nil {
			return err
		}
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			return err
		}

		log.Info().Msg("migrations completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package commands

import (
	"fmt"

	"github.com/farellandr/clubhub/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed roles and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.InitDatabase(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logrus.WithField("db_type", cfg.DBType).Info("database migrated")
		fmt.Fprintln(cmd.OutOrStdout(), "Migration complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

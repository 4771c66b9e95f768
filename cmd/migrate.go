package cmd

import (
	"context"
	"fmt"

	"portfolio/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes",
	Long: `Create the users, posts and projects tables for the SQL drivers, or the
unique username and createdAt indexes for mongo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	fmt.Printf("migrated %s database\n", cfg.DBDriver)
	return nil
}

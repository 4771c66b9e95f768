package cmd

import (
	"context"
	"errors"
	"fmt"

	"portfolio/config"

	"github.com/spf13/cobra"
)

var useraddPassword string

var useraddCmd = &cobra.Command{
	Use:   "useradd <username>",
	Short: "Create a user account",
	Long: `Create a user account without going through the HTTP API.

Examples:
  portfolio useradd admin --password 's3cret!'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUseradd(cmd.Context(), args[0], useraddPassword)
	},
}

func init() {
	useraddCmd.Flags().StringVarP(&useraddPassword, "password", "p", "", "Password for the new user")
}

func runUseradd(ctx context.Context, username, password string) error {
	if password == "" {
		return errors.New("--password is required")
	}

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
	auth, err := newAuthService(cfg, s)
	if err != nil {
		return err
	}

	user, err := auth.Register(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
	return nil
}

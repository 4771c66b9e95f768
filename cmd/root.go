package cmd

import (
	"fmt"
	"log"
	"os"

	"portfolio/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio content API",
	Long: `Portfolio serves blog posts and portfolio projects over a JSON API,
with cookie-based sessions and image uploads to Cloudinary or local disk.

Settings are read from the environment, optionally seeded from an env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File to load environment variables from")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(useraddCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}

func newLogger() *log.Logger {
	return log.New(os.Stdout, "[portfolio] ", log.LstdFlags)
}

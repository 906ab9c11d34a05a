package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/app/animedb/cli"
)

var version = "dev" // this will be set by the linker

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

// newRootCmd creates and configures the root command. Tests build fresh
// instances through this as well.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animedb",
		Short: "Anime catalog API backed by MongoDB",
		Long: `animedb serves an anime catalog over HTTP: movies and series with
per-episode stream links, search, a websocket event feed and a background
checker that notices dead stream links.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Start()
		},
	}
	cmd.Version = version

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Start()
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load anime from a JSON file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Seed(seedFile)
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.json", "JSON file with an array of anime")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(seedCmd)
	return cmd
}

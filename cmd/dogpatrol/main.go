// dogpatrol is the authoritative simulation server for the dog patrol game.
//
// Usage:
//
//	dogpatrol serve        - Run the world until interrupted
//	dogpatrol simulate     - Run bot players through a fixed number of ticks
//	dogpatrol records      - Show the retired players leaderboard
//	dogpatrol maps         - List maps from the game document
//
// Global flags:
//
//	--config <path>  - Game document (default: search ~/.dogpatrol, ./configs, embedded)
//	--db <path>      - Leaderboard database (default: $DOGPATROL_DB or ~/.dogpatrol/records.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dogpatrol/internal/config"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dogpatrol",
	Short: "Dog Patrol - authoritative game world server",
	Long: `Dog Patrol simulates dogs running along city roads, picking up lost
items and carrying them to offices for points.

Available commands:
  serve     - Run the world with a tick timer or in self-paced mode
  simulate  - Drive bot players through the world and print the results
  records   - View the retired players leaderboard
  maps      - List the maps of the game document

Examples:
  dogpatrol serve --tick-period 50ms --state-file ./state.zst
  dogpatrol simulate --bots 8 --ticks 2000
  dogpatrol records --limit 20
  dogpatrol maps --config ./configs/game.yaml`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to game document (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to leaderboard database")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(mapsCmd)
}

// serverConfig merges the environment with the flags given on the command line.
func serverConfig() config.ServerConfig {
	cfg, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg
}

// loadGame reads the game document and builds the world model from it.
func loadGame() (config.GameConfig, *model.Game) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game config: %v\n", err)
		os.Exit(1)
	}
	game, err := config.BuildGame(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building game: %v\n", err)
		os.Exit(1)
	}
	return cfg, game
}

func openStore(cfg config.ServerConfig) *storage.Store {
	store, err := storage.Open(cfg.DBPath, cfg.DBPoolSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening leaderboard database: %v\n", err)
		os.Exit(1)
	}
	return store
}

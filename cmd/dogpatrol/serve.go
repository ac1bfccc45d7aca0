package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/dogpatrol/internal/app"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
)

var (
	flagTickPeriod     time.Duration
	flagRandomizeSpawn bool
	flagStateFile      string
	flagSavePeriod     time.Duration
	flagDBPool         int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game world",
	Long: `Run the authoritative game world until interrupted.

With a positive --tick-period the world advances on its own timer. With
--tick-period 0 the world only advances when a tick is requested.

If --state-file is set, the world is restored from it on startup and saved
to it on shutdown (and every --save-state-period of game time).

Settings can also come from the environment:
  DOGPATROL_DB, DOGPATROL_DB_POOL, DOGPATROL_STATE_FILE,
  DOGPATROL_SAVE_PERIOD, DOGPATROL_TICK_PERIOD, DOGPATROL_RANDOMIZE_SPAWN

Examples:
  dogpatrol serve
  dogpatrol serve --tick-period 100ms --randomize-spawn-points
  dogpatrol serve --state-file ./state.zst --save-state-period 1m`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&flagTickPeriod, "tick-period", multiplayer.DefaultCoordinatorConfig().TickPeriod, "World tick period (0 = self-paced)")
	serveCmd.Flags().BoolVar(&flagRandomizeSpawn, "randomize-spawn-points", false, "Spawn dogs at random road positions")
	serveCmd.Flags().StringVar(&flagStateFile, "state-file", "", "Path to the world state file")
	serveCmd.Flags().DurationVar(&flagSavePeriod, "save-state-period", 0, "Game time between automatic saves (0 = only on shutdown)")
	serveCmd.Flags().IntVar(&flagDBPool, "db-pool", 0, "Leaderboard connection pool size")
}

func runServe(cmd *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dogpatrol",
	})

	cfg := serverConfig()
	flags := cmd.Flags()
	if _, fromEnv := os.LookupEnv("DOGPATROL_TICK_PERIOD"); flags.Changed("tick-period") || !fromEnv {
		cfg.TickPeriod = flagTickPeriod
	}
	if flags.Changed("randomize-spawn-points") {
		cfg.RandomizeSpawn = flagRandomizeSpawn
	}
	if flags.Changed("state-file") {
		cfg.StateFile = flagStateFile
	}
	if flags.Changed("save-state-period") {
		cfg.SavePeriod = flagSavePeriod
	}
	if flags.Changed("db-pool") {
		cfg.DBPoolSize = flagDBPool
	}

	_, game := loadGame()
	store := openStore(cfg)
	defer store.Close()

	events := multiplayer.NewEventStream(256)
	world := app.New(game, store, app.Config{
		RandomizeSpawn: cfg.RandomizeSpawn,
		StateFile:      cfg.StateFile,
		SavePeriod:     cfg.SavePeriod,
		Logger:         logger,
		Events:         events,
	})

	if cfg.StateFile != "" {
		if err := world.RestoreState(); err != nil {
			logger.Error("Failed to restore state, starting empty", "file", cfg.StateFile, "error", err)
		} else {
			logger.Info("State restored", "file", cfg.StateFile, "players", world.PlayerCount())
		}
	}

	coord := multiplayer.NewCoordinator(multiplayer.CoordinatorConfig{
		TickPeriod: cfg.TickPeriod,
		QueueSize:  multiplayer.DefaultCoordinatorConfig().QueueSize,
	}, world, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logEvents(gctx, logger, events)
		return nil
	})

	coord.Start()
	logger.Info("World started",
		"maps", len(game.Maps()),
		"tick_period", cfg.TickPeriod,
		"self_paced", coord.SelfPaced(),
		"db", cfg.DBPath,
	)

	<-ctx.Done()
	logger.Info("Shutting down")
	coord.Stop()
	events.Close()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Shutdown error", "error", err)
	}

	if cfg.StateFile == "" {
		return
	}
	if err := world.SaveState(); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
		os.Exit(1)
	}
	logger.Info("State saved", "file", cfg.StateFile)
}

// logEvents writes world events to the log until ctx is done or the stream
// is closed.
func logEvents(ctx context.Context, logger *log.Logger, events *multiplayer.EventStream) {
	for {
		select {
		case evt := <-events.Events():
			switch e := evt.(type) {
			case multiplayer.PlayerJoinedEvent:
				logger.Info("Player joined", "id", e.PlayerID, "name", e.Name, "map", e.MapID)
			case multiplayer.LootDeliveredEvent:
				logger.Debug("Loot delivered", "id", e.PlayerID, "map", e.MapID, "items", e.Items, "points", e.Points, "score", e.Score)
			case multiplayer.PlayerRetiredEvent:
				logger.Info("Player retired", "id", e.PlayerID, "name", e.Name, "map", e.MapID, "score", e.Score, "play_time", e.PlayTime)
			}
		case <-events.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

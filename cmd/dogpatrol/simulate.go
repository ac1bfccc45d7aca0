package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dogpatrol/internal/app"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
	"github.com/vovakirdan/dogpatrol/internal/storage"
)

var (
	flagBots      int
	flagTicks     int
	flagTickDelta time.Duration
	flagSimMap    string
	flagSeed      uint64
	flagTurnProb  float64
	flagVerbose   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive bot players through the world",
	Long: `Join a number of bot players, steer them at random for a fixed number
of self-paced ticks and print where everybody ended up.

Bots that stand still long enough retire and land on the leaderboard. Unless
--db is given, the leaderboard lives in a temporary directory.

Examples:
  dogpatrol simulate
  dogpatrol simulate --bots 10 --ticks 5000 --map town
  dogpatrol simulate --seed 42 --tick-delta 100ms`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagBots, "bots", 4, "Number of bot players")
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 1000, "Number of ticks to run")
	simulateCmd.Flags().DurationVar(&flagTickDelta, "tick-delta", 50*time.Millisecond, "Game time per tick")
	simulateCmd.Flags().StringVar(&flagSimMap, "map", "", "Map to join (default: spread over all maps)")
	simulateCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	simulateCmd.Flags().Float64Var(&flagTurnProb, "turn-chance", 0.02, "Chance per tick that a bot changes direction")
	simulateCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log world events")
}

type bot struct {
	info multiplayer.PlayerInfo
	gone bool
}

// botDirections includes the empty command so bots sometimes stand still.
var botDirections = []string{"U", "D", "L", "R", ""}

func runSimulate(_ *cobra.Command, _ []string) {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "simulate",
		Level:           level,
	})

	if flagBots < 1 || flagTicks < 1 || flagTickDelta <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --bots, --ticks and --tick-delta must be positive")
		os.Exit(1)
	}

	cfg := serverConfig()
	if flagDBPath == "" {
		dir, err := os.MkdirTemp("", "dogpatrol-sim-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating temp dir: %v\n", err)
			os.Exit(1)
		}
		defer os.RemoveAll(dir)
		cfg.DBPath = dir + "/records.db"
	}

	_, game := loadGame()
	store := openStore(cfg)
	defer store.Close()

	seed := flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	events := multiplayer.NewEventStream(1024)
	defer events.Close()
	world := app.New(game, store, app.Config{
		RandomizeSpawn: true,
		Logger:         logger,
		Rand:           rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())),
		Events:         events,
	})

	coord := multiplayer.NewCoordinator(multiplayer.CoordinatorConfig{}, world, logger)
	coord.Start()
	defer coord.Stop()

	ctx := context.Background()
	go logEvents(ctx, logger, events)

	bots, err := joinBots(ctx, coord, game, flagBots, flagSimMap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error joining bots: %v\n", err)
		os.Exit(1)
	}

	for range flagTicks {
		for _, b := range bots {
			if b.gone || rng.Float64() >= flagTurnProb {
				continue
			}
			dir := botDirections[rng.IntN(len(botDirections))]
			if err := coord.Move(ctx, b.info.Token, dir); err != nil {
				if !errors.Is(err, app.ErrUnknownToken) {
					fmt.Fprintf(os.Stderr, "Error moving bot: %v\n", err)
					os.Exit(1)
				}
				// retired on a previous tick
				b.gone = true
			}
		}
		if err := coord.Tick(ctx, flagTickDelta); err != nil {
			fmt.Fprintf(os.Stderr, "Error advancing world: %v\n", err)
			os.Exit(1)
		}
	}

	rows, err := liveBotRows(ctx, coord, world, bots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading world: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Duration(flagTicks) * flagTickDelta
	fmt.Printf("Simulated %s of game time with %d bots (seed %d)\n\n", elapsed, len(bots), seed)
	if len(rows) > 0 {
		fmt.Println("Active players")
		fmt.Println(renderTable([]string{"ID", "Name", "Map", "Score", "Bag", "Play time"}, rows))
		fmt.Println()
	}

	records, err := world.Records(ctx, 0, storage.MaxRecords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving records: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No bot retired during the run.")
		return
	}
	fmt.Println("Retired players")
	fmt.Println(renderRecords(records, 0))
}

// joinBots adds n bots, on mapID or round robin over every map.
func joinBots(ctx context.Context, coord *multiplayer.Coordinator, game *model.Game, n int, mapID string) ([]*bot, error) {
	maps := game.Maps()
	if len(maps) == 0 {
		return nil, errors.New("game has no maps")
	}
	bots := make([]*bot, 0, n)
	for i := range n {
		id := model.MapID(mapID)
		if mapID == "" {
			id = maps[i%len(maps)].ID()
		}
		name := "bot-" + strconv.Itoa(i+1)
		info, err := coord.Join(ctx, name, id)
		if err != nil {
			return nil, fmt.Errorf("join %s to %q: %w", name, id, err)
		}
		bots = append(bots, &bot{info: info})
	}
	return bots, nil
}

// liveBotRows collects the still active bots, best score first.
func liveBotRows(ctx context.Context, coord *multiplayer.Coordinator, world *app.Application, bots []*bot) ([][]string, error) {
	type live struct {
		id    multiplayer.PlayerID
		mapID model.MapID
		dog   model.DogState
	}
	var found []live
	err := coord.View(ctx, func() {
		for _, b := range bots {
			state, err := world.State(b.info.Token)
			if err != nil {
				continue
			}
			for _, d := range state.Dogs {
				if d.PlayerID == b.info.ID {
					found = append(found, live{id: d.PlayerID, mapID: state.MapID, dog: d.Dog})
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dog.Score > found[j].dog.Score
	})
	rows := make([][]string, 0, len(found))
	for _, f := range found {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(f.id), 10),
			f.dog.Name,
			string(f.mapID),
			strconv.Itoa(f.dog.Score),
			fmt.Sprintf("%d/%d", len(f.dog.Bag), f.dog.BagCapacity),
			formatPlayTime(f.dog.PlayTime),
		})
	}
	return rows, nil
}

// Package app is the simulation authority: it joins players, applies their
// moves, advances the world tick by tick and keeps the crash-recovery
// snapshot. An Application is not safe for concurrent use; run it behind a
// multiplayer.Coordinator.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
	"github.com/vovakirdan/dogpatrol/internal/storage"
)

var (
	ErrWrongName    = errors.New("app: invalid name")
	ErrWrongMap     = errors.New("app: map not found")
	ErrBadDelta     = errors.New("app: tick delta must be positive")
	ErrBadDirection = errors.New("app: invalid move direction")
	ErrUnknownToken = multiplayer.ErrPlayerNotFound
)

// Leaderboard stores the final results of retired players.
type Leaderboard interface {
	WriteRecord(ctx context.Context, name string, score int, playTime time.Duration) (string, error)
	Records(ctx context.Context, offset, limit int) ([]storage.Record, error)
}

// Config holds the optional behaviour of an Application.
type Config struct {
	// RandomizeSpawn places new dogs at a random point of the first road
	// instead of its start.
	RandomizeSpawn bool
	// StateFile enables snapshots when set.
	StateFile string
	// SavePeriod is the amount of simulated time between snapshots. Zero
	// means snapshots are only taken through SaveState.
	SavePeriod time.Duration

	Logger *log.Logger
	Rand   *rand.Rand
	Events multiplayer.EventSink
}

// Application owns the game registry and the players in it.
type Application struct {
	game        *model.Game
	players     *multiplayer.Players
	leaderboard Leaderboard
	cfg         Config
	logger      *log.Logger
	rng         *rand.Rand

	sinceSave time.Duration
	retiring  []multiplayer.Token
}

var _ multiplayer.World = (*Application)(nil)

// New creates an application over game. leaderboard may be nil, in which
// case retired players are only logged.
func New(game *model.Game, leaderboard Leaderboard, cfg Config) *Application {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	game.SetRandomSource(cfg.Rand.Float64)

	return &Application{
		game:        game,
		players:     multiplayer.NewPlayers(),
		leaderboard: leaderboard,
		cfg:         cfg,
		logger:      cfg.Logger,
		rng:         cfg.Rand,
	}
}

// Game exposes the registry for read-only queries.
func (a *Application) Game() *model.Game {
	return a.game
}

// Join puts a new dog on a map and returns the credentials of its player.
// Nothing is created when the name is empty or the map does not exist.
func (a *Application) Join(name string, mapID model.MapID) (multiplayer.PlayerInfo, error) {
	if name == "" {
		return multiplayer.PlayerInfo{}, ErrWrongName
	}
	m, ok := a.game.Map(mapID)
	if !ok {
		return multiplayer.PlayerInfo{}, fmt.Errorf("%w: %q", ErrWrongMap, mapID)
	}

	dog := model.NewDog(name, a.spawnPoint(m), m.BagCapacity())
	session, dogID := a.game.AddSession(dog, m)
	p := a.players.Add(session, dogID)

	a.logger.Info("player joined", "id", p.ID, "name", name, "map", mapID)
	a.publish(multiplayer.PlayerJoinedEvent{PlayerID: p.ID, Name: name, MapID: mapID})
	return multiplayer.PlayerInfo{Token: p.Token, ID: p.ID}, nil
}

func (a *Application) spawnPoint(m *model.Map) core.Point2D {
	road := m.Roads()[0]
	if !a.cfg.RandomizeSpawn {
		return road.DefaultPosition()
	}
	b := core.NewBounds(road.Start(), road.End())
	return core.Point2D{
		X: b.Min.X + a.rng.Float64()*(b.Max.X-b.Min.X),
		Y: b.Min.Y + a.rng.Float64()*(b.Max.Y-b.Min.Y),
	}
}

// Move steers the dog of token. "U", "D", "L" and "R" set the map speed in
// that direction; an empty direction stops the dog.
func (a *Application) Move(token multiplayer.Token, direction string) error {
	p, dog, err := a.playerDog(token)
	if err != nil {
		return err
	}
	if direction == "" {
		dog.Stop()
		return nil
	}
	dir, err := model.ParseDirection(direction)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadDirection, direction)
	}
	dog.Steer(dir, p.Session.Map().DogSpeed())
	return nil
}

func (a *Application) playerDog(token multiplayer.Token) (*multiplayer.Player, *model.Dog, error) {
	p, err := a.players.ByToken(token)
	if err != nil {
		return nil, nil, err
	}
	dog, ok := p.Dog()
	if !ok {
		return nil, nil, fmt.Errorf("app: player %d has no dog: %w", p.ID, ErrUnknownToken)
	}
	return p, dog, nil
}

func (a *Application) publish(evt multiplayer.Event) {
	if a.cfg.Events != nil {
		a.cfg.Events.Publish(evt)
	}
}

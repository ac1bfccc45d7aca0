package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
	"github.com/vovakirdan/dogpatrol/internal/snapshot"
)

// ErrNoStateFile is returned by SaveState and RestoreState when snapshots
// are disabled.
var ErrNoStateFile = errors.New("app: no state file configured")

// SaveState writes every live player and every piece of loot to the state
// file.
func (a *Application) SaveState() error {
	if a.cfg.StateFile == "" {
		return ErrNoStateFile
	}
	if err := snapshot.Write(a.cfg.StateFile, a.Snapshot()); err != nil {
		return err
	}
	a.logger.Debug("state saved", "file", a.cfg.StateFile, "players", a.players.Len())
	return nil
}

// Snapshot captures the current world in its on-disk form.
func (a *Application) Snapshot() snapshot.StateV1 {
	var state snapshot.StateV1
	for _, p := range a.players.List() {
		dog, ok := p.Dog()
		if !ok {
			continue
		}
		state.Players = append(state.Players, snapshot.PlayerV1{
			ID:    uint64(p.ID),
			Token: p.Token.String(),
			MapID: string(p.MapID()),
			Dog:   dogToSnapshot(dog.State()),
		})
	}
	for _, s := range a.game.Sessions() {
		for _, l := range s.LootList() {
			state.Loot = append(state.Loot, snapshot.LootV1{MapID: string(s.Map().ID()), Item: itemToSnapshot(l)})
		}
	}
	return state
}

// RestoreState loads the state file into an empty world. A missing file or
// a file without players leaves the world untouched. The file is checked as
// a whole before anything is restored.
func (a *Application) RestoreState() error {
	if a.cfg.StateFile == "" {
		return ErrNoStateFile
	}
	state, err := snapshot.Read(a.cfg.StateFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.Restore(state)
}

// Restore recreates players and loot from a snapshot. Loot on maps that got
// no player back is dropped.
func (a *Application) Restore(state snapshot.StateV1) error {
	if len(state.Players) == 0 {
		return nil
	}

	type restored struct {
		id    multiplayer.PlayerID
		token multiplayer.Token
		m     *model.Map
		dog   model.DogState
	}
	plan := make([]restored, 0, len(state.Players))
	tokens := make(map[multiplayer.Token]bool)
	ids := make(map[multiplayer.PlayerID]bool)

	for _, pv := range state.Players {
		token, err := multiplayer.ParseToken(pv.Token)
		if err != nil {
			return fmt.Errorf("app: restore player %d: %w", pv.ID, err)
		}
		id := multiplayer.PlayerID(pv.ID)
		if tokens[token] || ids[id] {
			return fmt.Errorf("app: restore player %d: %w", pv.ID, multiplayer.ErrDuplicatePlayer)
		}
		if _, err := a.players.ByToken(token); err == nil {
			return fmt.Errorf("app: restore player %d: %w", pv.ID, multiplayer.ErrDuplicatePlayer)
		}
		tokens[token], ids[id] = true, true

		m, ok := a.game.Map(model.MapID(pv.MapID))
		if !ok {
			return fmt.Errorf("app: restore player %d: %w: %q", pv.ID, ErrWrongMap, pv.MapID)
		}
		dog, err := dogFromSnapshot(pv.Dog)
		if err != nil {
			return fmt.Errorf("app: restore player %d: %w", pv.ID, err)
		}
		plan = append(plan, restored{id: id, token: token, m: m, dog: dog})
	}

	for _, r := range plan {
		session, dogID := a.game.AddSession(model.RestoreDog(r.dog), r.m)
		for _, l := range r.dog.Bag {
			session.ReserveLootID(l.ID)
		}
		if _, err := a.players.Restore(r.id, r.token, session, dogID); err != nil {
			return fmt.Errorf("app: restore player %d: %w", r.id, err)
		}
	}

	dropped := 0
	for _, lv := range state.Loot {
		s, ok := a.game.Session(model.MapID(lv.MapID))
		if !ok {
			dropped++
			continue
		}
		s.RestoreLoot(itemFromSnapshot(lv.Item))
	}

	a.logger.Info("state restored", "file", a.cfg.StateFile, "players", len(plan), "loot", len(state.Loot)-dropped, "dropped_loot", dropped)
	return nil
}

func dogToSnapshot(d model.DogState) snapshot.DogV1 {
	bag := make([]snapshot.ItemV1, 0, len(d.Bag))
	for _, l := range d.Bag {
		bag = append(bag, itemToSnapshot(l))
	}
	return snapshot.DogV1{
		Name:        d.Name,
		Pos:         [2]float64{d.Position.X, d.Position.Y},
		Speed:       [2]float64{d.Velocity.X, d.Velocity.Y},
		Direction:   d.Direction.String(),
		Bag:         bag,
		BagCapacity: d.BagCapacity,
		Score:       d.Score,
		PlayTime:    d.PlayTime,
		IdleTime:    d.IdleTime,
	}
}

func dogFromSnapshot(d snapshot.DogV1) (model.DogState, error) {
	dir, err := model.ParseDirection(d.Direction)
	if err != nil {
		return model.DogState{}, err
	}
	bag := make([]model.Loot, 0, len(d.Bag))
	for _, it := range d.Bag {
		bag = append(bag, itemFromSnapshot(it))
	}
	return model.DogState{
		Name:        d.Name,
		Position:    core.Point2D{X: d.Pos[0], Y: d.Pos[1]},
		Velocity:    core.Vec2D{X: d.Speed[0], Y: d.Speed[1]},
		Direction:   dir,
		Bag:         bag,
		BagCapacity: d.BagCapacity,
		Score:       d.Score,
		PlayTime:    d.PlayTime,
		IdleTime:    d.IdleTime,
	}, nil
}

func itemToSnapshot(l model.Loot) snapshot.ItemV1 {
	return snapshot.ItemV1{ID: l.ID, Type: l.Type, Pos: [2]float64{l.Position.X, l.Position.Y}}
}

func itemFromSnapshot(it snapshot.ItemV1) model.Loot {
	return model.Loot{ID: it.ID, Type: it.Type, Position: core.Point2D{X: it.Pos[0], Y: it.Pos[1]}}
}

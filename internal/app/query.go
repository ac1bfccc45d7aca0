package app

import (
	"context"
	"fmt"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
	"github.com/vovakirdan/dogpatrol/internal/storage"
)

// PlayerView is a player as seen by the other players of its map.
type PlayerView struct {
	ID   multiplayer.PlayerID
	Name string
}

// DogView pairs a dog state with its player id.
type DogView struct {
	PlayerID multiplayer.PlayerID
	Dog      model.DogState
}

// SessionState is the live picture of one map.
type SessionState struct {
	MapID model.MapID
	Dogs  []DogView
	Loot  []model.Loot
}

// Maps lists every map in load order.
func (a *Application) Maps() []*model.Map {
	return a.game.Maps()
}

// Map looks a map up by id.
func (a *Application) Map(id model.MapID) (*model.Map, error) {
	m, ok := a.game.Map(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWrongMap, id)
	}
	return m, nil
}

// Authorized validates a raw token and checks that somebody holds it.
func (a *Application) Authorized(raw string) (multiplayer.Token, error) {
	token, err := multiplayer.ParseToken(raw)
	if err != nil {
		return "", err
	}
	if _, err := a.players.ByToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// Players lists the players sharing a map with token's player.
func (a *Application) Players(token multiplayer.Token) ([]PlayerView, error) {
	state, err := a.State(token)
	if err != nil {
		return nil, err
	}
	views := make([]PlayerView, 0, len(state.Dogs))
	for _, d := range state.Dogs {
		views = append(views, PlayerView{ID: d.PlayerID, Name: d.Dog.Name})
	}
	return views, nil
}

// State returns the dogs and the loot on token's map.
func (a *Application) State(token multiplayer.Token) (SessionState, error) {
	p, err := a.players.ByToken(token)
	if err != nil {
		return SessionState{}, err
	}
	s := p.Session
	state := SessionState{MapID: s.Map().ID(), Loot: s.LootList()}
	for _, id := range s.DogIDs() {
		dog, _ := s.Dog(id)
		owner, err := a.players.ByDog(s.Map().ID(), id)
		if err != nil {
			continue
		}
		state.Dogs = append(state.Dogs, DogView{PlayerID: owner.ID, Dog: dog.State()})
	}
	return state, nil
}

// PlayerCount returns the number of live players.
func (a *Application) PlayerCount() int {
	return a.players.Len()
}

// Records returns a page of the leaderboard. limit is clamped to
// [0, storage.MaxRecords].
func (a *Application) Records(ctx context.Context, offset, limit int) ([]storage.Record, error) {
	if a.leaderboard == nil {
		return nil, nil
	}
	limit = core.Clamp(limit, 0, storage.MaxRecords)
	return a.leaderboard.Records(ctx, max(0, offset), limit)
}

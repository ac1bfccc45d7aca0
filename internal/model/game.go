// Package model holds the world state the simulation operates on: the static
// map graph loaded at startup and the live sessions built on top of it.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/loot"
)

var (
	// ErrDuplicateMap is returned when a map id is added twice.
	ErrDuplicateMap = errors.New("duplicate map id")
	// ErrNoRoads is returned for a map a dog could never stand on.
	ErrNoRoads = errors.New("map has no roads")
)

// Game is the registry of maps and their live sessions. There is at most one
// session per map.
type Game struct {
	maps     []*Map
	mapIndex map[MapID]int

	sessions     []*GameSession
	sessionIndex map[MapID]*GameSession

	lootPolicy     loot.Policy
	random         loot.RandomSource
	retirementTime time.Duration
}

// NewGame creates an empty registry. Dogs idle for retirementTime are retired.
func NewGame(policy loot.Policy, retirementTime time.Duration) *Game {
	return &Game{
		mapIndex:       make(map[MapID]int),
		sessionIndex:   make(map[MapID]*GameSession),
		lootPolicy:     policy,
		retirementTime: retirementTime,
	}
}

// SetRandomSource sets the source new sessions feed their loot generator
// with. Nil makes spawning deterministic.
func (g *Game) SetRandomSource(r loot.RandomSource) {
	g.random = r
}

func (g *Game) LootPolicy() loot.Policy       { return g.lootPolicy }
func (g *Game) RetirementTime() time.Duration { return g.retirementTime }
func (g *Game) Maps() []*Map                  { return g.maps }

// AddMap registers a map. Ids must be unique and a map needs a road.
func (g *Game) AddMap(m *Map) error {
	if _, exists := g.mapIndex[m.ID()]; exists {
		return fmt.Errorf("model: %w: %q", ErrDuplicateMap, m.ID())
	}
	if len(m.Roads()) == 0 {
		return fmt.Errorf("model: map %q: %w", m.ID(), ErrNoRoads)
	}
	g.mapIndex[m.ID()] = len(g.maps)
	g.maps = append(g.maps, m)
	return nil
}

// Map looks a map up by id.
func (g *Game) Map(id MapID) (*Map, bool) {
	i, ok := g.mapIndex[id]
	if !ok {
		return nil, false
	}
	return g.maps[i], true
}

// AddSession attaches d to the session of m, opening the session when the
// map has none yet.
func (g *Game) AddSession(d *Dog, m *Map) (*GameSession, DogID) {
	s, ok := g.sessionIndex[m.ID()]
	if !ok {
		s = newGameSession(m, loot.NewGenerator(g.lootPolicy, g.random))
		g.sessionIndex[m.ID()] = s
		g.sessions = append(g.sessions, s)
	}
	return s, s.AddDog(d)
}

// Session returns the live session of a map.
func (g *Game) Session(id MapID) (*GameSession, bool) {
	s, ok := g.sessionIndex[id]
	return s, ok
}

// Sessions returns the live sessions in the order they were opened.
func (g *Game) Sessions() []*GameSession {
	return g.sessions
}

// CloseSession drops the session of a map together with its loot. It reports
// whether there was one.
func (g *Game) CloseSession(id MapID) bool {
	s, ok := g.sessionIndex[id]
	if !ok {
		return false
	}
	delete(g.sessionIndex, id)
	for i, open := range g.sessions {
		if open == s {
			g.sessions = append(g.sessions[:i], g.sessions[i+1:]...)
			break
		}
	}
	return true
}

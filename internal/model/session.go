package model

import (
	"slices"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/loot"
)

// DogID is a session-local handle to a dog. Handles are never reused within a
// session, so a stale handle can only miss, never alias another dog.
type DogID uint32

// GameSession is the live state of one map: the dogs on it and the loot
// lying around.
type GameSession struct {
	m *Map

	dogs      map[DogID]*Dog
	order     []DogID
	nextDogID DogID

	loot       map[uint64]Loot
	nextLootID uint64
	generator  *loot.Generator
}

func newGameSession(m *Map, generator *loot.Generator) *GameSession {
	return &GameSession{
		m:         m,
		dogs:      make(map[DogID]*Dog),
		loot:      make(map[uint64]Loot),
		generator: generator,
	}
}

func (s *GameSession) Map() *Map                  { return s.m }
func (s *GameSession) Generator() *loot.Generator { return s.generator }
func (s *GameSession) DogCount() int              { return len(s.order) }
func (s *GameSession) LootCount() int             { return len(s.loot) }

// AddDog attaches d to the session and returns its handle.
func (s *GameSession) AddDog(d *Dog) DogID {
	id := s.nextDogID
	s.nextDogID++
	s.dogs[id] = d
	s.order = append(s.order, id)
	return id
}

// Dog returns the dog behind a handle.
func (s *GameSession) Dog(id DogID) (*Dog, bool) {
	d, ok := s.dogs[id]
	return d, ok
}

// DeleteDog detaches a dog. It returns false when the handle is unknown.
func (s *GameSession) DeleteDog(id DogID) bool {
	if _, ok := s.dogs[id]; !ok {
		return false
	}
	delete(s.dogs, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// DogIDs returns the handles of all dogs in join order.
func (s *GameSession) DogIDs() []DogID {
	return slices.Clone(s.order)
}

// SpawnLoot places a new collectible with a fresh id.
func (s *GameSession) SpawnLoot(lootType int, pos core.Point2D) Loot {
	l := Loot{ID: s.nextLootID, Type: lootType, Position: pos}
	s.nextLootID++
	s.loot[l.ID] = l
	return l
}

// RestoreLoot puts back a collectible with its saved id.
func (s *GameSession) RestoreLoot(l Loot) {
	s.loot[l.ID] = l
	s.ReserveLootID(l.ID)
}

// ReserveLootID makes sure id is never handed out by SpawnLoot. Loot carried
// in restored bags keeps its id too.
func (s *GameSession) ReserveLootID(id uint64) {
	s.nextLootID = max(s.nextLootID, id+1)
}

// Loot returns a collectible lying on the map.
func (s *GameSession) Loot(id uint64) (Loot, bool) {
	l, ok := s.loot[id]
	return l, ok
}

// RemoveLoot takes a collectible off the map.
func (s *GameSession) RemoveLoot(id uint64) bool {
	if _, ok := s.loot[id]; !ok {
		return false
	}
	delete(s.loot, id)
	return true
}

// LootList returns the collectibles on the map ordered by id.
func (s *GameSession) LootList() []Loot {
	list := make([]Loot, 0, len(s.loot))
	for _, l := range s.loot {
		list = append(list, l)
	}
	slices.SortFunc(list, func(a, b Loot) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return list
}

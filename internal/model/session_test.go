package model

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/loot"
)

func newTestMap(id MapID) *Map {
	m := NewMap(id, "Map "+string(id), 1, 3)
	m.AddRoad(NewHorizontalRoad(core.Point2D{X: 0, Y: 0}, 10))
	return m
}

func TestGameAddMapDuplicate(t *testing.T) {
	g := NewGame(loot.Policy{}, time.Minute)
	if err := g.AddMap(newTestMap("a")); err != nil {
		t.Fatalf("AddMap() error = %v", err)
	}
	if err := g.AddMap(newTestMap("a")); !errors.Is(err, ErrDuplicateMap) {
		t.Errorf("AddMap(duplicate) error = %v, expected ErrDuplicateMap", err)
	}
	if err := g.AddMap(NewMap("empty", "Empty", 1, 3)); !errors.Is(err, ErrNoRoads) {
		t.Errorf("AddMap(no roads) error = %v, expected ErrNoRoads", err)
	}
	if n := len(g.Maps()); n != 1 {
		t.Errorf("Maps() = %d, expected 1", n)
	}
}

func TestGameMapLookup(t *testing.T) {
	g := NewGame(loot.Policy{}, time.Minute)
	for _, id := range []MapID{"a", "b", "c"} {
		if err := g.AddMap(newTestMap(id)); err != nil {
			t.Fatalf("AddMap(%q) error = %v", id, err)
		}
	}

	m, ok := g.Map("b")
	if !ok || m.ID() != "b" {
		t.Errorf("Map(b) = %v, %v, expected map b", m, ok)
	}
	if _, ok := g.Map("z"); ok {
		t.Error("Map(z) found, expected miss")
	}
}

func TestGameAddSessionReusesMapSession(t *testing.T) {
	g := NewGame(loot.Policy{}, time.Minute)
	a, b := newTestMap("a"), newTestMap("b")
	_ = g.AddMap(a)
	_ = g.AddMap(b)

	s1, _ := g.AddSession(NewDog("rex", core.Point2D{}, 3), a)
	s2, _ := g.AddSession(NewDog("fido", core.Point2D{}, 3), a)
	s3, _ := g.AddSession(NewDog("spot", core.Point2D{}, 3), b)

	if s1 != s2 {
		t.Error("AddSession() opened a second session for the same map")
	}
	if s1 == s3 {
		t.Error("AddSession() shared a session across maps")
	}
	if n := len(g.Sessions()); n != 2 {
		t.Errorf("Sessions() = %d, expected 2", n)
	}
	if n := s1.DogCount(); n != 2 {
		t.Errorf("DogCount() = %d, expected 2", n)
	}
}

func TestGameCloseSession(t *testing.T) {
	g := NewGame(loot.Policy{}, time.Minute)
	a := newTestMap("a")
	_ = g.AddMap(a)
	g.AddSession(NewDog("rex", core.Point2D{}, 3), a)

	if !g.CloseSession("a") {
		t.Fatal("CloseSession() = false, expected true")
	}
	if _, ok := g.Session("a"); ok {
		t.Error("Session() found a closed session")
	}
	if len(g.Sessions()) != 0 {
		t.Errorf("Sessions() = %d, expected 0", len(g.Sessions()))
	}
	if g.CloseSession("a") {
		t.Error("CloseSession() twice = true, expected false")
	}
}

func TestSessionDeleteDog(t *testing.T) {
	g := NewGame(loot.Policy{}, time.Minute)
	a := newTestMap("a")
	_ = g.AddMap(a)

	s, rex := g.AddSession(NewDog("rex", core.Point2D{}, 3), a)
	_, fido := g.AddSession(NewDog("fido", core.Point2D{}, 3), a)

	if !s.DeleteDog(rex) {
		t.Fatal("DeleteDog(rex) = false, expected true")
	}
	if s.DeleteDog(rex) {
		t.Error("DeleteDog(rex) twice = true, expected false")
	}
	if _, ok := s.Dog(rex); ok {
		t.Error("Dog(rex) found after delete")
	}

	ids := s.DogIDs()
	if len(ids) != 1 || ids[0] != fido {
		t.Errorf("DogIDs() = %v, expected [%d]", ids, fido)
	}

	// Handles are not recycled.
	_, spot := g.AddSession(NewDog("spot", core.Point2D{}, 3), a)
	if spot == rex || spot == fido {
		t.Errorf("AddSession() reused handle %d", spot)
	}
}

func TestSessionLootIDsNeverReused(t *testing.T) {
	s := newGameSession(newTestMap("a"), nil)

	first := s.SpawnLoot(0, core.Point2D{X: 1})
	second := s.SpawnLoot(1, core.Point2D{X: 2})
	if !s.RemoveLoot(second.ID) {
		t.Fatal("RemoveLoot() = false, expected true")
	}
	third := s.SpawnLoot(0, core.Point2D{X: 3})

	if third.ID == first.ID || third.ID == second.ID {
		t.Errorf("SpawnLoot() reused id %d", third.ID)
	}
	if s.RemoveLoot(second.ID) {
		t.Error("RemoveLoot() twice = true, expected false")
	}
}

func TestSessionRestoreLootBumpsCounter(t *testing.T) {
	s := newGameSession(newTestMap("a"), nil)
	s.RestoreLoot(Loot{ID: 7, Type: 1, Position: core.Point2D{X: 2}})
	s.ReserveLootID(11)

	if l := s.SpawnLoot(0, core.Point2D{}); l.ID != 12 {
		t.Errorf("SpawnLoot().ID = %d, expected 12", l.ID)
	}

	list := s.LootList()
	if len(list) != 2 || list[0].ID != 7 || list[1].ID != 12 {
		t.Errorf("LootList() = %+v, expected ids [7 12]", list)
	}
}

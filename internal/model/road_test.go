package model

import (
	"testing"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

func TestRoadBorder(t *testing.T) {
	r := NewHorizontalRoad(core.Point2D{X: 10, Y: 0}, 0)
	b := r.Border()

	want := core.Bounds{Min: core.Point2D{X: -0.4, Y: -0.4}, Max: core.Point2D{X: 10.4, Y: 0.4}}
	if b != want {
		t.Errorf("Border() = %+v, expected %+v", b, want)
	}
	if !r.Contains(core.Point2D{X: 10.4, Y: 0.4}) {
		t.Error("Contains(corner) = false, expected true")
	}
	if r.Contains(core.Point2D{X: 5, Y: 0.5}) {
		t.Error("Contains(off road) = true, expected false")
	}
}

func TestRoadAdvance(t *testing.T) {
	h := NewHorizontalRoad(core.Point2D{X: 0, Y: 0}, 10)
	v := NewVerticalRoad(core.Point2D{X: 0, Y: 0}, 10)

	tests := []struct {
		name     string
		road     Road
		pos      core.Point2D
		velocity core.Vec2D
		dt       time.Duration
		want     core.Point2D
		clamped  bool
	}{
		{"east inside", h, core.Point2D{X: 1, Y: 0}, core.Vec2D{X: 2}, time.Second, core.Point2D{X: 3, Y: 0}, false},
		{"east to border", h, core.Point2D{X: 9, Y: 0}, core.Vec2D{X: 2}, time.Second, core.Point2D{X: 10.4, Y: 0}, true},
		{"west to border", h, core.Point2D{X: 0, Y: 0}, core.Vec2D{X: -1}, time.Second, core.Point2D{X: -0.4, Y: 0}, true},
		{"half second", h, core.Point2D{X: 4, Y: 0}, core.Vec2D{X: -1}, 500 * time.Millisecond, core.Point2D{X: 3.5, Y: 0}, false},
		{"north across horizontal", h, core.Point2D{X: 5, Y: 0}, core.Vec2D{Y: -1}, time.Second, core.Point2D{X: 5, Y: -0.4}, true},
		{"south inside vertical", v, core.Point2D{X: 0, Y: 2}, core.Vec2D{Y: 3}, time.Second, core.Point2D{X: 0, Y: 5}, false},
		{"south to border", v, core.Point2D{X: 0, Y: 9}, core.Vec2D{Y: 3}, time.Second, core.Point2D{X: 0, Y: 10.4}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, clamped := tc.road.Advance(tc.pos, tc.velocity, tc.dt)
			if got != tc.want || clamped != tc.clamped {
				t.Errorf("Advance() = %+v, %v, expected %+v, %v", got, clamped, tc.want, tc.clamped)
			}
		})
	}
}

func TestMapRoadsAtCrossing(t *testing.T) {
	m := NewMap("m", "Map", 1, 3)
	m.AddRoad(NewHorizontalRoad(core.Point2D{X: 0, Y: 0}, 10))
	m.AddRoad(NewVerticalRoad(core.Point2D{X: 10, Y: 0}, 10))
	m.AddRoad(NewVerticalRoad(core.Point2D{X: 40, Y: 0}, 10))

	if n := len(m.RoadsAt(core.Point2D{X: 10, Y: 0})); n != 2 {
		t.Errorf("RoadsAt(crossing) = %d roads, expected 2", n)
	}
	if n := len(m.RoadsAt(core.Point2D{X: 5, Y: 0})); n != 1 {
		t.Errorf("RoadsAt(middle) = %d roads, expected 1", n)
	}
	if n := len(m.RoadsAt(core.Point2D{X: 20, Y: 5})); n != 0 {
		t.Errorf("RoadsAt(field) = %d roads, expected 0", n)
	}
}

func TestMapMaxMovePrefersLongestRoad(t *testing.T) {
	m := NewMap("m", "Map", 1, 3)
	m.AddRoad(NewHorizontalRoad(core.Point2D{X: 0, Y: 0}, 10))
	m.AddRoad(NewVerticalRoad(core.Point2D{X: 10, Y: 0}, 10))

	// Heading south from the crossing: the horizontal road clamps at y=0.4,
	// the vertical one lets the dog go the whole way.
	got, stopped := m.MaxMove(core.Point2D{X: 10, Y: 0}, core.Vec2D{Y: 2}, time.Second)
	want := core.Point2D{X: 10, Y: 2}
	if got != want || stopped {
		t.Errorf("MaxMove() = %+v, %v, expected %+v, false", got, stopped, want)
	}

	// Turning east halfway down the vertical road clamps at its edge.
	got, stopped = m.MaxMove(core.Point2D{X: 10, Y: 5}, core.Vec2D{X: 5}, time.Second)
	want = core.Point2D{X: 10.4, Y: 5}
	if got != want || !stopped {
		t.Errorf("MaxMove() = %+v, %v, expected %+v, true", got, stopped, want)
	}
}

func TestMapMaxMoveOffRoad(t *testing.T) {
	m := NewMap("m", "Map", 1, 3)
	m.AddRoad(NewHorizontalRoad(core.Point2D{X: 0, Y: 0}, 10))

	pos := core.Point2D{X: 5, Y: 5}
	got, stopped := m.MaxMove(pos, core.Vec2D{X: 1}, time.Second)
	if got != pos || !stopped {
		t.Errorf("MaxMove() = %+v, %v, expected %+v, true", got, stopped, pos)
	}
}

func TestMapAddOfficeDuplicate(t *testing.T) {
	m := NewMap("m", "Map", 1, 3)
	if err := m.AddOffice(Office{ID: "o1"}); err != nil {
		t.Fatalf("AddOffice() error = %v", err)
	}
	if err := m.AddOffice(Office{ID: "o1"}); err == nil {
		t.Error("AddOffice(duplicate) = nil, expected error")
	}
	if n := len(m.Offices()); n != 1 {
		t.Errorf("Offices() = %d, expected 1", n)
	}
}

func TestMapLootValue(t *testing.T) {
	m := NewMap("m", "Map", 1, 3)
	m.AddLootType(LootType{Name: "key", Value: 10})
	m.AddLootType(LootType{Name: "wallet", Value: 30})

	tests := []struct {
		lootType int
		want     int
	}{
		{0, 10},
		{1, 30},
		{2, 0},
		{-1, 0},
	}
	for _, tc := range tests {
		if got := m.LootValue(tc.lootType); got != tc.want {
			t.Errorf("LootValue(%d) = %d, expected %d", tc.lootType, got, tc.want)
		}
	}
}

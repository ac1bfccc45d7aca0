package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// ErrDuplicateOffice is returned when an office id is added twice to a map.
var ErrDuplicateOffice = errors.New("duplicate office id")

// MapID identifies a map across the game.
type MapID string

// Map is the immutable geometry of one world. It is built once at load time.
type Map struct {
	id          MapID
	name        string
	dogSpeed    float64
	bagCapacity int

	roads       []Road
	buildings   []Building
	offices     []Office
	officeIndex map[string]int
	lootTypes   []LootType
}

// NewMap creates an empty map. dogSpeed is in units per second.
func NewMap(id MapID, name string, dogSpeed float64, bagCapacity int) *Map {
	return &Map{
		id:          id,
		name:        name,
		dogSpeed:    dogSpeed,
		bagCapacity: bagCapacity,
		officeIndex: make(map[string]int),
	}
}

func (m *Map) ID() MapID             { return m.id }
func (m *Map) Name() string          { return m.name }
func (m *Map) DogSpeed() float64     { return m.dogSpeed }
func (m *Map) BagCapacity() int      { return m.bagCapacity }
func (m *Map) Roads() []Road         { return m.roads }
func (m *Map) Buildings() []Building { return m.buildings }
func (m *Map) Offices() []Office     { return m.offices }
func (m *Map) LootTypes() []LootType { return m.lootTypes }

// LootTypesCount is the number of distinct collectible types on the map.
func (m *Map) LootTypesCount() int { return len(m.lootTypes) }

func (m *Map) AddRoad(r Road) {
	m.roads = append(m.roads, r)
}

func (m *Map) AddBuilding(b Building) {
	m.buildings = append(m.buildings, b)
}

// AddOffice registers a drop-off point. Office ids are unique per map.
func (m *Map) AddOffice(o Office) error {
	if _, exists := m.officeIndex[o.ID]; exists {
		return fmt.Errorf("model: map %q: %w: %q", m.id, ErrDuplicateOffice, o.ID)
	}
	m.officeIndex[o.ID] = len(m.offices)
	m.offices = append(m.offices, o)
	return nil
}

func (m *Map) AddLootType(lt LootType) {
	m.lootTypes = append(m.lootTypes, lt)
}

// LootValue returns the score awarded for delivering one item of the given
// type index. Unknown indices are worth nothing.
func (m *Map) LootValue(lootType int) int {
	if lootType < 0 || lootType >= len(m.lootTypes) {
		return 0
	}
	return m.lootTypes[lootType].Value
}

// RoadsAt returns every road whose border contains p. Crossings and
// overlapping roads yield more than one result.
func (m *Map) RoadsAt(p core.Point2D) []Road {
	var roads []Road
	for _, r := range m.roads {
		if r.Contains(p) {
			roads = append(roads, r)
		}
	}
	return roads
}

// MaxMove resolves how far a dog at pos gets in dt. Each road under pos is
// tried and the candidate with the largest Manhattan displacement wins, the
// later road on a tie. stopped reports whether the winning road's border
// clamped the move. A position off every road does not move and stops.
func (m *Map) MaxMove(pos core.Point2D, velocity core.Vec2D, dt time.Duration) (next core.Point2D, stopped bool) {
	roads := m.RoadsAt(pos)
	if len(roads) == 0 {
		return pos, true
	}

	best := -1.0
	for _, r := range roads {
		candidate, clamped := r.Advance(pos, velocity, dt)
		if d := pos.ManhattanTo(candidate); d >= best {
			best = d
			next, stopped = candidate, clamped
		}
	}
	return next, stopped
}

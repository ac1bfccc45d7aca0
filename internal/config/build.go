package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/loot"
	"github.com/vovakirdan/dogpatrol/internal/model"
)

// ErrBadRoad is returned for a road that is neither horizontal nor vertical.
var ErrBadRoad = errors.New("road needs exactly one of x1 or y1")

// LootPolicy returns the spawn tunables with defaults applied.
func (c GameConfig) LootPolicy() loot.Policy {
	p := loot.Policy{
		Period:      seconds(c.LootGenerator.Period),
		Probability: c.LootGenerator.Probability,
	}
	if p.Period <= 0 {
		p.Period = DefaultLootPeriod
	}
	if p.Probability <= 0 {
		p.Probability = DefaultLootChance
	}
	return p
}

// RetirementTime returns how long a dog may stand still, with the default
// applied.
func (c GameConfig) RetirementTime() time.Duration {
	if c.DogRetirementTime <= 0 {
		return DefaultRetirementTime
	}
	return seconds(c.DogRetirementTime)
}

// BuildGame turns the document into the map graph. Duplicate map or office
// ids and maps without roads are errors.
func BuildGame(cfg GameConfig) (*model.Game, error) {
	game := model.NewGame(cfg.LootPolicy(), cfg.RetirementTime())

	defaultSpeed := cfg.DefaultDogSpeed
	if defaultSpeed <= 0 {
		defaultSpeed = DefaultDogSpeed
	}
	defaultBag := DefaultBagCapacity
	if cfg.DefaultBagCapacity != nil {
		defaultBag = *cfg.DefaultBagCapacity
	}

	for _, mc := range cfg.Maps {
		m, err := buildMap(mc, defaultSpeed, defaultBag)
		if err != nil {
			return nil, err
		}
		if err := game.AddMap(m); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return game, nil
}

func buildMap(mc MapConfig, defaultSpeed float64, defaultBag int) (*model.Map, error) {
	speed := defaultSpeed
	if mc.DogSpeed != nil {
		speed = *mc.DogSpeed
	}
	bag := defaultBag
	if mc.BagCapacity != nil {
		bag = *mc.BagCapacity
	}
	if bag < 0 {
		return nil, fmt.Errorf("config: map %q: negative bag capacity %d", mc.ID, bag)
	}

	m := model.NewMap(model.MapID(mc.ID), mc.Name, speed, bag)

	for i, rc := range mc.Roads {
		start := core.Point2D{X: float64(rc.X0), Y: float64(rc.Y0)}
		switch {
		case rc.X1 != nil && rc.Y1 == nil:
			m.AddRoad(model.NewHorizontalRoad(start, float64(*rc.X1)))
		case rc.Y1 != nil && rc.X1 == nil:
			m.AddRoad(model.NewVerticalRoad(start, float64(*rc.Y1)))
		default:
			return nil, fmt.Errorf("config: map %q: road %d: %w", mc.ID, i, ErrBadRoad)
		}
	}

	for _, bc := range mc.Buildings {
		m.AddBuilding(model.Building{Bounds: core.NewRect(bc.X, bc.Y, bc.W, bc.H)})
	}

	for _, oc := range mc.Offices {
		office := model.Office{
			ID:       oc.ID,
			Position: core.Point2D{X: float64(oc.X), Y: float64(oc.Y)},
			Offset:   core.Vec2D{X: float64(oc.OffsetX), Y: float64(oc.OffsetY)},
		}
		if err := m.AddOffice(office); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	for _, lt := range mc.LootTypes {
		m.AddLootType(model.LootType{
			Name:     lt.Name,
			File:     lt.File,
			Type:     lt.Type,
			Rotation: lt.Rotation,
			Color:    lt.Color,
			Scale:    lt.Scale,
			Value:    lt.Value,
		})
	}

	return m, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

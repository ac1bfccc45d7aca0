package model

import (
	"fmt"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// Direction is where a dog is facing.
type Direction int

const (
	North Direction = iota
	South
	West
	East
)

// String returns the one-letter code clients use for the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "U"
	case South:
		return "D"
	case West:
		return "L"
	case East:
		return "R"
	default:
		return "?"
	}
}

// ParseDirection converts a one-letter code back into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "U":
		return North, nil
	case "D":
		return South, nil
	case "L":
		return West, nil
	case "R":
		return East, nil
	default:
		return North, fmt.Errorf("model: unknown direction %q", s)
	}
}

// Velocity returns the unit-speed velocity for the direction, scaled by speed.
// Map y grows southwards.
func (d Direction) Velocity(speed float64) core.Vec2D {
	switch d {
	case North:
		return core.Vec2D{Y: -speed}
	case South:
		return core.Vec2D{Y: speed}
	case West:
		return core.Vec2D{X: -speed}
	case East:
		return core.Vec2D{X: speed}
	default:
		return core.Vec2D{}
	}
}

// Loot is a collectible lying on a map or carried in a bag.
type Loot struct {
	ID       uint64
	Type     int
	Position core.Point2D
}

// Dog is a player's avatar.
type Dog struct {
	name        string
	position    core.Point2D
	velocity    core.Vec2D
	direction   Direction
	bag         []Loot
	bagCapacity int
	score       int
	playTime    time.Duration
	idleTime    time.Duration
}

// NewDog creates a motionless dog facing north with an empty bag.
func NewDog(name string, position core.Point2D, bagCapacity int) *Dog {
	return &Dog{
		name:        name,
		position:    position,
		direction:   North,
		bagCapacity: bagCapacity,
	}
}

// DogState is a flat copy of a dog, used for snapshots and queries.
type DogState struct {
	Name        string
	Position    core.Point2D
	Velocity    core.Vec2D
	Direction   Direction
	Bag         []Loot
	BagCapacity int
	Score       int
	PlayTime    time.Duration
	IdleTime    time.Duration
}

// RestoreDog recreates a dog from a state copy.
func RestoreDog(s DogState) *Dog {
	return &Dog{
		name:        s.Name,
		position:    s.Position,
		velocity:    s.Velocity,
		direction:   s.Direction,
		bag:         append([]Loot(nil), s.Bag...),
		bagCapacity: s.BagCapacity,
		score:       s.Score,
		playTime:    s.PlayTime,
		idleTime:    s.IdleTime,
	}
}

// State returns a copy of the dog that does not share the bag.
func (d *Dog) State() DogState {
	return DogState{
		Name:        d.name,
		Position:    d.position,
		Velocity:    d.velocity,
		Direction:   d.direction,
		Bag:         append([]Loot(nil), d.bag...),
		BagCapacity: d.bagCapacity,
		Score:       d.score,
		PlayTime:    d.playTime,
		IdleTime:    d.idleTime,
	}
}

func (d *Dog) Name() string               { return d.name }
func (d *Dog) Position() core.Point2D     { return d.position }
func (d *Dog) Velocity() core.Vec2D       { return d.velocity }
func (d *Dog) Direction() Direction       { return d.direction }
func (d *Dog) Score() int                 { return d.score }
func (d *Dog) PlayTime() time.Duration    { return d.playTime }
func (d *Dog) IdleTime() time.Duration    { return d.idleTime }
func (d *Dog) BagCapacity() int           { return d.bagCapacity }
func (d *Dog) Bag() []Loot                { return d.bag }
func (d *Dog) IsMoving() bool             { return !d.velocity.IsZero() }
func (d *Dog) SetPosition(p core.Point2D) { d.position = p }

// Steer points the dog in dir at the given speed and resets its idle time.
func (d *Dog) Steer(dir Direction, speed float64) {
	d.direction = dir
	d.velocity = dir.Velocity(speed)
	d.idleTime = 0
}

// Stop zeroes the velocity. The facing direction is kept.
func (d *Dog) Stop() {
	d.velocity = core.Vec2D{}
}

// AddPlayTime accumulates time spent moving.
func (d *Dog) AddPlayTime(dt time.Duration) {
	d.playTime += dt
}

// AddIdleTime accumulates motionless time and returns the new total.
func (d *Dog) AddIdleTime(dt time.Duration) time.Duration {
	d.idleTime += dt
	return d.idleTime
}

// HasRoom reports whether the bag can take one more item.
func (d *Dog) HasRoom() bool {
	return len(d.bag) < d.bagCapacity
}

// PickUp puts l in the bag. It returns false when the bag is full.
func (d *Dog) PickUp(l Loot) bool {
	if !d.HasRoom() {
		return false
	}
	d.bag = append(d.bag, l)
	return true
}

// Deliver empties the bag into the score. valueOf maps a loot type index to
// its worth. The points gained are returned.
func (d *Dog) Deliver(valueOf func(lootType int) int) int {
	gained := 0
	for _, l := range d.bag {
		gained += valueOf(l.Type)
	}
	d.score += gained
	d.bag = d.bag[:0]
	return gained
}

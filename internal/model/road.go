package model

import (
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// BorderWidth is the half-width a road is widened by on every side. The
// widened rectangle is the walkable area of the road.
const BorderWidth = 0.4

// Road is an axis-aligned segment. Exactly one coordinate varies along it.
type Road struct {
	start      core.Point2D
	end        core.Point2D
	horizontal bool
}

// NewHorizontalRoad creates a road from start to (endX, start.Y).
func NewHorizontalRoad(start core.Point2D, endX float64) Road {
	return Road{start: start, end: core.Point2D{X: endX, Y: start.Y}, horizontal: true}
}

// NewVerticalRoad creates a road from start to (start.X, endY).
func NewVerticalRoad(start core.Point2D, endY float64) Road {
	return Road{start: start, end: core.Point2D{X: start.X, Y: endY}}
}

func (r Road) IsHorizontal() bool { return r.horizontal }
func (r Road) IsVertical() bool   { return !r.horizontal }

func (r Road) Start() core.Point2D { return r.start }
func (r Road) End() core.Point2D   { return r.end }

// DefaultPosition is where a dog appears when spawn points are not randomized.
func (r Road) DefaultPosition() core.Point2D {
	return r.start
}

// Border returns the walkable rectangle of the road.
func (r Road) Border() core.Bounds {
	return core.NewBounds(r.start, r.end).Expand(BorderWidth)
}

// Contains reports whether p lies on the walkable rectangle, edges included.
func (r Road) Contains(p core.Point2D) bool {
	return r.Border().Contains(p)
}

// Advance extrapolates pos along velocity for dt and clamps the result to the
// road border. The second result is true when the border stopped the move.
//
// Velocity is in map units per second. Only one axis is considered: the
// vertical one when it is non-zero, the horizontal one otherwise.
func (r Road) Advance(pos core.Point2D, velocity core.Vec2D, dt time.Duration) (core.Point2D, bool) {
	border := r.Border()
	seconds := dt.Seconds()

	if velocity.Y == 0 {
		x := pos.X + velocity.X*seconds
		if velocity.X > 0 {
			if x >= border.Max.X {
				return core.Point2D{X: border.Max.X, Y: pos.Y}, true
			}
			return core.Point2D{X: x, Y: pos.Y}, false
		}
		if x <= border.Min.X {
			return core.Point2D{X: border.Min.X, Y: pos.Y}, true
		}
		return core.Point2D{X: x, Y: pos.Y}, false
	}

	y := pos.Y + velocity.Y*seconds
	if velocity.Y > 0 {
		if y >= border.Max.Y {
			return core.Point2D{X: pos.X, Y: border.Max.Y}, true
		}
		return core.Point2D{X: pos.X, Y: y}, false
	}
	if y <= border.Min.Y {
		return core.Point2D{X: pos.X, Y: border.Min.Y}, true
	}
	return core.Point2D{X: pos.X, Y: y}, false
}

// Building is a static obstacle drawn by clients. It does not affect movement.
type Building struct {
	Bounds core.Rect
}

// Office is a drop-off point for collected loot.
type Office struct {
	ID       string
	Position core.Point2D
	Offset   core.Vec2D
}

// LootType describes one kind of collectible available on a map. Only Value
// matters to the simulation; the other fields are passed through to clients.
type LootType struct {
	Name     string
	File     string
	Type     string
	Rotation int
	Color    string
	Scale    float64
	Value    int
}

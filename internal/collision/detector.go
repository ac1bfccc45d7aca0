// Package collision decides which collectibles and offices a moving dog
// touches during one tick. All functions are pure; the caller supplies a
// Provider with the gatherers, items and offices of a single session.
package collision

import (
	"math"
	"sort"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// Collider half-widths per entity class.
const (
	DogWidth    = 0.3
	OfficeWidth = 0.25
	ItemWidth   = 0.0
)

// OfficeItemID is the item id carried by every office event. Office identity
// is irrelevant to the consumer: any office empties the bag.
const OfficeItemID = uint64(math.MaxUint64)

// CollectionResult describes where the target falls relative to a move.
type CollectionResult struct {
	SqDistance float64 // squared distance from the target to the line of movement
	ProjRatio  float64 // fraction of the move at which the perpendicular foot lies
}

// IsCollected returns true if the foot lies on the segment and the target is
// within collectRadius of it.
func (r CollectionResult) IsCollected(collectRadius float64) bool {
	return r.ProjRatio >= 0 && r.ProjRatio <= 1 && r.SqDistance <= collectRadius*collectRadius
}

// TryCollectPoint projects c onto the line through a and b.
// a and b must differ.
func TryCollectPoint(a, b, c core.Point2D) CollectionResult {
	u := c.Sub(a)
	v := b.Sub(a)
	uDotV := u.Dot(v)
	vLen2 := v.LenSq()

	sq := u.LenSq() - (uDotV*uDotV)/vLen2
	if sq < 0 {
		// rounding on points that lie on the line
		sq = 0
	}
	return CollectionResult{
		SqDistance: sq,
		ProjRatio:  uDotV / vLen2,
	}
}

// Item is a stationary collectible.
type Item struct {
	ID       uint64
	Position core.Point2D
	Width    float64
}

// Gatherer is an agent moving from Start to End during the tick.
type Gatherer struct {
	Token string
	Start core.Point2D
	End   core.Point2D
	Width float64
}

// Office is a stationary drop-off point.
type Office struct {
	ID       string
	Position core.Point2D
	Width    float64
}

// Provider exposes the three independent families tested by FindGatherEvents.
type Provider interface {
	ItemsCount() int
	Item(idx int) Item
	GatherersCount() int
	Gatherer(idx int) Gatherer
	OfficesCount() int
	Office(idx int) Office
}

// GatheringEvent is one contact between a gatherer and an item or office.
type GatheringEvent struct {
	IsOffice   bool
	ItemID     uint64
	Token      string
	SqDistance float64
	Time       float64 // ProjRatio of the contact along the move
}

// FindGatherEvents tests every moving gatherer against every item and every
// office and returns the contacts ordered by time along the move.
func FindGatherEvents(p Provider) []GatheringEvent {
	var events []GatheringEvent

	for i := 0; i < p.GatherersCount(); i++ {
		g := p.Gatherer(i)
		if g.Start == g.End {
			continue
		}

		for j := 0; j < p.ItemsCount(); j++ {
			item := p.Item(j)
			res := TryCollectPoint(g.Start, g.End, item.Position)
			if res.IsCollected(g.Width + item.Width) {
				events = append(events, GatheringEvent{
					ItemID:     item.ID,
					Token:      g.Token,
					SqDistance: res.SqDistance,
					Time:       res.ProjRatio,
				})
			}
		}

		for k := 0; k < p.OfficesCount(); k++ {
			office := p.Office(k)
			res := TryCollectPoint(g.Start, g.End, office.Position)
			if res.IsCollected(g.Width + office.Width) {
				events = append(events, GatheringEvent{
					IsOffice:   true,
					ItemID:     OfficeItemID,
					Token:      g.Token,
					SqDistance: res.SqDistance,
					Time:       res.ProjRatio,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}

// Batch is an in-memory Provider backed by plain slices.
type Batch struct {
	Items     []Item
	Gatherers []Gatherer
	Offices   []Office
}

var _ Provider = (*Batch)(nil)

func (b *Batch) ItemsCount() int           { return len(b.Items) }
func (b *Batch) Item(idx int) Item         { return b.Items[idx] }
func (b *Batch) GatherersCount() int       { return len(b.Gatherers) }
func (b *Batch) Gatherer(idx int) Gatherer { return b.Gatherers[idx] }
func (b *Batch) OfficesCount() int         { return len(b.Offices) }
func (b *Batch) Office(idx int) Office     { return b.Offices[idx] }

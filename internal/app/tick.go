package app

import (
	"context"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/collision"
	"github.com/vovakirdan/dogpatrol/internal/core"
	"github.com/vovakirdan/dogpatrol/internal/model"
	"github.com/vovakirdan/dogpatrol/internal/multiplayer"
)

// Tick advances the world by dt. Every session moves its dogs, resolves
// pickups and deliveries and spawns loot; idle dogs are then retired and a
// snapshot is taken when the save period has elapsed. A tick always runs to
// completion; leaderboard and snapshot failures are logged, not returned.
func (a *Application) Tick(ctx context.Context, dt time.Duration) error {
	if dt <= 0 {
		return ErrBadDelta
	}

	for _, s := range a.game.Sessions() {
		a.updateSession(s, dt)
	}
	a.retireIdle(ctx)
	a.maybeSave(dt)
	return nil
}

func (a *Application) updateSession(s *model.GameSession, dt time.Duration) {
	m := s.Map()
	batch := collision.Batch{}

	for _, id := range s.DogIDs() {
		dog, _ := s.Dog(id)
		p, err := a.players.ByDog(m.ID(), id)
		if err != nil {
			a.logger.Error("dog without player", "map", m.ID(), "dog", id)
			continue
		}

		if !dog.IsMoving() {
			if dog.AddIdleTime(dt) >= a.game.RetirementTime() {
				a.retiring = append(a.retiring, p.Token)
			}
			continue
		}

		dog.AddPlayTime(dt)
		start := dog.Position()
		next, stopped := m.MaxMove(start, dog.Velocity(), dt)
		dog.SetPosition(next)
		if stopped {
			dog.Stop()
		}
		batch.Gatherers = append(batch.Gatherers, collision.Gatherer{
			Token: p.Token.String(),
			Start: start,
			End:   next,
			Width: collision.DogWidth,
		})
	}

	for _, l := range s.LootList() {
		batch.Items = append(batch.Items, collision.Item{ID: l.ID, Position: l.Position, Width: collision.ItemWidth})
	}
	for _, o := range m.Offices() {
		batch.Offices = append(batch.Offices, collision.Office{ID: o.ID, Position: o.Position, Width: collision.OfficeWidth})
	}

	a.applyGatherEvents(s, collision.FindGatherEvents(&batch))
	a.spawnLoot(s, dt)
}

// applyGatherEvents hands loot to the first dog that reaches it and turns
// bags into score at offices. Events arrive ordered by time along the move.
func (a *Application) applyGatherEvents(s *model.GameSession, events []collision.GatheringEvent) {
	m := s.Map()
	collected := make(map[uint64]bool)

	for _, ev := range events {
		p, dog, err := a.playerDog(multiplayer.Token(ev.Token))
		if err != nil {
			continue
		}

		if ev.IsOffice {
			items := len(dog.Bag())
			if items == 0 {
				continue
			}
			points := dog.Deliver(m.LootValue)
			a.publish(multiplayer.LootDeliveredEvent{
				PlayerID: p.ID,
				MapID:    m.ID(),
				Items:    items,
				Points:   points,
				Score:    dog.Score(),
			})
			continue
		}

		if collected[ev.ItemID] {
			continue
		}
		l, ok := s.Loot(ev.ItemID)
		if !ok {
			continue
		}
		if dog.PickUp(l) {
			collected[ev.ItemID] = true
		}
	}

	for id := range collected {
		s.RemoveLoot(id)
	}
}

// spawnLoot asks the session's generator how much loot to add and scatters
// it over random roads.
func (a *Application) spawnLoot(s *model.GameSession, dt time.Duration) {
	m := s.Map()
	n := s.Generator().Generate(dt, s.LootCount(), s.DogCount())
	types := m.LootTypesCount()
	if n <= 0 || types == 0 {
		return
	}

	roads := m.Roads()
	for range n {
		b := roads[a.rng.IntN(len(roads))].Border()
		pos := core.Point2D{
			X: b.Min.X + a.rng.Float64()*(b.Max.X-b.Min.X),
			Y: b.Min.Y + a.rng.Float64()*(b.Max.Y-b.Min.Y),
		}
		s.SpawnLoot(a.rng.IntN(types), pos)
	}
}

// retireIdle records and removes every dog queued during the session updates.
func (a *Application) retireIdle(ctx context.Context) {
	for _, token := range a.retiring {
		p, dog, err := a.playerDog(token)
		if err != nil {
			continue
		}
		if a.leaderboard != nil {
			if _, err := a.leaderboard.WriteRecord(ctx, dog.Name(), dog.Score(), dog.PlayTime()); err != nil {
				a.logger.Error("cannot write record", "player", p.ID, "name", dog.Name(), "error", err)
			}
		}

		mapID := p.MapID()
		a.removePlayer(p)

		a.logger.Info("player retired", "id", p.ID, "name", dog.Name(), "score", dog.Score(), "play_time", dog.PlayTime())
		a.publish(multiplayer.PlayerRetiredEvent{
			PlayerID: p.ID,
			Name:     dog.Name(),
			MapID:    mapID,
			Score:    dog.Score(),
			PlayTime: dog.PlayTime(),
		})
	}
	a.retiring = a.retiring[:0]
}

// removePlayer detaches the dog and forgets the player. A session left
// without dogs is closed and its loot discarded.
func (a *Application) removePlayer(p *multiplayer.Player) {
	s := p.Session
	s.DeleteDog(p.DogID)
	if err := a.players.Delete(p.Token); err != nil {
		a.logger.Error("cannot delete player", "player", p.ID, "error", err)
	}
	if s.DogCount() == 0 {
		a.game.CloseSession(s.Map().ID())
	}
}

func (a *Application) maybeSave(dt time.Duration) {
	if a.cfg.StateFile == "" || a.cfg.SavePeriod <= 0 {
		return
	}
	a.sinceSave += dt
	if a.sinceSave < a.cfg.SavePeriod {
		return
	}
	if err := a.SaveState(); err != nil {
		a.logger.Error("cannot save state", "file", a.cfg.StateFile, "error", err)
	}
	a.sinceSave -= a.cfg.SavePeriod
}

package multiplayer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/dogpatrol/internal/model"
)

var (
	// ErrPlayerNotFound is returned when a token or dog has no player.
	ErrPlayerNotFound = errors.New("multiplayer: player not found")
	// ErrDuplicatePlayer is returned when restoring a token or id twice.
	ErrDuplicatePlayer = errors.New("multiplayer: duplicate player")
)

// Player binds a token to a dog living in a session.
type Player struct {
	ID      PlayerID
	Token   Token
	Session *model.GameSession
	DogID   model.DogID
}

// MapID returns the map the player's dog lives on.
func (p *Player) MapID() model.MapID {
	return p.Session.Map().ID()
}

// Dog returns the player's dog. It is only missing if the session and the
// registry went out of sync.
func (p *Player) Dog() (*model.Dog, bool) {
	return p.Session.Dog(p.DogID)
}

type dogKey struct {
	mapID model.MapID
	dogID model.DogID
}

// Players indexes live players by token, by id and by dog. It is not safe
// for concurrent use; the Coordinator owns it.
type Players struct {
	byToken map[Token]*Player
	byID    map[PlayerID]*Player
	byDog   map[dogKey]*Player
	nextID  PlayerID
}

// NewPlayers creates an empty registry.
func NewPlayers() *Players {
	return &Players{
		byToken: make(map[Token]*Player),
		byID:    make(map[PlayerID]*Player),
		byDog:   make(map[dogKey]*Player),
	}
}

// Add registers a new player for a dog and issues a fresh token and id.
func (r *Players) Add(session *model.GameSession, dogID model.DogID) *Player {
	token := NewToken()
	for r.byToken[token] != nil {
		token = NewToken()
	}
	p := &Player{ID: r.nextID, Token: token, Session: session, DogID: dogID}
	r.nextID++
	r.index(p)
	return p
}

// Restore registers a player recovered from a snapshot, keeping its token and
// id. Later calls to Add never hand out a restored id.
func (r *Players) Restore(id PlayerID, token Token, session *model.GameSession, dogID model.DogID) (*Player, error) {
	if r.byToken[token] != nil {
		return nil, fmt.Errorf("%w: token %s", ErrDuplicatePlayer, token)
	}
	if r.byID[id] != nil {
		return nil, fmt.Errorf("%w: id %d", ErrDuplicatePlayer, id)
	}
	p := &Player{ID: id, Token: token, Session: session, DogID: dogID}
	r.nextID = max(r.nextID, id+1)
	r.index(p)
	return p, nil
}

func (r *Players) index(p *Player) {
	r.byToken[p.Token] = p
	r.byID[p.ID] = p
	r.byDog[dogKey{p.MapID(), p.DogID}] = p
}

// ByToken finds the player holding token.
func (r *Players) ByToken(token Token) (*Player, error) {
	p, ok := r.byToken[token]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// ByDog finds the player owning a dog of a map.
func (r *Players) ByDog(mapID model.MapID, dogID model.DogID) (*Player, error) {
	p, ok := r.byDog[dogKey{mapID, dogID}]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Delete forgets a player. The dog is left in its session.
func (r *Players) Delete(token Token) error {
	p, ok := r.byToken[token]
	if !ok {
		return ErrPlayerNotFound
	}
	delete(r.byToken, token)
	delete(r.byID, p.ID)
	delete(r.byDog, dogKey{p.MapID(), p.DogID})
	return nil
}

// Len returns the number of live players.
func (r *Players) Len() int {
	return len(r.byToken)
}

// List returns live players ordered by id.
func (r *Players) List() []*Player {
	list := make([]*Player, 0, len(r.byID))
	for _, p := range r.byID {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b *Player) int {
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

package multiplayer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dogpatrol/internal/model"
)

var (
	// ErrStopped is returned for requests sent to a stopped coordinator.
	ErrStopped = errors.New("multiplayer: coordinator stopped")
	// ErrTickerActive is returned for manual ticks while the coordinator
	// drives the clock itself.
	ErrTickerActive = errors.New("multiplayer: ticks are driven by the internal timer")
)

// World is the state the coordinator serializes access to.
type World interface {
	Join(name string, mapID model.MapID) (PlayerInfo, error)
	Move(token Token, direction string) error
	Tick(ctx context.Context, dt time.Duration) error
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	// TickPeriod is how often the world advances on its own. Zero means the
	// world only advances through Tick calls.
	TickPeriod time.Duration
	// QueueSize bounds the number of pending requests.
	QueueSize int
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		TickPeriod: 50 * time.Millisecond,
		QueueSize:  256,
	}
}

// coordinatorMessage is a request processed on the coordinator goroutine.
type coordinatorMessage interface {
	coordinatorMessage()
}

type joinReply struct {
	info PlayerInfo
	err  error
}

// JoinMsg asks to add a player to a map.
type JoinMsg struct {
	Name  string
	MapID model.MapID
	reply chan joinReply
}

// MoveMsg changes the direction of a player's dog.
type MoveMsg struct {
	Token     Token
	Direction string
	reply     chan error
}

// TickMsg advances the world by an explicit delta.
type TickMsg struct {
	Delta time.Duration
	reply chan error
}

// ViewMsg runs fn with exclusive access to the world.
type ViewMsg struct {
	fn    func()
	reply chan struct{}
}

func (JoinMsg) coordinatorMessage() {}
func (MoveMsg) coordinatorMessage() {}
func (TickMsg) coordinatorMessage() {}
func (ViewMsg) coordinatorMessage() {}

// Coordinator owns a World and applies joins, moves, ticks and queries to it
// one at a time from a single goroutine.
type Coordinator struct {
	config CoordinatorConfig
	world  World
	logger *log.Logger

	msgChan  chan coordinatorMessage
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewCoordinator creates a new coordinator. A nil logger uses log.Default().
func NewCoordinator(cfg CoordinatorConfig, world World, logger *log.Logger) *Coordinator {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultCoordinatorConfig().QueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		config:  cfg,
		world:   world,
		logger:  logger,
		msgChan: make(chan coordinatorMessage, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	c.started = true
	go c.processMessages()
}

// Stop shuts the coordinator down and waits for the tick in flight, if any.
// Pending requests fail with ErrStopped.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	if c.started {
		<-c.stopped
	}
}

// SelfPaced reports whether the world only advances through Tick.
func (c *Coordinator) SelfPaced() bool {
	return c.config.TickPeriod <= 0
}

// Join adds a player to a map.
func (c *Coordinator) Join(ctx context.Context, name string, mapID model.MapID) (PlayerInfo, error) {
	reply := make(chan joinReply, 1)
	if err := c.send(ctx, JoinMsg{Name: name, MapID: mapID, reply: reply}); err != nil {
		return PlayerInfo{}, err
	}
	select {
	case r := <-reply:
		return r.info, r.err
	case <-c.stopped:
		return PlayerInfo{}, ErrStopped
	case <-ctx.Done():
		return PlayerInfo{}, ctx.Err()
	}
}

// Move steers a player's dog.
func (c *Coordinator) Move(ctx context.Context, token Token, direction string) error {
	reply := make(chan error, 1)
	if err := c.send(ctx, MoveMsg{Token: token, Direction: direction, reply: reply}); err != nil {
		return err
	}
	return c.wait(ctx, reply)
}

// Tick advances a self-paced world by dt.
func (c *Coordinator) Tick(ctx context.Context, dt time.Duration) error {
	if !c.SelfPaced() {
		return ErrTickerActive
	}
	reply := make(chan error, 1)
	if err := c.send(ctx, TickMsg{Delta: dt, reply: reply}); err != nil {
		return err
	}
	return c.wait(ctx, reply)
}

// View runs fn on the coordinator goroutine. fn may read or mutate the world
// freely but must not call back into the coordinator.
func (c *Coordinator) View(ctx context.Context, fn func()) error {
	reply := make(chan struct{}, 1)
	if err := c.send(ctx, ViewMsg{fn: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) send(ctx context.Context, msg coordinatorMessage) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.msgChan <- msg:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) wait(ctx context.Context, reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processMessages handles incoming messages and timer ticks.
func (c *Coordinator) processMessages() {
	defer close(c.stopped)

	var ticks <-chan time.Time
	if c.config.TickPeriod > 0 {
		ticker := time.NewTicker(c.config.TickPeriod)
		defer ticker.Stop()
		ticks = ticker.C
	}
	last := time.Now()

	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case now := <-ticks:
			dt := now.Sub(last)
			last = now
			if err := c.world.Tick(context.Background(), dt); err != nil {
				c.logger.Warn("tick failed", "delta", dt, "error", err)
			}
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg coordinatorMessage) {
	switch m := msg.(type) {
	case JoinMsg:
		info, err := c.world.Join(m.Name, m.MapID)
		m.reply <- joinReply{info: info, err: err}
	case MoveMsg:
		m.reply <- c.world.Move(m.Token, m.Direction)
	case TickMsg:
		m.reply <- c.world.Tick(context.Background(), m.Delta)
	case ViewMsg:
		m.fn()
		m.reply <- struct{}{}
	}
}

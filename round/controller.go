// round/controller.go
package round

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wfunc/drumgame/engine"
	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/logger"
	"github.com/wfunc/drumgame/sink"
	"github.com/wfunc/drumgame/validate"
)

// TimesUp replaces the match timer once the match is over.
const TimesUp = "Time's Up!"

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("controller closed")

// Observer is told about every state change. It must not block.
type Observer interface {
	OnSnapshot(s game.Snapshot)
	OnHit(v validate.Verdict)
}

type latencyObserver interface {
	ObserveTickLatency(d time.Duration)
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdReset
)

// Controller is the single writer of a match. Ticks, hits and commands are
// serialized through one mutex; Run drives them from its own loop.
type Controller struct {
	matchID      string
	engine       *engine.Engine
	presentation sink.Presentation
	observers    []Observer
	log          *zap.SugaredLogger

	tickRate time.Duration
	texts    map[string]string
	mutex    sync.Mutex

	hits      chan game.HitEvent
	commands  chan commandKind
	closeChan chan struct{}
	closeOnce sync.Once
}

type Option func(*Controller)

// WithPresentation sets where the timer, score and miss texts go. It should be the
// presentation the engine was built with.
func WithPresentation(p sink.Presentation) Option {
	return func(c *Controller) { c.presentation = p }
}

func WithObservers(obs ...Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, obs...) }
}

func WithTickRate(d time.Duration) Option {
	return func(c *Controller) { c.tickRate = d }
}

// WithQueueSize bounds how many hits and commands may wait for Run.
func WithQueueSize(n int) Option {
	return func(c *Controller) {
		c.hits = make(chan game.HitEvent, n)
		c.commands = make(chan commandKind, n)
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController wraps an idle engine and pushes the initial texts.
func NewController(e *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		matchID:   uuid.NewString(),
		engine:    e,
		tickRate:  time.Second / 60,
		texts:     make(map[string]string),
		hits:      make(chan game.HitEvent, 64),
		commands:  make(chan commandKind, 8),
		closeChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.presentation == nil {
		c.presentation = sink.Nop{}
	}
	if c.log == nil {
		c.log = logger.Log
	}

	c.mutex.Lock()
	c.publish()
	c.mutex.Unlock()
	return c
}

// MatchID identifies the current match. It changes on ResetMatch.
func (c *Controller) MatchID() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.matchID
}

// OnTick advances the match by dt.
func (c *Controller) OnTick(dt time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	start := time.Now()
	c.engine.Tick(dt)
	c.publish()

	for _, o := range c.observers {
		if lo, ok := o.(latencyObserver); ok {
			lo.ObserveTickLatency(time.Since(start))
		}
	}
}

// OnHit validates a strike against the current sequence step.
func (c *Controller) OnHit(hit game.HitEvent) validate.Verdict {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	v := c.engine.Hit(hit)
	for _, o := range c.observers {
		o.OnHit(v)
	}
	c.publish()
	return v
}

// StartRound starts the match. A configuration error is also shown to the player.
func (c *Controller) StartRound() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.engine.StartRound()
	var cfgErr *game.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		c.log.Errorw("cannot start match", "match", c.matchID, "error", err)
		c.presentation.ShowText(sink.FieldMessage, cfgErr.Error())
	case err != nil:
		c.log.Debugw("start ignored", "match", c.matchID, "error", err)
	default:
		c.log.Infow("match started", "match", c.matchID)
	}
	c.publish()
	return err
}

// ResetMatch abandons the current match and opens a new one in Idle.
func (c *Controller) ResetMatch() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	old := c.matchID
	c.engine.Reset()
	c.matchID = uuid.NewString()
	c.log.Infow("match reset", "previous", old, "match", c.matchID)
	c.publish()
}

func (c *Controller) Snapshot() game.Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshot()
}

// Submit queues a hit for Run without blocking. It reports false if the queue is full.
func (c *Controller) Submit(hit game.HitEvent) bool {
	select {
	case c.hits <- hit:
		return true
	default:
		c.log.Warnw("hit dropped, queue full", "target", hit.TargetID)
		return false
	}
}

// RequestStart queues StartRound for Run without blocking.
func (c *Controller) RequestStart() bool {
	return c.request(cmdStart)
}

// RequestReset queues ResetMatch for Run without blocking.
func (c *Controller) RequestReset() bool {
	return c.request(cmdReset)
}

func (c *Controller) request(cmd commandKind) bool {
	select {
	case c.commands <- cmd:
		return true
	default:
		return false
	}
}

// Run ticks the match at the tick rate and applies queued hits and commands
// until ctx is done or Close is called.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.tickRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case now := <-ticker.C:
			c.OnTick(now.Sub(last))
			last = now
		case hit := <-c.hits:
			c.OnHit(hit)
		case cmd := <-c.commands:
			switch cmd {
			case cmdStart:
				c.StartRound()
			case cmdReset:
				c.ResetMatch()
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closeChan:
			return ErrClosed
		}
	}
}

// Close stops Run.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.closeChan) })
}

func (c *Controller) snapshot() game.Snapshot {
	s := c.engine.Snapshot()
	s.MatchID = c.matchID
	return s
}

// publish pushes the texts that changed and notifies observers. Caller holds the mutex.
func (c *Controller) publish() {
	s := c.snapshot()
	for field, value := range Texts(s) {
		if prev, ok := c.texts[field]; ok && prev == value {
			continue
		}
		c.texts[field] = value
		c.presentation.ShowText(field, value)
	}
	for _, o := range c.observers {
		o.OnSnapshot(s)
	}
}

// Texts renders the timer, score and miss fields of a snapshot.
func Texts(s game.Snapshot) map[string]string {
	texts := map[string]string{
		sink.FieldMatchTimer:    strconv.Itoa(int(s.MatchTimeRemaining / time.Second)),
		sink.FieldResponseTimer: "",
		sink.FieldScore:         strconv.Itoa(s.Score),
		sink.FieldMisses:        fmt.Sprintf("%d/%d", s.MissCount, s.MissThreshold),
	}
	switch s.Phase {
	case game.PhaseMatchOver:
		texts[sink.FieldMatchTimer] = TimesUp
	case game.PhaseAwaitingInput:
		texts[sink.FieldResponseTimer] = strconv.Itoa(int(s.ResponseTimeRemaining / time.Second))
	}
	return texts
}

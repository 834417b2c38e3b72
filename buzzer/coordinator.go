/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package buzzer holds buzzer-room state and applies client actions to it.
//
// A Coordinator owns the Registry and the Ledger and applies every inbound
// action, reaper sweep and timer expiry from a single goroutine, so room
// mutations never interleave. Clients are reached through a Transport.
package buzzer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultMaxPlayers    = 12
	DefaultSweepInterval = 30 * time.Minute
	DefaultIdleTimeout   = 2 * time.Hour

	inboxSize = 256
)

// ErrStopped is returned by Dispatch once Run has returned.
var ErrStopped = errors.New("coordinator stopped")

type Options struct {
	MaxPlayers         int
	SweepInterval      time.Duration
	IdleTimeout        time.Duration
	AuthoritativeTimer bool
	Names              *NamePool
	Logger             zerolog.Logger
}

// Session records which room a connection belongs to. The transport keeps
// one per connection and passes it with every action; only the Coordinator
// writes to it.
type Session struct {
	RoomCode string
}

type envelope struct {
	conn    string
	session *Session
	action  Action
	done    chan struct{}
}

type timerExpiry struct {
	code       string
	generation uint64
}

type Coordinator struct {
	opts      Options
	rooms     *Registry
	ledger    *Ledger
	transport Transport
	log       zerolog.Logger

	inbox    chan envelope
	idle     chan string
	expiries chan timerExpiry
	stop     chan struct{}

	after      func(time.Duration, func()) *time.Timer
	idleTimers map[string]*time.Timer
	countdowns map[string]*time.Timer
}

func New(transport Transport, opts Options) *Coordinator {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Names == nil {
		opts.Names = NewNamePool()
	}

	ledger := NewLedger()

	return &Coordinator{
		opts:       opts,
		rooms:      NewRegistry(transport, ledger, opts.Logger),
		ledger:     ledger,
		transport:  transport,
		log:        opts.Logger,
		inbox:      make(chan envelope, inboxSize),
		idle:       make(chan string, 16),
		expiries:   make(chan timerExpiry, 16),
		stop:       make(chan struct{}),
		after:      time.AfterFunc,
		idleTimers: make(map[string]*time.Timer),
		countdowns: make(map[string]*time.Timer),
	}
}

// Run applies queued actions until ctx is done. It must be called once.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.stop)

	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case env := <-c.inbox:
			c.apply(env)
		case <-ticker.C:
			c.sweep()
		case code := <-c.idle:
			c.checkIdle(code)
		case exp := <-c.expiries:
			c.expireTimer(exp)
		}
	}
}

// Submit queues an action without waiting for it to be applied.
func (c *Coordinator) Submit(conn string, sess *Session, a Action) {
	select {
	case c.inbox <- envelope{conn: conn, session: sess, action: a}:
	case <-c.stop:
	}
}

// Dispatch queues an action and waits until it has been applied.
func (c *Coordinator) Dispatch(ctx context.Context, conn string, sess *Session, a Action) error {
	done := make(chan struct{})

	select {
	case c.inbox <- envelope{conn: conn, session: sess, action: a, done: done}:
	case <-c.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-c.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) apply(env envelope) {
	if env.done != nil {
		defer close(env.done)
	}
	c.handle(env.conn, env.session, env.action)
}

// post hands a scheduled event back to the Run goroutine.
func post[T any](c *Coordinator, ch chan<- T, v T) {
	select {
	case ch <- v:
	case <-c.stop:
	}
}

func (c *Coordinator) scheduleIdleCheck(code string) {
	c.idleTimers[code] = c.after(c.opts.IdleTimeout, func() {
		post(c, c.idle, code)
	})
}

func (c *Coordinator) scheduleCountdown(code string, d time.Duration, generation uint64) {
	c.cancelCountdown(code)
	c.countdowns[code] = c.after(d, func() {
		post(c, c.expiries, timerExpiry{code: code, generation: generation})
	})
}

func (c *Coordinator) cancelCountdown(code string) {
	if t, ok := c.countdowns[code]; ok {
		t.Stop()
		delete(c.countdowns, code)
	}
}

// destroy removes a room along with any timers scheduled for it.
func (c *Coordinator) destroy(code string) {
	c.cancelCountdown(code)
	if t, ok := c.idleTimers[code]; ok {
		t.Stop()
		delete(c.idleTimers, code)
	}
	c.rooms.Destroy(code)
}

func (c *Coordinator) shutdown() {
	for code, t := range c.idleTimers {
		t.Stop()
		delete(c.idleTimers, code)
	}
	for code, t := range c.countdowns {
		t.Stop()
		delete(c.countdowns, code)
	}
}

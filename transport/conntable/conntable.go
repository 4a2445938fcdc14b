// Package conntable tracks which connection currently carries traffic to a
// remote endpoint, so that replies and later requests reuse it.
package conntable

import (
	"context"
	"log/slog"
	"sip-stack/transport/tuple"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type conn struct {
	id       tuple.ConnectionID
	remote   tuple.Tuple
	lastUsed time.Time
}

func (c *conn) idleTimeoutExceeded(now time.Time, timeout time.Duration) bool {
	return now.Sub(c.lastUsed) > timeout
}

type Table struct {
	conns map[tuple.Key]*conn
	mu    sync.Mutex

	nextID tuple.ConnectionID

	idleTimeout time.Duration
	clock       clock.Clock
	logger      *slog.Logger
}

// New panics unless idleTimeout is positive.
func New(clock clock.Clock, idleTimeout time.Duration, logger *slog.Logger) *Table {
	if idleTimeout <= 0 {
		panic("conntable: idle timeout must be positive, got " + idleTimeout.String())
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Table{
		conns:       make(map[tuple.Key]*conn),
		idleTimeout: idleTimeout,
		clock:       clock,
		logger:      logger,
	}
}

// Attach returns remote carrying the id of its connection, allocating one
// if none is live. Tuples of connectionless transports are returned as is.
func (t *Table) Attach(remote tuple.Tuple) tuple.Tuple {
	if !remote.Type().ConnectionOriented() {
		return remote
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := remote.Key()
	now := t.clock.Now()

	if c, ok := t.conns[key]; ok {
		c.lastUsed = now
		return remote.WithConnectionID(c.id)
	}

	t.nextID++
	c := &conn{id: t.nextID, remote: remote.WithConnectionID(t.nextID), lastUsed: now}
	t.conns[key] = c

	t.logger.Debug("connection attached", "remote", c.remote)

	return c.remote
}

// Lookup returns the live connection id for remote, ignoring its metadata.
func (t *Table) Lookup(remote tuple.Tuple) (tuple.ConnectionID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[remote.Key()]
	if !ok {
		return 0, false
	}
	return c.id, true
}

// Touch marks the connection to remote as used. It reports false if there
// is none.
func (t *Table) Touch(remote tuple.Tuple) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[remote.Key()]
	if ok {
		c.lastUsed = t.clock.Now()
	}
	return ok
}

// Detach forgets the connection to remote.
func (t *Table) Detach(remote tuple.Tuple) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := remote.Key()
	c, ok := t.conns[key]
	if !ok {
		return false
	}

	delete(t.conns, key)
	t.logger.Debug("connection detached", "remote", c.remote)

	return true
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.conns)
}

// Sweep drops every connection idle for longer than the idle timeout and
// returns how many were dropped.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	dropped := 0

	for key, c := range t.conns {
		if c.idleTimeoutExceeded(now, t.idleTimeout) {
			delete(t.conns, key)
			dropped++
			t.logger.Debug("idle connection expired", "remote", c.remote)
		}
	}

	return dropped
}

// Run sweeps every idle timeout until ctx is done.
func (t *Table) Run(ctx context.Context) {
	ticker := t.clock.Ticker(t.idleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Sweep(); n > 0 {
				t.logger.Info("swept idle connections", "count", n, "remaining", t.Len())
			}
		}
	}
}

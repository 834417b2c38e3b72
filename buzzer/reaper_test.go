/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	p := &livePresence{dead: map[string]bool{}}
	c := newTestCoordinator(t, p)

	healthy, _ := mustCreate(t, c, "host-a")
	mustJoin(t, c, "ana", healthy, "Ana", "")

	orphaned, _ := mustCreate(t, c, "host-b")
	mustJoin(t, c, "bo", orphaned, "Bo", "")
	p.dead["host-b"] = true

	deserted, _ := mustCreate(t, c, "host-c")
	mustJoin(t, c, "cy", deserted, "Cy", "")
	p.dead["host-c"] = true
	p.dead["cy"] = true

	c.sweep()

	_, ok := c.rooms.Get(healthy)
	assert.True(t, ok)
	_, ok = c.rooms.Get(orphaned)
	assert.False(t, ok, "room without its host is closed")
	_, ok = c.rooms.Get(deserted)
	assert.False(t, ok, "room without live connections is closed")

	assert.Len(t, p.to("bo", MsgRoomClosed), 1)
	assert.Empty(t, p.to("ana", MsgRoomClosed))
	assert.NotContains(t, c.idleTimers, orphaned)
}

func TestSweep_HostMissingFromConnectionSet(t *testing.T) {
	r := &recorder{}
	c := newTestCoordinator(t, r)
	code, _ := mustCreate(t, c, "host")
	mustJoin(t, c, "ana", code, "Ana", "")

	room, _ := c.rooms.Get(code)
	delete(room.conns, "host")

	c.sweep()
	_, ok := c.rooms.Get(code)
	assert.False(t, ok)
	assert.Len(t, r.to("ana", MsgRoomClosed), 1)
}

func TestCheckIdle(t *testing.T) {
	p := &livePresence{dead: map[string]bool{}}
	c := newTestCoordinator(t, p)

	occupied, _ := mustCreate(t, c, "host-a")
	empty, _ := mustCreate(t, c, "host-b")
	p.dead["host-b"] = true

	c.checkIdle(occupied)
	c.checkIdle(empty)
	c.checkIdle("NEVER2")

	_, ok := c.rooms.Get(occupied)
	require.True(t, ok, "old but occupied rooms survive")
	_, ok = c.rooms.Get(empty)
	assert.False(t, ok)
	assert.NotContains(t, c.idleTimers, occupied, "the check only fires once")
}

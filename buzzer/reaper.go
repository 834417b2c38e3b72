/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package buzzer

// Presence is implemented by transports that can tell whether a connection
// is still open. Without it every connection in a room counts as live.
type Presence interface {
	Live(conn string) bool
}

func (c *Coordinator) live(conn string) bool {
	if p, ok := c.transport.(Presence); ok {
		return p.Live(conn)
	}
	return true
}

func (c *Coordinator) liveConnections(r *Room) int {
	n := 0
	for _, conn := range r.Connections() {
		if c.live(conn) {
			n++
		}
	}
	return n
}

// sweep closes every room whose host is gone or that has nobody left in it.
func (c *Coordinator) sweep() {
	closed := 0
	for _, code := range c.rooms.Codes() {
		room, ok := c.rooms.Get(code)
		if !ok {
			continue
		}
		if !room.Connected(room.Host) || !c.live(room.Host) || c.liveConnections(room) == 0 {
			c.destroy(code)
			closed++
		}
	}
	c.log.Debug().Int("closed", closed).Int("open", c.rooms.Len()).Msg("swept rooms")
}

// checkIdle runs once per room after IdleTimeout. Occupied rooms survive it.
func (c *Coordinator) checkIdle(code string) {
	delete(c.idleTimers, code)

	room, ok := c.rooms.Get(code)
	if !ok {
		return
	}
	if c.liveConnections(room) == 0 {
		c.destroy(code)
	}
}
